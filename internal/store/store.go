package store

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campusched/internal/domain"
)

// Store wraps the database handle with the queries the engines need. It is
// the only component that talks to the database.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects using the configured driver. Supported drivers are "sqlite"
// (pure Go, also used for in-memory test databases) and "postgres".
func Open(driver, dsn string) (*Store, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	var db *gorm.DB
	var err error
	switch driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return New(db), nil
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.Room{},
		&domain.Batch{},
		&domain.Subject{},
		&domain.Faculty{},
		&domain.FacultySubject{},
		&domain.Timeslot{},
		&domain.FacultyUnavailability{},
		&domain.Timetable{},
		&domain.TimetableEntry{},
	)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

//** Reference data

func (s *Store) Rooms() ([]domain.Room, error) {
	var rooms []domain.Room
	return rooms, s.db.Order("id").Find(&rooms).Error
}

func (s *Store) Batches() ([]domain.Batch, error) {
	var batches []domain.Batch
	return batches, s.db.Order("id").Find(&batches).Error
}

func (s *Store) Subjects() ([]domain.Subject, error) {
	var subjects []domain.Subject
	return subjects, s.db.Order("id").Find(&subjects).Error
}

func (s *Store) Faculties() ([]domain.Faculty, error) {
	var faculties []domain.Faculty
	return faculties, s.db.Order("id").Find(&faculties).Error
}

// Timeslots returns the weekly grid ordered by day then start time.
func (s *Store) Timeslots() ([]domain.Timeslot, error) {
	var slots []domain.Timeslot
	return slots, s.db.Order("day_of_week, start_time").Find(&slots).Error
}

func (s *Store) TimeslotByID(id uint) (domain.Timeslot, error) {
	var slot domain.Timeslot
	err := s.db.First(&slot, id).Error
	if err != nil {
		return domain.Timeslot{}, fmt.Errorf("timeslot %d: %w", id, translate(err))
	}
	return slot, nil
}

func (s *Store) TimeslotsByDay(day int) ([]domain.Timeslot, error) {
	var slots []domain.Timeslot
	return slots, s.db.Where("day_of_week = ?", day).Order("start_time").Find(&slots).Error
}

// Qualifications returns subject id -> qualified faculty ids, in ascending
// faculty order so candidate iteration is stable across runs.
func (s *Store) Qualifications() (map[uint][]uint, error) {
	var links []domain.FacultySubject
	if err := s.db.Order("subject_id, faculty_id").Find(&links).Error; err != nil {
		return nil, err
	}
	qualified := make(map[uint][]uint, len(links))
	for _, link := range links {
		qualified[link.SubjectID] = append(qualified[link.SubjectID], link.FacultyID)
	}
	return qualified, nil
}

// QualifiedFaculty returns the faculty ids qualified for one subject in
// ascending id order.
func (s *Store) QualifiedFaculty(subjectID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&domain.FacultySubject{}).
		Where("subject_id = ?", subjectID).
		Order("faculty_id").
		Pluck("faculty_id", &ids).Error
	return ids, err
}

//** Unavailability

func (s *Store) ApprovedUnavailabilities() ([]domain.FacultyUnavailability, error) {
	var rows []domain.FacultyUnavailability
	err := s.db.Where("status = ?", domain.ApprovalApproved).Order("id").Find(&rows).Error
	return rows, err
}

func (s *Store) UnavailabilityByID(id uint) (domain.FacultyUnavailability, error) {
	var row domain.FacultyUnavailability
	err := s.db.First(&row, id).Error
	if err != nil {
		return domain.FacultyUnavailability{}, fmt.Errorf("unavailability %d: %w", id, translate(err))
	}
	return row, nil
}

// FacultyUnavailableAt reports whether an APPROVED unavailability blocks the
// faculty at the given timeslot, either whole-day or slot-specific. An
// unknown timeslot blocks nothing.
func (s *Store) FacultyUnavailableAt(facultyID, timeslotID uint) (bool, error) {
	slot, err := s.TimeslotByID(timeslotID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	var n int64
	err = s.db.Model(&domain.FacultyUnavailability{}).
		Where("faculty_id = ? AND status = ?", facultyID, domain.ApprovalApproved).
		Where("(day_of_week = ? AND timeslot_id IS NULL) OR timeslot_id = ?", slot.DayOfWeek, timeslotID).
		Count(&n).Error
	return n > 0, err
}
