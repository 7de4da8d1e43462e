package store

import (
	"fmt"

	"gorm.io/gorm"

	"campusched/internal/domain"
)

// ReplaceTimetable materializes a solved schedule in one transaction: the new
// timetable is inserted active, every previous active timetable is
// deactivated, and all entries are written with it. Either everything becomes
// visible or nothing does; no partial timetable is ever observable.
func (s *Store) ReplaceTimetable(name string, entries []domain.TimetableEntry) (*domain.Timetable, error) {
	timetable := &domain.Timetable{Name: name, IsActive: true}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Timetable{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Create(timetable).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].TimetableID = timetable.ID
		}
		return tx.CreateInBatches(entries, 200).Error
	})
	if err != nil {
		return nil, fmt.Errorf("replace timetable: %w", err)
	}

	timetable.Entries = entries
	return timetable, nil
}

// DeleteTimetable removes a timetable and all entries it owns atomically.
func (s *Store) DeleteTimetable(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("timetable_id = ?", id).Delete(&domain.TimetableEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Timetable{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("timetable %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

func (s *Store) TimetableByID(id uint) (domain.Timetable, error) {
	var timetable domain.Timetable
	err := s.db.First(&timetable, id).Error
	if err != nil {
		return domain.Timetable{}, fmt.Errorf("timetable %d: %w", id, translate(err))
	}
	return timetable, nil
}

func (s *Store) EntriesByTimetable(timetableID uint) ([]domain.TimetableEntry, error) {
	var entries []domain.TimetableEntry
	err := s.db.Where("timetable_id = ?", timetableID).Order("id").Find(&entries).Error
	return entries, err
}

// AffectedEntries selects the NORMAL entries of the active timetable taught
// by the given faculty on the given day, optionally narrowed to one timeslot.
// Ascending id keeps repair order stable across runs. Scoping to NORMAL makes
// re-applying the same unavailability a no-op instead of reprocessing rows a
// previous run already repaired.
func (s *Store) AffectedEntries(facultyID uint, day int, timeslotID *uint) ([]domain.TimetableEntry, error) {
	q := s.db.Model(&domain.TimetableEntry{}).
		Joins("JOIN timeslots ON timeslots.id = timetable_entries.timeslot_id").
		Joins("JOIN timetables ON timetables.id = timetable_entries.timetable_id").
		Where("timetable_entries.faculty_id = ?", facultyID).
		Where("timeslots.day_of_week = ?", day).
		Where("timetable_entries.status = ?", domain.EntryNormal).
		Where("timetables.is_active = ?", true)
	if timeslotID != nil {
		q = q.Where("timetable_entries.timeslot_id = ?", *timeslotID)
	}

	var entries []domain.TimetableEntry
	err := q.Order("timetable_entries.id").Find(&entries).Error
	return entries, err
}

// SaveEntry persists the fields recovery is allowed to mutate.
func (s *Store) SaveEntry(entry *domain.TimetableEntry) error {
	return s.db.Model(entry).
		Select("FacultyID", "TimeslotID", "Status").
		Updates(entry).Error
}

//** Clash predicates used by the recovery engine. Cancelled entries no
//** longer occupy their resources and are ignored.

func (s *Store) FacultyBusy(timetableID, facultyID, timeslotID, excludeEntryID uint) (bool, error) {
	return s.busy("faculty_id", timetableID, facultyID, timeslotID, excludeEntryID)
}

func (s *Store) BatchBusy(timetableID, batchID, timeslotID, excludeEntryID uint) (bool, error) {
	return s.busy("batch_id", timetableID, batchID, timeslotID, excludeEntryID)
}

func (s *Store) RoomBusy(timetableID, roomID, timeslotID, excludeEntryID uint) (bool, error) {
	return s.busy("room_id", timetableID, roomID, timeslotID, excludeEntryID)
}

func (s *Store) busy(column string, timetableID, id, timeslotID, excludeEntryID uint) (bool, error) {
	var n int64
	err := s.db.Model(&domain.TimetableEntry{}).
		Where("timetable_id = ? AND timeslot_id = ?", timetableID, timeslotID).
		Where(column+" = ?", id).
		Where("status <> ?", domain.EntryCancelled).
		Where("id <> ?", excludeEntryID).
		Count(&n).Error
	return n > 0, err
}
