// Package seed loads a reference dataset from JSON and writes it to an empty
// database: the room inventory, batches, subjects, faculty with their
// qualification mappings, and the weekly timeslot grid with lunch-candidate
// designations.
package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	"campusched/internal/domain"
)

type RoomSeed struct {
	Name     string
	Capacity int
	Type     string
}

type BatchSeed struct {
	Name     string
	Program  string
	Semester int
	Size     int
}

type SubjectSeed struct {
	Code           string
	Name           string
	Semester       int
	ClassesPerWeek int `mapstructure:"classesPerWeek"`
	IsLab          bool `mapstructure:"isLab"`
}

type FacultySeed struct {
	Code           string
	Name           string
	MaxLoadPerWeek int      `mapstructure:"maxLoadPerWeek"`
	Subjects       []string // qualification by subject code
}

type TimeslotSeed struct {
	Day            int
	Start          string
	End            string
	LunchCandidate bool `mapstructure:"lunchCandidate"`
}

type Dataset struct {
	Rooms     []RoomSeed
	Batches   []BatchSeed
	Subjects  []SubjectSeed
	Faculty   []FacultySeed
	Timeslots []TimeslotSeed
}

func FromJSON(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}

	var dataset Dataset
	if err := mapstructure.Decode(parsed, &dataset); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return dataset, nil
}

// Apply writes the dataset in one transaction, resolving faculty
// qualifications by subject code. Intended for empty databases; it does not
// deduplicate against existing rows.
func (d Dataset) Apply(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, room := range d.Rooms {
			roomType := domain.RoomType(room.Type)
			if roomType == "" {
				roomType = domain.RoomClassroom
			}
			if err := tx.Create(&domain.Room{Name: room.Name, Capacity: room.Capacity, Type: roomType}).Error; err != nil {
				return err
			}
		}

		for _, batch := range d.Batches {
			if err := tx.Create(&domain.Batch{
				Name:     batch.Name,
				Program:  batch.Program,
				Semester: batch.Semester,
				Size:     batch.Size,
			}).Error; err != nil {
				return err
			}
		}

		subjectIDs := make(map[string]uint, len(d.Subjects))
		for _, subject := range d.Subjects {
			row := domain.Subject{
				Code:           subject.Code,
				Name:           subject.Name,
				Semester:       subject.Semester,
				ClassesPerWeek: subject.ClassesPerWeek,
				IsLab:          subject.IsLab,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			subjectIDs[subject.Code] = row.ID
		}

		for _, faculty := range d.Faculty {
			row := domain.Faculty{
				Code:           faculty.Code,
				Name:           faculty.Name,
				MaxLoadPerWeek: faculty.MaxLoadPerWeek,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for _, code := range faculty.Subjects {
				subjectID, ok := subjectIDs[code]
				if !ok {
					return fmt.Errorf("faculty %s: unknown subject code %q", faculty.Code, code)
				}
				if err := tx.Create(&domain.FacultySubject{FacultyID: row.ID, SubjectID: subjectID}).Error; err != nil {
					return err
				}
			}
		}

		for _, slot := range d.Timeslots {
			if err := tx.Create(&domain.Timeslot{
				DayOfWeek:      slot.Day,
				StartTime:      slot.Start,
				EndTime:        slot.End,
				LunchCandidate: slot.LunchCandidate,
			}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
