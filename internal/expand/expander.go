// Package expand turns reference data into atomic scheduling units: one unit
// per weekly session of a (batch, subject) pairing whose semester markers
// match. The repeated units of a subject are interchangeable; no
// session-to-session distinction is made.
package expand

import (
	"github.com/samber/lo"

	"campusched/internal/domain"
)

// Unit is one weekly session to place. Candidates is the qualified-faculty
// set in stable ascending order; it is never inferred from anything but the
// explicit qualification mapping.
type Unit struct {
	BatchID    uint
	SubjectID  uint
	IsLab      bool
	Candidates []uint
}

// Requirements expands every semester-matching (batch, subject) pair into
// classes_per_week units. A matching subject with sessions to schedule but no
// qualified faculty aborts expansion with an UnschedulableUnitError naming
// the subject.
func Requirements(
	batches []domain.Batch,
	subjects []domain.Subject,
	qualified map[uint][]uint,
) ([]Unit, error) {
	units := []Unit{}

	for _, batch := range batches {
		matching := lo.Filter(subjects, func(subject domain.Subject, _ int) bool {
			return subject.Semester == batch.Semester
		})

		for _, subject := range matching {
			if subject.ClassesPerWeek <= 0 {
				continue
			}

			candidates := qualified[subject.ID]
			if len(candidates) == 0 {
				return nil, &domain.UnschedulableUnitError{
					SubjectCode: subject.Code,
					BatchName:   batch.Name,
					Reason:      "no qualified faculty",
				}
			}

			for range subject.ClassesPerWeek {
				units = append(units, Unit{
					BatchID:    batch.ID,
					SubjectID:  subject.ID,
					IsLab:      subject.IsLab,
					Candidates: candidates,
				})
			}
		}
	}

	return units, nil
}

// BlockedSlots derives faculty id -> blocked timeslot ids from APPROVED
// unavailability rows. A whole-day row (nil timeslot) expands into every
// timeslot of that day.
func BlockedSlots(
	unavailability []domain.FacultyUnavailability,
	slots []domain.Timeslot,
) map[uint]map[uint]bool {
	slotsByDay := lo.GroupBy(slots, func(slot domain.Timeslot) int { return slot.DayOfWeek })

	blocked := make(map[uint]map[uint]bool)
	block := func(facultyID, slotID uint) {
		if blocked[facultyID] == nil {
			blocked[facultyID] = make(map[uint]bool)
		}
		blocked[facultyID][slotID] = true
	}

	for _, row := range unavailability {
		if row.Status != domain.ApprovalApproved {
			continue
		}
		if row.TimeslotID != nil {
			block(row.FacultyID, *row.TimeslotID)
			continue
		}
		for _, slot := range slotsByDay[row.DayOfWeek] {
			block(row.FacultyID, slot.ID)
		}
	}

	return blocked
}
