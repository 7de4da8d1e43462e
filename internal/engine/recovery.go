package engine

import (
	"context"

	"campusched/internal/domain"
	"campusched/internal/logger"
	"campusched/internal/metrics"
	"campusched/internal/store"
)

// Recovery repairs the active timetable after an approved faculty
// unavailability. Each affected entry goes through an ordered fallback:
// replace the faculty, else move the session within the same day, else
// cancel. Cancellation is a valid degraded outcome, not an error.
type Recovery struct {
	store *store.Store
	log   logger.Logger
}

func NewRecovery(st *store.Store) *Recovery {
	return &Recovery{store: st, log: logger.New("recovery")}
}

// ApplyUnavailability runs recovery for one unavailability record and returns
// the number of entries whose status changed. Zero affected entries is a
// valid outcome. Entries are repaired in ascending id order; each repair is
// written immediately, so later entries see earlier repairs.
func (r *Recovery) ApplyUnavailability(ctx context.Context, unavailabilityID uint) (int, error) {
	unavailability, err := r.store.UnavailabilityByID(unavailabilityID)
	if err != nil {
		return 0, err
	}
	if unavailability.Status != domain.ApprovalApproved {
		r.log.Warnf("unavailability %d is %s, not APPROVED; nothing to do", unavailabilityID, unavailability.Status)
		return 0, nil
	}

	affected, err := r.store.AffectedEntries(unavailability.FacultyID, unavailability.DayOfWeek, unavailability.TimeslotID)
	if err != nil {
		return 0, err
	}
	if len(affected) == 0 {
		return 0, nil
	}

	changed := 0
	for i := range affected {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		entry := &affected[i]

		replaced, err := r.tryReplacement(entry)
		if err != nil {
			return changed, err
		}
		if replaced {
			metrics.RecoveryEntries.WithLabelValues("replaced").Inc()
			r.log.Infof("entry %d: faculty replaced by %d", entry.ID, entry.FacultyID)
			changed++
			continue
		}

		moved, err := r.tryMove(entry)
		if err != nil {
			return changed, err
		}
		if moved {
			metrics.RecoveryEntries.WithLabelValues("moved").Inc()
			r.log.Infof("entry %d: moved to timeslot %d", entry.ID, entry.TimeslotID)
			changed++
			continue
		}

		// Neither attempt succeeded: cancel, keeping the original
		// faculty/room/timeslot on the row for audit.
		entry.Status = domain.EntryCancelled
		if err := r.store.SaveEntry(entry); err != nil {
			return changed, err
		}
		metrics.RecoveryEntries.WithLabelValues("cancelled").Inc()
		r.log.Warnf("entry %d: cancelled, no replacement or move available", entry.ID)
		changed++
	}

	return changed, nil
}

// tryReplacement assigns the first other qualified faculty that has no entry
// at the slot and is not unavailable there. First-fit: no attempt is made to
// balance load or minimize disruption.
func (r *Recovery) tryReplacement(entry *domain.TimetableEntry) (bool, error) {
	candidates, err := r.store.QualifiedFaculty(entry.SubjectID)
	if err != nil {
		return false, err
	}

	for _, candidate := range candidates {
		if candidate == entry.FacultyID {
			continue
		}

		busy, err := r.store.FacultyBusy(entry.TimetableID, candidate, entry.TimeslotID, entry.ID)
		if err != nil {
			return false, err
		}
		if busy {
			continue
		}

		unavailable, err := r.store.FacultyUnavailableAt(candidate, entry.TimeslotID)
		if err != nil {
			return false, err
		}
		if unavailable {
			continue
		}

		entry.FacultyID = candidate
		entry.Status = domain.EntryReplacement
		return true, r.store.SaveEntry(entry)
	}

	return false, nil
}

// tryMove shifts the entry to the first same-day timeslot, in start-time
// order, where the original faculty, the batch and the room are all free and
// the faculty is not unavailable. Cross-day moves are out of scope.
func (r *Recovery) tryMove(entry *domain.TimetableEntry) (bool, error) {
	original, err := r.store.TimeslotByID(entry.TimeslotID)
	if err != nil {
		return false, err
	}

	candidates, err := r.store.TimeslotsByDay(original.DayOfWeek)
	if err != nil {
		return false, err
	}

	for _, slot := range candidates {
		if slot.ID == entry.TimeslotID {
			continue
		}

		fits, err := r.slotFits(entry, slot.ID)
		if err != nil {
			return false, err
		}
		if !fits {
			continue
		}

		entry.TimeslotID = slot.ID
		entry.Status = domain.EntryMoved
		return true, r.store.SaveEntry(entry)
	}

	return false, nil
}

// slotFits checks a move candidate: original faculty free, batch free, room
// free, faculty not unavailable there.
func (r *Recovery) slotFits(entry *domain.TimetableEntry, slotID uint) (bool, error) {
	checks := []func() (bool, error){
		func() (bool, error) { return r.store.FacultyBusy(entry.TimetableID, entry.FacultyID, slotID, entry.ID) },
		func() (bool, error) { return r.store.BatchBusy(entry.TimetableID, entry.BatchID, slotID, entry.ID) },
		func() (bool, error) { return r.store.RoomBusy(entry.TimetableID, entry.RoomID, slotID, entry.ID) },
		func() (bool, error) { return r.store.FacultyUnavailableAt(entry.FacultyID, slotID) },
	}
	for _, check := range checks {
		blocked, err := check()
		if err != nil || blocked {
			return false, err
		}
	}
	return true, nil
}
