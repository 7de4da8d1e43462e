package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusched/internal/domain"
	"campusched/internal/store"
)

type recoveryFixture struct {
	service *Service
	store   *store.Store

	subject  domain.Subject
	faculty1 domain.Faculty
	faculty2 domain.Faculty
	slots    []uint // three Monday slots in start order
	entry    domain.TimetableEntry
}

// newRecoveryFixture seeds one Monday entry taught by faculty1, with faculty2
// as the only other qualified candidate.
func newRecoveryFixture(t *testing.T) *recoveryFixture {
	t.Helper()

	service, st := newTestService(t)
	f := &recoveryFixture{service: service, store: st}

	create(t, st, &domain.Room{Name: "C-101", Capacity: 60, Type: domain.RoomClassroom})
	create(t, st, &domain.Batch{Name: "CSE-Y1", Program: "BTech CSE", Semester: 1, Size: 60})
	f.subject = domain.Subject{Code: "CS101", Name: "Programming", Semester: 1, ClassesPerWeek: 1}
	create(t, st, &f.subject)
	f.faculty1 = domain.Faculty{Code: "F001", Name: "Ada"}
	f.faculty2 = domain.Faculty{Code: "F002", Name: "Edsger"}
	create(t, st, &f.faculty1)
	create(t, st, &f.faculty2)
	qualify(t, st, f.faculty1.ID, f.subject.ID)
	qualify(t, st, f.faculty2.ID, f.subject.ID)
	f.slots = addGrid(t, st, []int{0}, 3)

	timetable, err := st.ReplaceTimetable("base", []domain.TimetableEntry{{
		BatchID:    1,
		SubjectID:  f.subject.ID,
		FacultyID:  f.faculty1.ID,
		RoomID:     1,
		TimeslotID: f.slots[0],
		Status:     domain.EntryNormal,
	}})
	require.NoError(t, err)
	f.entry = timetable.Entries[0]
	return f
}

func (f *recoveryFixture) wholeDayUnavailability(t *testing.T, facultyID uint, day int, status domain.ApprovalStatus) uint {
	t.Helper()
	row := domain.FacultyUnavailability{FacultyID: facultyID, DayOfWeek: day, Status: status}
	create(t, f.store, &row)
	return row.ID
}

func (f *recoveryFixture) slotUnavailability(t *testing.T, facultyID uint, day int, slotID uint) uint {
	t.Helper()
	row := domain.FacultyUnavailability{FacultyID: facultyID, DayOfWeek: day, TimeslotID: &slotID, Status: domain.ApprovalApproved}
	create(t, f.store, &row)
	return row.ID
}

func (f *recoveryFixture) reload(t *testing.T) domain.TimetableEntry {
	t.Helper()
	var entry domain.TimetableEntry
	require.NoError(t, f.store.DB().First(&entry, f.entry.ID).Error)
	return entry
}

func TestRecoveryReplacesFaculty(t *testing.T) {
	f := newRecoveryFixture(t)
	id := f.wholeDayUnavailability(t, f.faculty1.ID, 0, domain.ApprovalApproved)

	changed, err := f.service.ApplyUnavailability(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	entry := f.reload(t)
	assert.Equal(t, f.faculty2.ID, entry.FacultyID)
	assert.Equal(t, domain.EntryReplacement, entry.Status)
	assert.Equal(t, f.slots[0], entry.TimeslotID)
}

func TestRecoveryIsIdempotent(t *testing.T) {
	f := newRecoveryFixture(t)
	id := f.wholeDayUnavailability(t, f.faculty1.ID, 0, domain.ApprovalApproved)

	changed, err := f.service.ApplyUnavailability(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	// The entry is no longer NORMAL, so a second run finds nothing.
	changed, err = f.service.ApplyUnavailability(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestRecoveryMovesWhenNoReplacement(t *testing.T) {
	f := newRecoveryFixture(t)

	// faculty2 is busy at the entry's slot, so replacement fails; the
	// unavailability is slot-specific, so the same-day move to the next slot
	// works.
	create(t, f.store, &domain.TimetableEntry{
		TimetableID: f.entry.TimetableID,
		BatchID:     2,
		SubjectID:   f.subject.ID,
		FacultyID:   f.faculty2.ID,
		RoomID:      2,
		TimeslotID:  f.slots[0],
		Status:      domain.EntryNormal,
	})
	id := f.slotUnavailability(t, f.faculty1.ID, 0, f.slots[0])

	changed, err := f.service.ApplyUnavailability(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	entry := f.reload(t)
	assert.Equal(t, f.faculty1.ID, entry.FacultyID)
	assert.Equal(t, f.slots[1], entry.TimeslotID)
	assert.Equal(t, domain.EntryMoved, entry.Status)
}

func TestRecoveryCancelsWhenExhausted(t *testing.T) {
	f := newRecoveryFixture(t)

	// Whole-day unavailability rules out every same-day move for faculty1;
	// faculty2 being unavailable at the slot rules out replacement.
	f.slotUnavailability(t, f.faculty2.ID, 0, f.slots[0])
	id := f.wholeDayUnavailability(t, f.faculty1.ID, 0, domain.ApprovalApproved)

	changed, err := f.service.ApplyUnavailability(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	// Cancelled entries keep their original fields for audit.
	entry := f.reload(t)
	assert.Equal(t, domain.EntryCancelled, entry.Status)
	assert.Equal(t, f.faculty1.ID, entry.FacultyID)
	assert.Equal(t, f.slots[0], entry.TimeslotID)
}

func TestRecoveryWithNoAffectedEntries(t *testing.T) {
	f := newRecoveryFixture(t)

	// faculty2 teaches nothing; applying its unavailability changes nothing.
	id := f.wholeDayUnavailability(t, f.faculty2.ID, 0, domain.ApprovalApproved)

	changed, err := f.service.ApplyUnavailability(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	entry := f.reload(t)
	assert.Equal(t, domain.EntryNormal, entry.Status)
}

func TestRecoverySkipsUnapprovedRecords(t *testing.T) {
	f := newRecoveryFixture(t)
	id := f.wholeDayUnavailability(t, f.faculty1.ID, 0, domain.ApprovalPending)

	changed, err := f.service.ApplyUnavailability(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestRecoveryUnknownRecord(t *testing.T) {
	f := newRecoveryFixture(t)

	_, err := f.service.ApplyUnavailability(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
