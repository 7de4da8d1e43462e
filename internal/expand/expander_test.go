package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusched/internal/domain"
)

func TestRequirementsExpandsClassesPerWeek(t *testing.T) {
	batches := []domain.Batch{
		{ID: 1, Name: "CSE-Y1", Semester: 1},
		{ID: 2, Name: "CSE-Y2", Semester: 3},
	}
	subjects := []domain.Subject{
		{ID: 10, Code: "CS101", Semester: 1, ClassesPerWeek: 4},
		{ID: 11, Code: "CS201", Semester: 3, ClassesPerWeek: 3, IsLab: true},
		{ID: 12, Code: "HS101", Semester: 1, ClassesPerWeek: 0},
	}
	qualified := map[uint][]uint{
		10: {100, 101},
		11: {101},
	}

	units, err := Requirements(batches, subjects, qualified)
	require.NoError(t, err)

	// 4 sessions of CS101 for CSE-Y1, 3 of CS201 for CSE-Y2; HS101 has no
	// sessions and CS201 does not match CSE-Y1's semester.
	require.Len(t, units, 7)

	for _, unit := range units[:4] {
		assert.Equal(t, uint(1), unit.BatchID)
		assert.Equal(t, uint(10), unit.SubjectID)
		assert.False(t, unit.IsLab)
		assert.Equal(t, []uint{100, 101}, unit.Candidates)
	}
	for _, unit := range units[4:] {
		assert.Equal(t, uint(2), unit.BatchID)
		assert.Equal(t, uint(11), unit.SubjectID)
		assert.True(t, unit.IsLab)
		assert.Equal(t, []uint{101}, unit.Candidates)
	}
}

func TestRequirementsFailsWithoutQualifiedFaculty(t *testing.T) {
	batches := []domain.Batch{{ID: 1, Name: "CSE-Y1", Semester: 1}}
	subjects := []domain.Subject{{ID: 10, Code: "PH101", Semester: 1, ClassesPerWeek: 2}}

	_, err := Requirements(batches, subjects, map[uint][]uint{})

	var unschedulable *domain.UnschedulableUnitError
	require.ErrorAs(t, err, &unschedulable)
	assert.Equal(t, "PH101", unschedulable.SubjectCode)
	assert.Equal(t, "CSE-Y1", unschedulable.BatchName)
	assert.Contains(t, err.Error(), "no qualified faculty")
}

func TestRequirementsIgnoresZeroSessionSubjects(t *testing.T) {
	batches := []domain.Batch{{ID: 1, Name: "CSE-Y1", Semester: 1}}
	subjects := []domain.Subject{{ID: 10, Code: "HS101", Semester: 1, ClassesPerWeek: 0}}

	// No qualified faculty either, but a subject without sessions is not a
	// failure.
	units, err := Requirements(batches, subjects, map[uint][]uint{})
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestBlockedSlotsExpandsWholeDays(t *testing.T) {
	slots := []domain.Timeslot{
		{ID: 1, DayOfWeek: 0, StartTime: "09:00"},
		{ID: 2, DayOfWeek: 0, StartTime: "10:00"},
		{ID: 3, DayOfWeek: 1, StartTime: "09:00"},
	}
	slotID := uint(3)
	rows := []domain.FacultyUnavailability{
		{FacultyID: 100, DayOfWeek: 0, Status: domain.ApprovalApproved},                       // whole Monday
		{FacultyID: 101, DayOfWeek: 1, TimeslotID: &slotID, Status: domain.ApprovalApproved}, // one Tuesday slot
		{FacultyID: 102, DayOfWeek: 0, Status: domain.ApprovalPending},                       // not approved, no effect
	}

	blocked := BlockedSlots(rows, slots)

	assert.Equal(t, map[uint]bool{1: true, 2: true}, blocked[100])
	assert.Equal(t, map[uint]bool{3: true}, blocked[101])
	assert.NotContains(t, blocked, uint(102))
}
