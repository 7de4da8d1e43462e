package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campusched/internal/domain"
	"campusched/internal/sat"
	"campusched/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open("sqlite", ":memory:")
	require.NoError(t, err)

	// A pooled second connection would get its own empty in-memory database.
	sqlDB, err := st.DB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, st.AutoMigrate())
	return st
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := openTestStore(t)
	return NewService(st, sat.NewGophersatSolver(), 10*time.Second), st
}

func create(t *testing.T, st *store.Store, value any) {
	t.Helper()
	require.NoError(t, st.DB().Create(value).Error)
}

// addGrid creates `perDay` hourly timeslots starting at 09:00 for each given
// day and returns the ids in (day, start) order.
func addGrid(t *testing.T, st *store.Store, days []int, perDay int, lunchIndexes ...int) []uint {
	t.Helper()

	lunch := make(map[int]bool, len(lunchIndexes))
	for _, index := range lunchIndexes {
		lunch[index] = true
	}

	starts := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}
	require.Less(t, perDay, len(starts))

	ids := []uint{}
	for _, day := range days {
		for i := range perDay {
			slot := domain.Timeslot{
				DayOfWeek:      day,
				StartTime:      starts[i],
				EndTime:        starts[i+1],
				LunchCandidate: lunch[i],
			}
			create(t, st, &slot)
			ids = append(ids, slot.ID)
		}
	}
	return ids
}

func qualify(t *testing.T, st *store.Store, facultyID, subjectID uint) {
	t.Helper()
	create(t, st, &domain.FacultySubject{FacultyID: facultyID, SubjectID: subjectID})
}
