package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports a missing referenced record (unavailability, entry,
// timeslot, timetable). Fatal to the specific call.
var ErrNotFound = errors.New("record not found")

// ErrInfeasible reports that the constraint model has no solution within the
// search budget: either truly infeasible or the search ran out of time. The
// caller may retry with relaxed data; the engine never auto-relaxes.
var ErrInfeasible = errors.New("no feasible timetable found within search budget")

// ErrNoRequirements reports that expansion produced zero scheduling units,
// which happens when every matching subject has classes_per_week = 0.
var ErrNoRequirements = errors.New("no class requirements: classes_per_week is zero for every matching subject")

// DataInsufficientError reports empty reference collections that make
// generation impossible before any model is built.
type DataInsufficientError struct {
	Missing []string
}

func (e *DataInsufficientError) Error() string {
	return fmt.Sprintf("cannot generate timetable: no %s", strings.Join(e.Missing, ", no "))
}

// UnschedulableUnitError names the (subject, batch) pair that cannot be
// scheduled, either for lack of qualified faculty or for lack of any valid
// (room, faculty, timeslot) combination.
type UnschedulableUnitError struct {
	SubjectCode string
	BatchName   string
	Reason      string
}

func (e *UnschedulableUnitError) Error() string {
	return fmt.Sprintf("unschedulable subject %s for batch %s: %s", e.SubjectCode, e.BatchName, e.Reason)
}
