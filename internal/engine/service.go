package engine

import (
	"context"
	"sync"
	"time"

	"campusched/internal/domain"
	"campusched/internal/sat"
	"campusched/internal/store"
)

// Service is the facade the outer layers call. Generate and
// ApplyUnavailability mutate the entry set of the active timetable, so one
// mutex serializes them; two concurrent recovery runs must never race on the
// same faculty/room/timeslot triple. Analyze is read-only and runs
// unserialized.
type Service struct {
	mu        sync.Mutex
	store     *store.Store
	generator *Generator
	recovery  *Recovery
}

func NewService(st *store.Store, solver sat.SATSolver, budget time.Duration) *Service {
	return &Service{
		store:     st,
		generator: NewGenerator(st, solver, budget),
		recovery:  NewRecovery(st),
	}
}

// Generate builds and solves a full weekly timetable from current reference
// data and atomically replaces the active timetable.
func (s *Service) Generate(ctx context.Context, name string) (*domain.Timetable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generator.Generate(ctx, name)
}

// ApplyUnavailability runs disruption recovery for one unavailability record
// and returns the count of entries changed.
func (s *Service) ApplyUnavailability(ctx context.Context, unavailabilityID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovery.ApplyUnavailability(ctx, unavailabilityID)
}

// Analyze reports clashes and utilization for any timetable, including ones
// edited outside the generator.
func (s *Service) Analyze(ctx context.Context, timetableID uint) (Report, error) {
	if _, err := s.store.TimetableByID(timetableID); err != nil {
		return Report{}, err
	}

	entries, err := s.store.EntriesByTimetable(timetableID)
	if err != nil {
		return Report{}, err
	}
	rooms, err := s.store.Rooms()
	if err != nil {
		return Report{}, err
	}
	faculties, err := s.store.Faculties()
	if err != nil {
		return Report{}, err
	}
	slots, err := s.store.Timeslots()
	if err != nil {
		return Report{}, err
	}

	return Report{
		Clashes:     DetectClashes(entries),
		Utilization: MeasureUtilization(entries, rooms, faculties, len(slots)),
	}, nil
}
