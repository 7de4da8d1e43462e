package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusched/internal/domain"
	"campusched/internal/expand"
	"campusched/internal/logger"
	"campusched/internal/metrics"
	"campusched/internal/sat"
	"campusched/internal/store"
)

// Generator builds and solves a full weekly timetable from the current
// reference data and materializes the solution atomically.
type Generator struct {
	store  *store.Store
	solver sat.SATSolver
	budget time.Duration
	log    logger.Logger
}

func NewGenerator(st *store.Store, solver sat.SATSolver, budget time.Duration) *Generator {
	return &Generator{
		store:  st,
		solver: solver,
		budget: budget,
		log:    logger.New("generator"),
	}
}

func (g *Generator) Generate(ctx context.Context, name string) (*domain.Timetable, error) {
	timetable, err := g.generate(ctx, name)
	switch {
	case err == nil:
		metrics.Generations.WithLabelValues("ok").Inc()
	case errors.Is(err, domain.ErrInfeasible):
		metrics.Generations.WithLabelValues("infeasible").Inc()
	default:
		var unschedulable *domain.UnschedulableUnitError
		if errors.As(err, &unschedulable) {
			metrics.Generations.WithLabelValues("unschedulable").Inc()
		} else {
			metrics.Generations.WithLabelValues("error").Inc()
		}
	}
	return timetable, err
}

func (g *Generator) generate(ctx context.Context, name string) (*domain.Timetable, error) {
	//** Load reference data
	rooms, err := g.store.Rooms()
	if err != nil {
		return nil, err
	}
	batches, err := g.store.Batches()
	if err != nil {
		return nil, err
	}
	subjects, err := g.store.Subjects()
	if err != nil {
		return nil, err
	}
	faculties, err := g.store.Faculties()
	if err != nil {
		return nil, err
	}
	slots, err := g.store.Timeslots()
	if err != nil {
		return nil, err
	}

	missing := []string{}
	for _, collection := range []struct {
		name  string
		empty bool
	}{
		{"rooms", len(rooms) == 0},
		{"batches", len(batches) == 0},
		{"subjects", len(subjects) == 0},
		{"faculty", len(faculties) == 0},
		{"timeslots", len(slots) == 0},
	} {
		if collection.empty {
			missing = append(missing, collection.name)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.DataInsufficientError{Missing: missing}
	}

	qualified, err := g.store.Qualifications()
	if err != nil {
		return nil, err
	}
	unavailability, err := g.store.ApprovedUnavailabilities()
	if err != nil {
		return nil, err
	}

	//** Expand requirements and build the constraint model
	units, err := expand.Requirements(batches, subjects, qualified)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, domain.ErrNoRequirements
	}

	blocked := expand.BlockedSlots(unavailability, slots)
	builder := newModelBuilder(units, rooms, slots, blocked, batches, subjects)
	instance, err := builder.build()
	if err != nil {
		return nil, err
	}

	g.log.Infof("model built: %d units, %d variables, %d clauses", len(units), instance.Variables, len(instance.Clauses))

	//** Solve within the wall-clock budget
	solveCtx, cancel := context.WithTimeout(ctx, g.budget)
	defer cancel()

	started := time.Now()
	solution, err := g.solver.Solve(solveCtx, instance)
	if errors.Is(err, sat.ErrBudgetExceeded) {
		return nil, fmt.Errorf("%w (budget %s)", domain.ErrInfeasible, g.budget)
	} else if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	} else if solution == nil {
		return nil, domain.ErrInfeasible
	}
	g.log.Infof("solved in %s", time.Since(started).Round(time.Millisecond))

	//** Decode and verify before anything is written
	chosen := builder.decode(solution)
	if len(chosen) != len(units) {
		return nil, fmt.Errorf("solver assigned %d of %d units", len(chosen), len(units))
	}

	entries := make([]domain.TimetableEntry, 0, len(units))
	for i, unit := range units {
		picked := chosen[i]
		entries = append(entries, domain.TimetableEntry{
			BatchID:    unit.BatchID,
			SubjectID:  unit.SubjectID,
			FacultyID:  picked.faculty,
			RoomID:     picked.room,
			TimeslotID: picked.slot,
			Status:     domain.EntryNormal,
		})
	}

	if clashes := DetectClashes(entries); len(clashes) > 0 {
		return nil, fmt.Errorf("decoded solution has %d clashes", len(clashes))
	}

	//** Materialize atomically
	timetable, err := g.store.ReplaceTimetable(name, entries)
	if err != nil {
		return nil, err
	}

	g.log.Infof("timetable %d %q written with %d entries", timetable.ID, timetable.Name, len(entries))
	return timetable, nil
}
