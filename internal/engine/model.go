package engine

import (
	"slices"

	"github.com/samber/lo"

	"campusched/internal/domain"
	"campusched/internal/expand"
	"campusched/internal/sat"
)

// assignment is the meaning of one boolean decision variable: "this unit is
// taught by this faculty, in this room, at this timeslot".
type assignment struct {
	unit    int
	faculty uint
	room    uint
	slot    uint
}

// modelBuilder encodes the scheduling problem as CNF. Variables are allocated
// sequentially per valid (unit, faculty, room, timeslot) combination and
// decoded through the vars table; validity already folds in qualification,
// unavailability and room-type matching, so those never need clauses.
type modelBuilder struct {
	units    []expand.Unit
	rooms    []domain.Room
	slots    []domain.Timeslot
	blocked  map[uint]map[uint]bool
	batches  map[uint]domain.Batch
	subjects map[uint]domain.Subject

	vars          []assignment // vars[i] is the meaning of literal i+1
	byUnit        [][]int64
	byRoomSlot    map[[2]uint][]int64
	byFacultySlot map[[2]uint][]int64
	byBatchSlot   map[[2]uint][]int64
}

func newModelBuilder(
	units []expand.Unit,
	rooms []domain.Room,
	slots []domain.Timeslot,
	blocked map[uint]map[uint]bool,
	batches []domain.Batch,
	subjects []domain.Subject,
) *modelBuilder {
	return &modelBuilder{
		units:    units,
		rooms:    rooms,
		slots:    slots,
		blocked:  blocked,
		batches:  lo.KeyBy(batches, func(b domain.Batch) uint { return b.ID }),
		subjects: lo.KeyBy(subjects, func(s domain.Subject) uint { return s.ID }),

		byUnit:        make([][]int64, len(units)),
		byRoomSlot:    make(map[[2]uint][]int64),
		byFacultySlot: make(map[[2]uint][]int64),
		byBatchSlot:   make(map[[2]uint][]int64),
	}
}

func (b *modelBuilder) build() (sat.SAT, error) {
	if err := b.allocateVariables(); err != nil {
		return sat.SAT{}, err
	}

	instance := sat.SAT{
		Variables: uint64(len(b.vars)),
		Clauses:   [][]int64{},
	}

	instance.Clauses = append(instance.Clauses, b.assignmentConstraints()...)
	instance.Clauses = append(instance.Clauses, b.exclusivityConstraints(b.byRoomSlot)...)
	instance.Clauses = append(instance.Clauses, b.exclusivityConstraints(b.byFacultySlot)...)
	instance.Clauses = append(instance.Clauses, b.exclusivityConstraints(b.byBatchSlot)...)
	instance.Clauses = append(instance.Clauses, b.lunchConstraints(&instance.Variables)...)

	return instance, nil
}

func (b *modelBuilder) allocateVariables() error {
	for i, unit := range b.units {
		for _, facultyID := range unit.Candidates {
			for _, room := range b.rooms {
				if room.IsLab() != unit.IsLab {
					continue
				}
				for _, slot := range b.slots {
					if b.blocked[facultyID][slot.ID] {
						continue
					}

					b.vars = append(b.vars, assignment{unit: i, faculty: facultyID, room: room.ID, slot: slot.ID})
					literal := int64(len(b.vars))

					b.byUnit[i] = append(b.byUnit[i], literal)
					b.byRoomSlot[[2]uint{room.ID, slot.ID}] = append(b.byRoomSlot[[2]uint{room.ID, slot.ID}], literal)
					b.byFacultySlot[[2]uint{facultyID, slot.ID}] = append(b.byFacultySlot[[2]uint{facultyID, slot.ID}], literal)
					b.byBatchSlot[[2]uint{unit.BatchID, slot.ID}] = append(b.byBatchSlot[[2]uint{unit.BatchID, slot.ID}], literal)
				}
			}
		}

		if len(b.byUnit[i]) == 0 {
			return &domain.UnschedulableUnitError{
				SubjectCode: b.subjects[unit.SubjectID].Code,
				BatchName:   b.batches[unit.BatchID].Name,
				Reason:      "no valid (room, faculty, timeslot) combination",
			}
		}
	}
	return nil
}

// assignmentConstraints post exactly-one per unit: an at-least-one clause
// over the unit's variables plus pairwise at-most-one.
func (b *modelBuilder) assignmentConstraints() [][]int64 {
	clauses := make([][]int64, 0, len(b.units))
	for _, literals := range b.byUnit {
		clauses = append(clauses, append([]int64{}, literals...))
		clauses = append(clauses, atMostOne(literals)...)
	}
	return clauses
}

// exclusivityConstraints post pairwise at-most-one over each resource group:
// no two assignments may claim the same (room, timeslot), (faculty, timeslot)
// or (batch, timeslot).
func (b *modelBuilder) exclusivityConstraints(groups map[[2]uint][]int64) [][]int64 {
	clauses := [][]int64{}
	for _, literals := range groups {
		clauses = append(clauses, atMostOne(literals)...)
	}
	return clauses
}

// lunchConstraints allocate one choice literal per (batch, day) whose grid
// designates exactly two lunch-candidate slots. A true choice empties the
// first slot for that batch, a false choice empties the second, so one of the
// two always stays free; which one is the solver's pick.
func (b *modelBuilder) lunchConstraints(variables *uint64) [][]int64 {
	lunchByDay := lo.GroupBy(
		lo.Filter(b.slots, func(slot domain.Timeslot, _ int) bool { return slot.LunchCandidate }),
		func(slot domain.Timeslot) int { return slot.DayOfWeek },
	)

	batchIDs := lo.Uniq(lo.Map(b.units, func(unit expand.Unit, _ int) uint { return unit.BatchID }))

	clauses := [][]int64{}
	for _, day := range sortedKeys(lunchByDay) {
		candidates := lunchByDay[day]
		if len(candidates) != 2 {
			continue // designation is a data concern; only a proper pair is actionable
		}
		first, second := candidates[0].ID, candidates[1].ID

		for _, batchID := range batchIDs {
			inFirst := b.byBatchSlot[[2]uint{batchID, first}]
			inSecond := b.byBatchSlot[[2]uint{batchID, second}]
			if len(inFirst) == 0 && len(inSecond) == 0 {
				continue
			}

			*variables++
			choice := int64(*variables)

			for _, literal := range inFirst {
				clauses = append(clauses, []int64{-choice, -literal})
			}
			for _, literal := range inSecond {
				clauses = append(clauses, []int64{choice, -literal})
			}
		}
	}
	return clauses
}

// decode maps the positive literals of a solution back to assignments, one
// per unit. Choice literals lie beyond the vars table and are skipped.
func (b *modelBuilder) decode(solution sat.SATSolution) map[int]assignment {
	chosen := make(map[int]assignment, len(b.units))
	for _, literal := range solution {
		if literal > 0 && literal <= int64(len(b.vars)) {
			a := b.vars[literal-1]
			chosen[a.unit] = a
		}
	}
	return chosen
}

func atMostOne(literals []int64) [][]int64 {
	clauses := make([][]int64, 0, len(literals)*(len(literals)-1)/2)
	for i := range len(literals) - 1 {
		for j := i + 1; j < len(literals); j++ {
			clauses = append(clauses, []int64{-literals[i], -literals[j]})
		}
	}
	return clauses
}

func sortedKeys[V any](m map[int]V) []int {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
