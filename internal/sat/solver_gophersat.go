package sat

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// NewGophersatSolver returns the in-process CDCL solver. It needs no external
// binary, which makes it the default backend.
func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(ctx context.Context, instance SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBudgetExceeded, err)
	}

	clauses := make([][]int, len(instance.Clauses))
	for i, clause := range instance.Clauses {
		clauses[i] = make([]int, len(clause))
		for j, literal := range clause {
			clauses[i][j] = int(literal)
		}
	}

	type outcome struct {
		status solver.Status
		model  []bool
	}

	results := make(chan outcome, 1)
	go func() {
		engine := solver.New(solver.ParseSlice(clauses))
		status := engine.Solve()
		var model []bool
		if status == solver.Sat {
			model = engine.Model()
		}
		results <- outcome{status: status, model: model}
	}()

	select {
	case <-ctx.Done():
		// The search loop cannot be interrupted mid-flight; the goroutine is
		// abandoned and finishes on its own.
		return nil, fmt.Errorf("%w: %v", ErrBudgetExceeded, ctx.Err())
	case result := <-results:
		if result.status != solver.Sat {
			return nil, nil
		}
		solution := make(SATSolution, 0, instance.Variables)
		for i := uint64(0); i < instance.Variables; i++ {
			literal := int64(i + 1)
			if int(i) >= len(result.model) || !result.model[i] {
				literal = -literal
			}
			solution = append(solution, literal)
		}
		return solution, nil
	}
}
