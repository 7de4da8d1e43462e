package sat

import (
	"context"
	"errors"
)

// ErrBudgetExceeded reports that the context deadline expired before the
// search finished. Distinct from unsatisfiability, which is not an error.
var ErrBudgetExceeded = errors.New("sat: search budget exceeded")

type SATSolver interface {
	// Solve returns a solution of the SAT instance if satisfiable, else returns
	// a nil solution with a nil error. The context bounds the search wall-clock.
	Solve(ctx context.Context, instance SAT) (SATSolution, error)
}
