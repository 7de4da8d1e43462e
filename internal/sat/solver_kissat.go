package sat

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const kissatPath = "kissat"

type kissatSolver struct{}

// NewKissatSolver returns a solver that feeds the instance to a kissat binary
// over stdin in DIMACS-CNF format. The context deadline kills the subprocess.
func NewKissatSolver() SATSolver {
	return &kissatSolver{}
}

func (solver *kissatSolver) Solve(ctx context.Context, instance SAT) (SATSolution, error) {
	dimacs := instance.ToDIMACS()

	cmd := exec.CommandContext(ctx, kissatPath, "-q", "--relaxed")
	cmd.Stdin = strings.NewReader(dimacs)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrBudgetExceeded, ctx.Err())
	}
	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	if err != nil && cmd.ProcessState.ExitCode() != 10 && cmd.ProcessState.ExitCode() != 20 {
		return nil, fmt.Errorf("an error occurred during kissat execution: %v : %v", err.Error(), stderr.String())
	} else if cmd.ProcessState.ExitCode() == 20 {
		return nil, nil
	}

	return parseSolution(stdOut.String()), nil
}

func parseSolution(solverOutput string) SATSolution {
	resultLine, ok := lo.Find(strings.Split(solverOutput, "\n"), func(line string) bool { return len(line) > 0 && line[0] == 'v' })

	if !ok {
		return nil
	} else if len(resultLine) == 3 {
		return SATSolution{}
	}

	splits := strings.Split(resultLine[2:len(resultLine)-2], " ")

	var solution SATSolution = make(SATSolution, 0, len(splits))
	lo.ForEach(splits, func(item string, _ int) {
		value, err := strconv.ParseInt(item, 10, 64)
		if item != "" && err != nil {
			log.Panicf("invalid literal in kissat output: %v", err)
		}
		solution = append(solution, value)
	})

	return solution
}
