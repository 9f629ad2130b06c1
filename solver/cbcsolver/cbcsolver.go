/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cbcsolver implements a second solver.Backend (solver.CBC) that
// drives the COIN-OR CBC solver as an external process rather than a cgo
// binding: Load writes the program to a temporary free-format MPS file
// (program.WriteMPS), Solve runs the system `cbc` binary against it over
// os/exec, and ReadAssignment parses CBC's solution-file output.
//
// No Go binding for CBC exists anywhere in this module's dependency pool;
// the closest pack analogue is other_examples' irfansharif/or-tools
// linearsolver, which wraps an external solving engine behind a thin Go
// API (there, a SWIG binding; here, a subprocess) — the same "thin Go
// shell around someone else's solver" shape. Giving the plugin registry
// a second real member (rather than only GLPK) is itself the point: it
// exercises solver.Register/solver.New's dispatch instead of leaving it
// a single-implementation interface.
package cbcsolver

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
)

func init() {
	solver.Register(solver.CBC, func() solver.Solver { return New() })
}

// Binary is the name (or path) of the CBC executable to invoke; a package
// variable rather than a constant so tests can point it at a fake.
var Binary = "cbc"

// Solver drives CBC over a temporary MPS file. One Solver instance is
// good for a single Load/Configure/Solve/ReadAssignment cycle.
type Solver struct {
	mu sync.Mutex

	prog   *program.Program
	opts   solver.ConfigureOptions
	values map[program.VarID]float64
	objVal float64
	solved bool
}

// New creates an unloaded CBC Solver.
func New() *Solver {
	return &Solver{}
}

// Load records p; the MPS file is written lazily at Solve time so
// Configure's time/thread limits can be reflected in the same invocation.
func (s *Solver) Load(p *program.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Objective() != nil && p.Objective().IsQuadratic() {
		return gedmiperr.NewConfiguration("cbcsolver.Load",
			fmt.Errorf("CBC over MPS cannot carry a quadratic objective"))
	}
	s.prog = p
	return nil
}

// Configure applies search tuning. It must be called after Load.
func (s *Solver) Configure(opts solver.ConfigureOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prog == nil {
		return gedmiperr.NewConfiguration("cbcsolver.Configure", fmt.Errorf("Load must be called first"))
	}
	s.opts = opts
	return nil
}

// Solve writes the loaded program to a temp MPS file, invokes CBC against
// it with a solution file as output, and parses CBC's status line.
func (s *Solver) Solve(ctx context.Context) (solver.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prog == nil {
		return solver.StatusInfeasible, gedmiperr.NewSolver("cbcsolver.Solve", fmt.Errorf("Load must be called first"))
	}
	if err := ctx.Err(); err != nil {
		return solver.StatusTimedOut, gedmiperr.NewSolver("cbcsolver.Solve", err)
	}

	mpsFile, err := os.CreateTemp("", "gedmip-*.mps")
	if err != nil {
		return solver.StatusInfeasible, gedmiperr.NewIO("cbcsolver.Solve", err)
	}
	defer os.Remove(mpsFile.Name())
	defer mpsFile.Close()

	if err := s.prog.WriteMPS(mpsFile, "gedmip"); err != nil {
		return solver.StatusInfeasible, gedmiperr.NewFormulation("cbcsolver.Solve", err)
	}
	if err := mpsFile.Close(); err != nil {
		return solver.StatusInfeasible, gedmiperr.NewIO("cbcsolver.Solve", err)
	}

	solutionPath := mpsFile.Name() + ".sol"
	defer os.Remove(solutionPath)

	args := []string{mpsFile.Name(), "-import"}
	if s.opts.TimeLimitSeconds > 0 {
		args = append(args, "-sec", strconv.FormatFloat(s.opts.TimeLimitSeconds, 'f', -1, 64))
	}
	if s.opts.MIPGap > 0 {
		args = append(args, "-ratioGap", strconv.FormatFloat(s.opts.MIPGap, 'f', -1, 64))
	}
	if s.opts.ThreadLimit > 0 {
		args = append(args, "-threads", strconv.Itoa(s.opts.ThreadLimit))
	}
	args = append(args, "-solve", "-solution", solutionPath)

	cmd := exec.CommandContext(ctx, Binary, args...)
	var stdout strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stdout

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return solver.StatusTimedOut, gedmiperr.NewSolver("cbcsolver.Solve", ctx.Err())
	}

	status := parseStatus(stdout.String())
	if status == solver.StatusInfeasible && runErr != nil {
		return solver.StatusInfeasible, gedmiperr.NewSolver("cbcsolver.Solve",
			fmt.Errorf("cbc invocation failed: %w (output: %s)", runErr, stdout.String()))
	}

	values, objVal, err := parseSolutionFile(solutionPath, s.prog)
	if err != nil {
		return status, gedmiperr.NewIO("cbcsolver.Solve", err)
	}
	s.values = values
	s.objVal = applyObjectiveConstant(s.prog, objVal)
	s.solved = true

	return status, nil
}

// parseStatus scans CBC's stdout for its terminal status line, e.g.
// "Result - Optimal solution found" or "Result - Problem proven infeasible".
func parseStatus(output string) solver.Status {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "optimal solution found"):
		return solver.StatusOptimal
	case strings.Contains(lower, "infeasible"):
		return solver.StatusInfeasible
	case strings.Contains(lower, "stopped on time"):
		return solver.StatusTimedOut
	case strings.Contains(lower, "solution found"):
		return solver.StatusFeasible
	default:
		return solver.StatusInfeasible
	}
}

// parseSolutionFile reads CBC's "-solution" output: a header line with the
// objective value, then one "<index> <name> <value>" line per column.
func parseSolutionFile(path string, p *program.Program) (map[program.VarID]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		// No solution file is expected for an infeasible/timed-out run.
		return map[program.VarID]float64{}, 0, nil
	}
	defer f.Close()

	nameToVar := make(map[string]*program.Variable)
	for _, v := range p.Variables() {
		nameToVar[v.Name()] = v
	}

	values := make(map[program.VarID]float64)
	var objective float64

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			fields := strings.Fields(line)
			if len(fields) >= 1 {
				if v, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
					objective = v
				}
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		name := fields[1]
		val, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		if v, ok := nameToVar[name]; ok {
			values[v.ID()] = val
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return values, objective, nil
}

// applyObjectiveConstant folds the program's objective constant back into
// cbcObjVal, the value CBC reported for Σ coef·x alone: WriteMPS has no way
// to represent a constant term, so for GED formulations (where the entire
// deletion/creation cost lives in that constant, per formulation/linear.go)
// CBC's own reported objective is off by exactly that constant. WriteMPS
// negates every coefficient when the program's sense is Maximize (MPS has
// no native maximize), so the same sign flip must be undone before adding
// the constant back.
func applyObjectiveConstant(p *program.Program, cbcObjVal float64) float64 {
	lin := objectiveLinear(p)
	sense := 1.0
	if p.Sense() == program.Maximize {
		sense = -1.0
	}
	return lin.Constant() + cbcObjVal*sense
}

func objectiveLinear(p *program.Program) *program.LinearExpr {
	obj := p.Objective()
	if obj == nil {
		return program.NewLinearExpr()
	}
	return obj.Linear()
}

// ReadAssignment returns the values and objective parsed by the most
// recent Solve call.
func (s *Solver) ReadAssignment() (map[program.VarID]float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.solved {
		return nil, 0, gedmiperr.NewSolver("cbcsolver.ReadAssignment", fmt.Errorf("Solve must be called first"))
	}
	return s.values, s.objVal, nil
}

// SupportsQuadratic always reports false: CBC over MPS is a linear/MIP
// solver only, the same restriction Load enforces.
func (s *Solver) SupportsQuadratic() bool { return false }
