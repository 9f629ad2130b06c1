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

// Package cut implements the multi-solution loop (C5): repeatedly solve a
// program, record the solution, add a cut forbidding that exact solution
// (or some weaker notion of "that solution" depending on Strategy), and
// solve again, until N solutions have been collected, the program becomes
// infeasible (Exhausted), or a solve fails to find anything further
// (LimitReached).
//
// Grounded on spec §4.5's three cut formulas directly; the state-machine
// shape (Empty -> Solving -> Solved -> CutApplied -> ... -> Exhausted |
// LimitReached) has no example-repo analogue, since golpa solves exactly
// once per Model, so State and its transitions are original to this spec.
package cut

import (
	"context"
	"errors"

	"github.com/lerouge/gedmip/formulation"
	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
)

var errInvalidN = errors.New("N must be positive")

// Strategy selects how a prior solution is excluded from future search.
type Strategy int

const (
	// SolutionCut forbids the vertex assignment found, via
	// Σ_{v∈S} v <= |S|-1 over the x variables that were 1.
	SolutionCut Strategy = iota
	// MatchingCut forbids every matched vertex pair individually, via
	// Σ_{(i,k)∈S} x[i,k] = 0: no later solution may contain any pair the
	// incumbent matched (a stronger exclusion than SolutionCut).
	MatchingCut
	// ElementsCut forbids every matched vertex individually being reused
	// in the same role, via Σ_k x[i,k] = 0 for each matched query vertex i
	// and Σ_i x[i,k] = 0 for each matched target vertex k — the strongest
	// exclusion, ruling out any solution sharing even one matched vertex.
	ElementsCut
)

// State is a position in the multi-solution loop's state machine.
type State int

const (
	// Empty is the loop's state before Run is called.
	Empty State = iota
	// Solving means a solver.Solve call is in flight.
	Solving
	// Solved means the most recent solve produced a usable solution.
	Solved
	// CutApplied means a cut was added after Solved and the loop is about
	// to solve again.
	CutApplied
	// Exhausted means the solver proved no further feasible solution exists,
	// or the last solution matched no vertex, leaving nothing to cut.
	Exhausted
	// LimitReached means N solutions were collected before exhaustion.
	LimitReached
)

// Loop drives the multi-solution search over an already-built program.
type Loop struct {
	Solver   solver.Solver
	Program  *program.Program
	Index    *formulation.VarIndex
	Strategy Strategy
	N        int

	state State
}

// State returns the loop's current state-machine position.
func (l *Loop) State() State { return l.state }

// Run solves l.Program repeatedly, cutting the previous solution out
// between rounds, until N solutions have been collected or the program is
// proven to have no more feasible ones.
func (l *Loop) Run(ctx context.Context) ([]program.Solution, error) {
	if l.N <= 0 {
		return nil, gedmiperr.NewConfiguration("cut.Loop.Run", errInvalidN)
	}

	solutions := make([]program.Solution, 0, l.N)
	l.state = Empty

	if err := l.Solver.Load(l.Program); err != nil {
		return nil, gedmiperr.NewSolver("cut.Loop.Run", err)
	}

	for len(solutions) < l.N {
		l.state = Solving
		status, err := l.Solver.Solve(ctx)
		if err != nil {
			return solutions, gedmiperr.NewSolver("cut.Loop.Run", err)
		}

		switch status {
		case solver.StatusOptimal, solver.StatusFeasible:
			l.state = Solved
		case solver.StatusInfeasible:
			l.state = Exhausted
			return solutions, nil
		case solver.StatusTimedOut:
			l.state = LimitReached
			return solutions, nil
		}

		values, objective, err := l.Solver.ReadAssignment()
		if err != nil {
			return solutions, gedmiperr.NewSolver("cut.Loop.Run", err)
		}

		vertices, edges := l.Index.Decode(values)
		sol := program.Solution{
			Status:          statusOf(status),
			Objective:       objective,
			Values:          values,
			MatchedVertices: vertices,
			MatchedEdges:    edges,
		}
		solutions = append(solutions, sol)

		if len(solutions) >= l.N {
			l.state = LimitReached
			return solutions, nil
		}

		if !applyCut(l.Strategy, l.Program, l.Index, vertices) {
			l.state = Exhausted
			return solutions, nil
		}
		if err := l.Solver.Load(l.Program); err != nil {
			return solutions, gedmiperr.NewSolver("cut.Loop.Run", err)
		}
		l.state = CutApplied
	}

	return solutions, nil
}

func statusOf(s solver.Status) program.SolutionStatus {
	switch s {
	case solver.StatusOptimal:
		return program.Optimal
	case solver.StatusFeasible:
		return program.Suboptimal
	case solver.StatusTimedOut:
		return program.TimedOut
	default:
		return program.Infeasible
	}
}

// applyCut posts the next cut constraint per Strategy directly onto prog,
// minting its id through prog.NewLinearConstraint. It reports false (and
// posts nothing) when the matched set is empty, meaning the loop should
// stop rather than post a vacuous constraint.
func applyCut(strategy Strategy, prog *program.Program, idx *formulation.VarIndex, matchedVertices [][2]int) bool {
	if len(matchedVertices) == 0 {
		return false
	}

	switch strategy {
	case SolutionCut:
		solutionCut(prog, idx, matchedVertices)
	case MatchingCut:
		matchingCut(prog, idx, matchedVertices)
	case ElementsCut:
		elementsCut(prog, idx, matchedVertices)
	default:
		return false
	}
	return true
}

// solutionCut posts Σ_{v∈S} v <= |S|-1 over the x variables that were 1 in
// the matched solution, forbidding that vertex assignment.
func solutionCut(prog *program.Program, idx *formulation.VarIndex, matchedVertices [][2]int) {
	expr := program.NewLinearExpr()
	count := 0
	for _, pr := range matchedVertices {
		if v, ok := idx.X(pr[0], pr[1]); ok {
			expr.AddTerm(v, 1)
			count++
		}
	}
	prog.NewLinearConstraint(expr, program.LessEq, float64(count-1))
}

// matchingCut posts Σ_{(i,k)∈S} x[i,k] = 0, forbidding every matched
// vertex pair from appearing in any later solution.
func matchingCut(prog *program.Program, idx *formulation.VarIndex, matchedVertices [][2]int) {
	expr := program.NewLinearExpr()
	for _, pr := range matchedVertices {
		if v, ok := idx.X(pr[0], pr[1]); ok {
			expr.AddTerm(v, 1)
		}
	}
	prog.NewLinearConstraint(expr, program.Equal, 0)
}

// elementsCut posts, for every matched query vertex i and matched target
// vertex k, a constraint forcing every x variable touching i (as a query
// vertex) or k (as a target vertex) to 0 — forbidding any solution that
// reuses even one matched vertex in the same role.
func elementsCut(prog *program.Program, idx *formulation.VarIndex, matchedVertices [][2]int) {
	seenI := make(map[int]bool)
	seenK := make(map[int]bool)
	for _, pr := range matchedVertices {
		i, k := pr[0], pr[1]
		if !seenI[i] {
			seenI[i] = true
			expr := program.NewLinearExpr()
			for _, other := range idx.XPairs() {
				if other[0] == i {
					if v, ok := idx.X(other[0], other[1]); ok {
						expr.AddTerm(v, 1)
					}
				}
			}
			prog.NewLinearConstraint(expr, program.Equal, 0)
		}
		if !seenK[k] {
			seenK[k] = true
			expr := program.NewLinearExpr()
			for _, other := range idx.XPairs() {
				if other[1] == k {
					if v, ok := idx.X(other[0], other[1]); ok {
						expr.AddTerm(v, 1)
					}
				}
			}
			prog.NewLinearConstraint(expr, program.Equal, 0)
		}
	}
}
