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

// Package matcher is the matching orchestrator (C6): given two graphs (or
// an already-built formulation.Problem) and a set of options, it builds
// the cost tables, formulates a program, resolves a solver back-end from
// the registry, drives it through the multi-solution cut loop, and
// reports a Result.
//
// Grounded on katalvlaran/lvlath/tsp/solve.go's two-layer
// SolveWithGraph -> SolveWithMatrix dispatch: the graph-facing entry point
// (MatchGraph) derives the matrix-level representation (cost tables) and
// delegates to the matrix-facing one (MatchCostTables), so a caller who
// already has cost tables (e.g. jobpool re-using weights across many
// pairs) can skip the graph-level step.
package matcher

import (
	"context"
	"fmt"
	"math"

	"github.com/lerouge/gedmip/cost"
	"github.com/lerouge/gedmip/cut"
	"github.com/lerouge/gedmip/formulation"
	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/graph"
	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
	"github.com/lerouge/gedmip/weights"
)

// Formulation selects which of C4's four MIP formulations to build.
type Formulation int

const (
	// Linear is F1.
	Linear Formulation = iota
	// Quadratic is F2.
	Quadratic
	// Bipartite is F3.
	Bipartite
	// Subgraph is F4.
	Subgraph
)

// Options configures a match end to end: which formulation to build, which
// back-end to solve it with, and whether to run the multi-solution loop.
type Options struct {
	Formulation Formulation
	// FormulationOpts is passed through to the chosen formulation builder.
	FormulationOpts formulation.Options
	// Tolerance only applies when Formulation == Subgraph.
	Tolerance formulation.Tolerance

	Backend    solver.Backend
	SolverOpts solver.ConfigureOptions

	// Cut and Number drive the multi-solution loop (C5). Number <= 1 means
	// a single solve: the loop runs with N = 1 and posts no cut.
	Cut    cut.Strategy
	Number int
}

// Matching is the vertex and edge pairs a solved program decoded to.
type Matching struct {
	Vertices [][2]int
	Edges    [][2]int
}

// Result is the outcome of a match attempt. On any step failure Err is
// set, Objective is math.NaN(), Status is solver.StatusInfeasible, and
// every other field is the zero value —
// MatchGraph/MatchCostTables never panic, so a caller (in particular
// jobpool, driving many pairs concurrently) can always read a Result back
// without special-casing a recovered panic.
type Result struct {
	Objective float64
	Status    solver.Status
	Matching  Matching
	// Solutions carries every round's solution (one entry for a
	// single-solution match); Solutions[0], when present, is the one
	// Objective/Status/Matching summarize.
	// Spec's Result shape names only (Objective, Status, Matching, Err);
	// Solutions is an addition so a multi-solution request doesn't throw
	// away rounds 2..N, while the four named fields keep the documented
	// single-result shape for a single-solution caller (DESIGN.md records
	// this as the Open Question resolution for "what does Result mean
	// when Number > 1").
	Solutions []program.Solution
	Err       error
}

func failure(err error) Result {
	return Result{Objective: math.NaN(), Status: solver.StatusInfeasible, Err: err}
}

// MatchGraph builds cost tables for (query, target) under cfg, then
// delegates to MatchCostTables.
func MatchGraph(ctx context.Context, query, target *graph.Graph, cfg weights.Config, opts Options) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(gedmiperr.NewFormulation("matcher.MatchGraph", fmt.Errorf("panic: %v", r)))
		}
	}()

	kind := formulation.GED
	if opts.Formulation == Subgraph {
		kind = formulation.SUB
	}
	tables := cost.BuildTables(query, target, cfg, cost.DefaultOptions())
	problem := formulation.Problem{Kind: kind, Query: query, Target: target, Costs: tables}
	return MatchCostTables(ctx, problem, opts)
}

// MatchCostTables builds the program for problem per opts.Formulation,
// resolves a solver back-end, and drives it through cut.Loop (with N = 1
// for a single solution).
func MatchCostTables(ctx context.Context, problem formulation.Problem, opts Options) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(gedmiperr.NewFormulation("matcher.MatchCostTables", fmt.Errorf("panic: %v", r)))
		}
	}()

	prog, idx, err := build(problem, opts)
	if err != nil {
		return failure(err)
	}

	s, err := solver.New(opts.Backend)
	if err != nil {
		return failure(err)
	}
	if prog.IsQuadratic() && !s.SupportsQuadratic() {
		return failure(gedmiperr.NewConfiguration("matcher.MatchCostTables",
			fmt.Errorf("backend %q does not support a quadratic objective", opts.Backend)))
	}
	if err := s.Load(prog); err != nil {
		return failure(gedmiperr.NewSolver("matcher.MatchCostTables", err))
	}
	if err := s.Configure(opts.SolverOpts); err != nil {
		return failure(gedmiperr.NewConfiguration("matcher.MatchCostTables", err))
	}

	n := opts.Number
	if n <= 0 {
		n = 1
	}

	loop := &cut.Loop{Solver: s, Program: prog, Index: idx, Strategy: opts.Cut, N: n}
	solutions, err := loop.Run(ctx)
	if err != nil {
		return failure(err)
	}
	if len(solutions) == 0 {
		return Result{
			Objective: math.NaN(),
			Status:    program2SolverStatus(program.Infeasible),
			Solutions: solutions,
		}
	}

	best := solutions[0]
	return Result{
		Objective: best.Objective,
		Status:    program2SolverStatus(best.Status),
		Matching:  Matching{Vertices: best.MatchedVertices, Edges: best.MatchedEdges},
		Solutions: solutions,
	}
}

func program2SolverStatus(s program.SolutionStatus) solver.Status {
	switch s {
	case program.Optimal:
		return solver.StatusOptimal
	case program.Suboptimal:
		return solver.StatusFeasible
	case program.TimedOut:
		return solver.StatusTimedOut
	default:
		return solver.StatusInfeasible
	}
}

// build dispatches to the chosen C4 formulation.
func build(problem formulation.Problem, opts Options) (*program.Program, *formulation.VarIndex, error) {
	switch opts.Formulation {
	case Linear:
		return formulation.Linear(problem, opts.FormulationOpts)
	case Quadratic:
		return formulation.Quadratic(problem, opts.FormulationOpts)
	case Bipartite:
		return formulation.Bipartite(problem, opts.FormulationOpts)
	case Subgraph:
		return formulation.Subgraph(problem, opts.Tolerance, opts.FormulationOpts)
	default:
		return nil, nil, gedmiperr.NewConfiguration("matcher.build",
			fmt.Errorf("unknown formulation %d", opts.Formulation))
	}
}
