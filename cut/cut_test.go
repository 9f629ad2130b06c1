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

package cut

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerouge/gedmip/cost"
	"github.com/lerouge/gedmip/formulation"
	"github.com/lerouge/gedmip/graph"
	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
	"github.com/lerouge/gedmip/weights"
)

// identicalPair builds two 2-vertex, 1-edge undirected graphs with equal
// costs everywhere, so both the identity mapping and the swapped mapping
// are zero-cost optimal solutions — enough distinct optima to exercise a
// multi-solution loop.
func identicalPair(t *testing.T) formulation.Problem {
	t.Helper()

	q := graph.New()
	i0 := q.AddVertex("i0", nil)
	i1 := q.AddVertex("i1", nil)
	_, err := q.AddEdge(i0.Index, i1.Index, nil)
	require.NoError(t, err)

	tg := graph.New()
	k0 := tg.AddVertex("k0", nil)
	k1 := tg.AddVertex("k1", nil)
	_, err = tg.AddEdge(k0.Index, k1.Index, nil)
	require.NoError(t, err)

	cfg := weights.Config{
		VertexSub:    weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 0}},
		VertexCreate: weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 1}},
		EdgeSub:      weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 0}},
		EdgeCreate:   weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 1}},
	}
	tables := cost.BuildTables(q, tg, cfg, cost.DefaultOptions())
	return formulation.Problem{Kind: formulation.GED, Query: q, Target: tg, Costs: tables}
}

// scriptedSolver returns a fixed sequence of (status, matched pairs) per
// Solve call, then StatusInfeasible once the script is exhausted — letting
// tests drive the cut loop through an exact, deterministic sequence of
// rounds without a real MIP back-end.
type scriptedSolver struct {
	idx     *formulation.VarIndex
	matches [][][2]int // one []pair per round

	loadCount int
	call      int
}

func (s *scriptedSolver) Load(p *program.Program) error { s.loadCount++; return nil }
func (s *scriptedSolver) Configure(solver.ConfigureOptions) error { return nil }

func (s *scriptedSolver) Solve(context.Context) (solver.Status, error) {
	if s.call >= len(s.matches) {
		return solver.StatusInfeasible, nil
	}
	return solver.StatusOptimal, nil
}

func (s *scriptedSolver) SupportsQuadratic() bool { return false }

func (s *scriptedSolver) ReadAssignment() (map[program.VarID]float64, float64, error) {
	values := make(map[program.VarID]float64)
	pairs := s.matches[s.call]
	s.call++
	for _, pr := range pairs {
		if v, ok := s.idx.X(pr[0], pr[1]); ok {
			values[v.ID()] = 1
		}
	}
	return values, 0, nil
}

func TestLoop_CollectsNDistinctSolutionsWithSolutionCut(t *testing.T) {
	p := identicalPair(t)
	prog, vi, err := formulation.Linear(p, formulation.Options{UpperBound: 1.0})
	require.NoError(t, err)

	s := &scriptedSolver{
		idx: vi,
		matches: [][][2]int{
			{{0, 0}, {1, 1}},
			{{0, 1}, {1, 0}},
		},
	}

	l := &Loop{Solver: s, Program: prog, Index: vi, Strategy: SolutionCut, N: 2}
	solutions, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, solutions, 2)
	assert.Equal(t, LimitReached, l.State())
	assert.NotEqual(t, solutions[0].MatchedVertices, solutions[1].MatchedVertices)
}

func TestLoop_StopsAtExhaustedWhenSolverRunsOut(t *testing.T) {
	p := identicalPair(t)
	prog, vi, err := formulation.Linear(p, formulation.Options{UpperBound: 1.0})
	require.NoError(t, err)

	s := &scriptedSolver{
		idx: vi,
		matches: [][][2]int{
			{{0, 0}, {1, 1}},
		},
	}

	l := &Loop{Solver: s, Program: prog, Index: vi, Strategy: MatchingCut, N: 5}
	solutions, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, solutions, 1)
	assert.Equal(t, Exhausted, l.State())
}

func TestLoop_RejectsNonPositiveN(t *testing.T) {
	p := identicalPair(t)
	prog, vi, err := formulation.Linear(p, formulation.Options{UpperBound: 1.0})
	require.NoError(t, err)

	l := &Loop{Solver: &scriptedSolver{idx: vi}, Program: prog, Index: vi, Strategy: SolutionCut, N: 0}
	_, err = l.Run(context.Background())
	assert.Error(t, err)
}

func TestApplyCut_MatchingCutZeroesOutMatchedPairs(t *testing.T) {
	p := identicalPair(t)
	prog, vi, err := formulation.Linear(p, formulation.Options{UpperBound: 1.0})
	require.NoError(t, err)

	before := len(prog.LinearConstraints())
	ok := applyCut(MatchingCut, prog, vi, [][2]int{{0, 0}, {1, 1}})
	assert.True(t, ok)
	assert.Equal(t, before+1, len(prog.LinearConstraints()))
}

func TestApplyCut_ElementsCutPostsPerVertexConstraints(t *testing.T) {
	p := identicalPair(t)
	prog, vi, err := formulation.Linear(p, formulation.Options{UpperBound: 1.0})
	require.NoError(t, err)

	before := len(prog.LinearConstraints())
	ok := applyCut(ElementsCut, prog, vi, [][2]int{{0, 0}, {1, 1}})
	assert.True(t, ok)
	// One constraint per distinct matched query vertex, one per distinct
	// matched target vertex: 2 + 2 = 4.
	assert.Equal(t, before+4, len(prog.LinearConstraints()))
}

func TestApplyCut_EmptyMatchReportsFalse(t *testing.T) {
	p := identicalPair(t)
	prog, vi, err := formulation.Linear(p, formulation.Options{UpperBound: 1.0})
	require.NoError(t, err)

	ok := applyCut(SolutionCut, prog, vi, nil)
	assert.False(t, ok)
}
