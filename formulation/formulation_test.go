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

package formulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerouge/gedmip/cost"
	"github.com/lerouge/gedmip/graph"
	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/weights"
)

// twoVertexOneEdge builds a pair of 2-vertex, 1-edge undirected graphs
// identical up to a single vertex-label difference, for use across the
// formulation tests.
func twoVertexOneEdge(t *testing.T) Problem {
	t.Helper()

	q := graph.New()
	i0 := q.AddVertex("i0", map[string]graph.Value{"label": graph.SymbolValue("a")})
	i1 := q.AddVertex("i1", map[string]graph.Value{"label": graph.SymbolValue("b")})
	_, err := q.AddEdge(i0.Index, i1.Index, map[string]graph.Value{"label": graph.SymbolValue("x")})
	require.NoError(t, err)

	tg := graph.New()
	k0 := tg.AddVertex("k0", map[string]graph.Value{"label": graph.SymbolValue("a")})
	k1 := tg.AddVertex("k1", map[string]graph.Value{"label": graph.SymbolValue("b")})
	_, err = tg.AddEdge(k0.Index, k1.Index, map[string]graph.Value{"label": graph.SymbolValue("x")})
	require.NoError(t, err)

	cfg := weights.Config{
		VertexSub:    weights.Table{"label": {Kind: weights.SymbolEquality, Weight: 1}},
		VertexCreate: weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 1}},
		EdgeSub:      weights.Table{"label": {Kind: weights.SymbolEquality, Weight: 1}},
		EdgeCreate:   weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 1}},
	}
	tables := cost.BuildTables(q, tg, cfg, cost.DefaultOptions())

	return Problem{Kind: GED, Query: q, Target: tg, Costs: tables}
}

func TestLinear_IdentityMappingHasZeroObjectiveOnMatch(t *testing.T) {
	p := twoVertexOneEdge(t)
	prog, vi, err := Linear(p, Options{UpperBound: 1.0})
	require.NoError(t, err)

	assert.Equal(t, 4, len(vi.XPairs()))
	assert.NotNil(t, prog.Objective())

	v00, ok := vi.X(0, 0)
	require.True(t, ok)
	v11, ok := vi.X(1, 1)
	require.True(t, ok)
	assert.NotEqual(t, v00.ID(), v11.ID())

	// Evaluate the objective at the identity assignment x00 = x11 = y00 = 1:
	// constant 6 (2 CvMinus + 2 CvPlus + CeMinus + CePlus) plus three -2
	// coefficients.
	y00, ok := vi.Y(0, 0)
	require.True(t, ok)
	obj := prog.Objective().Linear()
	identity := obj.Constant() + obj.Terms()[v00.ID()] + obj.Terms()[v11.ID()] + obj.Terms()[y00.ID()]
	assert.InDelta(t, 0.0, identity, 1e-9)
}

func TestLinear_OneToOneConstraintsPosted(t *testing.T) {
	p := twoVertexOneEdge(t)
	prog, _, err := Linear(p, Options{UpperBound: 1.0})
	require.NoError(t, err)

	// 2 query-side + 2 target-side vertex constraints, plus edge
	// one-to-one and y<=x pairs.
	assert.GreaterOrEqual(t, len(prog.LinearConstraints()), 4)
}

func TestLinear_UpperBoundFiltersExpensivePairs(t *testing.T) {
	p := twoVertexOneEdge(t)
	prog, vi, err := Linear(p, Options{UpperBound: 0.0})
	require.NoError(t, err)

	// With UpperBound 0, only pairs costing nothing survive: (0,0) and
	// (1,1), the identity mapping.
	_, ok00 := vi.X(0, 0)
	_, ok01 := vi.X(0, 1)
	assert.True(t, ok00)
	assert.False(t, ok01)
	assert.NotNil(t, prog.Objective())
}

func TestQuadratic_BuildsQuadraticProgram(t *testing.T) {
	p := twoVertexOneEdge(t)
	prog, vi, err := Quadratic(p, Options{UpperBound: 1.0})
	require.NoError(t, err)

	assert.True(t, prog.IsQuadratic())
	assert.Equal(t, 4, len(vi.XPairs()))
	assert.True(t, prog.Objective().IsQuadratic())
	// F2 carries no y variables: edge consistency is implicit in the
	// quadratic terms.
	assert.Empty(t, vi.YPairs())
}

func TestBipartite_SquareAssignmentConstraints(t *testing.T) {
	p := twoVertexOneEdge(t)
	prog, _, err := Bipartite(p, Options{UpperBound: 1.0})
	require.NoError(t, err)

	// (n+n') row constraints + (n+n') column constraints = 2*(2+2) = 8.
	assert.Equal(t, 8, len(prog.LinearConstraints()))
	for _, v := range prog.Variables() {
		assert.Equal(t, program.Continuous, v.Kind())
	}
}

func TestSubgraph_ExactRequiresBackingTargetEdge(t *testing.T) {
	p := twoVertexOneEdge(t)
	prog, vi, err := Subgraph(p, Exact, Options{UpperBound: 1.0})
	require.NoError(t, err)

	assert.NotEmpty(t, vi.YPairs())
	assert.NotNil(t, prog.Objective())

	// Every query vertex must be mapped: 2 equality constraints, plus at
	// most-one-per-target-vertex, plus >=1 edge-backing constraints.
	foundEquality := false
	for _, c := range prog.LinearConstraints() {
		if c.Relation() == program.Equal && c.RHS() == 1 {
			foundEquality = true
		}
	}
	assert.True(t, foundEquality)
}

func TestSubgraph_TopologyAllowsUnbackedEdge(t *testing.T) {
	p := twoVertexOneEdge(t)
	prog, _, err := Subgraph(p, Topology, Options{UpperBound: 1.0})
	require.NoError(t, err)

	foundGreaterEq := false
	for _, c := range prog.LinearConstraints() {
		if c.Relation() == program.GreaterEq {
			foundGreaterEq = true
		}
	}
	// Topology posts no >=1 backing constraint: an unbacked query edge is
	// priced instead, through the CeMinus constant the objective absorbs.
	assert.False(t, foundGreaterEq)
	assert.NotNil(t, prog.Objective())
}

func TestSubgraph_InducedAddsNonEdgeConstraints(t *testing.T) {
	q := graph.New()
	i0 := q.AddVertex("i0", nil)
	i1 := q.AddVertex("i1", nil)
	_ = i1

	tg := graph.New()
	k0 := tg.AddVertex("k0", nil)
	k1 := tg.AddVertex("k1", nil)
	_, err := tg.AddEdge(k0.Index, k1.Index, nil)
	require.NoError(t, err)

	cfg := weights.Config{
		VertexSub:    weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 0}},
		VertexCreate: weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 1}},
		EdgeSub:      weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 0}},
		EdgeCreate:   weights.Table{weights.ConstantKey: {Kind: weights.Constant, Weight: 1}},
	}
	tables := cost.BuildTables(q, tg, cfg, cost.DefaultOptions())
	p := Problem{Kind: SUB, Query: q, Target: tg, Costs: tables}
	_ = i0

	progNonInduced, _, err := Subgraph(p, Label, Options{UpperBound: 1.0})
	require.NoError(t, err)
	progInduced, _, err := Subgraph(p, Label, Options{UpperBound: 1.0, Induced: true})
	require.NoError(t, err)

	assert.Greater(t, len(progInduced.LinearConstraints()), len(progNonInduced.LinearConstraints()))
}
