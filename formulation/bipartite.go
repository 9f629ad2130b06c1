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
	"github.com/lerouge/gedmip/program"
)

// Bipartite builds F3, the bipartite approximation of graph edit distance
// (spec §4.4 F3): a single (n+n')x(n+n') linear assignment problem whose
// LP relaxation is already integral (the assignment polytope is totally
// unimodular), so Bipartite returns a Program with Continuous variables —
// any LP solver finds the optimum without branch-and-bound, giving a
// polynomial-time upper bound on the true (linear) GED.
//
// Grounded on the Riesen & Bunke bipartite-GED construction the wider GED
// literature (and GedLib, the system spec.md's domain descends from) uses:
// a square matrix with the real n x n' vertex-substitution block in the
// top-left, an n x n diagonal deletion block top-right, an n' x n'
// diagonal insertion block bottom-left, and a free n' x n zero block
// bottom-right so every dummy row can pair with every dummy column at no
// cost.
//
// The open question spec §9 leaves unresolved — how an edge's cost folds
// into a purely vertex-to-vertex assignment — is resolved here as "half
// the cost of each endpoint's incident edges, estimated independently per
// endpoint": each vertex pair's substitution cost is Cv[i,k] plus half the
// best-case cost of matching i's incident edges against k's, plus half the
// best-case cost of matching k's incident edges against i's. This is an
// approximation in both directions (it never coordinates where the other
// endpoint of an edge maps), which is exactly why F3 is an upper bound
// rather than an exact reformulation.
func Bipartite(p Problem, opts Options) (*program.Program, *VarIndex, error) {
	n, nPrime := p.Query.VertexCount(), p.Target.VertexCount()
	m, mPrime := p.Query.EdgeCount(), p.Target.EdgeCount()
	c := p.Costs

	prog := program.New(program.Minimize, false)
	vi := newVarIndex(n, nPrime, m, mPrime)

	size := n + nPrime
	rows := make([][]*program.Variable, size)
	for r := range rows {
		rows[r] = make([]*program.Variable, size)
	}

	obj := program.NewLinearExpr()

	// Top-left: real substitution block.
	for i := 0; i < n; i++ {
		for k := 0; k < nPrime; k++ {
			cost := c.Cv[i][k] + 0.5*incidentEdgeCost(p, i, k, true) + 0.5*incidentEdgeCost(p, k, i, false)
			if !withinBudget(cost, c.CvMinus[i], c.CvPlus[k], opts.UpperBound) {
				continue
			}
			v := prog.NewVariable(program.Continuous, 0, 1)
			rows[i][k] = v
			vi.x[pair{i, k}] = v
			obj.AddTerm(v, cost)
		}
	}

	// Top-right: query-vertex deletion, diagonal only.
	for i := 0; i < n; i++ {
		v := prog.NewVariable(program.Continuous, 0, 1)
		rows[i][nPrime+i] = v
		obj.AddTerm(v, c.CvMinus[i])
	}

	// Bottom-left: target-vertex insertion, diagonal only.
	for k := 0; k < nPrime; k++ {
		v := prog.NewVariable(program.Continuous, 0, 1)
		rows[n+k][k] = v
		obj.AddTerm(v, c.CvPlus[k])
	}

	// Bottom-right: dummy-to-dummy, free.
	for i := 0; i < nPrime; i++ {
		for j := 0; j < n; j++ {
			v := prog.NewVariable(program.Continuous, 0, 1)
			rows[n+i][nPrime+j] = v
		}
	}

	for r := 0; r < size; r++ {
		expr := program.NewLinearExpr()
		for cIdx := 0; cIdx < size; cIdx++ {
			if v := rows[r][cIdx]; v != nil {
				expr.AddTerm(v, 1)
			}
		}
		prog.NewLinearConstraint(expr, program.Equal, 1)
	}
	for cIdx := 0; cIdx < size; cIdx++ {
		expr := program.NewLinearExpr()
		for r := 0; r < size; r++ {
			if v := rows[r][cIdx]; v != nil {
				expr.AddTerm(v, 1)
			}
		}
		prog.NewLinearConstraint(expr, program.Equal, 1)
	}

	prog.SetObjective(obj)
	return prog, vi, nil
}

// incidentEdgeCost estimates, for a single endpoint mapping (queryVertex ->
// targetVertex) when fromQuery is true (or the mirrored targetVertex ->
// queryVertex direction when false), the best-case cost of matching every
// edge incident to the source vertex against some edge incident to the
// destination vertex — or, absent any incident edge on the destination
// side, the source edge's deletion/creation cost.
func incidentEdgeCost(p Problem, src, dst int, fromQuery bool) float64 {
	var srcGraph, dstGraph = p.Query, p.Target
	if !fromQuery {
		srcGraph, dstGraph = p.Target, p.Query
	}

	dstEdges := dstGraph.EdgesAt(dst)
	total := 0.0
	for _, e := range srcGraph.EdgesAt(src) {
		if len(dstEdges) == 0 {
			total += deletionCostFor(p, e.Index, fromQuery)
			continue
		}
		best := deletionCostFor(p, e.Index, fromQuery)
		for _, d := range dstEdges {
			cost := edgeCostFor(p, e.Index, d.Index, fromQuery)
			if cost < best {
				best = cost
			}
		}
		total += best
	}
	return total
}

func deletionCostFor(p Problem, edgeIdx int, fromQuery bool) float64 {
	if fromQuery {
		return p.Costs.CeMinus[edgeIdx]
	}
	return p.Costs.CePlus[edgeIdx]
}

func edgeCostFor(p Problem, srcEdge, dstEdge int, fromQuery bool) float64 {
	if fromQuery {
		return p.Costs.Ce[srcEdge][dstEdge]
	}
	return p.Costs.Ce[dstEdge][srcEdge]
}
