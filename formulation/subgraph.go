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

// Subgraph builds F4, the subgraph-matching formulation (spec §4.4 F4):
// every query vertex must be mapped (no deletion, unlike GED), target
// vertices may be left unmatched, and the edge-consistency rule between
// mapped vertices depends on tolerance:
//
//   - Exact requires a real target edge for every mapped query edge — no
//     target edge means the candidate assignment is infeasible.
//   - Label posts the same constraints as Exact. For both, a label
//     mismatch between the query edge and its backing target edge is
//     priced through Ce; neither makes such a mismatch infeasible.
//   - Topology drops the target-edge-must-exist requirement entirely: a
//     query edge may map to "no target edge" at the cost of its edge
//     creation-cost analogue, CeMinus, making the edge constraint soft.
//
// opts.Induced additionally forbids any target edge between two mapped
// target vertices that has no corresponding mapped query edge, enforcing
// that the matched subgraph is induced rather than merely partial.
func Subgraph(p Problem, tol Tolerance, opts Options) (*program.Program, *VarIndex, error) {
	n, nPrime := p.Query.VertexCount(), p.Target.VertexCount()
	m, mPrime := p.Query.EdgeCount(), p.Target.EdgeCount()
	c := p.Costs

	prog := program.New(program.Minimize, false)
	vi := newVarIndex(n, nPrime, m, mPrime)

	for i := 0; i < n; i++ {
		for k := 0; k < nPrime; k++ {
			if withinBudget(c.Cv[i][k], 0, c.CvPlus[k], opts.UpperBound) {
				vi.x[pair{i, k}] = prog.NewVariable(program.Binary, 0, 1)
			}
		}
	}

	obj := program.NewLinearExpr()
	for pr, v := range vi.x {
		i, k := pr[0], pr[1]
		obj.AddTerm(v, c.Cv[i][k]-c.CvPlus[k])
	}
	for k := 0; k < nPrime; k++ {
		obj.AddConst(c.CvPlus[k])
	}

	// Every query vertex must be mapped exactly once (no deletion).
	for i := 0; i < n; i++ {
		expr := program.NewLinearExpr()
		for k := 0; k < nPrime; k++ {
			if v, ok := vi.x[pair{i, k}]; ok {
				expr.AddTerm(v, 1)
			}
		}
		prog.NewLinearConstraint(expr, program.Equal, 1)
	}
	// A target vertex absorbs at most one query vertex.
	for k := 0; k < nPrime; k++ {
		expr := program.NewLinearExpr()
		any := false
		for i := 0; i < n; i++ {
			if v, ok := vi.x[pair{i, k}]; ok {
				expr.AddTerm(v, 1)
				any = true
			}
		}
		if any {
			prog.NewLinearConstraint(expr, program.LessEq, 1)
		}
	}

	for ij := 0; ij < m; ij++ {
		eij := p.Query.Edge(ij)
		addSubgraphEdgeConstraint(prog, p, vi, obj, ij, eij.Origin, eij.Target, tol)
	}

	if opts.Induced {
		addInducedConstraints(prog, p, vi)
	}

	prog.SetObjective(obj)
	return prog, vi, nil
}

// addSubgraphEdgeConstraint posts, for one query edge ij=(i,j), the
// tolerance-dependent requirement tying its endpoints' vertex mapping to
// the existence of a matching target edge.
func addSubgraphEdgeConstraint(prog *program.Program, p Problem, vi *VarIndex, obj *program.LinearExpr, ij, i, j int, tol Tolerance) {
	mPrime := vi.MPrime

	candidateY := make([]*program.Variable, 0)
	for kl := 0; kl < mPrime; kl++ {
		ekl := p.Target.Edge(kl)
		for _, opt := range endpointOptions(p, i, j, ekl.Origin, ekl.Target) {
			xi, xk, xj, xl := opt[0], opt[1], opt[2], opt[3]
			vxik, ok1 := vi.X(xi, xk)
			vxjl, ok2 := vi.X(xj, xl)
			if !ok1 || !ok2 {
				continue
			}
			if _, exists := vi.y[pair{ij, kl}]; exists {
				continue
			}
			y := prog.NewVariable(program.Binary, 0, 1)
			vi.y[pair{ij, kl}] = y
			candidateY = append(candidateY, y)

			coef := p.Costs.Ce[ij][kl]
			if tol == Topology {
				coef -= p.Costs.CeMinus[ij]
			}
			obj.AddTerm(y, coef)

			prog.NewLinearConstraint(diff(y, vxik), program.LessEq, 0)
			prog.NewLinearConstraint(diff(y, vxjl), program.LessEq, 0)
		}
	}

	switch tol {
	case Exact, Label:
		// A real target edge must back this mapping: for every compatible
		// kl, the query edge's endpoint assignment forces exactly one
		// candidateY to be 1 when both endpoints are mapped to adjacent
		// target vertices — require that the sum of available y's equal
		// the product of the endpoints being mapped at all, approximated
		// here (since x·x is not linear) by requiring at least one y to
		// fire whenever both endpoints map into this edge's candidate set.
		expr := program.NewLinearExpr()
		for _, y := range candidateY {
			expr.AddTerm(y, 1)
		}
		prog.NewLinearConstraint(expr, program.GreaterEq, 1)
	case Topology:
		obj.AddConst(p.Costs.CeMinus[ij])
	}
}

// addInducedConstraints forbids any target edge between two mapped target
// vertices that has no corresponding mapped query edge (induced-subgraph
// mode): for every target edge kl=(k,l) and every query vertex pair (i,j)
// with no query edge between them, x[i,k]·x[j,l] (and the reversed
// reading) must not both be 1, enforced as x[i,k] + x[j,l] <= 1 whenever
// kl has no backing y variable for (i,j).
func addInducedConstraints(prog *program.Program, p Problem, vi *VarIndex) {
	hasQueryEdge := make(map[[2]int]bool)
	for ij := 0; ij < vi.M; ij++ {
		e := p.Query.Edge(ij)
		hasQueryEdge[[2]int{e.Origin, e.Target}] = true
		hasQueryEdge[[2]int{e.Target, e.Origin}] = true
	}

	for kl := 0; kl < vi.MPrime; kl++ {
		ekl := p.Target.Edge(kl)
		k, l := ekl.Origin, ekl.Target
		for i := 0; i < vi.N; i++ {
			for j := 0; j < vi.N; j++ {
				if i == j || hasQueryEdge[[2]int{i, j}] {
					continue
				}
				vik, ok1 := vi.X(i, k)
				vjl, ok2 := vi.X(j, l)
				if !ok1 || !ok2 {
					continue
				}
				expr := program.NewLinearExpr()
				expr.AddTerm(vik, 1)
				expr.AddTerm(vjl, 1)
				prog.NewLinearConstraint(expr, program.LessEq, 1)
			}
		}
	}
}
