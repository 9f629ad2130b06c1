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

// Linear builds F1, the linear-programming formulation of graph edit
// distance (spec §4.4 F1): one binary x[i,k] per candidate vertex
// substitution and one binary y[ij,kl] per candidate edge substitution,
// with the vertex/edge deletion-creation terms folded into the x/y
// coefficients (Σₖ x[i,k] ≤ 1 makes "unmatched" and "deleted" the same
// event, so the (1 − Σ) factor in the spec's objective can be expanded
// algebraically rather than carried as a separate term).
func Linear(p Problem, opts Options) (*program.Program, *VarIndex, error) {
	n, nPrime := p.Query.VertexCount(), p.Target.VertexCount()
	m, mPrime := p.Query.EdgeCount(), p.Target.EdgeCount()
	c := p.Costs

	prog := program.New(program.Minimize, false)
	vi := newVarIndex(n, nPrime, m, mPrime)

	buildVertexVars(prog, p, vi, opts)

	obj := program.NewLinearExpr()
	for i := 0; i < n; i++ {
		obj.AddConst(c.CvMinus[i])
	}
	for k := 0; k < nPrime; k++ {
		obj.AddConst(c.CvPlus[k])
	}
	for pr, v := range vi.x {
		i, k := pr[0], pr[1]
		obj.AddTerm(v, c.Cv[i][k]-c.CvMinus[i]-c.CvPlus[k])
	}

	addVertexAssignmentConstraints(prog, vi)
	addLinearEdgeVars(prog, p, vi, obj)

	prog.SetObjective(obj)
	return prog, vi, nil
}

// buildVertexVars creates one binary x[i,k] variable per candidate vertex
// substitution surviving opts.UpperBound cost filtering (§4.4).
func buildVertexVars(prog *program.Program, p Problem, vi *VarIndex, opts Options) {
	c := p.Costs
	for i := 0; i < vi.N; i++ {
		for k := 0; k < vi.NPrime; k++ {
			if withinBudget(c.Cv[i][k], c.CvMinus[i], c.CvPlus[k], opts.UpperBound) {
				vi.x[pair{i, k}] = prog.NewVariable(program.Binary, 0, 1)
			}
		}
	}
}

// addVertexAssignmentConstraints posts the one-to-one vertex mapping
// constraints common to F1 and F2: each query vertex maps to at most one
// target vertex, and vice versa.
func addVertexAssignmentConstraints(prog *program.Program, vi *VarIndex) {
	for i := 0; i < vi.N; i++ {
		expr := program.NewLinearExpr()
		any := false
		for k := 0; k < vi.NPrime; k++ {
			if v, ok := vi.x[pair{i, k}]; ok {
				expr.AddTerm(v, 1)
				any = true
			}
		}
		if any {
			prog.NewLinearConstraint(expr, program.LessEq, 1)
		}
	}
	for k := 0; k < vi.NPrime; k++ {
		expr := program.NewLinearExpr()
		any := false
		for i := 0; i < vi.N; i++ {
			if v, ok := vi.x[pair{i, k}]; ok {
				expr.AddTerm(v, 1)
				any = true
			}
		}
		if any {
			prog.NewLinearConstraint(expr, program.LessEq, 1)
		}
	}
}

// endpointOptions enumerates the endpoint-variable-index quadruples a
// query edge (i,j) may be read against a target edge (k,l): the forward
// reading always applies, and the reversed reading too whenever either
// side's graph is undirected (an undirected edge can be traversed in
// either orientation, per Graph.Traversable).
func endpointOptions(p Problem, i, j, k, l int) [][4]int {
	opts := [][4]int{{i, k, j, l}}
	if !p.Query.Directed() || !p.Target.Directed() {
		opts = append(opts, [4]int{i, l, j, k})
	}
	return opts
}

// addLinearEdgeVars is F1's edge half: one binary y[ij,kl] per candidate
// edge substitution whose endpoints both survived vertex filtering, with
// y[ij,kl] <= x[i,k] and y[ij,kl] <= x[j,l] tying the edge mapping to the
// vertex mapping it implies.
func addLinearEdgeVars(prog *program.Program, p Problem, vi *VarIndex, obj *program.LinearExpr) {
	m, mPrime := vi.M, vi.MPrime

	for ij := 0; ij < m; ij++ {
		eij := p.Query.Edge(ij)
		for kl := 0; kl < mPrime; kl++ {
			ekl := p.Target.Edge(kl)
			for _, opt := range endpointOptions(p, eij.Origin, eij.Target, ekl.Origin, ekl.Target) {
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

				coef := p.Costs.Ce[ij][kl] - p.Costs.CeMinus[ij] - p.Costs.CePlus[kl]
				obj.AddTerm(y, coef)

				prog.NewLinearConstraint(diff(y, vxik), program.LessEq, 0)
				prog.NewLinearConstraint(diff(y, vxjl), program.LessEq, 0)
			}
		}
	}

	for ij := 0; ij < m; ij++ {
		obj.AddConst(p.Costs.CeMinus[ij])
	}
	for kl := 0; kl < mPrime; kl++ {
		obj.AddConst(p.Costs.CePlus[kl])
	}

	for ij := 0; ij < m; ij++ {
		expr := program.NewLinearExpr()
		any := false
		for kl := 0; kl < mPrime; kl++ {
			if y, ok := vi.y[pair{ij, kl}]; ok {
				expr.AddTerm(y, 1)
				any = true
			}
		}
		if any {
			prog.NewLinearConstraint(expr, program.LessEq, 1)
		}
	}
	for kl := 0; kl < mPrime; kl++ {
		expr := program.NewLinearExpr()
		any := false
		for ij := 0; ij < m; ij++ {
			if y, ok := vi.y[pair{ij, kl}]; ok {
				expr.AddTerm(y, 1)
				any = true
			}
		}
		if any {
			prog.NewLinearConstraint(expr, program.LessEq, 1)
		}
	}
}

// diff returns the expression y - x, used to post y <= x as y - x <= 0.
func diff(y, x *program.Variable) *program.LinearExpr {
	e := program.NewLinearExpr()
	e.AddTerm(y, 1)
	e.AddTerm(x, -1)
	return e
}
