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

// Quadratic builds F2, the quadratic formulation of graph edit distance
// (spec §4.4 F2): the same vertex variables and one-to-one constraints as
// F1, but with the y[ij,kl] edge variable eliminated in favour of the
// quadratic term x[i,k]·x[j,l] directly in the objective. Edge consistency
// (an edge mapping may only exist where both endpoints are mapped) is then
// implicit in the product rather than enforced by separate constraints: a
// one-to-one vertex mapping already forces at most one (k,l) pair to make
// x[i,k]·x[j,l] nonzero for any given (i,j).
func Quadratic(p Problem, opts Options) (*program.Program, *VarIndex, error) {
	n, nPrime := p.Query.VertexCount(), p.Target.VertexCount()
	m, mPrime := p.Query.EdgeCount(), p.Target.EdgeCount()
	c := p.Costs

	prog := program.New(program.Minimize, true)
	vi := newVarIndex(n, nPrime, m, mPrime)

	buildVertexVars(prog, p, vi, opts)
	addVertexAssignmentConstraints(prog, vi)

	obj := program.NewQuadExpr()
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

	for ij := 0; ij < m; ij++ {
		obj.AddConst(c.CeMinus[ij])
	}
	for kl := 0; kl < mPrime; kl++ {
		obj.AddConst(c.CePlus[kl])
	}

	// seen guards against the same (i,k,j,l) quadruple being priced twice
	// when both endpointOptions readings land on the same pair (possible
	// for a self-loop, or when origin==target after an undirected swap).
	seen := make(map[[4]int]bool)
	for ij := 0; ij < m; ij++ {
		eij := p.Query.Edge(ij)
		for kl := 0; kl < mPrime; kl++ {
			ekl := p.Target.Edge(kl)
			for _, opt := range endpointOptions(p, eij.Origin, eij.Target, ekl.Origin, ekl.Target) {
				xi, xk, xj, xl := opt[0], opt[1], opt[2], opt[3]
				if seen[opt] {
					continue
				}
				vxik, ok1 := vi.X(xi, xk)
				vxjl, ok2 := vi.X(xj, xl)
				if !ok1 || !ok2 {
					continue
				}
				seen[opt] = true
				coef := c.Ce[ij][kl] - c.CeMinus[ij] - c.CePlus[kl]
				obj.AddQuadTerm(vxik, vxjl, coef)
			}
		}
	}

	prog.SetObjective(obj)
	return prog, vi, nil
}
