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

package program

// Expression is satisfied by both LinearExpr and QuadExpr so that
// Constraint and Program.SetObjective can accept either without the
// objective/constraint machinery caring which kind it got.
//
// Grounded on original_source/src/library/IntegerProgramming/
// LinearExpression.h's addTerm/multiplyBy/sum trio, translated from C++
// operator overloads (spec §9: "implementers may use any composable API")
// into plain Go methods.
type Expression interface {
	// Linear returns the linear part of the expression: every Expression
	// has one, even a pure QuadExpr (whose linear part may be empty).
	Linear() *LinearExpr
	// IsQuadratic reports whether this Expression carries a quadratic part.
	IsQuadratic() bool
}

// VarPair is a canonically-ordered, unordered pair of variable IDs used as
// the key for quadratic terms: (u,v) and (v,u) always collapse to the same
// key.
type VarPair [2]VarID

func newVarPair(a, b VarID) VarPair {
	if a <= b {
		return VarPair{a, b}
	}
	return VarPair{b, a}
}

// LinearExpr is a constant plus a mapping variable -> coefficient. Zero
// coefficients are never stored: AddTerm with a zero coefficient deletes
// any existing entry for that variable.
type LinearExpr struct {
	constant float64
	terms    map[VarID]float64
	vars     map[VarID]*Variable
}

// NewLinearExpr returns an empty linear expression (constant 0, no terms).
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{terms: make(map[VarID]float64), vars: make(map[VarID]*Variable)}
}

// Linear implements Expression.
func (e *LinearExpr) Linear() *LinearExpr { return e }

// IsQuadratic implements Expression.
func (e *LinearExpr) IsQuadratic() bool { return false }

// Constant returns the constant term.
func (e *LinearExpr) Constant() float64 { return e.constant }

// Terms returns the variable -> coefficient mapping. Callers must not
// mutate the returned map; use AddTerm instead.
func (e *LinearExpr) Terms() map[VarID]float64 { return e.terms }

// Vars returns, for each variable id present in Terms, the Variable it refers to.
func (e *LinearExpr) Vars() map[VarID]*Variable { return e.vars }

// AddConst adds c to the expression's constant term.
func (e *LinearExpr) AddConst(c float64) *LinearExpr {
	e.constant += c
	return e
}

// AddTerm adds coef*v to the expression. If v already appears, its
// coefficient is summed (spec invariant: "adding a term whose variable
// already appears sums the coefficients"). A resulting zero coefficient
// removes the term entirely.
func (e *LinearExpr) AddTerm(v *Variable, coef float64) *LinearExpr {
	if v == nil {
		return e
	}
	next := e.terms[v.id] + coef
	if next == 0 {
		delete(e.terms, v.id)
		delete(e.vars, v.id)
		return e
	}
	e.terms[v.id] = next
	e.vars[v.id] = v
	return e
}

// MultiplyBy scales the entire expression (constant and linear parts) by d.
func (e *LinearExpr) MultiplyBy(d float64) *LinearExpr {
	e.constant *= d
	if d == 0 {
		for id := range e.terms {
			delete(e.terms, id)
			delete(e.vars, id)
		}
		return e
	}
	for id, c := range e.terms {
		e.terms[id] = c * d
	}
	return e
}

// SumOf returns a new LinearExpr equal to the sum of the given variables,
// each with coefficient 1. Grounded on LinearExpression::sum.
func SumOf(vars ...*Variable) *LinearExpr {
	e := NewLinearExpr()
	for _, v := range vars {
		e.AddTerm(v, 1)
	}
	return e
}

// QuadExpr extends LinearExpr with a mapping from an unordered variable
// pair to a coefficient, used by the quadratic GED formulation (F2).
type QuadExpr struct {
	lin  *LinearExpr
	quad map[VarPair]float64
	vars map[VarID]*Variable
}

// NewQuadExpr returns an empty quadratic expression.
func NewQuadExpr() *QuadExpr {
	return &QuadExpr{lin: NewLinearExpr(), quad: make(map[VarPair]float64), vars: make(map[VarID]*Variable)}
}

// Linear implements Expression, returning the expression's linear part.
func (e *QuadExpr) Linear() *LinearExpr { return e.lin }

// IsQuadratic implements Expression.
func (e *QuadExpr) IsQuadratic() bool { return true }

// Quad returns the pair -> coefficient mapping for the quadratic part.
func (e *QuadExpr) Quad() map[VarPair]float64 { return e.quad }

// AddConst adds c to the expression's constant term.
func (e *QuadExpr) AddConst(c float64) *QuadExpr {
	e.lin.AddConst(c)
	return e
}

// AddTerm adds coef*v to the expression's linear part.
func (e *QuadExpr) AddTerm(v *Variable, coef float64) *QuadExpr {
	e.lin.AddTerm(v, coef)
	return e
}

// AddQuadTerm adds coef*u*v to the expression's quadratic part. The pair
// (u,v) is stored canonically, so AddQuadTerm(u,v,c) and
// AddQuadTerm(v,u,c) accumulate into the same entry.
func (e *QuadExpr) AddQuadTerm(u, v *Variable, coef float64) *QuadExpr {
	if u == nil || v == nil || coef == 0 {
		return e
	}
	key := newVarPair(u.id, v.id)
	next := e.quad[key] + coef
	if next == 0 {
		delete(e.quad, key)
	} else {
		e.quad[key] = next
	}
	e.vars[u.id] = u
	e.vars[v.id] = v
	return e
}

// MultiplyBy scales the entire expression (constant, linear and quadratic
// parts) by d.
func (e *QuadExpr) MultiplyBy(d float64) *QuadExpr {
	e.lin.MultiplyBy(d)
	if d == 0 {
		for k := range e.quad {
			delete(e.quad, k)
		}
		return e
	}
	for k, c := range e.quad {
		e.quad[k] = c * d
	}
	return e
}
