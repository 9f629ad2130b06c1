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

// Relation is the comparison a Constraint's expression must satisfy
// against its right-hand side.
type Relation int

const (
	// Equal constraints require Expr == RHS.
	Equal Relation = iota
	// LessEq constraints require Expr <= RHS.
	LessEq
	// GreaterEq constraints require Expr >= RHS.
	GreaterEq
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "="
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "?"
	}
}

// Constraint is (expression, relation, rhs) with a unique identifier,
// scoped to the Program that created it. Grounded on
// original_source/.../Constraint.h, with the id source changed from a
// process-global static counter to a per-Program counter (spec §9).
type Constraint struct {
	id       uint64
	expr     Expression
	relation Relation
	rhs      float64
}

// ID returns the Constraint's identifier, unique within its owning Program.
func (c *Constraint) ID() uint64 { return c.id }

// Expr returns the Constraint's expression.
func (c *Constraint) Expr() Expression { return c.expr }

// Relation returns the Constraint's relation.
func (c *Constraint) Relation() Relation { return c.relation }

// RHS returns the Constraint's right-hand side value.
func (c *Constraint) RHS() float64 { return c.rhs }

// IsQuadratic reports whether the constraint's expression is quadratic.
func (c *Constraint) IsQuadratic() bool { return c.expr.IsQuadratic() }
