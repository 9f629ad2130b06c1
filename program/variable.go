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

import (
	"strconv"
)

// VarKind is the type of an optimization variable.
type VarKind int

const (
	// Binary variables are fixed to the [0,1] bound and take integer values.
	Binary VarKind = iota
	// BoundedInteger variables take caller-supplied bounds and integer values.
	BoundedInteger
	// Continuous variables take caller-supplied bounds and real values.
	Continuous
)

func (k VarKind) String() string {
	switch k {
	case Binary:
		return "binary"
	case BoundedInteger:
		return "bounded_integer"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// VarID is a stable identifier for a Variable, unique within its owning Program.
type VarID uint64

// Variable is an optimization variable with a stable identifier, a type, and
// bounds. A Variable is created by and lives for as long as its owning
// Program; it carries no column representation of its own, since the
// column-vs-row view is a solver-level (C2) concern, not a program-algebra
// (C1) one.
type Variable struct {
	id    VarID
	name  string
	kind  VarKind
	lower float64
	upper float64
}

// ID returns the Variable's stable identifier.
func (v *Variable) ID() VarID { return v.id }

// Name returns the caller-supplied (or auto-generated) name of the Variable.
func (v *Variable) Name() string { return v.name }

// Kind returns the Variable's type.
func (v *Variable) Kind() VarKind { return v.kind }

// Bounds returns the Variable's (lower, upper) bounds.
func (v *Variable) Bounds() (lower, upper float64) { return v.lower, v.upper }

// SetBounds updates the bounds for a non-binary Variable. Binary variables
// always keep [0,1] and ignore this call.
func (v *Variable) SetBounds(lower, upper float64) {
	if v.kind == Binary {
		return
	}
	v.lower, v.upper = lower, upper
}

func newVariable(id VarID, name string, kind VarKind, lower, upper float64) *Variable {
	if kind == Binary {
		lower, upper = 0, 1
	}
	if name == "" {
		name = defaultVarName(id)
	}
	return &Variable{id: id, name: name, kind: kind, lower: lower, upper: upper}
}

func defaultVarName(id VarID) string {
	return "v" + strconv.FormatUint(uint64(id), 10)
}
