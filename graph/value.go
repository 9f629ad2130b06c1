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

package graph

// ValueKind discriminates the two attribute value shapes the cost model
// (package cost) knows how to compare: numeric-difference and
// symbol-equality.
type ValueKind int

const (
	// Numeric attribute values compare by absolute difference.
	Numeric ValueKind = iota
	// Symbolic attribute values compare by equality.
	Symbolic
)

// Value is a typed attribute value: either a number or a symbol, never
// both. It is the minimal tagged union the weight-table kinds in §3
// (numeric-difference, symbol-equality, constant) need to dispatch on.
type Value struct {
	Kind ValueKind
	Num  float64
	Sym  string
}

// NumberValue builds a Numeric Value.
func NumberValue(x float64) Value {
	return Value{Kind: Numeric, Num: x}
}

// SymbolValue builds a Symbolic Value.
func SymbolValue(s string) Value {
	return Value{Kind: Symbolic, Sym: s}
}

// Vertex is a node of a Graph: a stable index assigned at insertion, an
// optional name, and a mapping from attribute name to typed Value.
type Vertex struct {
	Index      int
	Name       string
	Attributes map[string]Value
}

// Edge is a connection between two vertices, referencing them by index.
// Direction is meaningful only if the owning Graph is directed; undirected
// edges are stored once but traversable from both endpoints via
// Graph.EdgesAt / Graph.Traversable.
type Edge struct {
	Index      int
	Origin     int
	Target     int
	Attributes map[string]Value
}
