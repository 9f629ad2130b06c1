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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVertex_DenseMonotonicIndices(t *testing.T) {
	g := New()
	a := g.AddVertex("a", nil)
	b := g.AddVertex("b", nil)

	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, 2, g.VertexCount())
}

func TestAddEdge_RejectsUnknownEndpoints(t *testing.T) {
	g := New()
	g.AddVertex("a", nil)

	_, err := g.AddEdge(0, 5, nil)
	assert.Error(t, err)
}

func TestEdgesAt_UndirectedBothEndpoints(t *testing.T) {
	g := New(WithDirected(false))
	a := g.AddVertex("a", nil)
	b := g.AddVertex("b", nil)
	e, err := g.AddEdge(a.Index, b.Index, nil)
	require.NoError(t, err)

	assert.Len(t, g.EdgesAt(a.Index), 1)
	assert.Len(t, g.EdgesAt(b.Index), 1)
	assert.Equal(t, e.Index, g.EdgesAt(a.Index)[0].Index)
}

func TestTraversable_DirectedRequiresOrder(t *testing.T) {
	g := New(WithDirected(true))
	a := g.AddVertex("a", nil)
	b := g.AddVertex("b", nil)
	e, err := g.AddEdge(a.Index, b.Index, nil)
	require.NoError(t, err)

	assert.True(t, g.Traversable(e, a.Index, b.Index))
	assert.False(t, g.Traversable(e, b.Index, a.Index))
}

func TestTraversable_UndirectedEitherOrder(t *testing.T) {
	g := New(WithDirected(false))
	a := g.AddVertex("a", nil)
	b := g.AddVertex("b", nil)
	e, err := g.AddEdge(a.Index, b.Index, nil)
	require.NoError(t, err)

	assert.True(t, g.Traversable(e, a.Index, b.Index))
	assert.True(t, g.Traversable(e, b.Index, a.Index))
}

func TestVertexByName(t *testing.T) {
	g := New()
	g.AddVertex("hello", nil)

	v, ok := g.VertexByName("hello")
	require.True(t, ok)
	assert.Equal(t, 0, v.Index)

	_, ok = g.VertexByName("missing")
	assert.False(t, ok)
}

func TestAttributesAreCloned(t *testing.T) {
	g := New()
	attrs := map[string]Value{"label": SymbolValue("x")}
	v := g.AddVertex("a", attrs)

	attrs["label"] = SymbolValue("mutated")
	assert.Equal(t, "x", v.Attributes["label"].Sym)
}
