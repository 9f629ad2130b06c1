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

// Package graph implements the attributed graph data model of §3: an
// in-memory directed or undirected graph whose vertices and edges carry a
// dense, monotonically assigned integer index and a mapping from attribute
// name to a typed value.
//
// Grounded on katalvlaran/lvlath/core (Graph guarded by separate
// sync.RWMutex locks for vertices and edges/adjacency, functional
// GraphOptions), adapted from lvlath's string-keyed vertices to the dense
// integer indices this spec's invariant requires ("indices are dense and
// monotonically assigned"); a side name->index table is kept for callers
// that still want to look vertices up by name.
package graph

import (
	"fmt"
	"sync"
)

// Option configures a Graph at construction time, mirroring
// lvlath/core's GraphOption / lvlath/builder's functional-option style.
type Option func(*Graph)

// WithDirected sets whether edges in this Graph are directed. Undirected
// is the default.
func WithDirected(directed bool) Option {
	return func(g *Graph) { g.directed = directed }
}

// Graph is the §3 attributed graph: an ordered sequence of vertices and
// edges, each with a stable integer index assigned at insertion. Removal
// is not implemented; the core never needs it.
type Graph struct {
	mu sync.RWMutex

	directed bool

	vertices  []*Vertex
	edges     []*Edge
	nameIndex map[string]int

	// adjacency[v] lists the indices, in edges, of every edge incident to
	// vertex v — both endpoints for undirected edges, origin only (plus a
	// reverse lookup) for directed ones, so EdgesAt always finds an edge
	// "traversable from both endpoints" per the spec invariant.
	adjacency map[int][]int
}

// New creates an empty Graph. By default the Graph is undirected; pass
// WithDirected(true) for a directed graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nameIndex: make(map[string]int),
		adjacency: make(map[int][]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Directed reports whether this Graph's edges are directed.
func (g *Graph) Directed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.directed
}

// AddVertex appends a new Vertex with the given name (may be empty) and
// attributes, returning its freshly assigned, dense index.
func (g *Graph) AddVertex(name string, attrs map[string]Value) *Vertex {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := len(g.vertices)
	v := &Vertex{Index: idx, Name: name, Attributes: cloneAttrs(attrs)}
	g.vertices = append(g.vertices, v)
	if name != "" {
		g.nameIndex[name] = idx
	}
	return v
}

// AddEdge appends a new Edge from origin to target with the given
// attributes. Both endpoints must already exist in this Graph (spec
// invariant: "the origin and target of every edge refer to vertices owned
// by the same graph").
func (g *Graph) AddEdge(origin, target int, attrs map[string]Value) (*Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if origin < 0 || origin >= len(g.vertices) {
		return nil, fmt.Errorf("graph: origin index %d out of range", origin)
	}
	if target < 0 || target >= len(g.vertices) {
		return nil, fmt.Errorf("graph: target index %d out of range", target)
	}

	idx := len(g.edges)
	e := &Edge{Index: idx, Origin: origin, Target: target, Attributes: cloneAttrs(attrs)}
	g.edges = append(g.edges, e)
	g.adjacency[origin] = append(g.adjacency[origin], idx)
	if origin != target {
		g.adjacency[target] = append(g.adjacency[target], idx)
	}
	return e, nil
}

// VertexCount returns the number of vertices in the Graph.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// EdgeCount returns the number of edges in the Graph.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Vertex returns the vertex at the given dense index.
func (g *Graph) Vertex(idx int) *Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if idx < 0 || idx >= len(g.vertices) {
		return nil
	}
	return g.vertices[idx]
}

// Edge returns the edge at the given dense index.
func (g *Graph) Edge(idx int) *Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if idx < 0 || idx >= len(g.edges) {
		return nil
	}
	return g.edges[idx]
}

// VertexByName looks a vertex up by the name given to AddVertex, if any.
func (g *Graph) VertexByName(name string) (*Vertex, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx, ok := g.nameIndex[name]
	if !ok {
		return nil, false
	}
	return g.vertices[idx], true
}

// Vertices returns a snapshot slice of the Graph's vertices, ordered by index.
func (g *Graph) Vertices() []*Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Edges returns a snapshot slice of the Graph's edges, ordered by index.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgesAt returns every edge incident to vertex idx, traversable from
// either endpoint when the Graph is undirected.
func (g *Graph) EdgesAt(idx int) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := g.adjacency[idx]
	out := make([]*Edge, len(ids))
	for i, id := range ids {
		out[i] = g.edges[id]
	}
	return out
}

// Traversable reports whether edge e can be read as going from `from` to
// `to`. In a directed graph this requires e.Origin==from && e.Target==to.
// In an undirected graph either orientation of e's endpoints satisfies it.
func (g *Graph) Traversable(e *Edge, from, to int) bool {
	if e.Origin == from && e.Target == to {
		return true
	}
	if !g.Directed() && e.Origin == to && e.Target == from {
		return true
	}
	return false
}

func cloneAttrs(attrs map[string]Value) map[string]Value {
	out := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
