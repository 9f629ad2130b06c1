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

// Package formulation builds, from a matching problem (query, target,
// cost tables) plus a requested formulation kind and tolerance, a concrete
// program.Program encoding that problem — C4, the centerpiece of the
// matching engine (spec §2: 35% share).
//
// Grounded on spec §4.4's four formulations, cross-checked against
// original_source/src/GEM++/IntegerProgramming/QuadProgram.h for the
// quadratic-objective shape GEM++ itself used.
package formulation

import (
	"github.com/lerouge/gedmip/cost"
	"github.com/lerouge/gedmip/graph"
	"github.com/lerouge/gedmip/program"
)

// Problem is a value object carrying the matching instance to formulate:
// kind, query/target graphs and their cost tables (spec §3 "Problem").
type Problem struct {
	Kind   Kind
	Query  *graph.Graph
	Target *graph.Graph
	Costs  cost.Tables
}

// Kind distinguishes the two problem families §1 names.
type Kind int

const (
	// GED is graph edit distance.
	GED Kind = iota
	// SUB is subgraph matching.
	SUB
)

// Tolerance is the subgraph-matching tolerance level of F4.
type Tolerance int

const (
	// Exact requires a target edge for every query edge.
	Exact Tolerance = iota
	// Label requires a target edge but absorbs label mismatch into cost.
	Label
	// Topology makes the edge-existence constraint soft via a penalty
	// variable capped by the edge creation cost.
	Topology
)

// Options configures any of the four formulations.
type Options struct {
	// UpperBound in [0,1] filters out vertex-substitution pairs whose cost
	// exceeds UpperBound times a trivial upper estimate (CvMinus[i] +
	// CvPlus[k]; F4, which never deletes a query vertex, uses CvPlus[k]
	// alone). 1.0 disables filtering.
	UpperBound float64
	// Induced enforces induced-subgraph matching for F4: forbid any
	// target edge between matched target vertices with no corresponding
	// query edge.
	Induced bool
}

// pair is an (query index, target index) key, reused for both vertex and
// edge candidate pairs.
type pair = [2]int

// VarIndex records which (i,k) vertex-matching variables and (ij,kl)
// edge-matching variables a formulation actually created — cost filtering
// means not every pair gets a variable — so that the cut loop (package
// cut) and the matcher (package matcher) can read an assignment back into
// matched vertex/edge pairs without re-deriving the filtering decision.
type VarIndex struct {
	N, NPrime int
	M, MPrime int

	x map[pair]*program.Variable
	y map[pair]*program.Variable
}

func newVarIndex(n, nPrime, m, mPrime int) *VarIndex {
	return &VarIndex{
		N: n, NPrime: nPrime, M: m, MPrime: mPrime,
		x: make(map[pair]*program.Variable),
		y: make(map[pair]*program.Variable),
	}
}

// X returns the variable matching query vertex i to target vertex k, if
// one was created (it may not have been, due to cost filtering).
func (vi *VarIndex) X(i, k int) (*program.Variable, bool) {
	v, ok := vi.x[pair{i, k}]
	return v, ok
}

// Y returns the variable matching query edge ij to target edge kl, if one
// was created.
func (vi *VarIndex) Y(ij, kl int) (*program.Variable, bool) {
	v, ok := vi.y[pair{ij, kl}]
	return v, ok
}

// XPairs returns every (i,k) pair with a created variable.
func (vi *VarIndex) XPairs() [][2]int {
	out := make([][2]int, 0, len(vi.x))
	for p := range vi.x {
		out = append(out, p)
	}
	return out
}

// YPairs returns every (ij,kl) pair with a created variable.
func (vi *VarIndex) YPairs() [][2]int {
	out := make([][2]int, 0, len(vi.y))
	for p := range vi.y {
		out = append(out, p)
	}
	return out
}

// Decode reads a variable-value assignment (as produced by a solver's
// ReadAssignment, unrounded) into matched vertex and edge pairs, counting
// a variable as matched when its value exceeds 0.5.
func (vi *VarIndex) Decode(values map[program.VarID]float64) (vertices, edges [][2]int) {
	for p, v := range vi.x {
		if values[v.ID()] > 0.5 {
			vertices = append(vertices, [2]int{p[0], p[1]})
		}
	}
	for p, v := range vi.y {
		if values[v.ID()] > 0.5 {
			edges = append(edges, [2]int{p[0], p[1]})
		}
	}
	return vertices, edges
}

// withinBudget applies the §4.4 cost-filtering rule: a pair (i,k) is
// excluded when its substitution cost exceeds opts.UpperBound times the
// trivial upper estimate of deleting i and creating k. opts.UpperBound ==
// 1.0 disables filtering entirely.
func withinBudget(c, cvMinusI, cvPlusK, upperBound float64) bool {
	if upperBound >= 1.0 {
		return true
	}
	trivial := cvMinusI + cvPlusK
	return c <= upperBound*trivial
}
