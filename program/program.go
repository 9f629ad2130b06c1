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

// Package program is the solver-neutral binary (and, where needed,
// quadratic) integer program: variables, linear/quadratic expressions,
// linear/quadratic constraints, an objective, and bounds. It is the C1
// component of the matching engine: the formulation engine (package
// formulation) builds one of these once per (query, target) pair, and
// the solver abstraction (package solver) lowers it to a concrete
// back-end.
//
// Grounded on costela/golpa's Model (variables + constraints + objective
// fused with a cgo handle) with the cgo handle removed: golpa has exactly
// one back-end so fusing model-building and solving costs nothing, but
// this spec requires the two to be separate layers (solver back-ends are
// plugins onto an already-built program), so Program here is pure data.
package program

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Sense is the optimization direction of a Program.
type Sense int

const (
	// Minimize directs the solver to minimize the objective.
	Minimize Sense = iota
	// Maximize directs the solver to maximize the objective.
	Maximize
)

// Program is (sense, objective expression, set of linear constraints, set
// of quadratic constraints (empty for linear programs), set of variables).
// A Program is safe for concurrent read access once built; building is
// expected to happen single-threaded from one goroutine (the formulation
// engine), matching the lifecycle description in spec §5 ("a program owns
// its variables, constraints, and expressions").
type Program struct {
	mu sync.RWMutex

	sense     Sense
	quadratic bool

	nextVarID        uint64
	nextConstraintID uint64

	vars   []*Variable
	varSet map[VarID]*Variable

	objective Expression

	linear map[uint64]*Constraint
	quad   map[uint64]*Constraint
}

// New creates an empty program with the given sense. quadratic is the flag
// IsQuadratic reports; NewQuadConstraint and SetObjective do not check it,
// so keeping quadratic parts out of a linear program is left to the
// formulation engine, the only caller, which knows in advance which kind
// it is building.
func New(sense Sense, quadratic bool) *Program {
	return &Program{
		sense:     sense,
		quadratic: quadratic,
		varSet:    make(map[VarID]*Variable),
		linear:    make(map[uint64]*Constraint),
		quad:      make(map[uint64]*Constraint),
	}
}

// Sense returns the Program's optimization direction.
func (p *Program) Sense() Sense {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sense
}

// IsQuadratic reports whether this Program may carry quadratic terms.
func (p *Program) IsQuadratic() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.quadratic
}

// NewVariable creates and registers a new Variable of the given kind and
// bounds. Binary variables always get bounds [0,1] regardless of what is
// passed.
func (p *Program) NewVariable(kind VarKind, lower, upper float64) *Variable {
	return p.NewNamedVariable("", kind, lower, upper)
}

// NewNamedVariable is NewVariable with an explicit name; an empty name is
// replaced by an automatically generated one, same as golpa.AddVariable.
func (p *Program) NewNamedVariable(name string, kind VarKind, lower, upper float64) *Variable {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := VarID(atomic.AddUint64(&p.nextVarID, 1) - 1)
	v := newVariable(id, name, kind, lower, upper)
	p.vars = append(p.vars, v)
	p.varSet[id] = v
	return v
}

// register records that v has been referenced by a constraint or the
// objective. A Variable is implicitly part of the Program the first time
// this happens; re-registering an already-known variable is a no-op.
// Variables are always created via NewVariable, so register here only
// guards against a Variable being shared across two Programs by mistake.
func (p *Program) register(v *Variable) {
	if v == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.varSet[v.id]; ok {
		return
	}
	p.varSet[v.id] = v
	p.vars = append(p.vars, v)
}

// Variables returns a snapshot slice of the Program's variables, ordered by
// creation (insertion) order.
func (p *Program) Variables() []*Variable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Variable, len(p.vars))
	copy(out, p.vars)
	return out
}

// Variable looks up a Variable by id.
func (p *Program) Variable(id VarID) (*Variable, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.varSet[id]
	return v, ok
}

// SetObjective attaches the Program's objective expression. Calling this a
// second time replaces, rather than augments, the previous objective (spec
// guarantee).
func (p *Program) SetObjective(e Expression) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registerExprVarsLocked(e)
	p.objective = e
}

// Objective returns the Program's current objective expression, or nil if
// none has been set.
func (p *Program) Objective() Expression {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.objective
}

// NewLinearConstraint builds, registers and returns a new linear
// constraint with a fresh, Program-scoped id.
func (p *Program) NewLinearConstraint(e *LinearExpr, rel Relation, rhs float64) *Constraint {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := atomic.AddUint64(&p.nextConstraintID, 1) - 1
	c := &Constraint{id: id, expr: e, relation: rel, rhs: rhs}
	p.registerExprVarsLocked(e)
	p.linear[id] = c
	return c
}

// NewQuadConstraint builds, registers and returns a new quadratic
// constraint with a fresh, Program-scoped id.
func (p *Program) NewQuadConstraint(e *QuadExpr, rel Relation, rhs float64) *Constraint {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := atomic.AddUint64(&p.nextConstraintID, 1) - 1
	c := &Constraint{id: id, expr: e, relation: rel, rhs: rhs}
	p.registerExprVarsLocked(e)
	p.quad[id] = c
	return c
}

// AddConstraint adds an already-built Constraint to the Program. Adding a
// constraint whose id is already registered is a no-op (spec guarantee).
func (p *Program) AddConstraint(c *Constraint) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.IsQuadratic() {
		if _, ok := p.quad[c.id]; ok {
			return
		}
		p.quad[c.id] = c
	} else {
		if _, ok := p.linear[c.id]; ok {
			return
		}
		p.linear[c.id] = c
	}
	p.registerExprVarsLocked(c.expr)
}

// LinearConstraints returns the Program's linear constraints, ordered by id.
func (p *Program) LinearConstraints() []*Constraint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedConstraints(p.linear)
}

// QuadConstraints returns the Program's quadratic constraints, ordered by id.
func (p *Program) QuadConstraints() []*Constraint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedConstraints(p.quad)
}

func sortedConstraints(m map[uint64]*Constraint) []*Constraint {
	out := make([]*Constraint, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// registerExprVarsLocked registers every variable referenced by e into the
// Program's variable set. Callers must hold p.mu for writing.
func (p *Program) registerExprVarsLocked(e Expression) {
	if e == nil {
		return
	}
	for id, v := range e.Linear().Vars() {
		if _, ok := p.varSet[id]; !ok {
			p.varSet[id] = v
			p.vars = append(p.vars, v)
		}
	}
	if qe, ok := e.(*QuadExpr); ok {
		for id, v := range qe.vars {
			if _, ok := p.varSet[id]; !ok {
				p.varSet[id] = v
				p.vars = append(p.vars, v)
			}
		}
	}
}
