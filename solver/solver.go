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

// Package solver is the plugin contract (C2) between the formulation
// engine's solver-neutral program.Program and a concrete MIP back-end.
// Back-ends register themselves by Backend name at init time (package
// solver/glpksolver and package solver/cbcsolver do so); nothing in this
// package or its callers imports a specific back-end directly.
//
// Grounded on costela/golpa's Model/Solve split generalized from "one
// hard-wired cgo back-end" to "any number of registered back-ends",
// following spec §4.2's requirement that back-ends be added without
// touching the formulation or cut-loop layers.
package solver

import (
	"context"
	"fmt"
	"sync"

	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/program"
)

// Backend names a solver implementation.
type Backend string

const (
	// GLPK is the open-source GNU Linear Programming Kit back-end
	// (package solver/glpksolver), driven via cgo.
	GLPK Backend = "glpk"
	// CBC is the COIN-OR CBC back-end (package solver/cbcsolver), driven
	// via an MPS file and an os/exec subprocess.
	CBC Backend = "cbc"
	// CPLEX names IBM ILOG CPLEX. Spec §4.2 lists it as a required
	// back-end, but no CPLEX Go binding exists anywhere in this
	// module's dependency pool, and CPLEX is proprietary, licensed
	// software this module cannot vendor or stub — so CPLEX is a valid
	// Backend constant with no registered factory; New(CPLEX) fails with
	// a ConfigurationError like any other unregistered name.
	CPLEX Backend = "cplex"
	// Gurobi names Gurobi Optimizer, in the same position as CPLEX.
	Gurobi Backend = "gurobi"
)

// Status is the outcome of a Solve call.
type Status int

const (
	// StatusOptimal means the solver proved optimality.
	StatusOptimal Status = iota
	// StatusFeasible means a feasible solution was found but optimality
	// was not proved (e.g. a time limit was hit with an incumbent in hand).
	StatusFeasible
	// StatusInfeasible means the solver proved no feasible solution exists.
	StatusInfeasible
	// StatusTimedOut means the solver's time limit elapsed with no
	// feasible solution found.
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// ConfigureOptions tunes a back-end's search before Solve is called.
type ConfigureOptions struct {
	// TimeLimitSeconds caps wall-clock solve time; 0 means no limit.
	TimeLimitSeconds float64
	// MIPGap is the relative optimality gap at which the solver may stop
	// early and report StatusFeasible; 0 means "solve to proven optimality".
	MIPGap float64
	// ThreadLimit caps the back-end's internal parallelism; 0 means
	// "back-end default".
	ThreadLimit int
	// Verbose asks the back-end to emit its own solve-trace logging.
	Verbose bool
}

// Solver is the plugin contract every back-end implements. A Solver
// instance is not safe for concurrent use: the job pool (package jobpool)
// creates one Solver per worker, not one shared across workers.
type Solver interface {
	// Load lowers p into this back-end's internal representation.
	Load(p *program.Program) error
	// Configure applies search tuning. Load must be called first.
	Configure(opts ConfigureOptions) error
	// Solve runs the back-end's search, honoring ctx cancellation
	// (a back-end that cannot interrupt mid-search must still check ctx
	// before starting and return promptly if it is already done).
	Solve(ctx context.Context) (Status, error)
	// ReadAssignment returns the variable values and objective value of
	// the most recent Solve call. They are meaningful only after a Solve
	// that returned StatusOptimal or StatusFeasible; a back-end need not
	// report an error when it is called at another time.
	ReadAssignment() (values map[program.VarID]float64, objective float64, err error)
	// SupportsQuadratic reports whether Load will accept a program whose
	// objective carries quadratic terms. config.Validate uses this to
	// reject a Quadratic formulation paired with a back-end that cannot
	// carry it (§6), rather than deferring the failure to the first Load
	// call in the job pool.
	SupportsQuadratic() bool
}

// Factory constructs a fresh, unconfigured Solver instance.
type Factory func() Solver

var (
	registryMu sync.RWMutex
	registry   = make(map[Backend]Factory)
)

// Register adds backend to the registry under name. Back-end packages
// call this from an init function; calling it twice for the same name
// replaces the previous factory (useful for tests that fake a back-end).
func Register(name Backend, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New constructs a fresh Solver for the given backend name. It fails with
// a ConfigurationError if no factory is registered under that name —
// which is always the case for solver.CPLEX and solver.Gurobi, neither of
// which this module can link against (see their doc comments).
func New(name Backend) (Solver, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, gedmiperr.NewConfiguration("solver.New",
			fmt.Errorf("no back-end registered under name %q", name))
	}
	return factory(), nil
}

// Registered reports whether a factory is currently registered under name.
func Registered(name Backend) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
