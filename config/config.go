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

// Package config realizes the §6 configuration enumeration as a single
// Options struct plus a Validate method, the boundary between whatever
// parses a config file or flag set and the rest of the engine
// (formulation, solver, cut, jobpool).
//
// Grounded on golpa's own small validate-before-use style (golpa.go checks
// its Model's state before calling into lp_solve rather than letting the
// cgo call fail opaquely); generalized here to a struct covering every
// knob §6 lists instead of one model's internal state.
package config

import (
	"fmt"

	"github.com/lerouge/gedmip/cut"
	"github.com/lerouge/gedmip/formulation"
	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/matcher"
	"github.com/lerouge/gedmip/solver"
)

// Options is the §6 configuration enumeration, realized 1:1.
type Options struct {
	// Kind selects the problem family: GED or SUB.
	Kind formulation.Kind
	// Formulation selects among LINEAR, QUADRATIC, BIPARTITE. Meaningful
	// only when Kind == GED; ignored for Kind == SUB, which always uses
	// the dedicated subgraph formulation (F4).
	Formulation matcher.Formulation
	// Tolerance selects EXACT, LABEL or TOPOLOGY. Meaningful only when
	// Kind == SUB.
	Tolerance formulation.Tolerance
	// Induced enforces induced-subgraph matching. Meaningful only when
	// Kind == SUB.
	Induced bool
	// Number of distinct solutions to enumerate via the cut loop.
	Number int
	// Cut selects the cut strategy driving the multi-solution loop.
	Cut cut.Strategy
	// UpperBound in [0,1] filters out vertex-substitution candidates
	// whose cost exceeds this fraction of a trivial upper estimate; 1.0
	// disables filtering.
	UpperBound float64
	// TimeLimit caps per-instance solve time in seconds; 0 means
	// unlimited.
	TimeLimit float64
	// Solver names the back-end every worker in the job pool uses.
	Solver solver.Backend
	// ParallelInstances is the job pool's worker count (P).
	ParallelInstances int
	// ThreadsPerInstance is the total solver-thread budget split across
	// ParallelInstances workers.
	ThreadsPerInstance int
}

// Validate enforces the combinations §6 documents, returning a
// ConfigurationError describing the first violation found. A zero-value
// Options never validates: every numeric knob below has a required
// positive or in-range value, so the caller must set them explicitly
// rather than relying on defaults.
func (o Options) Validate() error {
	if o.Kind != formulation.GED && o.Kind != formulation.SUB {
		return configErr("unknown kind %d", o.Kind)
	}

	if o.Kind == formulation.GED {
		switch o.Formulation {
		case matcher.Linear, matcher.Quadratic, matcher.Bipartite:
		default:
			return configErr("GED requires formulation LINEAR, QUADRATIC or BIPARTITE, got %d", o.Formulation)
		}
	}

	if o.Kind == formulation.SUB {
		switch o.Tolerance {
		case formulation.Exact, formulation.Label, formulation.Topology:
		default:
			return configErr("SUB requires tolerance EXACT, LABEL or TOPOLOGY, got %d", o.Tolerance)
		}
	} else if o.Induced {
		return configErr("induced matching only applies to kind SUB")
	}

	if o.Number < 1 {
		return configErr("number must be >= 1, got %d", o.Number)
	}

	switch o.Cut {
	case cut.SolutionCut, cut.MatchingCut, cut.ElementsCut:
	default:
		return configErr("unknown cut strategy %d", o.Cut)
	}

	if o.UpperBound < 0 || o.UpperBound > 1 {
		return configErr("upperbound must be in [0,1], got %g", o.UpperBound)
	}

	if o.TimeLimit < 0 {
		return configErr("timeLimit must be >= 0, got %g", o.TimeLimit)
	}

	s, err := solver.New(o.Solver)
	if err != nil {
		return gedmiperr.NewConfiguration("config.Validate", err)
	}

	if o.Kind == formulation.GED && o.Formulation == matcher.Quadratic && !s.SupportsQuadratic() {
		return configErr("back-end %q does not support a quadratic objective", o.Solver)
	}

	if o.ParallelInstances < 1 {
		return configErr("parallelInstances must be >= 1, got %d", o.ParallelInstances)
	}
	if o.ThreadsPerInstance < 1 {
		return configErr("threadsPerInstance must be >= 1, got %d", o.ThreadsPerInstance)
	}

	return nil
}

// MatcherOptions builds the matcher.Options this configuration describes,
// for callers (the job pool, cmd/gedmip) that drive a single pair or a
// batch through package matcher.
func (o Options) MatcherOptions() matcher.Options {
	formulationKind := o.Formulation
	if o.Kind == formulation.SUB {
		formulationKind = matcher.Subgraph
	}

	return matcher.Options{
		Formulation: formulationKind,
		FormulationOpts: formulation.Options{
			UpperBound: o.UpperBound,
			Induced:    o.Induced,
		},
		Tolerance:  o.Tolerance,
		Backend:    o.Solver,
		SolverOpts: solver.ConfigureOptions{TimeLimitSeconds: o.TimeLimit},
		Cut:        o.Cut,
		Number:     o.Number,
	}
}

func configErr(format string, args ...interface{}) error {
	return gedmiperr.NewConfiguration("config.Validate", fmt.Errorf(format, args...))
}
