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

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerouge/gedmip/cut"
	"github.com/lerouge/gedmip/formulation"
	"github.com/lerouge/gedmip/matcher"
	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
)

// fakeLinearSolver stands in for a registered back-end that cannot carry
// a quadratic objective, the same restriction both real back-ends enforce.
type fakeLinearSolver struct{}

func (fakeLinearSolver) Load(*program.Program) error                         { return nil }
func (fakeLinearSolver) Configure(solver.ConfigureOptions) error             { return nil }
func (fakeLinearSolver) SupportsQuadratic() bool                            { return false }
func (fakeLinearSolver) Solve(context.Context) (solver.Status, error)        { return solver.StatusOptimal, nil }
func (fakeLinearSolver) ReadAssignment() (map[program.VarID]float64, float64, error) {
	return map[program.VarID]float64{}, 0, nil
}

func validOptions(backend solver.Backend) Options {
	return Options{
		Kind:               formulation.GED,
		Formulation:        matcher.Linear,
		Number:             1,
		Cut:                cut.SolutionCut,
		UpperBound:         1.0,
		TimeLimit:          0,
		Solver:             backend,
		ParallelInstances:  1,
		ThreadsPerInstance: 1,
	}
}

func TestValidate_AcceptsWellFormedGEDOptions(t *testing.T) {
	const backend solver.Backend = "config-test-linear"
	solver.Register(backend, func() solver.Solver { return fakeLinearSolver{} })

	assert.NoError(t, validOptions(backend).Validate())
}

func TestValidate_AcceptsWellFormedSUBOptions(t *testing.T) {
	const backend solver.Backend = "config-test-sub"
	solver.Register(backend, func() solver.Solver { return fakeLinearSolver{} })

	o := validOptions(backend)
	o.Kind = formulation.SUB
	o.Tolerance = formulation.Label
	o.Induced = true
	require.NoError(t, o.Validate())
}

func TestValidate_RejectsQuadraticAgainstNonQuadraticBackend(t *testing.T) {
	const backend solver.Backend = "config-test-quad"
	solver.Register(backend, func() solver.Solver { return fakeLinearSolver{} })

	o := validOptions(backend)
	o.Formulation = matcher.Quadratic
	assert.Error(t, o.Validate())
}

func TestValidate_RejectsInducedOnGEDKind(t *testing.T) {
	const backend solver.Backend = "config-test-induced"
	solver.Register(backend, func() solver.Solver { return fakeLinearSolver{} })

	o := validOptions(backend)
	o.Induced = true
	assert.Error(t, o.Validate())
}

func TestValidate_RejectsUnregisteredBackend(t *testing.T) {
	o := validOptions("never-registered-for-config")
	assert.Error(t, o.Validate())
}

func TestValidate_RejectsOutOfRangeUpperBound(t *testing.T) {
	const backend solver.Backend = "config-test-upperbound"
	solver.Register(backend, func() solver.Solver { return fakeLinearSolver{} })

	o := validOptions(backend)
	o.UpperBound = 1.5
	assert.Error(t, o.Validate())
}

func TestValidate_RejectsZeroNumber(t *testing.T) {
	const backend solver.Backend = "config-test-number"
	solver.Register(backend, func() solver.Solver { return fakeLinearSolver{} })

	o := validOptions(backend)
	o.Number = 0
	assert.Error(t, o.Validate())
}

func TestMatcherOptions_SUBKindOverridesFormulationToSubgraph(t *testing.T) {
	const backend solver.Backend = "config-test-matcher-opts"
	solver.Register(backend, func() solver.Solver { return fakeLinearSolver{} })

	o := validOptions(backend)
	o.Kind = formulation.SUB
	o.Tolerance = formulation.Exact

	mo := o.MatcherOptions()
	assert.Equal(t, matcher.Subgraph, mo.Formulation)
	assert.Equal(t, formulation.Exact, mo.Tolerance)
	assert.Equal(t, backend, mo.Backend)
}
