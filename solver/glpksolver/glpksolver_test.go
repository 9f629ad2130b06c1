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

package glpksolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
)

// This package requires the system GLPK library (libglpk) to link; it
// mirrors golp's own cgo test style (plain construct-solve-assert, no
// table-driven fixtures) rather than the pure-Go packages' testify tables.

func TestSolve_SimpleBinaryAssignment(t *testing.T) {
	p := program.New(program.Minimize, false)
	x := p.NewVariable(program.Binary, 0, 1)
	y := p.NewVariable(program.Binary, 0, 1)

	obj := program.NewLinearExpr()
	obj.AddTerm(x, 1)
	obj.AddTerm(y, 2)
	p.SetObjective(obj)

	expr := program.NewLinearExpr()
	expr.AddTerm(x, 1)
	expr.AddTerm(y, 1)
	p.NewLinearConstraint(expr, program.Equal, 1)

	s := New()
	require.NoError(t, s.Load(p))
	require.NoError(t, s.Configure(solver.ConfigureOptions{}))

	status, err := s.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, status)

	values, objective, err := s.ReadAssignment()
	require.NoError(t, err)
	assert.Equal(t, 1.0, objective)
	assert.Equal(t, 1.0, values[x.ID()])
	assert.Equal(t, 0.0, values[y.ID()])
}

func TestSolve_RejectsQuadraticObjective(t *testing.T) {
	p := program.New(program.Minimize, true)
	x := p.NewVariable(program.Binary, 0, 1)
	y := p.NewVariable(program.Binary, 0, 1)
	obj := program.NewQuadExpr()
	obj.AddQuadTerm(x, y, 1)
	p.SetObjective(obj)

	s := New()
	err := s.Load(p)
	assert.Error(t, err)
}

func TestRegisteredUnderGLPK(t *testing.T) {
	assert.True(t, solver.Registered(solver.GLPK))
}
