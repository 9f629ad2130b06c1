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

package cbcsolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
)

// fakeCBC writes a shell script standing in for the real `cbc` binary: it
// prints a recognizable status line and drops a solution file at the path
// its caller passed via "-solution <path>", so Solve's parsing can be
// exercised without the real CBC executable installed.
func fakeCBC(t *testing.T, scriptBody string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cbc")
	require.NoError(t, os.WriteFile(path, []byte(scriptBody), 0o755))
	return path
}

func TestSolve_ParsesOptimalSolution(t *testing.T) {
	script := `#!/bin/sh
for i in "$@"; do
  prev=$cur
  cur=$i
  if [ "$prev" = "-solution" ]; then
    sol="$cur"
  fi
done
echo "Result - Optimal solution found"
printf 'Optimal - objective value 3\n' > "$sol"
printf '   0 v0             1\n' >> "$sol"
printf '   1 v1             0\n' >> "$sol"
exit 0
`
	old := Binary
	Binary = fakeCBC(t, script)
	defer func() { Binary = old }()

	p := program.New(program.Minimize, false)
	x := p.NewVariable(program.Binary, 0, 1)
	y := p.NewVariable(program.Binary, 0, 1)
	obj := program.NewLinearExpr()
	obj.AddTerm(x, 1)
	obj.AddTerm(y, 2)
	p.SetObjective(obj)

	s := New()
	require.NoError(t, s.Load(p))
	require.NoError(t, s.Configure(solver.ConfigureOptions{}))

	status, err := s.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, status)

	values, objective, err := s.ReadAssignment()
	require.NoError(t, err)
	assert.Equal(t, 3.0, objective)
	assert.Equal(t, 1.0, values[x.ID()])
	assert.Equal(t, 0.0, values[y.ID()])
}

func TestSolve_FoldsObjectiveConstantBackIn(t *testing.T) {
	// Mirrors a GED formulation (formulation/linear.go): the whole
	// deletion/creation cost sits in the constant, x's coefficient is
	// -2, and CBC only ever sees/reports the coefficient part.
	script := `#!/bin/sh
for i in "$@"; do
  prev=$cur
  cur=$i
  if [ "$prev" = "-solution" ]; then
    sol="$cur"
  fi
done
echo "Result - Optimal solution found"
printf 'Optimal - objective value -2\n' > "$sol"
printf '   0 v0             1\n' >> "$sol"
exit 0
`
	old := Binary
	Binary = fakeCBC(t, script)
	defer func() { Binary = old }()

	p := program.New(program.Minimize, false)
	x := p.NewVariable(program.Binary, 0, 1)
	obj := program.NewLinearExpr()
	obj.AddTerm(x, -2)
	obj.AddConst(2)
	p.SetObjective(obj)

	s := New()
	require.NoError(t, s.Load(p))
	require.NoError(t, s.Configure(solver.ConfigureOptions{}))

	status, err := s.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, status)

	_, objective, err := s.ReadAssignment()
	require.NoError(t, err)
	assert.Equal(t, 0.0, objective)
}

func TestSolve_FoldsObjectiveConstantBackInForMaximize(t *testing.T) {
	// WriteMPS negates every coefficient for a Maximize program; the
	// constant fold-back must undo that sign flip before adding the
	// constant, not after.
	script := `#!/bin/sh
for i in "$@"; do
  prev=$cur
  cur=$i
  if [ "$prev" = "-solution" ]; then
    sol="$cur"
  fi
done
echo "Result - Optimal solution found"
printf 'Optimal - objective value -5\n' > "$sol"
printf '   0 v0             1\n' >> "$sol"
exit 0
`
	old := Binary
	Binary = fakeCBC(t, script)
	defer func() { Binary = old }()

	p := program.New(program.Maximize, false)
	x := p.NewVariable(program.Binary, 0, 1)
	obj := program.NewLinearExpr()
	obj.AddTerm(x, 5)
	obj.AddConst(1)
	p.SetObjective(obj)

	s := New()
	require.NoError(t, s.Load(p))
	require.NoError(t, s.Configure(solver.ConfigureOptions{}))

	status, err := s.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, status)

	_, objective, err := s.ReadAssignment()
	require.NoError(t, err)
	assert.Equal(t, 6.0, objective)
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

func TestRegisteredUnderCBC(t *testing.T) {
	assert.True(t, solver.Registered(solver.CBC))
}

func TestParseStatus_Infeasible(t *testing.T) {
	assert.Equal(t, solver.StatusInfeasible, parseStatus("Result - Problem proven infeasible"))
}
