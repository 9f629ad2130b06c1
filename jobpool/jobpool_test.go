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

package jobpool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerouge/gedmip/graph"
	"github.com/lerouge/gedmip/matcher"
	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
	"github.com/lerouge/gedmip/weights"
)

// fakeZeroSolver reports an empty match as optimal with objective 0,
// exactly once per Load, standing in for a real back-end so Pool.Run can
// be exercised without cgo or an external process.
type fakeZeroSolver struct{ solved bool }

func (f *fakeZeroSolver) Load(*program.Program) error         { f.solved = false; return nil }
func (f *fakeZeroSolver) Configure(solver.ConfigureOptions) error { return nil }
func (f *fakeZeroSolver) SupportsQuadratic() bool             { return false }

func (f *fakeZeroSolver) Solve(context.Context) (solver.Status, error) {
	if f.solved {
		return solver.StatusInfeasible, nil
	}
	f.solved = true
	return solver.StatusOptimal, nil
}

func (f *fakeZeroSolver) ReadAssignment() (map[program.VarID]float64, float64, error) {
	return map[program.VarID]float64{}, 0, nil
}

func smallGraph(t *testing.T, name string) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddVertex(name+"-0", nil)
	return g
}

func TestNew_RejectsUnregisteredBackend(t *testing.T) {
	_, err := New([]solver.Backend{"never-registered-for-jobpool"}, 2, 4)
	assert.Error(t, err)
}

func TestNew_RejectsNonPositiveSizes(t *testing.T) {
	const backend solver.Backend = "jobpool-test-fake"
	solver.Register(backend, func() solver.Solver { return &fakeZeroSolver{} })

	_, err := New([]solver.Backend{backend}, 0, 4)
	assert.Error(t, err)
}

func TestPool_Run_SquareMatrixSymmetricWhenSameSlice(t *testing.T) {
	const backend solver.Backend = "jobpool-test-fake-2"
	solver.Register(backend, func() solver.Solver { return &fakeZeroSolver{} })

	pool, err := New([]solver.Backend{backend}, 2, 4)
	require.NoError(t, err)

	graphs := []*graph.Graph{smallGraph(t, "a"), smallGraph(t, "b"), smallGraph(t, "c")}
	cfg := weights.Config{}
	opts := matcher.Options{Formulation: matcher.Linear, Number: 1}

	m, err := pool.Run(context.Background(), graphs, graphs, cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())

	v01, err := m.At(0, 1)
	require.NoError(t, err)
	v10, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, v01, v10)
}

func TestPool_Run_RectangularMatrixForDistinctSlices(t *testing.T) {
	const backend solver.Backend = "jobpool-test-fake-3"
	solver.Register(backend, func() solver.Solver { return &fakeZeroSolver{} })

	pool, err := New([]solver.Backend{backend}, 1, 1)
	require.NoError(t, err)

	g1 := []*graph.Graph{smallGraph(t, "a"), smallGraph(t, "b")}
	g2 := []*graph.Graph{smallGraph(t, "x")}
	cfg := weights.Config{}
	opts := matcher.Options{Formulation: matcher.Linear, Number: 1}

	m, err := pool.Run(context.Background(), g1, g2, cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 1, m.Cols())
}
