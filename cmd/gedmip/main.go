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

// Command gedmip wires a config.Options through to the matcher
// orchestrator and prints one solution record. The command-line option
// surface and graph file parsing are both out of scope (spec §1, "external
// collaborators, specified only at their boundary") — this main exists so
// `go build ./...` has an entry point and the wiring order (config ->
// weights -> matcher -> matrixio) is demonstrated end to end, the same
// role golpa.go's package-doc usage example plays for that library: a
// minimal, runnable sketch of the API, not a feature-complete tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/lerouge/gedmip/config"
	"github.com/lerouge/gedmip/cut"
	"github.com/lerouge/gedmip/formulation"
	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/graph"
	"github.com/lerouge/gedmip/internal/glog"
	"github.com/lerouge/gedmip/matcher"
	"github.com/lerouge/gedmip/matrixio"
	"github.com/lerouge/gedmip/solver"
	"github.com/lerouge/gedmip/weights"

	_ "github.com/lerouge/gedmip/solver/cbcsolver"
	_ "github.com/lerouge/gedmip/solver/glpksolver"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("gedmip", flag.ContinueOnError)
	fs.SetOutput(stderr)
	weightsPath := fs.String("weights", "", "path to a weights configuration file (empty: all weights zero)")
	backend := fs.String("solver", string(solver.GLPK), "back-end name (glpk, cbc)")
	timeLimit := fs.Float64("timelimit", 0, "per-instance solve time limit in seconds (0: unlimited)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	logger := glog.NewStandard()

	cfg, err := loadWeights(*weightsPath)
	if err != nil {
		logger.Errorf("%v", err)
		return exitCode(err)
	}

	opts := config.Options{
		Kind:               formulation.GED,
		Formulation:        matcher.Linear,
		Number:             1,
		Cut:                cut.SolutionCut,
		UpperBound:         1.0,
		TimeLimit:          *timeLimit,
		Solver:             solver.Backend(*backend),
		ParallelInstances:  1,
		ThreadsPerInstance: 1,
	}
	if err := opts.Validate(); err != nil {
		logger.Errorf("%v", err)
		return exitCode(err)
	}

	query, target := sampleGraphs()
	result := matcher.MatchGraph(context.Background(), query, target, cfg, opts.MatcherOptions())
	if err := matrixio.WriteSolutionRecord(stdout, result); err != nil {
		logger.Errorf("%v", err)
		return exitCode(err)
	}
	return 0
}

func loadWeights(path string) (weights.Config, error) {
	if path == "" {
		return weights.Config{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return weights.Config{}, gedmiperr.NewIO("gedmip.loadWeights", err)
	}
	defer f.Close()
	return weights.Parse(f)
}

// sampleGraphs builds the two-vertex, one-edge identical pair the wiring
// runs against, since graph file parsing is out of scope (§1).
func sampleGraphs() (*graph.Graph, *graph.Graph) {
	build := func() *graph.Graph {
		g := graph.New()
		g.AddVertex("a", nil)
		g.AddVertex("b", nil)
		_, _ = g.AddEdge(0, 1, nil)
		return g
	}
	return build(), build()
}

// exitCode always returns 1: every error path reaching main is one of
// ConfigurationError, InputError or IOError, each batch-fatal per §7.
func exitCode(err error) int {
	var (
		cfgErr *gedmiperr.ConfigurationError
		inErr  *gedmiperr.InputError
		ioErr  *gedmiperr.IOError
	)
	if !errors.As(err, &cfgErr) && !errors.As(err, &inErr) && !errors.As(err, &ioErr) {
		fmt.Fprintln(os.Stderr, err)
	}
	return 1
}
