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

// Package jobpool is the parallel job pool (C7): it drives a batch of
// (query, target) graph pairs through the matcher orchestrator (C6)
// across a worker pool, and assembles the pairwise objectives into a
// distance matrix.
//
// Grounded on the functional-options idiom of golpa/option.go
// (generalized here to Pool construction rather than Model construction)
// for the logger knob, and on the sync.WaitGroup-coordinated concurrency
// style of katalvlaran/lvlath/core/concurrency_test.go for the
// worker-pool shape itself — neither golpa (single-model, no pool) nor
// lvlath (single-threaded graph algorithms) ships a worker pool directly,
// so the channel + WaitGroup construction here is
// original to this spec, built from the pack's general concurrency idiom
// rather than adapted from one specific pool implementation.
package jobpool

import (
	"context"
	"errors"
	"sync"

	"github.com/katalvlaran/lvlath/matrix"

	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/graph"
	"github.com/lerouge/gedmip/internal/glog"
	"github.com/lerouge/gedmip/matcher"
	"github.com/lerouge/gedmip/solver"
	"github.com/lerouge/gedmip/weights"
)

var (
	errInvalidPoolSize = errors.New("parallelInstances and threadsPerInstance must be positive")
	errNoBackends      = errors.New("at least one backend must be given")
)

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLogger sets the Pool's logger; the default is glog.Noop.
func WithLogger(l glog.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// Pool drives batches of graph pairs through the matcher orchestrator
// across a fixed set of worker goroutines.
type Pool struct {
	backends           []solver.Backend
	parallelInstances  int
	threadsPerInstance int
	logger             glog.Logger
}

// New constructs a Pool, probing every named backend via solver.New so a
// misconfigured or unregistered backend fails before any job runs (§4.2:
// Configuration errors are batch-fatal). parallelInstances and
// threadsPerInstance must both be positive.
func New(backends []solver.Backend, parallelInstances, threadsPerInstance int, opts ...Option) (*Pool, error) {
	if parallelInstances <= 0 || threadsPerInstance <= 0 {
		return nil, gedmiperr.NewConfiguration("jobpool.New",
			errInvalidPoolSize)
	}
	if len(backends) == 0 {
		return nil, gedmiperr.NewConfiguration("jobpool.New", errNoBackends)
	}
	for _, b := range backends {
		if _, err := solver.New(b); err != nil {
			return nil, gedmiperr.NewConfiguration("jobpool.New", err)
		}
	}

	p := &Pool{
		backends:           backends,
		parallelInstances:  parallelInstances,
		threadsPerInstance: threadsPerInstance,
		logger:             glog.Noop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// job is one (query index, target index) pair to match.
type job struct {
	qi, ki int
	query  *graph.Graph
	target *graph.Graph
}

// Run enumerates every (g[i], gPrime[k]) pair, matches each across
// p.parallelInstances worker goroutines, and returns the assembled
// distance matrix. When g and gPrime are the same slice (pointer-compared,
// i.e. the caller passed one slice for both), only the upper triangle
// (i <= k) is enqueued, and the worker that computes cell (i,k) also
// writes its twin (k,i), so the lower triangle is filled by symmetry
// without a second pass (spec §8 "matrix symmetry").
func (p *Pool) Run(ctx context.Context, g, gPrime []*graph.Graph, cfg weights.Config, matchOpts matcher.Options) (*matrix.Dense, error) {
	n, nPrime := len(g), len(gPrime)
	m, err := matrix.NewDense(n, nPrime)
	if err != nil {
		return nil, gedmiperr.NewIO("jobpool.Run", err)
	}

	symmetric := samePairSlice(g, gPrime)

	jobs := make(chan job, n*nPrime)
	for i := 0; i < n; i++ {
		upper := nPrime
		start := 0
		if symmetric {
			start = i
		}
		for k := start; k < upper; k++ {
			jobs <- job{qi: i, ki: k, query: g[i], target: gPrime[k]}
		}
	}
	close(jobs)

	perWorkerThreads := p.threadsPerInstance / p.parallelInstances
	if perWorkerThreads < 1 {
		perWorkerThreads = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < p.parallelInstances; w++ {
		wg.Add(1)
		go func(workerIndex int) {
			defer wg.Done()
			backend := p.backends[workerIndex%len(p.backends)]
			opts := matchOpts
			opts.Backend = backend
			opts.SolverOpts.ThreadLimit = perWorkerThreads

			for jb := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				result := matcher.MatchGraph(ctx, jb.query, jb.target, cfg, opts)
				if result.Err != nil {
					p.logger.Warnf("pair (%d,%d) failed: %v", jb.qi, jb.ki, result.Err)
				}

				// Each worker only ever writes cells whose (qi,ki) it was
				// handed, and the symmetric twin of its own cell — no two
				// workers ever write the same cell, so no lock is needed;
				// wg.Wait() below provides the happens-before edge that
				// makes every write visible once Run returns.
				_ = m.Set(jb.qi, jb.ki, result.Objective)
				if symmetric && jb.qi != jb.ki {
					_ = m.Set(jb.ki, jb.qi, result.Objective)
				}
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return m, gedmiperr.NewSolver("jobpool.Run", err)
	}
	return m, nil
}

// samePairSlice reports whether g and gPrime are the same backing slice
// (pointer-compared the way lvlath's own builders compare graph
// identity), which licenses the upper-triangle-only optimization.
func samePairSlice(g, gPrime []*graph.Graph) bool {
	if len(g) != len(gPrime) {
		return false
	}
	if len(g) == 0 {
		return false
	}
	return &g[0] == &gPrime[0]
}
