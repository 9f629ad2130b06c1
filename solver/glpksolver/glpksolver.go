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

// Package glpksolver implements the GLPK back-end (solver.GLPK): a cgo
// binding driving GNU GLPK's branch-and-cut (glp_intopt, for programs with
// integer/binary variables) and primal simplex (glp_simplex, for the
// bipartite formulation's continuous relaxation).
//
// Grounded on costela/golpa's golp subpackage: branchcut.go's
// glp_intopt/glp_init_iocp call shape and simplex.go's
// glp_simplex/glp_init_smcp call shape, adapted into a single
// self-consistent *C.glp_prob-backed model (golp's own Model type mixed
// an lpsolve *C.lprec handle with these glp_* calls, which cannot work
// against a real glp_prob — a leftover of an abandoned experiment in the
// teacher repo — so this package builds its own glp_prob handle instead
// of reusing golp.Model).
package glpksolver

// #cgo LDFLAGS: -lglpk
// #include <glpk.h>
// #include <stdlib.h>
import "C"

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/program"
	"github.com/lerouge/gedmip/solver"
)

func init() {
	solver.Register(solver.GLPK, func() solver.Solver { return New() })
}

// Solver is a GLPK solver instance for one (query, target) pair. The
// matcher (package matcher) creates one per pair; the cut loop (package
// cut) then calls Load, Solve and ReadAssignment on it once per round.
type Solver struct {
	mu sync.Mutex

	prob      *C.glp_prob
	quadratic bool
	colOf     map[program.VarID]C.int
	varOf     []*program.Variable // indexed by column-1

	opts solver.ConfigureOptions

	mipSolved bool
}

// New creates an unloaded GLPK Solver.
func New() *Solver {
	s := &Solver{colOf: make(map[program.VarID]C.int)}
	return s
}

func finalizeSolver(s *Solver) {
	if s.prob != nil {
		C.glp_delete_prob(s.prob)
	}
}

// Load lowers p into a glp_prob. Quadratic programs are rejected: GLPK
// solves linear and mixed-integer-linear programs only, so the quadratic
// formulation (F2) must go through a back-end able to carry a quadratic
// objective (none is registered in this module; see solver.CPLEX/Gurobi's
// doc comments) or be linearized upstream before reaching GLPK.
func (s *Solver) Load(p *program.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.IsQuadratic() && p.Objective() != nil && p.Objective().IsQuadratic() {
		return gedmiperr.NewConfiguration("glpksolver.Load",
			fmt.Errorf("GLPK cannot carry a quadratic objective"))
	}

	s.prob = C.glp_create_prob()
	runtime.SetFinalizer(s, finalizeSolver)

	switch p.Sense() {
	case program.Minimize:
		C.glp_set_obj_dir(s.prob, C.GLP_MIN)
	case program.Maximize:
		C.glp_set_obj_dir(s.prob, C.GLP_MAX)
	}

	vars := p.Variables()
	if len(vars) > 0 {
		C.glp_add_cols(s.prob, C.int(len(vars)))
	}
	s.varOf = make([]*program.Variable, len(vars))
	for i, v := range vars {
		col := C.int(i + 1)
		s.colOf[v.ID()] = col
		s.varOf[i] = v

		lower, upper := v.Bounds()
		setColumnBounds(s.prob, col, lower, upper)

		switch v.Kind() {
		case program.Binary, program.BoundedInteger:
			C.glp_set_col_kind(s.prob, col, C.GLP_IV)
		case program.Continuous:
			C.glp_set_col_kind(s.prob, col, C.GLP_CV)
		}
	}

	if obj := p.Objective(); obj != nil {
		lin := obj.Linear()
		C.glp_set_obj_coef(s.prob, 0, C.double(lin.Constant()))
		for id, coef := range lin.Terms() {
			C.glp_set_obj_coef(s.prob, s.colOf[id], C.double(coef))
		}
	}

	constraints := p.LinearConstraints()
	if len(constraints) > 0 {
		C.glp_add_rows(s.prob, C.int(len(constraints)))
	}
	for i, c := range constraints {
		row := C.int(i + 1)
		lin := c.Expr().Linear()

		ind := make([]C.int, 0, len(lin.Terms())+1)
		val := make([]C.double, 0, len(lin.Terms())+1)
		ind = append(ind, 0)
		val = append(val, 0)
		for id, coef := range lin.Terms() {
			ind = append(ind, s.colOf[id])
			val = append(val, C.double(coef))
		}
		C.glp_set_mat_row(s.prob, row, C.int(len(ind)-1), &ind[0], &val[0])

		rhs := c.RHS() - lin.Constant()
		switch c.Relation() {
		case program.Equal:
			C.glp_set_row_bnds(s.prob, row, C.GLP_FX, C.double(rhs), C.double(rhs))
		case program.LessEq:
			C.glp_set_row_bnds(s.prob, row, C.GLP_UP, 0, C.double(rhs))
		case program.GreaterEq:
			C.glp_set_row_bnds(s.prob, row, C.GLP_LO, C.double(rhs), 0)
		}
	}

	return nil
}

func setColumnBounds(prob *C.glp_prob, col C.int, lower, upper float64) {
	switch {
	case isInf(lower, -1) && isInf(upper, 1):
		C.glp_set_col_bnds(prob, col, C.GLP_FR, 0, 0)
	case isInf(lower, -1):
		C.glp_set_col_bnds(prob, col, C.GLP_UP, 0, C.double(upper))
	case isInf(upper, 1):
		C.glp_set_col_bnds(prob, col, C.GLP_LO, C.double(lower), 0)
	case lower == upper:
		C.glp_set_col_bnds(prob, col, C.GLP_FX, C.double(lower), C.double(lower))
	default:
		C.glp_set_col_bnds(prob, col, C.GLP_DB, C.double(lower), C.double(upper))
	}
}

func isInf(x float64, sign int) bool {
	return (sign < 0 && x < -1e300) || (sign > 0 && x > 1e300)
}

// Configure applies search tuning. It must be called after Load.
func (s *Solver) Configure(opts solver.ConfigureOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prob == nil {
		return gedmiperr.NewConfiguration("glpksolver.Configure", fmt.Errorf("Load must be called first"))
	}
	s.opts = opts
	return nil
}

// Solve runs glp_simplex for a purely continuous program, or glp_simplex
// followed by glp_intopt (GLPK requires a solved LP relaxation as its
// branch-and-cut starting point) when any variable is integer/binary.
func (s *Solver) Solve(ctx context.Context) (solver.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prob == nil {
		return solver.StatusInfeasible, gedmiperr.NewSolver("glpksolver.Solve", fmt.Errorf("Load must be called first"))
	}
	if err := ctx.Err(); err != nil {
		return solver.StatusTimedOut, gedmiperr.NewSolver("glpksolver.Solve", err)
	}

	var smcp C.glp_smcp
	C.glp_init_smcp(&smcp)
	smcp.msg_lev = C.GLP_MSG_OFF
	if s.opts.TimeLimitSeconds > 0 {
		smcp.tm_lim = C.int(s.opts.TimeLimitSeconds * 1000)
	}
	if s.opts.Verbose {
		smcp.msg_lev = C.GLP_MSG_ON
	}

	if ret := C.glp_simplex(s.prob, &smcp); ret != 0 {
		return solver.StatusInfeasible, gedmiperr.NewSolver("glpksolver.Solve", fmt.Errorf("glp_simplex returned %d", int(ret)))
	}

	if !s.hasIntegerColumns() {
		s.mipSolved = false
		return statusFromSimplex(C.glp_get_status(s.prob)), nil
	}

	var iocp C.glp_iocp
	C.glp_init_iocp(&iocp)
	iocp.msg_lev = C.GLP_MSG_OFF
	if s.opts.TimeLimitSeconds > 0 {
		iocp.tm_lim = C.int(s.opts.TimeLimitSeconds * 1000)
	}
	if s.opts.MIPGap > 0 {
		iocp.mip_gap = C.double(s.opts.MIPGap)
	}
	if s.opts.Verbose {
		iocp.msg_lev = C.GLP_MSG_ON
	}

	ret := C.glp_intopt(s.prob, &iocp)
	s.mipSolved = true
	switch ret {
	case 0:
		return statusFromMIP(C.glp_mip_status(s.prob)), nil
	case C.GLP_ETMLIM:
		return solver.StatusTimedOut, nil
	default:
		return solver.StatusInfeasible, gedmiperr.NewSolver("glpksolver.Solve", fmt.Errorf("glp_intopt returned %d", int(ret)))
	}
}

func (s *Solver) hasIntegerColumns() bool {
	for _, v := range s.varOf {
		if v.Kind() != program.Continuous {
			return true
		}
	}
	return false
}

func statusFromSimplex(status C.int) solver.Status {
	switch status {
	case C.GLP_OPT:
		return solver.StatusOptimal
	case C.GLP_FEAS:
		return solver.StatusFeasible
	default:
		return solver.StatusInfeasible
	}
}

func statusFromMIP(status C.int) solver.Status {
	switch status {
	case C.GLP_OPT:
		return solver.StatusOptimal
	case C.GLP_FEAS:
		return solver.StatusFeasible
	default:
		return solver.StatusInfeasible
	}
}

// ReadAssignment reads back column values: glp_mip_col_val after a
// branch-and-cut solve, glp_get_col_prim after a pure simplex solve.
func (s *Solver) ReadAssignment() (map[program.VarID]float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prob == nil {
		return nil, 0, gedmiperr.NewSolver("glpksolver.ReadAssignment", fmt.Errorf("Load must be called first"))
	}

	values := make(map[program.VarID]float64, len(s.varOf))
	var objective float64
	if s.mipSolved {
		objective = float64(C.glp_mip_obj_val(s.prob))
		for i, v := range s.varOf {
			values[v.ID()] = float64(C.glp_mip_col_val(s.prob, C.int(i+1)))
		}
	} else {
		objective = float64(C.glp_get_obj_val(s.prob))
		for i, v := range s.varOf {
			values[v.ID()] = float64(C.glp_get_col_prim(s.prob, C.int(i+1)))
		}
	}
	return values, objective, nil
}

// SupportsQuadratic always reports false: GLPK's simplex/MIP API carries
// only linear objectives, the same restriction Load enforces.
func (s *Solver) SupportsQuadratic() bool { return false }
