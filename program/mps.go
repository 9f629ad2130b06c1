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

package program

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// WriteMPS serializes the Program's linear part to free-format MPS, the
// format solver/cbcsolver hands to the external cbc binary. Quadratic
// terms are not representable in MPS; WriteMPS returns an error if the
// Program carries any.
//
// MPS has no row for the objective's constant term, so it is dropped here;
// a GED objective folds its entire deletion/creation cost into that
// constant (formulation/linear.go), so any reader of this MPS file must
// add the constant back itself. solver/cbcsolver does so in
// applyObjectiveConstant, reading the constant straight off the Program
// rather than round-tripping it through MPS.
func (p *Program) WriteMPS(w io.Writer, name string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.quadratic && len(p.quad) > 0 {
		return fmt.Errorf("program: MPS format cannot represent quadratic constraints")
	}
	if obj, ok := p.objective.(*QuadExpr); ok && len(obj.Quad()) > 0 {
		return fmt.Errorf("program: MPS format cannot represent a quadratic objective")
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "NAME          %s\n", name)
	fmt.Fprintln(bw, "ROWS")
	fmt.Fprintln(bw, " N  COST")
	for _, c := range sortedConstraints(p.linear) {
		fmt.Fprintf(bw, " %s  c%d\n", mpsRowType(c.relation), c.id)
	}

	fmt.Fprintln(bw, "COLUMNS")
	objLin := objectiveLinear(p.objective)
	sense := 1.0
	if p.sense == Maximize {
		// MPS has no native "maximize"; cbc's convention (and the one most
		// readers expect) is to negate the objective and minimize.
		sense = -1.0
	}
	linCons := sortedConstraints(p.linear)
	inIntBlock := false
	markerSeq := 0
	for _, v := range p.vars {
		isInt := v.kind == Binary || v.kind == BoundedInteger
		if isInt && !inIntBlock {
			fmt.Fprintf(bw, "    MARKER                 'MARKER'                 'INTORG'\n")
			inIntBlock = true
			markerSeq++
		} else if !isInt && inIntBlock {
			fmt.Fprintf(bw, "    MARKER                 'MARKER'                 'INTEND'\n")
			inIntBlock = false
		}
		if c, ok := objLin.terms[v.id]; ok && c != 0 {
			fmt.Fprintf(bw, "    %s  COST  %g\n", v.name, c*sense)
		}
		for _, cons := range linCons {
			if c, ok := cons.expr.Linear().terms[v.id]; ok && c != 0 {
				fmt.Fprintf(bw, "    %s  c%d  %g\n", v.name, cons.id, c)
			}
		}
	}
	if inIntBlock {
		fmt.Fprintf(bw, "    MARKER                 'MARKER'                 'INTEND'\n")
	}

	fmt.Fprintln(bw, "RHS")
	for _, c := range linCons {
		fmt.Fprintf(bw, "    RHS  c%d  %g\n", c.id, c.rhs)
	}

	fmt.Fprintln(bw, "BOUNDS")
	for _, v := range p.vars {
		lo, up := v.Bounds()
		switch v.kind {
		case Binary:
			fmt.Fprintf(bw, " BV BND  %s\n", v.name)
		default:
			if math.IsInf(lo, -1) {
				fmt.Fprintf(bw, " MI BND  %s\n", v.name)
			} else {
				fmt.Fprintf(bw, " LO BND  %s  %g\n", v.name, lo)
			}
			if !math.IsInf(up, 1) {
				fmt.Fprintf(bw, " UP BND  %s  %g\n", v.name, up)
			}
		}
	}

	fmt.Fprintln(bw, "ENDATA")

	return bw.Flush()
}

// objectiveLinear returns the linear view of the program's objective,
// tolerating a nil objective (an empty LinearExpr).
func objectiveLinear(e Expression) *LinearExpr {
	if e == nil {
		return NewLinearExpr()
	}
	return e.Linear()
}

func mpsRowType(rel Relation) string {
	switch rel {
	case Equal:
		return "E"
	case LessEq:
		return "L"
	case GreaterEq:
		return "G"
	default:
		return "L"
	}
}
