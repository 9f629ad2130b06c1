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
	"sort"
	"strings"
)

// WriteLP serializes the Program to the standard LP text format, for
// debugging and solver interoperability (spec §4.1, §6 "Program dump").
// No library in the retrieval pack emits LP text (golpa hands its model
// straight to lpsolve's C API and never serializes it), so this writer is
// built directly against bufio/fmt.
func (p *Program) WriteLP(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	bw := bufio.NewWriter(w)

	if p.sense == Maximize {
		fmt.Fprintln(bw, "Maximize")
	} else {
		fmt.Fprintln(bw, "Minimize")
	}
	fmt.Fprint(bw, " obj: ")
	writeExpr(bw, p.objective)
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Subject To")
	for _, c := range sortedConstraints(p.linear) {
		writeConstraintLine(bw, c)
	}
	for _, c := range sortedConstraints(p.quad) {
		writeConstraintLine(bw, c)
	}

	fmt.Fprintln(bw, "Bounds")
	for _, v := range p.vars {
		if v.kind == Binary {
			continue
		}
		lo, up := v.Bounds()
		switch {
		case math.IsInf(lo, -1) && math.IsInf(up, 1):
			fmt.Fprintf(bw, " %s free\n", v.name)
		case math.IsInf(up, 1):
			fmt.Fprintf(bw, " %s >= %g\n", v.name, lo)
		case math.IsInf(lo, -1):
			fmt.Fprintf(bw, " -inf <= %s <= %g\n", v.name, up)
		default:
			fmt.Fprintf(bw, " %g <= %s <= %g\n", lo, v.name, up)
		}
	}

	var binaries, generals []string
	for _, v := range p.vars {
		switch v.kind {
		case Binary:
			binaries = append(binaries, v.name)
		case BoundedInteger:
			generals = append(generals, v.name)
		}
	}
	if len(binaries) > 0 {
		fmt.Fprintln(bw, "Binaries")
		fmt.Fprintln(bw, " "+strings.Join(binaries, " "))
	}
	if len(generals) > 0 {
		fmt.Fprintln(bw, "General")
		fmt.Fprintln(bw, " "+strings.Join(generals, " "))
	}

	fmt.Fprintln(bw, "End")

	return bw.Flush()
}

func writeConstraintLine(bw *bufio.Writer, c *Constraint) {
	fmt.Fprintf(bw, " c%d: ", c.id)
	writeExpr(bw, c.expr)
	fmt.Fprintf(bw, " %s %g\n", c.relation, c.rhs)
}

func writeExpr(bw *bufio.Writer, e Expression) {
	if e == nil {
		fmt.Fprint(bw, "0")
		return
	}
	lin := e.Linear()
	first := true
	ids := sortedVarIDs(lin.terms)
	for _, id := range ids {
		coef := lin.terms[id]
		name := lin.vars[id].name
		writeTerm(bw, coef, name, &first)
	}
	if qe, ok := e.(*QuadExpr); ok {
		pairs := make([]VarPair, 0, len(qe.quad))
		for k := range qe.quad {
			pairs = append(pairs, k)
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i][0] != pairs[j][0] {
				return pairs[i][0] < pairs[j][0]
			}
			return pairs[i][1] < pairs[j][1]
		})
		for _, k := range pairs {
			coef := qe.quad[k]
			u, v := qe.vars[k[0]], qe.vars[k[1]]
			writeTerm(bw, coef, u.name+"*"+v.name, &first)
		}
	}
	if lin.constant != 0 || first {
		if !first && lin.constant >= 0 {
			fmt.Fprint(bw, " +")
		}
		fmt.Fprintf(bw, " %g", lin.constant)
		first = false
	}
}

func writeTerm(bw *bufio.Writer, coef float64, name string, first *bool) {
	if !*first {
		if coef >= 0 {
			fmt.Fprint(bw, " +")
		} else {
			fmt.Fprint(bw, " -")
		}
	} else if coef < 0 {
		fmt.Fprint(bw, "-")
	}
	fmt.Fprintf(bw, " %g %s", math.Abs(coef), name)
	*first = false
}

func sortedVarIDs(m map[VarID]float64) []VarID {
	ids := make([]VarID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
