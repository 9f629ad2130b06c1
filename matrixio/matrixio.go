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

// Package matrixio serializes the job pool's output: a distance matrix of
// pairwise matching objectives, and per-pair solution records (matched
// vertex/edge pairs plus objective value).
//
// Grounded on katalvlaran/lvlath/matrix's own dense-matrix row iteration
// (package matrix's Dense.String, which walks rows then columns building
// one line per row) — §6 asks for a whitespace-separated text format with
// a dimensions header, not the bracketed debug format Dense.String itself
// produces, so the row/column loop shape is reused but the formatting is
// rewritten for this spec's line format.
package matrixio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/katalvlaran/lvlath/matrix"

	"github.com/lerouge/gedmip/gedmiperr"
	"github.com/lerouge/gedmip/matcher"
)

// WriteDistanceMatrix writes m as a header line "rows cols" followed by
// one whitespace-separated row per line.
func WriteDistanceMatrix(w io.Writer, m *matrix.Dense) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d\n", m.Rows(), m.Cols()); err != nil {
		return gedmiperr.NewIO("matrixio.WriteDistanceMatrix", err)
	}

	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return gedmiperr.NewIO("matrixio.WriteDistanceMatrix", err)
			}
			sep := " "
			if j == 0 {
				sep = ""
			}
			if _, err := fmt.Fprintf(bw, "%s%g", sep, v); err != nil {
				return gedmiperr.NewIO("matrixio.WriteDistanceMatrix", err)
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return gedmiperr.NewIO("matrixio.WriteDistanceMatrix", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return gedmiperr.NewIO("matrixio.WriteDistanceMatrix", err)
	}
	return nil
}

// WriteSolutionRecord writes one text record for r: its status, objective
// value, matched vertex pairs and matched edge pairs, one field group per
// line. A result carrying an error writes the error message instead of a
// (meaningless) objective value.
func WriteSolutionRecord(w io.Writer, r matcher.Result) error {
	bw := bufio.NewWriter(w)

	if r.Err != nil {
		if _, err := fmt.Fprintf(bw, "status ERROR\nerror %v\n", r.Err); err != nil {
			return gedmiperr.NewIO("matrixio.WriteSolutionRecord", err)
		}
		return flushIO(bw)
	}

	if _, err := fmt.Fprintf(bw, "status %s\nobjective %g\n", r.Status, r.Objective); err != nil {
		return gedmiperr.NewIO("matrixio.WriteSolutionRecord", err)
	}

	if _, err := bw.WriteString("vertices"); err != nil {
		return gedmiperr.NewIO("matrixio.WriteSolutionRecord", err)
	}
	for _, pr := range r.Matching.Vertices {
		if _, err := fmt.Fprintf(bw, " %d:%d", pr[0], pr[1]); err != nil {
			return gedmiperr.NewIO("matrixio.WriteSolutionRecord", err)
		}
	}
	if _, err := bw.WriteString("\nedges"); err != nil {
		return gedmiperr.NewIO("matrixio.WriteSolutionRecord", err)
	}
	for _, pr := range r.Matching.Edges {
		if _, err := fmt.Fprintf(bw, " %d:%d", pr[0], pr[1]); err != nil {
			return gedmiperr.NewIO("matrixio.WriteSolutionRecord", err)
		}
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return gedmiperr.NewIO("matrixio.WriteSolutionRecord", err)
	}

	return flushIO(bw)
}

func flushIO(bw *bufio.Writer) error {
	if err := bw.Flush(); err != nil {
		return gedmiperr.NewIO("matrixio.flush", err)
	}
	return nil
}
