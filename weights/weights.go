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

// Package weights parses the weights configuration (§3, §6): a pair of
// attribute-weight tables (substitution and creation) for vertices and for
// edges, loaded from a line-oriented text format. Each table maps
// attribute name -> (kind, weight); a distinguished "constant" entry
// always exists and contributes a base cost.
//
// No example repo in the retrieval pack parses this bespoke format (the
// GML/GXL graph parsers are a different, out-of-scope format per §1), so
// Parse is built directly against bufio.Scanner, the same low-ceremony
// approach golpa itself uses for its own small option/logging surfaces.
package weights

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lerouge/gedmip/gedmiperr"
)

// EntryKind is the comparison rule a weights Table entry applies.
type EntryKind int

const (
	// NumericDifference entries contribute weight * |x - y|.
	NumericDifference EntryKind = iota
	// SymbolEquality entries contribute weight * (0 if equal else 1).
	SymbolEquality
	// Constant entries contribute a flat base cost, independent of any
	// graph attribute.
	Constant
)

// ConstantKey is the attribute name reserved for a Table's distinguished
// constant entry.
const ConstantKey = "__constant__"

// Entry is one row of a weights Table: a kind, its weight, and (for
// NumericDifference entries only) the default contribution used when the
// attribute is missing on one side of a pair (§4.3 edge case).
type Entry struct {
	Kind    EntryKind
	Weight  float64
	Default float64
}

// Table maps attribute name -> Entry. ConstantKey is always present once a
// Table has been parsed from a well-formed record set.
type Table map[string]Entry

// ConstantCost returns the Table's distinguished constant cost, or 0 if
// the table carries none.
func (t Table) ConstantCost() float64 {
	if e, ok := t[ConstantKey]; ok {
		return e.Weight
	}
	return 0
}

// Config is the full weights configuration: substitution and creation
// tables for vertices and for edges.
type Config struct {
	VertexSub    Table
	VertexCreate Table
	EdgeSub      Table
	EdgeCreate   Table
}

// element and scope name the first two fields of a weights record.
type element string
type scope string

const (
	elementVertex element = "vertex"
	elementEdge   element = "edge"

	scopeSub    scope = "sub"
	scopeCreate scope = "create"
)

// Parse reads the line-oriented weights format: one
// "<element> <scope> <attribute> <kind> <weight> [default]" record per
// line. <attribute> is the literal "constant" for the distinguished
// constant record of each (element, scope) quadrant. Blank lines and
// lines starting with '#' are ignored.
func Parse(r io.Reader) (Config, error) {
	cfg := Config{
		VertexSub:    Table{},
		VertexCreate: Table{},
		EdgeSub:      Table{},
		EdgeCreate:   Table{},
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			return Config{}, gedmiperr.NewInput("weights.Parse",
				fmt.Errorf("line %d: expected at least 5 fields, got %d", lineNo, len(fields)))
		}

		elt := element(fields[0])
		scp := scope(fields[1])
		attr := fields[2]
		kindStr := fields[3]

		weight, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return Config{}, gedmiperr.NewInput("weights.Parse",
				fmt.Errorf("line %d: invalid weight %q: %w", lineNo, fields[4], err))
		}

		var def float64
		if len(fields) >= 6 {
			def, err = strconv.ParseFloat(fields[5], 64)
			if err != nil {
				return Config{}, gedmiperr.NewInput("weights.Parse",
					fmt.Errorf("line %d: invalid default %q: %w", lineNo, fields[5], err))
			}
		}

		var kind EntryKind
		switch kindStr {
		case "numeric":
			kind = NumericDifference
		case "symbol":
			kind = SymbolEquality
		case "constant":
			kind = Constant
		default:
			return Config{}, gedmiperr.NewInput("weights.Parse",
				fmt.Errorf("line %d: unknown kind %q", lineNo, kindStr))
		}

		key := attr
		if kind == Constant {
			key = ConstantKey
		}
		entry := Entry{Kind: kind, Weight: weight, Default: def}

		table, err := tableFor(&cfg, elt, scp)
		if err != nil {
			return Config{}, gedmiperr.NewInput("weights.Parse",
				fmt.Errorf("line %d: %w", lineNo, err))
		}
		table[key] = entry
	}
	if err := scanner.Err(); err != nil {
		return Config{}, gedmiperr.NewInput("weights.Parse", err)
	}

	return cfg, nil
}

func tableFor(cfg *Config, elt element, scp scope) (Table, error) {
	switch {
	case elt == elementVertex && scp == scopeSub:
		return cfg.VertexSub, nil
	case elt == elementVertex && scp == scopeCreate:
		return cfg.VertexCreate, nil
	case elt == elementEdge && scp == scopeSub:
		return cfg.EdgeSub, nil
	case elt == elementEdge && scp == scopeCreate:
		return cfg.EdgeCreate, nil
	default:
		return nil, fmt.Errorf("unknown element/scope combination %q/%q", elt, scp)
	}
}
