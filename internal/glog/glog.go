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

// Package glog provides the small leveled-logging interface used across
// the matching pipeline. It generalizes golpa's single-method Logger
// (Print-only, wired through a functional Option) to the three levels the
// job pool needs in order to distinguish a pair-fatal warning from a
// batch-fatal error.
package glog

import (
	"fmt"
	"log"
	"os"
)

// Logger is the logging contract every component accepts. Callers that
// don't care about logging get a noopLogger by default.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Noop discards everything. It is the default for every component that
// accepts a Logger via functional option.
type Noop struct{}

func (Noop) Infof(string, ...interface{})  {}
func (Noop) Warnf(string, ...interface{})  {}
func (Noop) Errorf(string, ...interface{}) {}

// Standard wraps the standard library logger with a level prefix.
type Standard struct {
	l *log.Logger
}

// NewStandard builds a Logger writing to os.Stderr with a level-tagged prefix.
func NewStandard() *Standard {
	return &Standard{l: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *Standard) Infof(format string, args ...interface{}) {
	s.l.Print("INFO  " + fmt.Sprintf(format, args...))
}

func (s *Standard) Warnf(format string, args ...interface{}) {
	s.l.Print("WARN  " + fmt.Sprintf(format, args...))
}

func (s *Standard) Errorf(format string, args ...interface{}) {
	s.l.Print("ERROR " + fmt.Sprintf(format, args...))
}
