// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchstat renders aggregated benchmark results as
// whitespace-separated columns for plotting tools.
//
// A report is a sequence of blocks, one per method group, separated by
// a single blank line. Each line of a block is one run: the X and Y
// field values as they appeared in the log, optionally followed by
// their magnitude abbreviations ("2M") for tools that cannot compute
// labels themselves.
package benchstat

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/currentia/ccbench/benchfmt"
	"github.com/currentia/ccbench/benchmath"
	"github.com/currentia/ccbench/benchproc"
	"github.com/currentia/ccbench/benchunit"
)

// Options control the rendering of method groups.
type Options struct {
	// X and Y name the fields of the first and second columns.
	X, Y string

	// Abbrev adds columns with the magnitude abbreviations of
	// the X and Y values.
	Abbrev bool

	// Only, if non-empty, selects a single group by label.
	Only string

	// Order, if non-empty, lists the labels of the groups to emit
	// in the order to emit them.
	Order []string
}

// FormatGroups writes groups to w.
//
// Groups are emitted in their order in groups, or in opts.Order. Every
// selected group produces a block, even an empty one, so each method
// keeps its position in the report. Formatting the same groups twice
// produces identical output.
func FormatGroups(w io.Writer, groups []benchproc.Group, opts Options) error {
	sel, err := selectGroups(groups, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for i, g := range sel {
		if i > 0 {
			buf.WriteByte('\n')
		}
		writeBlock(&buf, g, opts)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// A Batch is the groups of one directory of a batch report.
type Batch = benchproc.DirGroups

// FormatBatch writes the report of each directory in batches, with a
// blank line between directories.
func FormatBatch(w io.Writer, batches []Batch, opts Options) error {
	var buf bytes.Buffer
	for i, b := range batches {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if err := FormatGroups(&buf, b.Groups, opts); err != nil {
			return eris.Wrapf(err, "benchstat: %s", b.Dir)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func selectGroups(groups []benchproc.Group, opts Options) ([]benchproc.Group, error) {
	byLabel := make(map[string]benchproc.Group, len(groups))
	var labels []string
	for _, g := range groups {
		byLabel[g.Label] = g
		labels = append(labels, g.Label)
	}
	pick := func(label string) (benchproc.Group, error) {
		g, ok := byLabel[label]
		if !ok {
			return g, eris.Errorf("no method group %q (have %s)", label, strings.Join(labels, ", "))
		}
		return g, nil
	}

	if opts.Only != "" {
		g, err := pick(opts.Only)
		if err != nil {
			return nil, err
		}
		return []benchproc.Group{g}, nil
	}
	if len(opts.Order) == 0 {
		return groups, nil
	}
	sel := make([]benchproc.Group, 0, len(opts.Order))
	for _, label := range opts.Order {
		g, err := pick(label)
		if err != nil {
			return nil, err
		}
		sel = append(sel, g)
	}
	return sel, nil
}

func writeBlock(buf *bytes.Buffer, g benchproc.Group, opts Options) {
	for _, r := range g.Records {
		x, y := r.Value(opts.X), r.Value(opts.Y)
		buf.WriteString(x)
		buf.WriteByte(' ')
		buf.WriteString(y)
		if opts.Abbrev {
			fmt.Fprintf(buf, " %s %s",
				benchunit.Abbreviate(benchfmt.Number(x)),
				benchunit.Abbreviate(benchfmt.Number(y)))
		}
		buf.WriteByte('\n')
	}
}

// FormatPoints writes averaged points to w, one per line. Absent
// points are written as empty lines.
func FormatPoints(w io.Writer, points []benchmath.Point, abbrev bool) error {
	var buf bytes.Buffer
	for _, p := range points {
		if !p.Absent {
			buf.WriteString(FormatFloat(p.X))
			buf.WriteByte(' ')
			buf.WriteString(FormatFloat(p.Y))
			if abbrev {
				fmt.Fprintf(&buf, " %s %s", benchunit.Abbreviate(p.X), benchunit.Abbreviate(p.Y))
			}
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// FormatFloat formats v with the fewest digits that represent it
// exactly, always including a fractional part: 1 is "1.0" and 2.5 is
// "2.5". Magnitudes of 1e16 and above, or below 1e-4, use exponent
// form, as in "1.0e+16".
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if abs := math.Abs(v); abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		i := strings.IndexByte(s, 'e')
		mant, exp := s[:i], s[i:]
		if !strings.Contains(mant, ".") {
			mant += ".0"
		}
		return mant + exp
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
