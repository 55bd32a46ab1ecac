// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath averages repeated runs of line-aligned numeric
// result files.
//
// A series file has one "x y" pair per line. Line i of every run of
// the same experiment describes the same logical x coordinate, so the
// runs are combined position by position. A blank line is a deliberate
// break between plotted series and is carried through as an absent
// point rather than averaged.
package benchmath

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/rotisserie/eris"

	"github.com/currentia/ccbench/benchfmt"
)

// A Line is one line position of a series file.
type Line struct {
	X, Y float64

	// Blank is set for lines with fewer than two fields.
	Blank bool
}

// ParseLine parses one line of a series file. Fields are separated by
// white space and converted with benchfmt.Number, so a non-numeric
// field is 0. Fields after the second are ignored.
func ParseLine(s string) Line {
	f := strings.Fields(s)
	if len(f) < 2 {
		return Line{Blank: true}
	}
	return Line{X: benchfmt.Number(f[0]), Y: benchfmt.Number(f[1])}
}

// ParseSeries reads a series file from r.
func ParseSeries(r io.Reader) ([]Line, error) {
	var lines []Line
	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, ParseLine(s.Text()))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// A Point is an averaged position.
type Point struct {
	X, Y float64

	// Absent marks a series break. X and Y are zero.
	Absent bool
}

// A Mismatch records a series that disagrees with the reference
// series about whether a position is blank or present.
type Mismatch struct {
	Series int // index into the series passed to Average
	Line   int // zero-based position
	Blank  bool
}

// accum accumulates one output position.
type accum struct {
	absent bool
	xs, ys []float64
}

// Average combines series position by position.
//
// The first series is the reference: the result has one Point per
// reference line, and a position is absent exactly when the reference
// line is blank. At a present position, X and Y are the means over
// the series that have a sample there, which for consistent input is
// Σx/N and Σy/N over all N series.
//
// A line of another series disagrees with the reference if it is blank
// or missing where the reference has a sample, or if it has a sample
// where the reference is blank or has already ended. Each disagreeing
// line is reported as a Mismatch and does not contribute to the result.
func Average(series [][]Line) ([]Point, []Mismatch) {
	if len(series) == 0 {
		return nil, nil
	}
	ref := series[0]
	acc := make([]accum, len(ref))
	for i, l := range ref {
		acc[i].absent = l.Blank
	}

	var mismatches []Mismatch
	for si, lines := range series {
		acc, mismatches = fold(acc, mismatches, si, lines)
	}

	points := make([]Point, len(acc))
	for i, a := range acc {
		if a.absent {
			points[i] = Point{Absent: true}
			continue
		}
		xs := stats.Sample{Xs: a.xs}
		ys := stats.Sample{Xs: a.ys}
		points[i] = Point{X: xs.Sum() / xs.Weight(), Y: ys.Sum() / ys.Weight()}
	}
	return points, mismatches
}

// fold adds one series to the accumulator.
func fold(acc []accum, mismatches []Mismatch, si int, lines []Line) ([]accum, []Mismatch) {
	for i := range acc {
		a := &acc[i]
		blank := i >= len(lines) || lines[i].Blank
		switch {
		case a.absent && blank:
		case a.absent:
			mismatches = append(mismatches, Mismatch{Series: si, Line: i, Blank: false})
		case blank:
			mismatches = append(mismatches, Mismatch{Series: si, Line: i, Blank: true})
		default:
			a.xs = append(a.xs, lines[i].X)
			a.ys = append(a.ys, lines[i].Y)
		}
	}
	// The reference is blank past its end, so only samples there
	// disagree with it.
	for i := len(acc); i < len(lines); i++ {
		if !lines[i].Blank {
			mismatches = append(mismatches, Mismatch{Series: si, Line: i, Blank: false})
		}
	}
	return acc, mismatches
}

// AverageFiles reads and averages the series files at paths. Callers
// should pass paths in a deterministic order, since the first file is
// the reference series.
func AverageFiles(paths []string) ([]Point, []Mismatch, error) {
	series := make([][]Line, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, eris.Wrap(err, "benchmath: open series")
		}
		lines, err := ParseSeries(f)
		f.Close()
		if err != nil {
			return nil, nil, eris.Wrapf(err, "benchmath: read %s", path)
		}
		series = append(series, lines)
	}
	points, mismatches := Average(series)
	return points, mismatches, nil
}
