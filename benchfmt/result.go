// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchfmt extracts labeled result fields from the free-text
// logs written by benchmark runs.
//
// A run log is a block of console output such as
//
//	Method: 2pl
//	Elapsed: 4.9788 secs
//	Query Throughput: 200.852 tps
//	Window: [ width 20 | stride 5] (TUPLE)
//
// Each field of interest is described by a FieldSpec; a Variant bundles
// the field set with the file-name rules used to group runs by method.
// Field values are kept as the original text so that they print with
// their original precision. Use Number to compare them numerically.
//
// This package is designed to be used with the higher-level packages
// benchproc, benchmath, benchunit, and benchstat.
package benchfmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// A RawLog is the unparsed text of one run log.
type RawLog struct {
	// Name is the base name of the file the log was read from.
	// Method classification is done on this name.
	Name string

	// Text is the complete contents of the log.
	Text string
}

// A Record is the set of fields extracted from one RawLog.
type Record struct {
	// File is the RawLog.Name this record was extracted from.
	File string

	// Fields maps field names to their extracted text.
	Fields map[string]string
}

// Get returns the value of field name and whether it is present.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Value returns the value of field name, or "" if it is not present.
func (r Record) Value(name string) string {
	return r.Fields[name]
}

// Float returns the numeric value of field name. See Number.
func (r Record) Float(name string) float64 {
	return Number(r.Fields[name])
}

var numberPrefix = regexp.MustCompile(`^\s*[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`)

// Number converts a field value to a float64 using its longest leading
// decimal number. Trailing text is ignored, and a value that does not
// start with a number converts to 0. For example, "4.97 secs" is 4.97
// and "[ width 20 ]" is 0.
func Number(s string) float64 {
	m := numberPrefix.FindString(s)
	if m == "" {
		return 0
	}
	// Out-of-range values come back as ±Inf along with an
	// error, which is the value we want.
	v, _ := strconv.ParseFloat(strings.TrimSpace(m), 64)
	return v
}

// A MissingFieldError reports that a mandatory field was not found in
// a log.
type MissingFieldError struct {
	File  string // RawLog.Name, may be empty
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("missing field %q", e.Field)
	}
	return fmt.Sprintf("%s: missing field %q", e.File, e.Field)
}

// A DirectoryUnavailableError reports that a directory of run logs
// could not be opened or listed.
type DirectoryUnavailableError struct {
	Dir string
	Err error
}

func (e *DirectoryUnavailableError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Dir, e.Err)
}

func (e *DirectoryUnavailableError) Unwrap() error {
	return e.Err
}
