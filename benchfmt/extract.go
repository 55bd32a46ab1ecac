// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"regexp"
	"strings"
)

// A FieldSpec describes how to find one field in a run log.
type FieldSpec struct {
	// Name is the key of this field in a Record.
	Name string

	// Pattern is matched against the log text. The field value
	// is the first capture group of the leftmost match.
	Pattern *regexp.Regexp

	// Optional fields are left out of the Record when Pattern
	// does not match instead of failing extraction.
	Optional bool
}

// Labeled returns a FieldSpec for a line of the form "label: value" or,
// if unit is non-empty, "label: value unit". The value is everything
// between the label and the end of the line or the unit.
func Labeled(name, label, unit string) FieldSpec {
	expr := regexp.QuoteMeta(label) + `: (.*)`
	if unit != "" {
		expr += " " + regexp.QuoteMeta(unit)
	}
	return FieldSpec{Name: name, Pattern: regexp.MustCompile(`(?m)` + expr + `$`)}
}

// Pattern returns a FieldSpec that extracts the first capture group of
// expr. Multi-line mode is enabled, so ^ and $ match at line
// boundaries. Pattern panics if expr does not compile or has no
// capture group.
func Pattern(name, expr string) FieldSpec {
	re := regexp.MustCompile(`(?m)` + expr)
	if re.NumSubexp() < 1 {
		panic("benchfmt: pattern for field " + name + " has no capture group")
	}
	return FieldSpec{Name: name, Pattern: re}
}

// AsOptional returns a copy of f that does not fail extraction when
// it is absent.
func (f FieldSpec) AsOptional() FieldSpec {
	f.Optional = true
	return f
}

// Find returns the value of f in text and whether it was found.
func (f FieldSpec) Find(text string) (string, bool) {
	m := f.Pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ansiEscape matches SGR color sequences. Some experiment drivers
// print their labels in bold color.
var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

// normalize strips terminal color sequences and carriage returns from
// log text.
func normalize(text string) string {
	if strings.IndexByte(text, '\x1b') >= 0 {
		text = ansiEscape.ReplaceAllString(text, "")
	}
	if strings.IndexByte(text, '\r') >= 0 {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	return text
}

// Extract extracts fields from log.
//
// If a non-optional field is not found, Extract returns a
// *MissingFieldError naming the first such field in fields order.
// Absent optional fields are omitted from the Record.
func Extract(log RawLog, fields []FieldSpec) (Record, error) {
	text := normalize(log.Text)
	rec := Record{File: log.Name, Fields: make(map[string]string, len(fields))}
	for _, f := range fields {
		v, ok := f.Find(text)
		if !ok {
			if f.Optional {
				continue
			}
			return Record{}, &MissingFieldError{File: log.Name, Field: f.Name}
		}
		rec.Fields[f.Name] = v
	}
	return rec, nil
}
