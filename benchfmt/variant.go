// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// A Rule assigns run logs whose file name starts with Prefix to the
// method group Label.
type Rule struct {
	Prefix string
	Label  string
}

// Match reports whether name starts with r.Prefix. A prefix that
// occurs later in the name does not match, which keeps names like
// "snapshot_2pl_run.txt" out of the 2pl group.
func (r Rule) Match(name string) bool {
	return strings.HasPrefix(name, r.Prefix)
}

// A Variant is one report configuration: the fields extracted from
// each log, the rules grouping logs by method, and how failures are
// tolerated.
//
// The two predefined variants, Simple and Extended, correspond to the
// two generations of experiment drivers. They differ in their failure
// handling on purpose, so they are not merged.
type Variant struct {
	Name string

	// Fields are extracted from every log, in order.
	Fields []FieldSpec

	// Rules are tried in order; the first match wins.
	Rules []Rule

	// CatchAll, if non-empty, is the label of the group receiving
	// logs that match no rule. If empty, such logs are dropped.
	CatchAll string

	// SkipInvalid makes a log with a missing mandatory field drop
	// out of its group with a diagnostic. Otherwise the missing
	// field is an error for the whole report.
	SkipInvalid bool
}

// Simple is the nine-field report of the lock experiments. Every
// field is mandatory and logs that match no method rule are dropped.
var Simple = &Variant{
	Name: "simple",
	Fields: []FieldSpec{
		Labeled("method", "Method", ""),
		Labeled("tuples", "Tuples", ""),
		Labeled("elapsed", "Elapsed", "secs"),
		Labeled("stream_rate", "Stream Rate", "tps"),
		Labeled("update_rate", "Update Rate", "qps"),
		Labeled("query_throughput", "Query Throughput", "tps"),
		Labeled("update_throughput", "Update Throughput", "qps"),
		Labeled("selectivity", "Selectivity", ""),
		Labeled("window_size", "Window", ""),
	},
	Rules: []Rule{
		{"none", "none"},
		{"lock", "lock"},
		{"versioning", "versioning"},
	},
}

// Extended is the report for the concurrency-control experiments. The
// window is split into width and stride and the consistency rate is
// added. Counters that only some drivers print (events, scheduler
// batches, operator evaluations, redos) are recorded when present.
// Every log lands in a group: logs matching no rule are snapshot runs.
//
// Fields are ordered so that selecting batch_count, query_throughput,
// evaluation_count, window_width and window_stride yields the columns
// of the scheduling summary.
var Extended = &Variant{
	Name: "extended",
	Fields: []FieldSpec{
		Labeled("method", "Method", ""),
		Labeled("events", "Events", "").AsOptional(),
		Labeled("elapsed", "Elapsed", "secs"),
		Labeled("update_rate", "Update Rate", "qps"),
		Pattern("batch_count", `Scheduler Batch Process Count: (\d+)`).AsOptional(),
		Labeled("query_throughput", "Query Throughput", "tps"),
		Labeled("update_throughput", "Update Throughput", "qps"),
		Labeled("consistent_rate", "Consistent Rate", ""),
		Pattern("evaluation_count", `Evaluation Count: (\d+)`).AsOptional(),
		Pattern("window_width", `Window: \[ width (\d+) \| stride \d+ ?\]`),
		Pattern("window_stride", `Window: \[ width \d+ \| stride (\d+) ?\]`),
		Labeled("redo", "Redo", "times").AsOptional(),
	},
	Rules: []Rule{
		{"none", "none"},
		{"optimistic", "optimistic"},
		{"2pl", "2pl"},
	},
	CatchAll:    "snapshot",
	SkipInvalid: true,
}

var variants = map[string]*Variant{
	Simple.Name:   Simple,
	Extended.Name: Extended,
}

// LookupVariant returns the predefined variant called name.
func LookupVariant(name string) (*Variant, error) {
	v, ok := variants[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(variants))
		for n := range variants {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, eris.Errorf("unknown variant %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return v, nil
}

// Field returns the FieldSpec called name.
func (v *Variant) Field(name string) (FieldSpec, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns the names of v's fields in extraction order.
func (v *Variant) FieldNames() []string {
	names := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		names[i] = f.Name
	}
	return names
}

// Labels returns the group labels of v in report order: one per rule
// (without duplicates), followed by CatchAll if set.
func (v *Variant) Labels() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, r := range v.Rules {
		if !seen[r.Label] {
			seen[r.Label] = true
			labels = append(labels, r.Label)
		}
	}
	if v.CatchAll != "" && !seen[v.CatchAll] {
		labels = append(labels, v.CatchAll)
	}
	return labels
}

// Select returns a copy of v that extracts only the named fields, in
// v's order. This relaxes the report to logs that carry just the
// fields a plot needs.
func (v *Variant) Select(names ...string) (*Variant, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := v.Field(n); !ok {
			return nil, eris.Errorf("variant %s has no field %q", v.Name, n)
		}
		want[n] = true
	}
	nv := *v
	nv.Fields = nil
	for _, f := range v.Fields {
		if want[f.Name] {
			nv.Fields = append(nv.Fields, f)
		}
	}
	return &nv, nil
}

// Extract extracts v's fields from log. See Extract.
func (v *Variant) Extract(log RawLog) (Record, error) {
	return Extract(log, v.Fields)
}
