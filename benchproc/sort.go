// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"sort"

	"github.com/currentia/ccbench/benchfmt"
)

// SortRecords sorts recs in ascending order of the numeric value of
// field (see benchfmt.Number). The sort is stable: records with equal
// values keep their relative order.
func SortRecords(recs []benchfmt.Record, field string) {
	// Convert once rather than on every comparison.
	keys := make([]float64, len(recs))
	for i, r := range recs {
		keys[i] = r.Float(field)
	}
	sort.Stable(&byKey{recs, keys})
}

type byKey struct {
	recs []benchfmt.Record
	keys []float64
}

func (s *byKey) Len() int           { return len(s.recs) }
func (s *byKey) Less(i, j int) bool { return s.keys[i] < s.keys[j] }
func (s *byKey) Swap(i, j int) {
	s.recs[i], s.recs[j] = s.recs[j], s.recs[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}

// IsSorted reports whether recs is in ascending order of field.
func IsSorted(recs []benchfmt.Record, field string) bool {
	for i := 1; i < len(recs); i++ {
		if recs[i].Float(field) < recs[i-1].Float(field) {
			return false
		}
	}
	return true
}
