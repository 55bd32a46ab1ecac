// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit formats numbers with compact magnitude suffixes,
// such as "10K" or "2M", for labeling plots.
package benchunit

import (
	"fmt"
	"math"
	"math/big"
)

// A Ladder is a sequence of magnitude suffixes, each Base times the
// previous one. Suffixes[0] is the suffix of unscaled values.
type Ladder struct {
	Base     int64
	Suffixes []string
}

// Decimal is the SI-style ladder used for plot labels.
var Decimal = Ladder{
	Base:     1000,
	Suffixes: []string{"", "K", "M", "G", "T", "P", "E", "Z", "Y"},
}

// Abbreviate formats val using the Decimal ladder. See Ladder.Format.
func Abbreviate(val float64) string {
	return Decimal.Format(val)
}

// Format truncates val to an integer and divides it by l.Base,
// truncating again, for as long as the result is at least l.Base and
// a larger suffix remains. It returns the final integer followed by
// the suffix it reached. For example, with Decimal, 950 is "950", 1500
// is "1K", and 2500000 is "2M". The last suffix absorbs any larger
// magnitude: 1e30 is "1000000Y".
//
// Format is meant for non-negative finite values. Negative values are
// returned truncated and unscaled, and NaN and infinities are
// formatted by fmt.
func (l Ladder) Format(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Sprint(val)
	}
	// Values beyond int64 range (Z and Y) need exact integer
	// division, so do the arithmetic in big.Int.
	n, _ := big.NewFloat(math.Trunc(val)).Int(nil)
	base := big.NewInt(l.Base)
	i := 0
	for n.Cmp(base) >= 0 && i < len(l.Suffixes)-1 {
		n.Quo(n, base)
		i++
	}
	return n.String() + l.Suffixes[i]
}
