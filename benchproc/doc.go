// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchproc groups run logs by method and orders the results
// of each group for plotting.
//
// The typical steps for processing a directory of run logs are:
//
// 1. List the logs in the directory with benchfmt.Dir.
//
// 2. Partition the file names into method groups with a Classifier.
// Each name is assigned by the first Rule whose prefix it starts with.
// Names matching no rule are dropped, or collected in a catch-all group
// if the variant has one.
//
// 3. Extract the variant's fields from every log. Logs are independent,
// so this is done concurrently; results keep the lexical order of the
// file names.
//
// 4. Sort each group by the numeric value of the field on the X axis
// using SortRecords. The sort is stable, so runs with equal X values
// stay in file-name order.
//
// Aggregator performs all of these steps.
package benchproc
