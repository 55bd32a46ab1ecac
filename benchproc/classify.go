// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import "github.com/currentia/ccbench/benchfmt"

// A Classifier partitions run log file names into method groups.
type Classifier struct {
	// Rules are tried in order. The first rule whose prefix
	// starts a file name assigns that name to its label.
	Rules []benchfmt.Rule

	// CatchAll, if non-empty, labels the group of names no rule
	// matches. Otherwise those names are dropped.
	CatchAll string
}

// NewClassifier returns the Classifier for variant v.
func NewClassifier(v *benchfmt.Variant) *Classifier {
	return &Classifier{Rules: v.Rules, CatchAll: v.CatchAll}
}

// A NameGroup is the set of file names classified under one label.
type NameGroup struct {
	Label string
	Names []string
}

// Label returns the label name is classified under, and false if name
// is dropped.
func (c *Classifier) Label(name string) (string, bool) {
	for _, r := range c.Rules {
		if r.Match(name) {
			return r.Label, true
		}
	}
	if c.CatchAll != "" {
		return c.CatchAll, true
	}
	return "", false
}

// Labels returns the group labels in the order Classify returns them.
func (c *Classifier) Labels() []string {
	var labels []string
	seen := make(map[string]bool)
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	for _, r := range c.Rules {
		add(r.Label)
	}
	add(c.CatchAll)
	return labels
}

// Classify partitions names. It returns one group per label, in rule
// order with the catch-all group last, including groups that end up
// empty. Within a group, names keep their order in names. Every name
// appears in at most one group, and in exactly one if c has a
// catch-all.
func (c *Classifier) Classify(names []string) []NameGroup {
	labels := c.Labels()
	groups := make([]NameGroup, len(labels))
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		groups[i].Label = l
		index[l] = i
	}
	for _, name := range names {
		label, ok := c.Label(name)
		if !ok {
			continue
		}
		g := &groups[index[label]]
		g.Names = append(g.Names, name)
	}
	return groups
}
