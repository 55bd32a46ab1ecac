// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/currentia/ccbench/benchfmt"
)

// A Group is the records of one method, in report order.
type Group struct {
	Label   string
	Records []benchfmt.Record
}

// An UnknownFieldError reports a plot axis that the variant does not
// extract.
type UnknownFieldError struct {
	Variant string
	Field   string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("variant %s has no field %q", e.Variant, e.Field)
}

// An Aggregator builds the method groups of a directory of run logs.
type Aggregator struct {
	// Variant selects the fields, method rules, and failure
	// policy. If nil, it defaults to benchfmt.Simple.
	Variant *benchfmt.Variant

	// Ext is the log file extension. If empty, it defaults to
	// benchfmt.DefaultExt.
	Ext string

	// Parallelism bounds the number of logs read at once. If
	// zero, it defaults to runtime.GOMAXPROCS(0).
	Parallelism int

	// Logger receives diagnostics. If nil, zap.L() is used.
	Logger *zap.Logger
}

func (a *Aggregator) variant() *benchfmt.Variant {
	if a.Variant == nil {
		return benchfmt.Simple
	}
	return a.Variant
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.L()
	}
	return a.Logger
}

// EmptyGroups returns one empty group for each label of the variant.
func (a *Aggregator) EmptyGroups() []Group {
	labels := NewClassifier(a.variant()).Labels()
	groups := make([]Group, len(labels))
	for i, l := range labels {
		groups[i].Label = l
	}
	return groups
}

// Load reads the logs in dir and returns their records grouped by
// method, each group sorted by xField.
//
// Load returns an *UnknownFieldError if xField or yField is not a field
// of the variant, and a *benchfmt.DirectoryUnavailableError if dir
// cannot be listed; in the latter case the returned groups are all
// empty. A log that cannot be read is skipped with a diagnostic. A log
// missing a mandatory field is skipped with a diagnostic if the variant
// has SkipInvalid set, and otherwise fails the whole Load with a
// *benchfmt.MissingFieldError. A log that lacks an optional field used
// as xField or yField has nothing to plot and is skipped with a
// diagnostic.
func (a *Aggregator) Load(ctx context.Context, dir, xField, yField string) ([]Group, error) {
	v := a.variant()
	for _, f := range []string{xField, yField} {
		if _, ok := v.Field(f); !ok {
			return nil, &UnknownFieldError{Variant: v.Name, Field: f}
		}
	}

	d := benchfmt.Dir{Path: dir, Ext: a.Ext}
	names, err := d.Names()
	if err != nil {
		return a.EmptyGroups(), err
	}
	nameGroups := NewClassifier(v).Classify(names)

	// Flatten the groups so every log gets a result slot.
	type slot struct {
		group int
		name  string
		rec   benchfmt.Record
		ok    bool
	}
	var slots []slot
	for gi, ng := range nameGroups {
		for _, name := range ng.Names {
			slots = append(slots, slot{group: gi, name: name})
		}
	}

	log := a.logger().With(zap.String("dir", dir), zap.String("variant", v.Name))
	limit := a.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range slots {
		s := &slots[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := d.Read(s.name)
			if err != nil {
				log.Warn("skipping unreadable log", zap.String("file", s.name), zap.Error(err))
				return nil
			}
			rec, err := v.Extract(raw)
			var mf *benchfmt.MissingFieldError
			if errors.As(err, &mf) && v.SkipInvalid {
				log.Warn("skipping log with missing field", zap.String("file", s.name), zap.String("field", mf.Field))
				return nil
			} else if err != nil {
				return err
			}
			for _, f := range []string{xField, yField} {
				if _, ok := rec.Get(f); !ok {
					// Only optional fields can be absent here.
					log.Warn("skipping log without plotted field", zap.String("file", s.name), zap.String("field", f))
					return nil
				}
			}
			s.rec, s.ok = rec, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrapf(err, "benchproc: %s", dir)
	}

	groups := make([]Group, len(nameGroups))
	for gi, ng := range nameGroups {
		groups[gi].Label = ng.Label
	}
	for _, s := range slots {
		if s.ok {
			groups[s.group].Records = append(groups[s.group].Records, s.rec)
		}
	}
	for i := range groups {
		SortRecords(groups[i].Records, xField)
	}
	log.Debug("aggregated logs", zap.Int("files", len(names)), zap.Int("classified", len(slots)))
	return groups, nil
}

// Aggregate is like Load, but an unavailable directory is not an
// error: it is reported to the Logger with its path and cause, and
// Aggregate returns all-empty groups so a batch of reports can go on.
func (a *Aggregator) Aggregate(ctx context.Context, dir, xField, yField string) ([]Group, error) {
	groups, err := a.Load(ctx, dir, xField, yField)
	var du *benchfmt.DirectoryUnavailableError
	if errors.As(err, &du) {
		a.logger().Error("failed to open directory", zap.String("dir", du.Dir), zap.Error(du.Err))
		return groups, nil
	}
	return groups, err
}

// A DirGroups is the report data of one directory in a batch.
type DirGroups struct {
	Dir    string
	Groups []Group
}

// AggregateAll aggregates each directory in dirs, in order. An
// unavailable directory yields empty groups without affecting the
// others. Any other error stops the batch.
func (a *Aggregator) AggregateAll(ctx context.Context, dirs []string, xField, yField string) ([]DirGroups, error) {
	out := make([]DirGroups, 0, len(dirs))
	for _, dir := range dirs {
		groups, err := a.Aggregate(ctx, dir, xField, yField)
		if err != nil {
			return out, err
		}
		out = append(out, DirGroups{Dir: dir, Groups: groups})
	}
	return out, nil
}
