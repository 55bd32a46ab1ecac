// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/currentia/ccbench/benchfmt"
	"github.com/currentia/ccbench/benchproc"
	"github.com/currentia/ccbench/benchstat"
	"github.com/currentia/ccbench/storage/db"
)

type reportFlags struct {
	method  string
	abbrev  bool
	variant string
	fields  []string
	order   []string
	ext     string
	save    bool
}

func (a *app) newReportCmd() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "report [flags] dir... x y",
		Short: "Print the runs of each directory as x y columns grouped by method",
		Long: "Report reads the logs in each directory, groups them by the method prefix of their " +
			"file name, sorts each group by the numeric value of x, and prints one block per group.\n\n" +
			"Fields of the simple variant: method, tuples, elapsed, stream_rate, update_rate, " +
			"query_throughput, update_throughput, selectivity, window_size.\n" +
			"Fields of the extended variant: method, events, elapsed, update_rate, batch_count, " +
			"query_throughput, update_throughput, consistent_rate, evaluation_count, window_width, " +
			"window_stride, redo. Runs lacking an optional field used as x or y are skipped.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.method, "method", "", "print only the group of method `name`")
	fl.BoolVar(&f.abbrev, "abbrev", false, "add columns with abbreviated x and y magnitudes")
	fl.StringVar(&f.variant, "variant", "", "log variant, simple or extended (default from config)")
	fl.StringSliceVar(&f.fields, "fields", nil, "extract only these fields of the variant")
	fl.StringSliceVar(&f.order, "order", nil, "print the groups with these labels in this order")
	fl.StringVar(&f.ext, "ext", "", "log file extension (default from config)")
	fl.BoolVar(&f.save, "save", false, "archive the extracted records in the configured store")
	return cmd
}

func (a *app) report(cmd *cobra.Command, f reportFlags, args []string) error {
	fl := cmd.Flags()
	if !fl.Changed("variant") {
		f.variant = a.cfg.Report.Variant
	}
	if !fl.Changed("ext") {
		f.ext = a.cfg.Report.Ext
	}
	if !fl.Changed("abbrev") {
		f.abbrev = a.cfg.Report.Abbrev
	}

	v, err := benchfmt.LookupVariant(f.variant)
	if err != nil {
		return err
	}
	if len(f.fields) > 0 {
		if v, err = v.Select(f.fields...); err != nil {
			return err
		}
	}

	dirs, x, y := args[:len(args)-2], args[len(args)-2], args[len(args)-1]
	agg := &benchproc.Aggregator{
		Variant:     v,
		Ext:         f.ext,
		Parallelism: a.cfg.Report.Parallelism,
		Logger:      zap.L(),
	}
	ctx := cmd.Context()
	batch, err := agg.AggregateAll(ctx, dirs, x, y)
	if err != nil {
		return err
	}

	opts := benchstat.Options{X: x, Y: y, Abbrev: f.abbrev, Only: f.method, Order: f.order}
	if err := benchstat.FormatBatch(cmd.OutOrStdout(), batch, opts); err != nil {
		return err
	}

	if f.save {
		return a.save(ctx, batch)
	}
	return nil
}

// save archives every record of batch in one upload.
func (a *app) save(ctx context.Context, batch []benchproc.DirGroups) error {
	d, err := db.OpenSQL(a.cfg.Store.Driver, a.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer d.Close()

	u, err := d.NewUpload(ctx)
	if err != nil {
		return err
	}
	for _, b := range batch {
		if err := u.InsertGroups(ctx, b.Dir, b.Groups); err != nil {
			return eris.Wrapf(err, "save %s", b.Dir)
		}
	}
	zap.L().Info("saved records", zap.String("upload", u.ID), zap.String("driver", a.cfg.Store.Driver))
	return nil
}
