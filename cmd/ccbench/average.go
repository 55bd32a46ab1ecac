// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/currentia/ccbench/benchmath"
	"github.com/currentia/ccbench/benchstat"
)

func (a *app) newAverageCmd() *cobra.Command {
	var abbrev bool
	cmd := &cobra.Command{
		Use:   "average [--abbrev] file...",
		Short: "Average repeated runs of x y plot data line by line",
		Long: "Average reads files of \"x y\" lines produced by repeated runs of one experiment and " +
			"prints the mean x and y of each line position. Blank lines of the first file are kept as " +
			"series breaks.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("abbrev") {
				abbrev = a.cfg.Report.Abbrev
			}
			points, mismatches, err := benchmath.AverageFiles(args)
			if err != nil {
				return err
			}
			for _, m := range mismatches {
				zap.L().Warn("line disagrees with first file",
					zap.String("file", args[m.Series]),
					zap.Int("line", m.Line+1),
					zap.Bool("blank", m.Blank))
			}
			return benchstat.FormatPoints(cmd.OutOrStdout(), points, abbrev)
		},
	}
	cmd.Flags().BoolVar(&abbrev, "abbrev", false, "add columns with abbreviated x and y magnitudes")
	return cmd
}
