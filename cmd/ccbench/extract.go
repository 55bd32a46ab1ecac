// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/currentia/ccbench/benchfmt"
)

func (a *app) newExtractCmd() *cobra.Command {
	var (
		variant string
		fields  []string
	)
	cmd := &cobra.Command{
		Use:   "extract [--variant name] [--fields a,b] [file]",
		Short: "Print the fields of one log on a single line",
		Long: "Extract reads one log, from file or standard input, and prints the values of the " +
			"variant's fields separated by spaces. Optional fields that are absent are left out.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("variant") {
				variant = a.cfg.Report.Variant
			}
			v, err := benchfmt.LookupVariant(variant)
			if err != nil {
				return err
			}
			if len(fields) > 0 {
				if v, err = v.Select(fields...); err != nil {
					return err
				}
			}

			var log benchfmt.RawLog
			if len(args) == 1 {
				log, err = benchfmt.ReadLog(args[0])
			} else {
				log, err = benchfmt.ReadLogFrom(cmd.InOrStdin(), "<stdin>")
			}
			if err != nil {
				return err
			}
			rec, err := v.Extract(log)
			if err != nil {
				return err
			}

			var vals []string
			for _, name := range v.FieldNames() {
				if val, ok := rec.Get(name); ok {
					vals = append(vals, val)
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(vals, " "))
			return err
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "log variant, simple or extended (default from config)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "print only these fields, in variant order")
	return cmd
}
