// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ccbench turns the run logs of concurrency-control experiments into
// plot data.
//
// Usage:
//
//	ccbench report [flags] dir... x y
//	ccbench average [--abbrev] file...
//	ccbench extract [--variant name] [--fields a,b] [file]
//
// Report reads every log in each dir, groups the runs by method, sorts
// each group by the x field, and prints one block of "x y" lines per
// method, with blocks separated by a blank line. This is the input
// format of gnuplot's multi-series plots.
//
// Average combines repeated runs of the same plot data position by
// position and prints the mean of each position.
//
// Extract prints the fields of a single log on one line.
//
// Settings are read from ccbench.yaml in the working directory and
// from CCBENCH_* environment variables (for example,
// CCBENCH_LOG_LEVEL=debug). Flags override both.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql"

	"github.com/currentia/ccbench/internal/config"
	_ "github.com/currentia/ccbench/storage/db/sqlite3"
)

func main() {
	if err := ccbench(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// ccbench runs the command line args, reading from stdin and writing
// the report to stdout. Diagnostics are logged to stderr.
func ccbench(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	root := newRootCmd()
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	return root.Execute()
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := new(app)
	root := &cobra.Command{
		Use:   "ccbench",
		Short: "Aggregate concurrency-control experiment logs into plot data",
		Long: "Ccbench extracts labeled measurements from experiment run logs, groups the runs by " +
			"concurrency-control method, and prints whitespace-separated columns for plotting.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = c

			return config.InitLogger(c.Log, cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}
	root.AddCommand(a.newReportCmd(), a.newAverageCmd(), a.newExtractCmd())
	return root
}
