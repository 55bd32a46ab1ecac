// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/currentia/ccbench/benchfmt"
	"github.com/currentia/ccbench/storage/db"
)

const fullLog = `Method: %s
Tuples: 1000
Elapsed: 4.97 secs
Stream Rate: %s tps
Update Rate: 1500 qps
Query Throughput: 200.85 tps
Update Throughput: 1499.2 qps
Selectivity: 0.5
Window: 100
`

const shortLog = "Method: %s\nElapsed: 2.0 secs\nQuery Throughput: 100.0 tps\n"

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0666))
	}
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runLogged(t, stdin, args...)
	return stdout, err
}

// runLogged is like run but also returns the diagnostics.
func runLogged(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("CCBENCH_LOG_LEVEL", "warn")
	t.Setenv("CCBENCH_LOG_FORMAT", "json")
	var out, diag bytes.Buffer
	t.Logf("ccbench %s", strings.Join(args, " "))
	err = ccbench(strings.NewReader(stdin), &out, &diag, args)
	return out.String(), diag.String(), err
}

func TestReportScenario(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"none_run1.txt": fmt.Sprintf(shortLog, "none"),
		"none_run2.txt": fmt.Sprintf(shortLog, "none"),
		"2pl_run1.txt":  fmt.Sprintf(shortLog, "2pl"),
	})

	got, err := run(t, "", "report", "--variant", "extended", "--fields", "method,elapsed,query_throughput",
		dir, "elapsed", "query_throughput")
	require.NoError(t, err)
	// none, optimistic, 2pl, snapshot
	assert.Equal(t, "2.0 100.0\n2.0 100.0\n\n\n2.0 100.0\n\n", got)

	got, err = run(t, "", "report", "--variant", "extended", "--fields", "method,elapsed,query_throughput",
		"--method", "2pl", dir, "elapsed", "query_throughput")
	require.NoError(t, err)
	assert.Equal(t, "2.0 100.0\n", got)
}

func TestReportSimple(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"none_a.txt":       fmt.Sprintf(fullLog, "none", "2000000"),
		"none_b.txt":       fmt.Sprintf(fullLog, "none", "500"),
		"lock_a.txt":       fmt.Sprintf(fullLog, "lock", "3000"),
		"versioning_a.txt": fmt.Sprintf(fullLog, "versioning", "1000000000"),
		"other_a.txt":      fmt.Sprintf(fullLog, "other", "1"),
	})

	got, err := run(t, "", "report", "--abbrev", dir, "stream_rate", "update_rate")
	require.NoError(t, err)
	want := "500 1500 500 1K\n2000000 1500 2M 1K\n" +
		"\n" +
		"3000 1500 3K 1K\n" +
		"\n" +
		"1000000000 1500 1G 1K\n"
	assert.Equal(t, want, got)

	got, err = run(t, "", "report", "--order", "versioning,none", dir, "stream_rate", "elapsed")
	require.NoError(t, err)
	assert.Equal(t, "1000000000 4.97\n\n500 4.97\n2000000 4.97\n", got)
}

func TestReportMissingField(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"none_a.txt": fmt.Sprintf(fullLog, "none", "10"),
		"lock_a.txt": fmt.Sprintf(shortLog, "lock"),
	})

	_, err := run(t, "", "report", dir, "stream_rate", "update_rate")
	require.Error(t, err)
	var mf *benchfmt.MissingFieldError
	require.True(t, errors.As(err, &mf), "got %v", err)
	assert.Equal(t, "lock_a.txt", mf.File)
	assert.Equal(t, "tuples", mf.Field)
}

func TestReportUnavailableDirectory(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lock_a.txt": fmt.Sprintf(fullLog, "lock", "7"),
	})
	missing := filepath.Join(t.TempDir(), "missing")

	got, diag, err := runLogged(t, "", "report", missing, dir, "stream_rate", "update_rate")
	require.NoError(t, err)
	// Three empty blocks for the missing directory, then the real one.
	assert.Equal(t, "\n\n\n\n7 1500\n\n", got)
	assert.Contains(t, diag, `"msg":"failed to open directory"`)
	assert.Contains(t, diag, missing)
	assert.NotContains(t, got, "failed")
}

func TestReportErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"none_a.txt": fmt.Sprintf(fullLog, "none", "10"),
	})

	_, err := run(t, "", "report", "--variant", "bogus", dir, "stream_rate", "update_rate")
	assert.ErrorContains(t, err, `unknown variant "bogus"`)

	_, err = run(t, "", "report", dir, "stream_rate", "latency")
	assert.ErrorContains(t, err, `has no field "latency"`)

	_, err = run(t, "", "report", "--method", "2pl", dir, "stream_rate", "update_rate")
	assert.ErrorContains(t, err, `no method group "2pl"`)

	_, err = run(t, "", "report", dir, "stream_rate")
	assert.Error(t, err)
}

func TestReportSave(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"none_a.txt": fmt.Sprintf(fullLog, "none", "10"),
		"lock_a.txt": fmt.Sprintf(fullLog, "lock", "20"),
	})
	dsn := filepath.Join(t.TempDir(), "archive.db")
	t.Setenv("CCBENCH_STORE_DRIVER", "sqlite3")
	t.Setenv("CCBENCH_STORE_DSN", dsn)

	_, err := run(t, "", "report", "--save", dir, "stream_rate", "update_rate")
	require.NoError(t, err)

	d, err := db.OpenSQL("sqlite3", dsn)
	require.NoError(t, err)
	defer d.Close()
	ctx := context.Background()
	n, err := d.CountUploads(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	recs, err := d.Records(ctx, "1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "none", recs[0].Method)
	assert.Equal(t, "none_a.txt", recs[0].File)
	assert.Equal(t, dir, recs[0].Dir)
	assert.Equal(t, "lock", recs[1].Method)
	assert.Equal(t, "20", recs[1].Value("stream_rate"))
}

func TestAverageScenario(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"run1.dat": "1 2\n\n3 4\n",
		"run2.dat": "1 2\n\n3 4\n",
	})

	got, err := run(t, "", "average", filepath.Join(dir, "run1.dat"), filepath.Join(dir, "run2.dat"))
	require.NoError(t, err)
	assert.Equal(t, "1.0 2.0\n\n3.0 4.0\n", got)
}

func TestAverageMismatch(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"run1.dat": "1 1\n",
		"run2.dat": "3 3\n5 5\n",
	})

	got, diag, err := runLogged(t, "", "average", filepath.Join(dir, "run1.dat"), filepath.Join(dir, "run2.dat"))
	require.NoError(t, err)
	assert.Equal(t, "2.0 2.0\n", got)
	assert.Contains(t, diag, `"msg":"line disagrees with first file"`)
	assert.Contains(t, diag, "run2.dat")
	assert.Contains(t, diag, `"line":2`)
}

func TestAverageAbbrev(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"run1.dat": "1000 2000000\n",
		"run2.dat": "2000 4000000\n",
	})

	got, err := run(t, "", "average", "--abbrev", filepath.Join(dir, "run1.dat"), filepath.Join(dir, "run2.dat"))
	require.NoError(t, err)
	assert.Equal(t, "1500.0 3000000.0 1K 3M\n", got)

	_, err = run(t, "", "average", filepath.Join(dir, "missing.dat"))
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	log := fmt.Sprintf(fullLog, "none", "2000000")

	got, err := run(t, log, "extract")
	require.NoError(t, err)
	assert.Equal(t, "none 1000 4.97 2000000 1500 200.85 1499.2 0.5 100\n", got)

	got, err = run(t, log, "extract", "--fields", "update_rate,method")
	require.NoError(t, err)
	assert.Equal(t, "none 1500\n", got)

	dir := writeFiles(t, map[string]string{
		"2pl_a.txt": "Method: 2pl\nElapsed: 4.9788 secs\nUpdate Rate: 10 qps\nQuery Throughput: 200.852 tps\n" +
			"Update Throughput: 9.9 qps\nConsistent Rate: 1\nWindow: [ width 20 | stride 5 ]\n",
	})
	got, err = run(t, "", "extract", "--variant", "extended", filepath.Join(dir, "2pl_a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2pl 4.9788 10 200.852 9.9 1 20 5\n", got)

	summary := "Elapsed: 4.9788 secs\nUpdate Rate: 100 qps\nQuery Throughput: 200.852 tps\n" +
		"Update Throughput: 9.84173 qps\nScheduler Batch Process Count: 10 tuples\nConsistent Rate: 1\n" +
		"Window: [ width 20 | stride 5 ] (TUPLE)\n# of Operator Evaluation Count: 11612\nMethod: 2pl\n"
	got, err = run(t, summary, "extract", "--variant", "extended",
		"--fields", "batch_count,query_throughput,evaluation_count,window_width,window_stride")
	require.NoError(t, err)
	assert.Equal(t, "10 200.852 11612 20 5\n", got)

	_, err = run(t, "Method: none\n", "extract")
	var mf *benchfmt.MissingFieldError
	require.True(t, errors.As(err, &mf), "got %v", err)
	assert.Equal(t, "<stdin>", mf.File)
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"report", "average", "extract"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}
