// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp moves the test into an empty directory so no ccbench.yaml
// is picked up by accident.
func chdirTemp(t *testing.T) string {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "simple", cfg.Report.Variant)
	assert.Equal(t, ".txt", cfg.Report.Ext)
	assert.Equal(t, 0, cfg.Report.Parallelism)
	assert.False(t, cfg.Report.Abbrev)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "sqlite3", cfg.Store.Driver)
	assert.Equal(t, "ccbench.db", cfg.Store.DSN)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
report:
  variant: extended
  parallelism: 4
  abbrev: true
store:
  driver: mysql
  dsn: root:@tcp(localhost:3306)/ccbench
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ccbench.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "extended", cfg.Report.Variant)
	assert.Equal(t, 4, cfg.Report.Parallelism)
	assert.True(t, cfg.Report.Abbrev)
	assert.Equal(t, "mysql", cfg.Store.Driver)
	assert.Equal(t, "root:@tcp(localhost:3306)/ccbench", cfg.Store.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, ".txt", cfg.Report.Ext)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
report:
  variant: extended
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ccbench.yaml"), []byte(yaml), 0644))

	t.Setenv("CCBENCH_REPORT_VARIANT", "simple")
	t.Setenv("CCBENCH_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "simple", cfg.Report.Variant)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ccbench.yaml"), []byte("report: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	undo := zap.ReplaceGlobals(zap.NewNop())
	defer undo()

	var buf bytes.Buffer
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}, &buf))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	zap.L().Warn("failed to open directory", zap.String("dir", "results/a"))
	assert.Contains(t, buf.String(), "failed to open directory")
	assert.Contains(t, buf.String(), "results/a")
}

func TestInitLoggerJSON(t *testing.T) {
	undo := zap.ReplaceGlobals(zap.NewNop())
	defer undo()

	var buf bytes.Buffer
	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}, &buf))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))
	assert.True(t, zap.L().Core().Enabled(zap.WarnLevel))

	zap.L().Info("dropped")
	zap.L().Warn("kept", zap.Int("line", 3))
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"line":3`)
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"}, io.Discard)
	assert.Error(t, err)
}
