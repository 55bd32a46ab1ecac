// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads ccbench settings and sets up logging.
package config

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full ccbench configuration.
type Config struct {
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
}

// ReportConfig holds report defaults. Command-line flags override them.
type ReportConfig struct {
	Variant     string `yaml:"variant" mapstructure:"variant"`
	Ext         string `yaml:"ext" mapstructure:"ext"`
	Parallelism int    `yaml:"parallelism" mapstructure:"parallelism"`
	Abbrev      bool   `yaml:"abbrev" mapstructure:"abbrev"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the record archive.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// Load reads configuration from ccbench.yaml in the working directory,
// if present, and from CCBENCH_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("ccbench")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CCBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("report.variant", "simple")
	v.SetDefault("report.ext", ".txt")
	v.SetDefault("report.parallelism", 0)
	v.SetDefault("report.abbrev", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("store.driver", "sqlite3")
	v.SetDefault("store.dsn", "ccbench.db")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// NewLogger builds a logger writing to w. The console format is
// human-readable; anything else logs JSON.
func NewLogger(cfg LogConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}

	var (
		enc  zapcore.Encoder
		opts []zap.Option
	)
	if cfg.Format == "console" {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		opts = append(opts, zap.Development())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core, opts...), nil
}

// InitLogger initializes the global zap logger to write to w.
func InitLogger(cfg LogConfig, w io.Writer) error {
	logger, err := NewLogger(cfg, w)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
