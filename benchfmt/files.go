// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// DefaultExt is the file extension of run logs.
const DefaultExt = ".txt"

// A Dir is a directory of run logs, one log per file.
//
// Only regular files whose name ends in Ext are logs; everything else
// in the directory is ignored.
type Dir struct {
	// Path is the directory to read.
	Path string

	// Ext is the extension of log files, including the dot.
	// If empty, it defaults to DefaultExt.
	Ext string
}

func (d Dir) ext() string {
	if d.Ext == "" {
		return DefaultExt
	}
	return d.Ext
}

// Names returns the names of the logs in d in lexical order.
//
// If the directory cannot be listed, Names returns a
// *DirectoryUnavailableError.
func (d Dir) Names() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, &DirectoryUnavailableError{Dir: d.Path, Err: err}
	}
	ext := d.ext()
	var names []string
	// os.ReadDir returns entries sorted by name.
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Read reads the log called name in d.
func (d Dir) Read(name string) (RawLog, error) {
	log, err := ReadLog(filepath.Join(d.Path, name))
	if err != nil {
		return RawLog{}, err
	}
	log.Name = name
	return log, nil
}

// ReadLog reads the log at path. The RawLog is named by the base name
// of path.
func ReadLog(path string) (RawLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawLog{}, eris.Wrapf(err, "benchfmt: read %s", path)
	}
	return RawLog{Name: filepath.Base(path), Text: string(data)}, nil
}

// ReadLogFrom reads a log from r and names it name. It is used for
// logs piped on standard input.
func ReadLogFrom(r io.Reader, name string) (RawLog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RawLog{}, eris.Wrapf(err, "benchfmt: read %s", name)
	}
	return RawLog{Name: name, Text: string(data)}, nil
}
