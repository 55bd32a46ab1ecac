//go:build !cgo

package sqlite3

import (
	// Registers go-sqlite3's stub driver, which reports that cgo is required.
	_ "github.com/mattn/go-sqlite3"
)
