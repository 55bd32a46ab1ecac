// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives extracted run records in a SQL database so that
// runs from different report invocations can be compared later.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"

	"github.com/currentia/ccbench/benchfmt"
	"github.com/currentia/ccbench/benchproc"
)

// DB is a high-level interface to a record archive. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload *sql.Stmt
	insertRecord *sql.Stmt
	insertField  *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, eris.Wrapf(err, "db: open %s", driverName)
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}}
);
CREATE TABLE IF NOT EXISTS Records (
	UploadID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Dir VARCHAR(1024),
	Method VARCHAR(255),
	File VARCHAR(1024),
	PRIMARY KEY (UploadID, RecordID),
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS RecordFields (
	UploadID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Name VARCHAR(255),
	Value VARCHAR(8192),
{{if not .sqlite3}}
	Index (Name(100), Value(100)),
{{end}}
	FOREIGN KEY (UploadID, RecordID) REFERENCES Records(UploadID, RecordID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RecordFieldsNameValue ON RecordFields(Name, Value);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return eris.Wrap(err, "db: create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	q := "INSERT INTO Uploads() VALUES ()"
	if driverName == "sqlite3" {
		q = "INSERT INTO Uploads DEFAULT VALUES"
	}
	db.insertUpload, err = db.sql.Prepare(q)
	if err != nil {
		return eris.Wrap(err, "db: prepare")
	}
	db.insertRecord, err = db.sql.Prepare("INSERT INTO Records(UploadID, RecordID, Dir, Method, File) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return eris.Wrap(err, "db: prepare")
	}
	db.insertField, err = db.sql.Prepare("INSERT INTO RecordFields(UploadID, RecordID, Name, Value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return eris.Wrap(err, "db: prepare")
	}
	return nil
}

// An Upload is a set of records archived together, typically all
// records of one report invocation.
type Upload struct {
	// ID identifies the upload in Records queries.
	ID string

	// id is the numeric value used as the primary key.
	id int64
	// recordid is the index of the next record to insert.
	recordid int64
	// db is the underlying database that this upload is going to.
	db *DB
}

// NewUpload returns an upload for storing new records.
func (db *DB) NewUpload(ctx context.Context) (*Upload, error) {
	res, err := db.insertUpload.ExecContext(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "db: new upload")
	}
	i, err := res.LastInsertId()
	if err != nil {
		return nil, eris.Wrap(err, "db: new upload")
	}
	return &Upload{
		ID: fmt.Sprint(i),
		id: i,
		db: db,
	}, nil
}

// InsertRecord archives rec, read from directory dir and classified
// under method.
func (u *Upload) InsertRecord(ctx context.Context, dir, method string, rec benchfmt.Record) (err error) {
	tx, err := u.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "db: insert record")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.StmtContext(ctx, u.db.insertRecord).ExecContext(ctx, u.id, u.recordid, dir, method, rec.File); err != nil {
		return eris.Wrapf(err, "db: insert record %s", rec.File)
	}
	names := make([]string, 0, len(rec.Fields))
	for name := range rec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	stmt := tx.StmtContext(ctx, u.db.insertField)
	for _, name := range names {
		if _, err = stmt.ExecContext(ctx, u.id, u.recordid, name, rec.Fields[name]); err != nil {
			return eris.Wrapf(err, "db: insert field %s of %s", name, rec.File)
		}
	}
	u.recordid++
	return nil
}

// InsertGroups archives every record of groups, read from dir.
func (u *Upload) InsertGroups(ctx context.Context, dir string, groups []benchproc.Group) error {
	for _, g := range groups {
		for _, rec := range g.Records {
			if err := u.InsertRecord(ctx, dir, g.Label, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads(ctx context.Context) (int, error) {
	var uploads int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	if err != nil {
		return 0, eris.Wrap(err, "db: count uploads")
	}
	return uploads, nil
}

// A StoredRecord is an archived record.
type StoredRecord struct {
	Dir    string
	Method string
	benchfmt.Record
}

// Records returns the records of the upload with the given ID, in
// insertion order.
func (db *DB) Records(ctx context.Context, uploadID string) ([]StoredRecord, error) {
	id, err := strconv.ParseInt(uploadID, 10, 64)
	if err != nil {
		return nil, eris.Errorf("db: invalid upload ID %q", uploadID)
	}

	rows, err := db.sql.QueryContext(ctx, "SELECT RecordID, Dir, Method, File FROM Records WHERE UploadID = ? ORDER BY RecordID", id)
	if err != nil {
		return nil, eris.Wrap(err, "db: query records")
	}
	var recs []StoredRecord
	index := make(map[int64]int)
	for rows.Next() {
		var rid int64
		var r StoredRecord
		if err := rows.Scan(&rid, &r.Dir, &r.Method, &r.File); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "db: scan record")
		}
		r.Fields = make(map[string]string)
		index[rid] = len(recs)
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "db: query records")
	}
	rows.Close()

	rows, err = db.sql.QueryContext(ctx, "SELECT RecordID, Name, Value FROM RecordFields WHERE UploadID = ?", id)
	if err != nil {
		return nil, eris.Wrap(err, "db: query fields")
	}
	defer rows.Close()
	for rows.Next() {
		var rid int64
		var name, value string
		if err := rows.Scan(&rid, &name, &value); err != nil {
			return nil, eris.Wrap(err, "db: scan field")
		}
		if i, ok := index[rid]; ok {
			recs[i].Fields[name] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "db: query fields")
	}
	return recs, nil
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertUpload, db.insertRecord, db.insertField} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
