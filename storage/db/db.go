// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores aggregated summaries in a SQL database.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// Suffixes of the summary columns of an aggregated table.
const (
	meanSuffix = ":mean"
	stdSuffix  = ":std"
)

// ErrNotFound is returned by Summary when no summary matches.
var ErrNotFound = errors.New("summary not found")

// DB is a high-level interface to the summary database. It's safe
// for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun       *sql.Stmt
	insertSummary   *sql.Stmt
	deleteSummaries *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, errors.WithStack(err)
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
	if err := d.prepareStatements(); err != nil {
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
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Name VARCHAR(255)
);
CREATE TABLE IF NOT EXISTS Summaries (
	RunID BIGINT UNSIGNED,
	Workload VARCHAR(100),
	Kind VARCHAR(16),
	RowKey VARCHAR(100),
	Metric VARCHAR(100),
	Mean DOUBLE,
	StdDev DOUBLE,
	PRIMARY KEY (RunID, Workload, Kind, RowKey, Metric),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return errors.WithStack(err)
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(Name) VALUES (?)")
	if err != nil {
		return errors.WithStack(err)
	}
	db.insertSummary, err = db.sql.Prepare("INSERT INTO Summaries(RunID, Workload, Kind, RowKey, Metric, Mean, StdDev) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return errors.WithStack(err)
	}
	db.deleteSummaries, err = db.sql.Prepare("DELETE FROM Summaries WHERE RunID = ? AND Workload = ? AND Kind = ?")
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// A Run is one aggregation run. Every table stored through a Run
// shares its ID.
type Run struct {
	// ID is the primary key of the run.
	ID int64

	// Name is the name given to the run.
	Name string

	db *DB
}

// NewRun registers a new aggregation run called name.
func (db *DB) NewRun(ctx context.Context, name string) (*Run, error) {
	res, err := db.insertRun.ExecContext(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "insert run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Run{ID: id, Name: name, db: db}, nil
}

// InsertTable stores the summaries of t, the aggregated table of
// kind for workload, replacing any stored earlier in this run.
//
// Every pair of columns "<metric>:mean" and "<metric>:std" becomes
// one summary per row. The remaining columns are keys and identify
// the row as "<key>=<value>" pairs joined by commas. Absent values
// are stored as NULL.
func (r *Run) InsertTable(ctx context.Context, workload, kind string, t *table.Table) (err error) {
	keys, metrics := splitColumns(t)
	rowKeys := make([]string, t.Len())
	for i := range rowKeys {
		rowKeys[i] = rowKey(t, keys, i)
	}

	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = errors.WithStack(tx.Commit())
		}
	}()

	if _, err := tx.StmtContext(ctx, r.db.deleteSummaries).ExecContext(ctx, r.ID, workload, kind); err != nil {
		return errors.Wrap(err, "delete summaries")
	}
	insert := tx.StmtContext(ctx, r.db.insertSummary)
	for _, m := range metrics {
		means, ok := t.Column(m + meanSuffix).([]float64)
		if !ok {
			return errors.Errorf("column %q is not numeric", m+meanSuffix)
		}
		stds, ok := t.Column(m + stdSuffix).([]float64)
		if !ok {
			return errors.Errorf("column %q is not numeric", m+stdSuffix)
		}
		for i, key := range rowKeys {
			if _, err := insert.ExecContext(ctx, r.ID, workload, kind, key, m, nullable(means[i]), nullable(stds[i])); err != nil {
				return errors.Wrapf(err, "insert %s %s", key, m)
			}
		}
	}
	return nil
}

// splitColumns returns the key columns of t and the metrics that
// have both a mean and a standard deviation column.
func splitColumns(t *table.Table) (keys, metrics []string) {
	for _, col := range t.Columns() {
		switch {
		case strings.HasSuffix(col, meanSuffix):
			m := strings.TrimSuffix(col, meanSuffix)
			if t.Column(m+stdSuffix) != nil {
				metrics = append(metrics, m)
			}
		case strings.HasSuffix(col, stdSuffix):
		default:
			keys = append(keys, col)
		}
	}
	return keys, metrics
}

func rowKey(t *table.Table, keys []string, row int) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		var v string
		switch col := t.Column(k).(type) {
		case []int:
			v = strconv.Itoa(col[row])
		case []string:
			v = col[row]
		default:
			v = fmt.Sprint(reflect.ValueOf(col).Index(row).Interface())
		}
		parts[i] = k + "=" + v
	}
	return strings.Join(parts, ",")
}

func nullable(x float64) interface{} {
	if math.IsNaN(x) {
		return nil
	}
	return x
}

// CountRuns returns the number of runs in the database.
func (db *DB) CountRuns() (int, error) {
	var runs int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Runs").Scan(&runs)
	return runs, errors.WithStack(err)
}

// Summary returns the mean and standard deviation stored for one
// metric of one row. Values stored as NULL are returned as NaN.
func (db *DB) Summary(ctx context.Context, runID int64, workload, kind, rowKey, metric string) (mean, stddev float64, err error) {
	var m, s sql.NullFloat64
	err = db.sql.QueryRowContext(ctx,
		"SELECT Mean, StdDev FROM Summaries WHERE RunID = ? AND Workload = ? AND Kind = ? AND RowKey = ? AND Metric = ?",
		runID, workload, kind, rowKey, metric).Scan(&m, &s)
	if err == sql.ErrNoRows {
		return 0, 0, errors.Wrapf(ErrNotFound, "%s %s %s %s", workload, kind, rowKey, metric)
	} else if err != nil {
		return 0, 0, errors.WithStack(err)
	}
	return orNaN(m), orNaN(s), nil
}

func orNaN(x sql.NullFloat64) float64 {
	if !x.Valid {
		return math.NaN()
	}
	return x.Float64
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRun, db.insertSummary, db.deleteSummaries} {
		if err := stmt.Close(); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(db.sql.Close())
}
