// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens summary databases for tests.
package dbtest

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"flag"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/coloc-bench/aggdata/storage/db"
	_ "github.com/coloc-bench/aggdata/storage/db/sqlite3"
)

var (
	cloud    = flag.Bool("cloud", false, "run database tests on Cloud SQL instead of in-memory SQLite")
	instance = flag.String("cloudsql", "coloc-bench:us-central1:aggdata", "Cloud SQL instance used with -cloud")
)

// A Source is a driver name and data source name for db.OpenSQL.
type Source struct {
	Driver string
	DSN    string
}

// Memory is a private in-memory SQLite database.
var Memory = Source{Driver: "sqlite3", DSN: ":memory:"}

// CloudSource returns the Source of database name on a Cloud SQL
// instance. An empty name connects to the instance without selecting
// a database.
func CloudSource(instance, name string) Source {
	cfg := mysql.NewConfig()
	cfg.User = "root"
	cfg.Net = "cloudsql"
	cfg.Addr = instance
	cfg.DBName = name
	return Source{Driver: "mysql", DSN: cfg.FormatDSN()}
}

// ScratchName returns a new random database name.
func ScratchName() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.WithStack(err)
	}
	return "aggdata-test-" + base64.RawURLEncoding.EncodeToString(buf), nil
}

// scratch creates an empty database on the -cloudsql instance. It is
// dropped when t finishes.
func scratch(t *testing.T) Source {
	t.Helper()
	name, err := ScratchName()
	if err != nil {
		t.Fatal(err)
	}
	admin, err := sql.Open("mysql", CloudSource(*instance, "").DSN)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := admin.Exec("CREATE DATABASE `" + name + "`"); err != nil {
		admin.Close()
		t.Fatalf("create %s: %v", name, err)
	}
	t.Logf("using database %q on %s", name, *instance)
	t.Cleanup(func() {
		if _, err := admin.Exec("DROP DATABASE `" + name + "`"); err != nil {
			t.Errorf("drop %s: %v", name, err)
		}
		admin.Close()
	})
	return CloudSource(*instance, name)
}

// Open opens the summary database at src and closes it when t
// finishes. It fails t if the database already holds runs.
func Open(t *testing.T, src Source) *db.DB {
	t.Helper()
	d, err := db.OpenSQL(src.Driver, src.DSN)
	if err != nil {
		t.Fatalf("open %s database: %v", src.Driver, err)
	}
	t.Cleanup(func() { d.Close() })

	runs, err := d.CountRuns()
	if err != nil {
		t.Fatal(err)
	}
	if runs != 0 {
		t.Fatalf("found %d row(s) in Runs, want 0", runs)
	}
	return d
}

// NewDB returns an empty summary database for t: in-memory SQLite, or
// a scratch database on Cloud SQL with -cloud.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	src := Memory
	if *cloud {
		src = scratch(t)
	}
	return Open(t, src)
}
