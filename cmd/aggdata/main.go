// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Aggdata aggregates the repeated runs of co-located workloads.
//
// Usage:
//
//	aggdata -w workloads.yaml -i data -n name --alone intervals [-o aggrdata] [--spec] [--db dsn] [--db-driver sqlite3] [-v]
//
// The workload list is a YAML sequence. Each entry is either the name
// of one application or a list of the applications that run together.
// For every workload, aggdata reads the run files
//
//	<workload>_<N>.csv        per-interval measurements
//	<workload>_<N>_times.csv  per-interval CPU times
//	<workload>_<N>_fin.csv    values at the end of the run
//	<workload>_<N>_tot.csv    totals
//
// from the input directory, where <workload> is the hyphen-joined
// application names and N the run index. Each run is extended with
// derived metrics normalized by --alone, the number of intervals an
// application takes when executing alone:
//
//	progress    alone / interval
//	slowdown    interval / alone
//	stp         sum of progress over the run
//	antt        mean of slowdown over the run
//	unfairness  coefficient of variation of progress over the run
//
// The runs of each kind are then merged into the mean (":mean") and
// sample standard deviation (":std") of every column per key and
// written to <output-dir>/<workload><suffix>.csv. Per-interval results
// are also split per application into <output-dir>/<workload>/.
// The run name is recorded in <output-dir>/name.
//
// With --db, every aggregated table is also stored in a SQL database.
// The --db-driver flag selects sqlite3 or mysql; Cloud SQL instances
// are reachable with a DSN of the form "user@cloudsql(instance)/db".
//
// A workload that fails is logged and the remaining workloads are
// still processed. Aggdata exits with a non-zero status only for
// invalid flags, an unreadable workload list, or an output directory
// or database that cannot be opened.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"

	_ "github.com/coloc-bench/aggdata/storage/db/sqlite3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := aggdata(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}

// aggdata runs the command line args, writing logs to w and command
// errors to wErr.
func aggdata(ctx context.Context, w, wErr io.Writer, args []string) error {
	cmd := NewCmdAggdata()
	cmd.SetArgs(args)
	cmd.SetOut(w)
	cmd.SetErr(wErr)
	return cmd.ExecuteContext(ctx)
}
