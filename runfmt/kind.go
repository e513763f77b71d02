// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runfmt reads and writes the CSV files produced by repeated
// runs of a co-located workload.
//
// Every run of a workload produces one file per Kind. A file name has
// the form
//
//	<workload>_<N><suffix>.csv
//
// where <workload> is the hyphen-joined application names, N is the
// run index and <suffix> identifies the Kind. Each file has a header
// row naming its columns. Some columns are keys, declared per Kind;
// all other columns are numeric measurements.
package runfmt

import "fmt"

// A Kind is a family of run files.
type Kind int

const (
	// Interval files hold one row per interval, application and
	// CPU.
	Interval Kind = iota
	// Times files hold per-interval CPU time breakdowns.
	Times
	// Final files hold per-application values at the end of the
	// run.
	Final
	// Total files hold per-application totals.
	Total
)

// Kinds lists every Kind in processing order.
var Kinds = []Kind{Interval, Times, Final, Total}

func (k Kind) String() string {
	switch k {
	case Interval:
		return "int"
	case Times:
		return "times"
	case Final:
		return "fin"
	case Total:
		return "tot"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Suffix returns the file-name suffix of k that follows the run index.
func (k Kind) Suffix() string {
	if k == Interval {
		return ""
	}
	return "_" + k.String()
}

// Keys returns the key columns of files of kind k.
func (k Kind) Keys() []Key {
	if k.PerInterval() {
		return []Key{IntervalKey, AppKey, CPUKey}
	}
	return []Key{AppKey, CPUKey}
}

// PerInterval reports whether files of kind k are keyed by interval.
// Aggregated per-interval data is also split per application on
// output.
func (k Kind) PerInterval() bool {
	return k == Interval || k == Times
}

// A KeyType is the declared type of a key column.
type KeyType int

const (
	// IntKey columns hold decimal integers and are stored as []int.
	IntKey KeyType = iota
	// StringKey columns are stored verbatim as []string.
	StringKey
)

// A Key is a key column of a run file.
type Key struct {
	Name string
	Type KeyType
}

// Key columns of run files.
var (
	IntervalKey = Key{"interval", IntKey}
	AppKey      = Key{"app", StringKey}
	CPUKey      = Key{"CPU", IntKey}
)

// KeyNames returns the column names of keys.
func KeyNames(keys []Key) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Name
	}
	return names
}
