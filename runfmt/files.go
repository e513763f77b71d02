// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"github.com/aclements/go-gg/table"
	"go.uber.org/multierr"
)

// A Files reads run tables from a sequence of run files.
//
// Unlike a single ReadFile, a file that cannot be opened or parsed
// does not end the sequence. Scan reports it as a Result with a
// non-nil Err and moves on to the next path. The failures seen so
// far are available from Errs.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// Keys declares the key columns of every file.
	Keys []Key

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet.
	inputs []string

	res  Result
	errs error
}

// A Result is the outcome of reading one run file.
type Result struct {
	Path string

	// Table is the parsed run, or nil if Err is non-nil.
	Table *table.Table

	Err error
}

// Scan advances to the next file in the sequence and reports whether
// there was one. The caller should use the Result method to get the
// outcome of reading it.
func (f *Files) Scan() bool {
	if f.inputs == nil {
		f.inputs = append([]string{}, f.Paths...)
	}
	if len(f.inputs) == 0 {
		f.res = Result{}
		return false
	}
	path := f.inputs[0]
	f.inputs = f.inputs[1:]

	t, err := ReadFile(path, f.Keys)
	f.res = Result{Path: path, Table: t, Err: err}
	if err != nil {
		f.errs = multierr.Append(f.errs, err)
	}
	return true
}

// Result returns the outcome of the file just read by Scan.
func (f *Files) Result() Result {
	return f.res
}

// Errs returns the combined errors of every file that failed to read
// so far, or nil if there were none.
func (f *Files) Errs() error {
	return f.errs
}
