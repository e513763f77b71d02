// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// WriteCSV writes t to w as CSV with a header row.
//
// Floats are written in their shortest form that parses back to the
// same value and NaN, the absent value, is written as an empty cell,
// so the output of identical tables is byte-identical.
func WriteCSV(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	csvw := csv.NewWriter(w)
	if err := csvw.Write(cols); err != nil {
		return errors.WithStack(err)
	}

	formatters := make([]func(int) string, len(cols))
	for i, name := range cols {
		formatters[i] = formatter(t.Column(name))
	}
	row := make([]string, len(cols))
	for r := 0; r < t.Len(); r++ {
		for i, f := range formatters {
			row[i] = f(r)
		}
		if err := csvw.Write(row); err != nil {
			return errors.WithStack(err)
		}
	}
	csvw.Flush()
	return errors.WithStack(csvw.Error())
}

// WriteFile writes t as CSV to the file at path, replacing any
// existing file.
func WriteFile(path string, t *table.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.WithStack(cerr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, t); err != nil {
		return errors.Wrap(err, path)
	}
	return errors.WithStack(bw.Flush())
}

func formatter(col table.Slice) func(int) string {
	switch col := col.(type) {
	case []float64:
		return func(i int) string { return FormatFloat(col[i]) }
	case []int:
		return func(i int) string { return strconv.Itoa(col[i]) }
	case []string:
		return func(i int) string { return col[i] }
	}
	rv := reflect.ValueOf(col)
	return func(i int) string { return fmt.Sprint(rv.Index(i).Interface()) }
}

// FormatFloat formats a measurement for output. NaN is the empty
// string.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
