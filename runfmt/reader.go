// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// Read parses one run file from r into a table.
//
// The columns named by keys are parsed according to their declared
// type. Every other column becomes a []float64 measurement column in
// which empty cells and "nan" are NaN, the absent value. Columns with
// an empty header name, such as the one produced by a trailing
// separator, are dropped.
func Read(r io.Reader, keys []Key) (*table.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("missing header")
	} else if err != nil {
		return nil, errors.WithStack(err)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	colIndex := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		if name == "" {
			continue
		}
		if _, ok := colIndex[name]; ok {
			return nil, errors.Errorf("duplicate column %q", name)
		}
		colIndex[name] = i
	}
	keyType := make(map[string]KeyType)
	for _, k := range keys {
		if _, ok := colIndex[k.Name]; !ok {
			return nil, errors.Errorf("missing key column %q", k.Name)
		}
		keyType[k.Name] = k.Type
	}

	var b table.Builder
	for i, name := range header {
		if name == "" {
			continue
		}
		typ, isKey := keyType[name]
		var col table.Slice
		switch {
		case isKey && typ == StringKey:
			col, err = stringColumn(rows, i)
		case isKey && typ == IntKey:
			col, err = intColumn(rows, i)
		default:
			col, err = floatColumn(rows, i)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", name)
		}
		b.Add(name, col)
	}
	return b.Done(), nil
}

// ReadFile parses the run file at path. See Read.
func ReadFile(path string, keys []Key) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	t, err := Read(f, keys)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return t, nil
}

func stringColumn(rows [][]string, col int) ([]string, error) {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = strings.TrimSpace(row[col])
	}
	return out, nil
}

func intColumn(rows [][]string, col int) ([]int, error) {
	out := make([]int, len(rows))
	for i, row := range rows {
		v, err := strconv.Atoi(strings.TrimSpace(row[col]))
		if err != nil {
			// Row 1 is the header.
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
		out[i] = v
	}
	return out, nil
}

func floatColumn(rows [][]string, col int) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		v, err := parseFloat(row[col])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
		out[i] = v
	}
	return out, nil
}

// parseFloat parses a measurement cell. C++ streams print NaN as
// "nan" or "-nan", which strconv only accepts unsigned.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(strings.TrimLeft(s, "+-"), "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
