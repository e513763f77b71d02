// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runmath

import (
	"math"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// Names of the derived metric columns added by Augment.
const (
	Progress   = "progress"
	Slowdown   = "slowdown"
	STP        = "stp"
	ANTT       = "antt"
	Unfairness = "unfairness"
)

// IntervalColumn is the column Augment normalizes against the alone
// baseline.
const IntervalColumn = "interval"

// Metrics are the per-run values Augment broadcasts to every row.
type Metrics struct {
	STP, ANTT, Unfairness float64
}

// Augment returns t with the derived metric columns appended.
//
// For each row, progress is alone/interval and slowdown is
// interval/alone. The run metrics are computed before rows are
// dropped: antt is the mean of slowdown over every row, stp is the
// sum of progress and unfairness its coefficient of variation, both
// over the rows with a finite progress. Those rows are the only ones
// kept. Infinities in any measurement column are replaced by the
// absent value.
//
// The interval column may be an integer key column or a measurement
// column.
func Augment(t *table.Table, alone float64) (*table.Table, error) {
	iv, err := intervals(t)
	if err != nil {
		return nil, err
	}

	progress := make([]float64, len(iv))
	slowdown := make([]float64, len(iv))
	keep := make([]int, 0, len(iv))
	for i, x := range iv {
		progress[i] = finite(alone / x)
		slowdown[i] = finite(x / alone)
		if !IsAbsent(progress[i]) {
			keep = append(keep, i)
		}
	}

	m := RunMetrics(progress, slowdown)

	b := new(table.Builder)
	for _, name := range t.Columns() {
		col := t.Column(name)
		if xs, ok := col.([]float64); ok {
			col = finiteSlice(xs)
		}
		b.Add(name, slice.Select(col, keep))
	}

	progress = slice.Select(progress, keep).([]float64)
	slowdown = slice.Select(slowdown, keep).([]float64)
	b.Add(Progress, progress)
	b.Add(Slowdown, slowdown)
	b.Add(STP, repeat(m.STP, len(keep)))
	b.Add(ANTT, repeat(m.ANTT, len(keep)))
	b.Add(Unfairness, repeat(m.Unfairness, len(keep)))
	return b.Done(), nil
}

// RunMetrics computes the per-run metrics from the progress and
// slowdown of every application and CPU in one run. Absent values are
// skipped, so a row with undefined progress still counts towards antt
// when its slowdown is defined.
func RunMetrics(progress, slowdown []float64) Metrics {
	p := NewSample(progress)
	return Metrics{
		STP:        p.Sum(),
		ANTT:       NewSample(slowdown).Mean(),
		Unfairness: finite(p.StdDev() / p.Mean()),
	}
}

func intervals(t *table.Table) ([]float64, error) {
	switch col := t.Column(IntervalColumn).(type) {
	case []float64:
		return col, nil
	case []int:
		xs := make([]float64, len(col))
		for i, x := range col {
			xs[i] = float64(x)
		}
		return xs, nil
	case nil:
		return nil, errors.Errorf("missing %q column", IntervalColumn)
	default:
		return nil, errors.Errorf("%q column has type %T", IntervalColumn, col)
	}
}

// finite returns x, or the absent value if x is infinite.
func finite(x float64) float64 {
	if math.IsInf(x, 0) {
		return Absent()
	}
	return x
}

func finiteSlice(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = finite(x)
	}
	return out
}

func repeat(x float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = x
	}
	return xs
}
