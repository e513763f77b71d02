// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggstat

import (
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"

	"github.com/coloc-bench/aggdata/runfmt"
	"github.com/coloc-bench/aggdata/runmath"
)

// Suffixes of the summary columns produced by Merge.
const (
	MeanSuffix = ":mean"
	StdSuffix  = ":std"
)

// Merge concatenates the runs of one workload and reduces them to
// one row per distinct key.
//
// Every non-key column c of the runs becomes two columns, c:mean and
// c:std, holding the mean and sample standard deviation of the
// present values of c across all rows sharing the key. A column that
// only some runs have is absent in the rows of the others. Rows are
// ordered by ascending key, comparing keys left to right.
func Merge(runs []*table.Table, keys []runfmt.Key) (*table.Table, error) {
	if len(runs) == 0 {
		return nil, errors.New("no runs to merge")
	}
	gs, metrics, err := reconcile(runs, keys)
	if err != nil {
		return nil, err
	}
	keyNames := runfmt.KeyNames(keys)
	merged := table.Flatten(table.Concat(gs...))

	cols := append([]string{}, keyNames...)
	for _, m := range metrics {
		cols = append(cols, m+MeanSuffix, m+StdSuffix)
	}
	if merged.Len() == 0 {
		return emptySummary(keys, cols[len(keys):]), nil
	}

	agg := ggstat.Agg(keyNames...)(AggSummary(metrics...)).F(merged)
	// Aggregate also keeps input columns that happen to be constant
	// within every group. Only the keys and summaries are wanted.
	out := project(table.Flatten(agg), cols)
	return sortByKeys(out, keyNames), nil
}

// AggSummary returns an aggregate function that computes the mean and
// sample standard deviation of the present values of each of cols.
// The resulting columns are named "<col>:mean" and "<col>:std".
// Either is absent if the group has too few present values.
func AggSummary(cols ...string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		gids := input.Tables()
		for _, col := range cols {
			means := make([]float64, len(gids))
			stds := make([]float64, len(gids))
			for i, gid := range gids {
				xs := input.Table(gid).MustColumn(col).([]float64)
				s := runmath.NewSample(xs)
				means[i], stds[i] = s.Mean(), s.StdDev()
			}
			b.Add(col+MeanSuffix, means)
			b.Add(col+StdSuffix, stds)
		}
	}
}

// reconcile gives every run the same columns: the keys, followed by
// the union of the other columns in the order they are first seen.
// It returns the reconciled runs and the names of the non-key
// columns.
func reconcile(runs []*table.Table, keys []runfmt.Key) ([]table.Grouping, []string, error) {
	isKey := make(map[string]bool)
	for _, k := range keys {
		isKey[k.Name] = true
	}
	var metrics []string
	seen := make(map[string]bool)
	for _, t := range runs {
		for _, col := range t.Columns() {
			if isKey[col] || seen[col] {
				continue
			}
			seen[col] = true
			metrics = append(metrics, col)
		}
	}

	gs := make([]table.Grouping, len(runs))
	for i, t := range runs {
		var b table.Builder
		for _, k := range keys {
			col := t.Column(k.Name)
			if !keyColumnOK(col, k.Type) {
				return nil, nil, errors.Errorf("run %d: key column %q has type %T", i, k.Name, col)
			}
			b.Add(k.Name, col)
		}
		for _, m := range metrics {
			col := t.Column(m)
			if col == nil {
				col = absentColumn(t.Len())
			} else if _, ok := col.([]float64); !ok {
				return nil, nil, errors.Errorf("run %d: column %q has type %T", i, m, col)
			}
			b.Add(m, col)
		}
		gs[i] = b.Done()
	}
	return gs, metrics, nil
}

func keyColumnOK(col table.Slice, typ runfmt.KeyType) bool {
	switch col.(type) {
	case []int:
		return typ == runfmt.IntKey
	case []string:
		return typ == runfmt.StringKey
	}
	return false
}

func absentColumn(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = runmath.Absent()
	}
	return xs
}

func emptySummary(keys []runfmt.Key, summaries []string) *table.Table {
	var b table.Builder
	for _, k := range keys {
		if k.Type == runfmt.IntKey {
			b.Add(k.Name, []int{})
		} else {
			b.Add(k.Name, []string{})
		}
	}
	for _, s := range summaries {
		b.Add(s, []float64{})
	}
	return b.Done()
}

func project(t *table.Table, cols []string) *table.Table {
	var b table.Builder
	for _, col := range cols {
		b.Add(col, t.MustColumn(col))
	}
	return b.Done()
}

// sortByKeys sorts the rows of t by the tuple of keys.
func sortByKeys(t *table.Table, keys []string) *table.Table {
	// SortBy skips key columns that are already sorted, which only
	// gives tuple order for a single column. Sort stably by one key
	// at a time instead, least significant first.
	var g table.Grouping = t
	for i := len(keys) - 1; i >= 0; i-- {
		g = table.SortBy(g, keys[i])
	}
	return table.Flatten(g)
}
