// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runmath

import (
	"math"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAugmentSingleApp(t *testing.T) {
	var b table.Builder
	b.Add("app", []string{"A", "A"})
	b.Add("CPU", []int{0, 1})
	b.Add("interval", []float64{100, 110})
	aug, err := Augment(b.Done(), 100)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"app", "CPU", "interval", Progress, Slowdown, STP, ANTT, Unfairness}
	if diff := cmp.Diff(want, aug.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	approx := cmpopts.EquateApprox(0, 1e-12)
	p1, p2 := 1.0, 100.0/110
	s1, s2 := 1.0, 1.1
	mean := (p1 + p2) / 2
	std := math.Sqrt(((p1-mean)*(p1-mean) + (p2-mean)*(p2-mean)) / 1)
	for _, test := range []struct {
		col  string
		want []float64
	}{
		{Progress, []float64{p1, p2}},
		{Slowdown, []float64{s1, s2}},
		{STP, []float64{p1 + p2, p1 + p2}},
		{ANTT, []float64{(s1 + s2) / 2, (s1 + s2) / 2}},
		{Unfairness, []float64{std / mean, std / mean}},
	} {
		if diff := cmp.Diff(test.want, aug.Column(test.col), approx); diff != "" {
			t.Errorf("column %q mismatch (-want +got):\n%s", test.col, diff)
		}
	}

	progress := aug.Column(Progress).([]float64)
	slowdown := aug.Column(Slowdown).([]float64)
	for i := range progress {
		if got := progress[i] * slowdown[i]; math.Abs(got-1) > 1e-12 {
			t.Errorf("row %d: progress*slowdown = %v, want 1", i, got)
		}
	}
}

func TestAugmentIntervalKey(t *testing.T) {
	// Interval files key rows by an integer interval. Interval 0
	// has no defined progress, so those rows are dropped and do not
	// contribute to stp. Their slowdown of 0 still counts towards
	// antt.
	var b table.Builder
	b.Add("interval", []int{0, 0, 50, 50})
	b.Add("app", []string{"A", "B", "A", "B"})
	b.Add("CPU", []int{0, 1, 0, 1})
	b.Add("ipc", []float64{1, math.Inf(1), 2, math.Inf(-1)})
	aug, err := Augment(b.Done(), 100)
	if err != nil {
		t.Fatal(err)
	}
	if aug.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", aug.Len())
	}
	if diff := cmp.Diff([]int{50, 50}, aug.Column("interval")); diff != "" {
		t.Errorf("interval mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, math.NaN()}, aug.Column("ipc"), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("ipc mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{4, 4}, aug.Column(STP)); diff != "" {
		t.Errorf("stp mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.25, 0.25}, aug.Column(ANTT)); diff != "" {
		t.Errorf("antt mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0}, aug.Column(Unfairness)); diff != "" {
		t.Errorf("unfairness of equal progress mismatch (-want +got):\n%s", diff)
	}
}

// TestAugmentANTTAllRows verifies that antt averages the slowdown of
// every row, including rows dropped for their undefined progress.
func TestAugmentANTTAllRows(t *testing.T) {
	var b table.Builder
	b.Add("interval", []int{0, 100, 200})
	aug, err := Augment(b.Done(), 100)
	if err != nil {
		t.Fatal(err)
	}
	if aug.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", aug.Len())
	}
	if diff := cmp.Diff([]float64{1, 0.5}, aug.Column(Progress)); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 1}, aug.Column(ANTT)); diff != "" {
		t.Errorf("antt mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1.5, 1.5}, aug.Column(STP)); diff != "" {
		t.Errorf("stp mismatch (-want +got):\n%s", diff)
	}
}

func TestAugmentUndefined(t *testing.T) {
	nan := math.NaN()
	for _, test := range []struct {
		name     string
		interval []float64
		rows     int
		m        Metrics
	}{
		{"single row", []float64{200}, 1, Metrics{0.5, 2, nan}},
		{"absent interval", []float64{nan, 50}, 1, Metrics{2, 0.5, nan}},
		{"zero interval", []float64{0, nan, 200}, 1, Metrics{0.5, 1, nan}},
		{"all undefined", []float64{0, nan}, 0, Metrics{}},
	} {
		var b table.Builder
		b.Add("interval", test.interval)
		aug, err := Augment(b.Done(), 100)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if aug.Len() != test.rows {
			t.Errorf("%s: Len() = %d, want %d", test.name, aug.Len(), test.rows)
			continue
		}
		for _, col := range []struct {
			name string
			want float64
		}{{STP, test.m.STP}, {ANTT, test.m.ANTT}, {Unfairness, test.m.Unfairness}} {
			want := repeat(col.want, test.rows)
			if diff := cmp.Diff(want, aug.Column(col.name), cmpopts.EquateNaNs()); diff != "" {
				t.Errorf("%s: %s mismatch (-want +got):\n%s", test.name, col.name, diff)
			}
		}
	}
}

func TestRunMetrics(t *testing.T) {
	nan := math.NaN()
	// Interval 0, absent interval and interval 200 with alone 100.
	m := RunMetrics([]float64{nan, nan, 0.5}, []float64{0, nan, 2})
	if diff := cmp.Diff(Metrics{0.5, 1, nan}, m, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
	m = RunMetrics([]float64{nan, nan}, []float64{0, nan})
	if diff := cmp.Diff(Metrics{0, 0, nan}, m, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("all undefined: metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestAugmentMissingInterval(t *testing.T) {
	var b table.Builder
	b.Add("app", []string{"A"})
	b.Add("ipc", []float64{1})
	if _, err := Augment(b.Done(), 100); err == nil {
		t.Errorf("Augment without interval column succeeded")
	}
}
