// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggstat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"

	"github.com/coloc-bench/aggdata/runfmt"
	"github.com/coloc-bench/aggdata/workload"
)

func summaryTable(apps ...string) *table.Table {
	var b table.Builder
	n := len(apps)
	iv := make([]int, n)
	cpu := make([]int, n)
	v := make([]float64, n)
	for i := range apps {
		iv[i] = 1
		cpu[i] = i
		v[i] = float64(i)
	}
	b.Add("interval", iv)
	b.Add("app", apps)
	b.Add("CPU", cpu)
	b.Add("v:mean", v)
	return b.Done()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestWriterMultiApp(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: filepath.Join(dir, "out")}
	paths, err := w.Write(workload.New("B", "C"), runfmt.Interval, summaryTable("C", "B"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "out", "B-C.csv"),
		filepath.Join(dir, "out", "B-C", "B.csv"),
		filepath.Join(dir, "out", "B-C", "C.csv"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if got := readFile(t, want[1]); got != "interval,app,CPU,v:mean\n1,B,1,1\n" {
		t.Errorf("B.csv = %q", got)
	}
	if got := readFile(t, want[2]); got != "interval,app,CPU,v:mean\n1,C,0,0\n" {
		t.Errorf("C.csv = %q", got)
	}
	for _, p := range want[1:] {
		fi, err := os.Lstat(p)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			t.Errorf("%s is a symlink, want a regular file", p)
		}
	}
}

func TestWriterSingleApp(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	wl := workload.New("A")
	// Writing twice replaces the link.
	for i := 0; i < 2; i++ {
		if _, err := w.Write(wl, runfmt.Times, summaryTable("A", "A")); err != nil {
			t.Fatal(err)
		}
	}
	whole := filepath.Join(dir, "A_times.csv")
	app := filepath.Join(dir, "A", "A_times.csv")
	target, err := os.Readlink(app)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("..", "A_times.csv"); target != want {
		t.Errorf("link target = %q, want %q", target, want)
	}
	if got, want := readFile(t, app), readFile(t, whole); got != want {
		t.Errorf("per-app file differs from workload file:\n%s\nvs\n%s", got, want)
	}
}

func TestWriterSummaryKinds(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	var b table.Builder
	b.Add("app", []string{"A"})
	b.Add("CPU", []int{0})
	b.Add("interval:mean", []float64{100})
	paths, err := w.Write(workload.New("A"), runfmt.Final, b.Done())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "A_fin.csv")}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "A")); !os.IsNotExist(err) {
		t.Errorf("per-app directory created for summary kind: %v", err)
	}
}

func TestWriterBadAppName(t *testing.T) {
	w := &Writer{Dir: t.TempDir()}
	if _, err := w.Write(workload.New("A", "B"), runfmt.Interval, summaryTable("../x", "B")); err == nil {
		t.Errorf("Write with path-like app name succeeded")
	}
}

func TestWriteName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := WriteName(dir, "baseline"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "name")); got != "baseline\n" {
		t.Errorf("name = %q, want %q", got, "baseline\n")
	}
}
