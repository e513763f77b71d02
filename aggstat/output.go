// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggstat

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"

	"github.com/coloc-bench/aggdata/runfmt"
	"github.com/coloc-bench/aggdata/workload"
)

// A Writer stores aggregated tables under an output directory.
//
// Per-interval tables of a workload are written to
//
//	<Dir>/<workload><suffix>.csv
//	<Dir>/<workload>/<app><suffix>.csv
//
// where the second form holds the rows of a single application. For a
// workload of one application the per-application file would be a
// copy of the workload file, so it is a symbolic link to it instead.
// Other tables are written only to <Dir>/<workload><suffix>.csv.
type Writer struct {
	Dir string
}

// Write stores t, the aggregated table of kind for wl, and returns
// the paths it created.
func (w *Writer) Write(wl workload.Workload, kind runfmt.Kind, t *table.Table) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0777); err != nil {
		return nil, errors.WithStack(err)
	}
	name := wl.Name()
	base := name + kind.Suffix() + ".csv"
	path := filepath.Join(w.Dir, base)
	if err := runfmt.WriteFile(path, t); err != nil {
		return nil, err
	}
	paths := []string{path}
	if !kind.PerInterval() {
		return paths, nil
	}

	appDir := filepath.Join(w.Dir, name)
	if err := os.MkdirAll(appDir, 0777); err != nil {
		return paths, errors.WithStack(err)
	}
	for _, app := range Apps(t) {
		if app == "" || app != filepath.Base(app) {
			return paths, errors.Errorf("application name %q is not a valid file name", app)
		}
		appPath := filepath.Join(appDir, app+kind.Suffix()+".csv")
		if wl.Single() {
			if err := symlink(filepath.Join("..", base), appPath); err != nil {
				return paths, err
			}
		} else {
			sub := table.Flatten(table.FilterEq(t, runfmt.AppKey.Name, app))
			if err := runfmt.WriteFile(appPath, sub); err != nil {
				return paths, err
			}
		}
		paths = append(paths, appPath)
	}
	return paths, nil
}

// Apps returns the distinct values of the app column of t in
// ascending order.
func Apps(t *table.Table) []string {
	col, ok := t.Column(runfmt.AppKey.Name).([]string)
	if !ok {
		return nil
	}
	apps := slice.Nub(col).([]string)
	sort.Strings(apps)
	return apps
}

// symlink creates a symbolic link at path pointing to target,
// replacing whatever was at path.
func symlink(target, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Symlink(target, path))
}

// WriteName records the name of an aggregation run in <dir>/name.
func WriteName(dir, name string) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(filepath.Join(dir, "name"), []byte(name+"\n"), 0666))
}
