// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FilePattern returns the regular expression matching the base names
// of the run files of kind for the named workload. The first
// submatch is the run index.
func FilePattern(workload string, kind Kind) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(workload) + "_([0-9]+)" + regexp.QuoteMeta(kind.Suffix()) + `\.csv$`)
}

// Discover returns the paths of all run files of kind for the named
// workload in dir, ordered by run index. It returns an empty slice if
// there are none.
func Discover(dir, workload string, kind Kind) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	re := FilePattern(workload, kind)

	type run struct {
		index string
		path  string
	}
	var runs []run
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		runs = append(runs, run{m[1], filepath.Join(dir, e.Name())})
	}

	// Run indexes are unbounded, so compare them as decimal strings.
	sort.Slice(runs, func(i, j int) bool {
		a, b := strings.TrimLeft(runs[i].index, "0"), strings.TrimLeft(runs[j].index, "0")
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		if a != b {
			return a < b
		}
		return runs[i].path < runs[j].path
	})

	paths := make([]string, len(runs))
	for i, r := range runs {
		paths[i] = r.path
	}
	return paths, nil
}
