// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		in   string
		want []Workload
		err  bool
	}{
		{"- A\n- [B, C]\n", []Workload{New("A"), New("B", "C")}, false},
		{"- - x\n  - y\n  - z\n", []Workload{New("x", "y", "z")}, false},
		{"[]", nil, false},
		{"- {a: b}\n", nil, true},
		{"- []\n", nil, true},
		{"- ''\n", nil, true},
		{"- [[a]]\n", nil, true},
	} {
		got, err := Parse([]byte(test.in))
		if test.err {
			if err == nil {
				t.Errorf("Parse(%q): want error, got %v", test.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", test.in, err)
			continue
		}
		if len(got) == 0 && len(test.want) == 0 {
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", test.in, diff)
		}
	}
}

func TestName(t *testing.T) {
	for _, test := range []struct {
		wl     Workload
		name   string
		single bool
	}{
		{New("A"), "A", true},
		{New("B", "C"), "B-C", false},
		{New("lbm", "mcf", "gcc"), "lbm-mcf-gcc", false},
	} {
		if got := test.wl.Name(); got != test.name {
			t.Errorf("%v.Name() = %q, want %q", test.wl, got, test.name)
		}
		if got := test.wl.Single(); got != test.single {
			t.Errorf("%v.Single() = %v, want %v", test.wl, got, test.single)
		}
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wl.yaml")
	if err := os.WriteFile(path, []byte("- A\n- [B, C]\n"), 0666); err != nil {
		t.Fatal(err)
	}
	wls, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(wls) != 2 || wls[1].Name() != "B-C" {
		t.Errorf("ReadFile = %v", wls)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("ReadFile of missing file succeeded")
	}
}
