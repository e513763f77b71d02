// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff reports the differences between expected and actual
// test output.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Diff returns a unified diff turning want into got, or "" if they are
// equal. Without a diff command it returns both texts in full.
func Diff(want, got []byte) string {
	if string(want) == string(got) {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return fmt.Sprintf("want:\n%s\ngot:\n%s", want, got)
	}
	dir, err := os.MkdirTemp("", "aggdata-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)
	for name, data := range map[string][]byte{"want": want, "got": got} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0666); err != nil {
			return err.Error()
		}
	}

	cmd := exec.Command("diff", "-Nu", "want", "got")
	cmd.Dir = dir
	data, err := cmd.CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		// Ignore that failure as long as we get output.
		return string(data)
	}
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("want:\n%s\ngot:\n%s", want, got)
}
