// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workload reads lists of co-located workloads.
//
// A workload list is a YAML sequence. Each entry is either a single
// application name or a sequence of application names that ran
// together:
//
//	- lbm
//	- [mcf, omnetpp]
//	- - xalancbmk
//	  - gcc
package workload

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Workload is an ordered set of applications that were executed
// together in every run.
type Workload struct {
	Apps []string
}

// New returns a Workload for the given applications.
func New(apps ...string) Workload {
	return Workload{Apps: apps}
}

// Name returns the workload identifier used as file-name prefix: the
// application names joined by "-".
func (w Workload) Name() string {
	return strings.Join(w.Apps, "-")
}

// Single reports whether w consists of exactly one application.
func (w Workload) Single() bool {
	return len(w.Apps) == 1
}

func (w Workload) String() string {
	return "[" + strings.Join(w.Apps, " ") + "]"
}

// UnmarshalYAML accepts either a scalar application name or a
// sequence of application names.
func (w *Workload) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var app string
		if err := value.Decode(&app); err != nil {
			return err
		}
		w.Apps = []string{app}
	case yaml.SequenceNode:
		var apps []string
		if err := value.Decode(&apps); err != nil {
			return err
		}
		w.Apps = apps
	default:
		return errors.Errorf("line %d: workload must be a name or a list of names", value.Line)
	}
	if len(w.Apps) == 0 {
		return errors.Errorf("line %d: empty workload", value.Line)
	}
	for _, app := range w.Apps {
		if app == "" {
			return errors.Errorf("line %d: empty application name", value.Line)
		}
	}
	return nil
}

// Parse decodes a workload list from YAML.
func Parse(data []byte) ([]Workload, error) {
	var wls []Workload
	if err := yaml.Unmarshal(data, &wls); err != nil {
		return nil, errors.Wrap(err, "parsing workload list")
	}
	return wls, nil
}

// ReadFile reads and decodes the workload list at path.
func ReadFile(path string) ([]Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	wls, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return wls, nil
}
