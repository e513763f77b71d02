// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggstat aggregates the repeated runs of co-located
// workloads.
//
// For every workload and every kind of run file, an Aggregator finds
// the run files, augments each run with derived metrics (see package
// runmath), merges the runs into mean and standard deviation
// summaries per key and writes the result.
//
// Failures are contained. A run file that cannot be read is skipped.
// A workload whose processing fails is logged and the next workload
// proceeds.
package aggstat

import (
	"context"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/coloc-bench/aggdata/runfmt"
	"github.com/coloc-bench/aggdata/runmath"
	"github.com/coloc-bench/aggdata/workload"
)

// ErrNoReadableInput is returned, wrapped, when run files of a kind
// exist for a workload but none of them can be read.
var ErrNoReadableInput = errors.New("no files could be read for the workload")

// Config configures an Aggregator.
type Config struct {
	// InputDir holds the run files.
	InputDir string

	// OutputDir receives the aggregated files.
	OutputDir string

	// Alone is the number of intervals an application takes to
	// execute alone. It normalizes progress and slowdown.
	Alone float64

	// Spec marks server-only workloads. It is recorded but does
	// not change how runs are aggregated.
	Spec bool
}

// A Sink receives a copy of every aggregated table.
type Sink interface {
	InsertTable(ctx context.Context, workload, kind string, t *table.Table) error
}

// An Aggregator aggregates the runs of workloads.
type Aggregator struct {
	Config Config

	// Logger receives progress and failure messages. If nil,
	// nothing is logged.
	Logger *zap.Logger

	// Sink, if non-nil, also receives every aggregated table.
	Sink Sink
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Run processes wls in order and returns how many of them failed.
// The failure of one workload does not stop the others. If ctx is
// done, Run stops and counts the unprocessed workloads as failed.
func (a *Aggregator) Run(ctx context.Context, wls []workload.Workload) int {
	log := a.logger()
	log.Debug("aggregating",
		zap.Int("workloads", len(wls)),
		zap.Float64("alone", a.Config.Alone),
		zap.Bool("spec", a.Config.Spec))

	failed := 0
	for i, wl := range wls {
		if err := ctx.Err(); err != nil {
			log.Error("stopped", zap.Int("remaining", len(wls)-i), zap.Error(err))
			return failed + len(wls) - i
		}
		if err := a.ProcessWorkload(ctx, wl); err != nil {
			log.Error("workload failed", zap.String("workload", wl.Name()), zap.Error(err))
			failed++
		}
	}
	return failed
}

// ProcessWorkload aggregates every kind of run file of wl. A kind
// without run files is skipped. The first kind that fails ends the
// processing of wl.
func (a *Aggregator) ProcessWorkload(ctx context.Context, wl workload.Workload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	for _, kind := range runfmt.Kinds {
		if err := a.processKind(ctx, wl, kind); err != nil {
			return errors.WithMessagef(err, "%s %s", wl.Name(), kind)
		}
	}
	return nil
}

func (a *Aggregator) processKind(ctx context.Context, wl workload.Workload, kind runfmt.Kind) error {
	log := a.logger().With(zap.String("workload", wl.Name()), zap.Stringer("kind", kind))

	paths, err := runfmt.Discover(a.Config.InputDir, wl.Name(), kind)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		log.Info("no run files, skipping")
		return nil
	}
	log.Debug("found run files", zap.Strings("paths", paths))

	runs, err := a.load(log, paths, kind)
	if err != nil {
		return err
	}
	t, err := Merge(runs, kind.Keys())
	if err != nil {
		return err
	}

	w := &Writer{Dir: a.Config.OutputDir}
	written, err := w.Write(wl, kind, t)
	for _, path := range written {
		log.Info("wrote", zap.String("path", path))
	}
	if err != nil {
		return err
	}

	if a.Sink != nil {
		if err := a.Sink.InsertTable(ctx, wl.Name(), kind.String(), t); err != nil {
			return errors.Wrap(err, "storing summaries")
		}
	}
	return nil
}

// load reads and augments the run files at paths. Files that cannot
// be read or augmented, such as a file without an interval column,
// are logged and skipped.
func (a *Aggregator) load(log *zap.Logger, paths []string, kind runfmt.Kind) ([]*table.Table, error) {
	files := &runfmt.Files{Paths: paths, Keys: kind.Keys()}
	var runs []*table.Table
	var augErrs error
	for files.Scan() {
		res := files.Result()
		if res.Err != nil {
			log.Warn("could not read run file", zap.String("path", res.Path), zap.Error(res.Err))
			continue
		}
		t, err := runmath.Augment(res.Table, a.Config.Alone)
		if err != nil {
			err = errors.Wrap(err, res.Path)
			log.Warn("could not read run file", zap.String("path", res.Path), zap.Error(err))
			augErrs = multierr.Append(augErrs, err)
			continue
		}
		log.Info("read", zap.String("path", res.Path))
		runs = append(runs, t)
	}
	if len(runs) == 0 {
		return nil, errors.Wrapf(ErrNoReadableInput, "%d %s files: %v",
			len(paths), kind, multierr.Combine(files.Errs(), augErrs))
	}
	return runs, nil
}
