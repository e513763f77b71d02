// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coloc-bench/aggdata/aggstat"
	"github.com/coloc-bench/aggdata/storage/db"
	"github.com/coloc-bench/aggdata/workload"
)

var (
	aggdataShort = "Aggregate the repeated runs of co-located workloads."

	aggdataExample = `
		# Aggregate the runs in data/ for the workloads in workloads.yaml
		aggdata -w workloads.yaml -i data -n baseline --alone 120

		# Also store the summaries in an SQLite database
		aggdata -w workloads.yaml -i data -n baseline --alone 120 --db summaries.db`
)

// NewCmdAggdata returns the aggdata command.
func NewCmdAggdata() *cobra.Command {
	flags := NewFlags()
	cmd := &cobra.Command{
		Use:                   "aggdata -w workloads.yaml -i input-dir -n name --alone intervals",
		DisableFlagsInUseLine: true,
		Short:                 aggdataShort,
		Example:               aggdataExample,
		Args:                  cobra.NoArgs,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := flags.ToOptions(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}
	flags.AddFlags(cmd)
	return cmd
}

// Flags are the command-line flags of aggdata. They are converted to
// Options before running.
type Flags struct {
	Workloads string
	InputDir  string
	Name      string
	Alone     int
	OutputDir string
	Spec      bool

	DB       string
	DBDriver string

	Verbose bool
}

// NewFlags returns the default Flags.
func NewFlags() *Flags {
	return &Flags{
		OutputDir: "aggrdata",
		DBDriver:  "sqlite3",
	}
}

// AddFlags registers flags on cmd.
func (flags *Flags) AddFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&flags.Workloads, "workloads", "w", flags.Workloads,
		"YAML file with the list of workloads to aggregate.")
	f.StringVarP(&flags.InputDir, "input-dir", "i", flags.InputDir,
		"Directory holding the run files.")
	f.StringVarP(&flags.Name, "name", "n", flags.Name,
		"Name of this aggregation run.")
	f.IntVar(&flags.Alone, "alone", flags.Alone,
		"Number of intervals an application takes to execute alone.")
	f.StringVarP(&flags.OutputDir, "output-dir", "o", flags.OutputDir,
		"Directory to write the aggregated files to.")
	f.BoolVar(&flags.Spec, "spec", flags.Spec,
		"The workloads only contain server applications.")
	f.StringVar(&flags.DB, "db", flags.DB,
		"Also store the summaries in the database with this data source name.")
	f.StringVar(&flags.DBDriver, "db-driver", flags.DBDriver,
		"Database driver for --db: sqlite3 or mysql.")
	f.BoolVarP(&flags.Verbose, "verbose", "v", flags.Verbose,
		"Log debugging information.")

	for _, name := range []string{"workloads", "input-dir", "name", "alone"} {
		cmd.MarkFlagRequired(name)
	}
}

// ToOptions validates flags and loads the workload list. Logs go to
// out. Any integer --alone is accepted; derived metrics that it makes
// infinite are absent.
func (flags *Flags) ToOptions(out io.Writer) (*Options, error) {
	switch flags.DBDriver {
	case "sqlite3", "mysql":
	default:
		return nil, errors.Errorf("unsupported --db-driver %q", flags.DBDriver)
	}
	wls, err := workload.ReadFile(flags.Workloads)
	if err != nil {
		return nil, err
	}
	return &Options{
		Config: aggstat.Config{
			InputDir:  flags.InputDir,
			OutputDir: flags.OutputDir,
			Alone:     float64(flags.Alone),
			Spec:      flags.Spec,
		},
		Name:      flags.Name,
		Workloads: wls,
		DB:        flags.DB,
		DBDriver:  flags.DBDriver,
		Logger:    newLogger(out, flags.Verbose),
	}, nil
}

// Options configure one invocation of aggdata.
type Options struct {
	Config    aggstat.Config
	Name      string
	Workloads []workload.Workload

	// DB, if non-empty, is the data source name of the summary
	// database and DBDriver its driver.
	DB       string
	DBDriver string

	Logger *zap.Logger
}

// Run aggregates every workload. Failed workloads are logged and do
// not make Run fail.
func (o *Options) Run(ctx context.Context) error {
	log := o.Logger
	defer log.Sync()

	log.Info("aggregating",
		zap.String("name", o.Name),
		zap.Int("workloads", len(o.Workloads)),
		zap.Bool("spec", o.Config.Spec))

	if err := aggstat.WriteName(o.Config.OutputDir, o.Name); err != nil {
		return errors.Wrap(err, "output directory")
	}

	agg := &aggstat.Aggregator{Config: o.Config, Logger: log}
	if o.DB != "" {
		d, err := db.OpenSQL(o.DBDriver, o.DB)
		if err != nil {
			return errors.Wrap(err, "open database")
		}
		defer d.Close()
		run, err := d.NewRun(ctx, o.Name)
		if err != nil {
			return err
		}
		log.Info("storing summaries", zap.String("driver", o.DBDriver), zap.Int64("run", run.ID))
		agg.Sink = run
	}

	failed := agg.Run(ctx, o.Workloads)
	log.Info("done", zap.Int("workloads", len(o.Workloads)), zap.Int("failed", failed))
	return nil
}
