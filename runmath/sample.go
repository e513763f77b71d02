// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runmath computes the derived metrics of co-located runs and
// the statistics used to summarize them across repetitions.
//
// Measurements may be absent. An absent measurement is NaN in memory.
// All statistics in this package skip absent values rather than
// propagating them.
package runmath

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// A Sample is the set of present values of one measurement.
type Sample struct {
	// Values are the present values, in input order.
	Values []float64

	// Absent is the number of absent values that were dropped.
	Absent int
}

// NewSample constructs a Sample from xs, dropping absent values.
func NewSample(xs []float64) *Sample {
	s := &Sample{Values: make([]float64, 0, len(xs))}
	for _, x := range xs {
		if IsAbsent(x) {
			s.Absent++
			continue
		}
		s.Values = append(s.Values, x)
	}
	return s
}

// N returns the number of present values in s.
func (s *Sample) N() int {
	return len(s.Values)
}

// Sum returns the sum of the present values, or 0 if there are none.
func (s *Sample) Sum() float64 {
	return vec.Sum(s.Values)
}

// Mean returns the arithmetic mean of the present values, or NaN if
// there are none.
func (s *Sample) Mean() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return stats.Mean(s.Values)
}

// StdDev returns the sample standard deviation of the present
// values, dividing by N-1. It is NaN if there are fewer than two
// values.
func (s *Sample) StdDev() float64 {
	if len(s.Values) < 2 {
		return math.NaN()
	}
	return stats.StdDev(s.Values)
}

// IsAbsent reports whether x is the absent value.
func IsAbsent(x float64) bool {
	return math.IsNaN(x)
}

// Absent returns the absent value.
func Absent() float64 {
	return math.NaN()
}
