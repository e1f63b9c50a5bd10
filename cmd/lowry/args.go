// cmd/lowry/args.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmp/lowry/math"
)

// parseList parses a comma-separated list of numbers, e.g. "0,4000,8000".
func parseList(s string) ([]float64, error) {
	var v []float64
	for f := range strings.SplitSeq(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f, err)
		}
		v = append(v, x)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%q: no values given", s)
	}
	return v, nil
}

// parseRange parses "min:max:step" into the values it spans, inclusive of
// max.
func parseRange(s string) ([]float64, error) {
	f := strings.Split(s, ":")
	if len(f) != 3 {
		return nil, fmt.Errorf("%q: expected min:max:step", s)
	}
	var v [3]float64
	for i := range f {
		var err error
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(f[i]), 64); err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
	}
	if v[2] <= 0 {
		return nil, fmt.Errorf("%q: step must be positive", s)
	}
	if v[1] < v[0] {
		return nil, fmt.Errorf("%q: max is less than min", s)
	}
	return math.Range(v[0], v[1], v[2]), nil
}
