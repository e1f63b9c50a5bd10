// math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

// Range returns the values lo, lo+step, ... up to and including hi (to
// within a small fraction of step to absorb rounding). It returns nil if
// step is not positive or hi < lo.
func Range(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	n := int(gomath.Floor((hi-lo)/step+1e-9)) + 1
	r := make([]float64, n)
	for i := range r {
		r[i] = lo + float64(i)*step
	}
	return r
}
