// math/math_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"errors"
	gomath "math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestDegreesRadians(t *testing.T) {
	for _, d := range []float64{-360, -90, 0, 6.21, 45, 180, 720} {
		if r := Degrees(Radians(d)); !scalar.EqualWithinAbs(r, d, 1e-12) {
			t.Errorf("Degrees(Radians(%g)) = %g", d, r)
		}
	}
	if r := Radians(180); r != gomath.Pi {
		t.Errorf("Radians(180) = %g, expected pi", r)
	}
}

func TestCheckedRoots(t *testing.T) {
	if v, err := Sqrt("x", 16); err != nil || v != 4 {
		t.Errorf("Sqrt(16) = %g, %v", v, err)
	}
	if v, err := Root4("x", 16); err != nil || v != 2 {
		t.Errorf("Root4(16) = %g, %v", v, err)
	}
	if v, err := Sqrt("x", 0); err != nil || v != 0 {
		t.Errorf("Sqrt(0) = %g, %v", v, err)
	}

	for _, f := range []func(string, float64) (float64, error){Sqrt, Root4} {
		for _, x := range []float64{-1e-12, -4, gomath.NaN()} {
			_, err := f("Vx", x)
			if !errors.Is(err, ErrDomain) {
				t.Errorf("%g: expected ErrDomain, got %v", x, err)
			}
			var de *DomainError
			if !errors.As(err, &de) || de.Quantity != "Vx" {
				t.Errorf("%g: expected *DomainError for Vx, got %v", x, err)
			}
		}
	}
}

func TestAsin(t *testing.T) {
	if v, err := Asin("gamma", 1); err != nil || v != gomath.Pi/2 {
		t.Errorf("Asin(1) = %g, %v", v, err)
	}
	if v, err := Asin("gamma", -0.5); err != nil || !scalar.EqualWithinAbs(v, -gomath.Pi/6, 1e-15) {
		t.Errorf("Asin(-0.5) = %g, %v", v, err)
	}
	for _, x := range []float64{1.0000001, -2, gomath.Inf(1)} {
		if _, err := Asin("gamma", x); !errors.Is(err, ErrDomain) {
			t.Errorf("Asin(%g): expected ErrDomain, got %v", x, err)
		}
	}
}

func TestEvaluatePolynomial(t *testing.T) {
	// 3 - 2x + x^3
	if v := EvaluatePolynomial(2, 3, -2, 0, 1); v != 7 {
		t.Errorf("got %g, expected 7", v)
	}
	if v := EvaluatePolynomial(5); v != 0 {
		t.Errorf("empty polynomial: got %g", v)
	}
	if v := EvaluatePolynomial(5, 1.5); v != 1.5 {
		t.Errorf("constant polynomial: got %g", v)
	}
}

func TestRange(t *testing.T) {
	r := Range(30, 130, 5)
	if len(r) != 21 || r[0] != 30 || r[20] != 130 {
		t.Errorf("Range(30, 130, 5) = %v", r)
	}
	if r := Range(0, 1, 0.1); len(r) != 11 {
		t.Errorf("Range(0, 1, 0.1): got %d values, expected 11", len(r))
	}
	if r := Range(1, 0, 1); r != nil {
		t.Errorf("expected nil for hi < lo, got %v", r)
	}
	if r := Range(0, 1, 0); r != nil {
		t.Errorf("expected nil for zero step, got %v", r)
	}
	if v := Sqr(-3.0); v != 9 {
		t.Errorf("Sqr: got %g", v)
	}
	if v := Sqr(3); v != 9 {
		t.Errorf("Sqr: got %d", v)
	}
}
