// math/transcendentals.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// The Lowry performance equations are closed-form, but nearly every one of
// them goes through a square root, a fourth root or an arcsine. A bad data
// plate (e.g., a positive R composite) makes those arguments leave the real
// domain; rather than returning NaN we report which quantity went wrong.

package math

import (
	"errors"
	"fmt"
	gomath "math"
)

var ErrDomain = errors.New("argument outside function domain")

// DomainError is returned when the argument to a root or an inverse
// trigonometric function is outside its real domain.
type DomainError struct {
	Func     string  // "sqrt", "root4", "asin"
	Quantity string  // what was being computed, e.g. "Vx"
	Value    float64 // offending argument
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s(%g) is not real", e.Quantity, e.Func, e.Value)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// Sqrt returns the square root of x or a *DomainError naming the quantity
// if x is negative or NaN.
func Sqrt(quantity string, x float64) (float64, error) {
	if x < 0 || gomath.IsNaN(x) {
		return 0, &DomainError{Func: "sqrt", Quantity: quantity, Value: x}
	}
	return gomath.Sqrt(x), nil
}

// Root4 returns the fourth root of x, with the same domain checks as Sqrt.
func Root4(quantity string, x float64) (float64, error) {
	if x < 0 || gomath.IsNaN(x) {
		return 0, &DomainError{Func: "root4", Quantity: quantity, Value: x}
	}
	return gomath.Sqrt(gomath.Sqrt(x)), nil
}

// Asin returns the arcsine of x in radians; |x| must be <= 1.
func Asin(quantity string, x float64) (float64, error) {
	if x < -1 || x > 1 || gomath.IsNaN(x) {
		return 0, &DomainError{Func: "asin", Quantity: quantity, Value: x}
	}
	return gomath.Asin(x), nil
}

// EvaluatePolynomial evaluates a polynomial using Horner's method
// The coefficients are provided from lowest degree to highest
func EvaluatePolynomial(t float64, coeffs ...float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	if len(coeffs) == 1 {
		return coeffs[0]
	}

	result := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = t*result + coeffs[i]
	}
	return result
}
