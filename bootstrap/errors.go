// bootstrap/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bootstrap

import (
	"errors"
	"fmt"

	"github.com/mmp/lowry/math"
	"github.com/mmp/lowry/units"
)

var (
	ErrMissingInput      = errors.New("missing input")
	ErrDimensionMismatch = units.ErrDimensionMismatch
	ErrDomain            = math.ErrDomain
)

// MissingInputError is returned when a value needed to derive the data
// plate is absent. Record is "drag" or "thrust" for a field of a flight
// test record and empty for a top-level airframe field.
type MissingInputError struct {
	Record string
	Key    string
}

func (e *MissingInputError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("%s: %v", e.Key, ErrMissingInput)
	}
	return fmt.Sprintf("%s.%s: %v", e.Record, e.Key, ErrMissingInput)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

// DimensionError is returned when an input quantity has the wrong
// physical dimension for the field it was given for.
type DimensionError struct {
	Field string
	Err   error
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *DimensionError) Unwrap() error { return e.Err }

// StageError records which stage of the pipeline failed; it wraps
// domain errors from the root extractions.
type StageError struct {
	Stage string // "bootstrap", "composites", "performance"
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// DomainError is returned when a root or arcsine argument leaves the real
// domain; errors.Is(err, ErrDomain) holds for it.
type DomainError = math.DomainError
