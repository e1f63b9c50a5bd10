// bootstrap/input.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmp/lowry/units"
	"github.com/mmp/lowry/util"
	"gonum.org/v1/gonum/unit"
	"gopkg.in/yaml.v3"
)

// Input is the raw airframe and flight test data a data plate is derived
// from. Nil fields are absent. A, M0 and C are derived or defaulted when
// absent; CD0, E, PropB and PropM, when present, override the values
// derived from the flight test records.
type Input struct {
	S  *unit.Area      // wing area
	B  *unit.Length    // wing span
	A  *float64        // aspect ratio
	P0 *unit.Power     // rated power
	N0 *unit.Frequency // rated propeller speed
	M0 *unit.Torque    // torque constant
	C  *float64        // thrust dropoff constant
	D  *unit.Length    // propeller diameter

	CD0   *float64
	E     *float64
	PropB *float64
	PropM *float64

	Drag   *DragTest
	Thrust *ThrustTest
}

// DragTest is a power-off glide at best glide speed: a pressure altitude
// change DHp over time DT at calibrated airspeed VCbg. All fields are
// required.
type DragTest struct {
	W    *unit.Force
	Hp   *unit.Length
	T    *unit.Temperature
	VCbg *unit.Velocity
	DHp  *unit.Length
	DT   *unit.Time
}

// ThrustTest is a full-throttle climb at best angle of climb speed VCx
// and the maximum level flight speed VC_M at the same conditions. D, if
// given, is the propeller diameter and is used when Input.D is absent.
type ThrustTest struct {
	W    *unit.Force
	Hp   *unit.Length
	T    *unit.Temperature
	VCx  *unit.Velocity
	VC_M *unit.Velocity
	D    *unit.Length
}

// Ptr returns a pointer to v; it is convenient for filling in Input.
func Ptr[T any](v T) *T { return &v }

///////////////////////////////////////////////////////////////////////////
// Files

// inputFile is the on-disk representation of Input. Quantities are
// strings with units, e.g. "174 ft^2" or "45 degF", and dimensionless
// values are plain numbers.
type inputFile struct {
	S   *units.Quantity `yaml:"S" json:"S"`
	B   *units.Quantity `yaml:"B" json:"B"`
	A   *units.Quantity `yaml:"A" json:"A"`
	P0  *units.Quantity `yaml:"P0" json:"P0"`
	N0  *units.Quantity `yaml:"n0" json:"n0"`
	M0  *units.Quantity `yaml:"M0" json:"M0"`
	C   *units.Quantity `yaml:"C" json:"C"`
	D   *units.Quantity `yaml:"d" json:"d"`
	CD0 *units.Quantity `yaml:"C_D0" json:"C_D0"`
	E   *units.Quantity `yaml:"e" json:"e"`
	PB  *units.Quantity `yaml:"b" json:"b"`
	PM  *units.Quantity `yaml:"m" json:"m"`

	Drag   *dragFile   `yaml:"drag" json:"drag"`
	Thrust *thrustFile `yaml:"thrust" json:"thrust"`
}

type dragFile struct {
	W    *units.Quantity `yaml:"W" json:"W"`
	Hp   *units.Quantity `yaml:"h_p" json:"h_p"`
	T    *units.Quantity `yaml:"T" json:"T"`
	VCbg *units.Quantity `yaml:"VCbg" json:"VCbg"`
	DHp  *units.Quantity `yaml:"dh_p" json:"dh_p"`
	DT   *units.Quantity `yaml:"dt" json:"dt"`
}

type thrustFile struct {
	W    *units.Quantity `yaml:"W" json:"W"`
	Hp   *units.Quantity `yaml:"h_p" json:"h_p"`
	T    *units.Quantity `yaml:"T" json:"T"`
	VCx  *units.Quantity `yaml:"VCx" json:"VCx"`
	VC_M *units.Quantity `yaml:"VC_M" json:"VC_M"`
	D    *units.Quantity `yaml:"d" json:"d"`
}

// converter accumulates dimension errors while an inputFile is converted.
type converter struct {
	errs []error
}

func convert[T any](c *converter, field string, q *units.Quantity, get func(units.Quantity) (T, error)) *T {
	if q == nil {
		return nil
	}
	v, err := get(*q)
	if err != nil {
		c.errs = append(c.errs, &DimensionError{Field: field, Err: err})
		return nil
	}
	return &v
}

func (f *inputFile) Input() (Input, error) {
	var c converter
	in := Input{
		S:     convert(&c, "S", f.S, units.Quantity.Area),
		B:     convert(&c, "B", f.B, units.Quantity.Length),
		A:     convert(&c, "A", f.A, units.Quantity.Dimensionless),
		P0:    convert(&c, "P0", f.P0, units.Quantity.Power),
		N0:    convert(&c, "n0", f.N0, units.Quantity.Frequency),
		M0:    convert(&c, "M0", f.M0, units.Quantity.Torque),
		C:     convert(&c, "C", f.C, units.Quantity.Dimensionless),
		D:     convert(&c, "d", f.D, units.Quantity.Length),
		CD0:   convert(&c, "C_D0", f.CD0, units.Quantity.Dimensionless),
		E:     convert(&c, "e", f.E, units.Quantity.Dimensionless),
		PropB: convert(&c, "b", f.PB, units.Quantity.Dimensionless),
		PropM: convert(&c, "m", f.PM, units.Quantity.Dimensionless),
	}
	if d := f.Drag; d != nil {
		in.Drag = &DragTest{
			W:    convert(&c, "drag.W", d.W, units.Quantity.Force),
			Hp:   convert(&c, "drag.h_p", d.Hp, units.Quantity.Length),
			T:    convert(&c, "drag.T", d.T, units.Quantity.Temperature),
			VCbg: convert(&c, "drag.VCbg", d.VCbg, units.Quantity.Velocity),
			DHp:  convert(&c, "drag.dh_p", d.DHp, units.Quantity.Length),
			DT:   convert(&c, "drag.dt", d.DT, units.Quantity.Time),
		}
	}
	if t := f.Thrust; t != nil {
		in.Thrust = &ThrustTest{
			W:    convert(&c, "thrust.W", t.W, units.Quantity.Force),
			Hp:   convert(&c, "thrust.h_p", t.Hp, units.Quantity.Length),
			T:    convert(&c, "thrust.T", t.T, units.Quantity.Temperature),
			VCx:  convert(&c, "thrust.VCx", t.VCx, units.Quantity.Velocity),
			VC_M: convert(&c, "thrust.VC_M", t.VC_M, units.Quantity.Velocity),
			D:    convert(&c, "thrust.d", t.D, units.Quantity.Length),
		}
	}
	return in, errors.Join(c.errs...)
}

// ParseInputYAML decodes airframe and flight test data from YAML.
// Unknown keys are an error.
func ParseInputYAML(b []byte) (Input, error) {
	var f inputFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return Input{}, err
	}
	return f.Input()
}

// ParseInputJSON decodes airframe and flight test data from JSON. Unknown,
// misspelled and duplicated keys are reported along with their location.
func ParseInputJSON(b []byte) (Input, error) {
	var e util.ErrorLogger
	util.CheckJSON[inputFile](b, &e)
	if err := e.Err(); err != nil {
		return Input{}, err
	}

	var f inputFile
	if err := util.UnmarshalJSONBytes(b, &f); err != nil {
		return Input{}, err
	}
	return f.Input()
}

// LoadInput reads airframe and flight test data from a .json, .yaml or
// .yml file.
func LoadInput(path string) (Input, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Input{}, err
	}

	var in Input
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		in, err = ParseInputJSON(b)
	case ".yaml", ".yml":
		in, err = ParseInputYAML(b)
	default:
		return Input{}, fmt.Errorf("%s: unknown input file type %q", path, ext)
	}
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

///////////////////////////////////////////////////////////////////////////
// Validation

// Check reports everything about the input that would keep a complete
// data plate from being derived from it. Derive stops at the first such
// problem; Check finds all of them.
func (in Input) Check(e *util.ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	missing := func(key string) { e.ErrorString("%q: %v", key, ErrMissingInput) }
	positive := func(key string, v float64) {
		if v <= 0 {
			e.ErrorString("%q must be positive", key)
		}
	}

	if in.S == nil {
		missing("S")
	} else {
		positive("S", float64(*in.S))
	}
	if in.A == nil && (in.B == nil || in.S == nil) {
		e.ErrorString("%q: %v (requires \"A\" or both \"B\" and \"S\")", "A", ErrMissingInput)
	}
	if in.B != nil {
		positive("B", float64(*in.B))
	}
	if in.M0 == nil && (in.P0 == nil || in.N0 == nil) {
		e.ErrorString("%q: %v (requires \"M0\" or both \"P0\" and \"n0\")", "M0", ErrMissingInput)
	}
	if in.N0 != nil {
		positive("n0", float64(*in.N0))
	}
	if in.C != nil && *in.C >= 1 {
		e.ErrorString("\"C\" must be less than 1")
	}
	if in.D == nil && (in.Thrust == nil || in.Thrust.D == nil) {
		missing("d")
	} else if in.D != nil {
		positive("d", float64(*in.D))
	}
	if in.Drag == nil && (in.CD0 == nil || in.E == nil) {
		e.ErrorString("\"C_D0\" and \"e\" require a \"drag\" record or explicit values")
	}
	if in.Thrust == nil && (in.PropB == nil || in.PropM == nil) {
		e.ErrorString("\"b\" and \"m\" require a \"thrust\" record or explicit values")
	}

	if d := in.Drag; d != nil {
		e.Push("drag")
		for _, err := range d.missing() {
			e.Error(err)
		}
		if d.W != nil {
			positive("W", float64(*d.W))
		}
		if d.T != nil {
			positive("T", float64(*d.T))
		}
		if d.VCbg != nil {
			positive("VCbg", float64(*d.VCbg))
		}
		if d.DT != nil {
			positive("dt", float64(*d.DT))
		}
		e.Pop()
	}
	if t := in.Thrust; t != nil {
		e.Push("thrust")
		for _, err := range t.missing() {
			e.Error(err)
		}
		if t.W != nil {
			positive("W", float64(*t.W))
		}
		if t.T != nil {
			positive("T", float64(*t.T))
		}
		if t.VCx != nil {
			positive("VCx", float64(*t.VCx))
		}
		if t.VC_M != nil {
			positive("VC_M", float64(*t.VC_M))
		}
		e.Pop()
	}
}

func (d *DragTest) missing() []error {
	var errs []error
	check := func(absent bool, key string) {
		if absent {
			errs = append(errs, &MissingInputError{Record: "drag", Key: key})
		}
	}
	check(d.W == nil, "W")
	check(d.Hp == nil, "h_p")
	check(d.T == nil, "T")
	check(d.VCbg == nil, "VCbg")
	check(d.DHp == nil, "dh_p")
	check(d.DT == nil, "dt")
	return errs
}

func (t *ThrustTest) missing() []error {
	var errs []error
	check := func(absent bool, key string) {
		if absent {
			errs = append(errs, &MissingInputError{Record: "thrust", Key: key})
		}
	}
	check(t.W == nil, "W")
	check(t.Hp == nil, "h_p")
	check(t.T == nil, "T")
	check(t.VCx == nil, "VCx")
	check(t.VC_M == nil, "VC_M")
	return errs
}
