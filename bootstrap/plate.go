// bootstrap/plate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package bootstrap implements John T. Lowry's Bootstrap Method for light
// airplane performance: a handful of flight test measurements are reduced
// to a data plate of nine coefficients, from which the characteristic
// airspeeds, climb rates, glide angles and the thrust, drag and power at
// any airspeed follow in closed form for any weight and density altitude.
//
// References:
//
//	[Bootstrap] Lowry, John T. (1995). The Bootstrap Approach to Predicting
//	Airplane Flight Performance. Journal of Aviation/Aerospace Education &
//	Research, 6(1).
//	[PoLA] Lowry, John T. Performance of Light Aircraft. AIAA, 1999.
//
// Internally everything is computed in the foot-slug-second system with
// forces in lbf; quantities cross the API as gonum unit values.
package bootstrap

import (
	gomath "math"

	"github.com/mmp/lowry/atmos"
	"github.com/mmp/lowry/log"
	"github.com/mmp/lowry/math"
	"github.com/mmp/lowry/units"
	"gonum.org/v1/gonum/unit"
)

// Plate is the bootstrap data plate. Values are in working units (ft,
// ft^2, ft·lbf); it is comparable and may be used as a map key.
type Plate struct {
	WingArea     float64 `msgpack:"S" json:"S"`       // S, ft^2
	AspectRatio  float64 `msgpack:"A" json:"A"`       // A
	Torque       float64 `msgpack:"M0" json:"M0"`     // M0, ft·lbf
	DropoffC     float64 `msgpack:"C" json:"C"`       // C
	PropDiameter float64 `msgpack:"d" json:"d"`       // d, ft
	CD0          float64 `msgpack:"C_D0" json:"C_D0"` // zero-lift drag coefficient
	Oswald       float64 `msgpack:"e" json:"e"`       // Oswald efficiency factor
	PropB        float64 `msgpack:"b" json:"b"`       // propeller polar intercept
	PropM        float64 `msgpack:"m" json:"m"`       // propeller polar slope
}

func (p Plate) S() unit.Area { return units.FromSquareFeet(p.WingArea) }

func (p Plate) M0() unit.Torque { return units.FromFootPounds(p.Torque) }

func (p Plate) D() unit.Length { return units.FromFeet(p.PropDiameter) }

// partialPlate tracks which plate fields have been determined so far.
type partialPlate struct {
	Plate
	haveS, haveA, haveM0, haveD bool
	haveCD0, haveE, haveB, haveM bool
}

// Derive constructs a data plate from airframe and flight test data. The
// steps, each skipped when its inputs are absent, are:
//
//  1. A = B^2/S unless A is given.
//  2. M0 = P0/n0 unless M0 is given; n0 is in radians per unit time, which
//     absorbs the 2π of [Bootstrap] eq 9.
//  3. C = 0.12 unless C is given.
//  4. C_D0 and e from the drag record. [PoLA] appendix F
//  5. b and m from the thrust record. [Bootstrap] eqs 8, 9
//  6. C_D0, e, b and m given in the input replace the derived values.
//
// A missing field of a drag or thrust record, or a plate field that can
// be neither derived nor found in the input, is a *MissingInputError.
// The input is not modified.
func Derive(in Input) (Plate, error) {
	return derive(in, nil)
}

func derive(in Input, lg *log.Logger) (Plate, error) {
	var p partialPlate

	if in.S != nil {
		p.WingArea, p.haveS = units.SquareFeet(*in.S), true
	}
	if in.A != nil {
		p.AspectRatio, p.haveA = *in.A, true
	} else if in.B != nil && p.haveS {
		b := units.Feet(*in.B)
		p.AspectRatio, p.haveA = b*b/p.WingArea, true
	}

	if in.M0 != nil {
		p.Torque, p.haveM0 = units.FootPounds(*in.M0), true
	} else if in.P0 != nil && in.N0 != nil {
		p.Torque = units.FootPoundsPerSecond(*in.P0) / units.RadiansPerSecond(*in.N0)
		p.haveM0 = true
	}

	p.DropoffC = atmos.DefaultDropoffC
	if in.C != nil {
		p.DropoffC = *in.C
	}

	if in.D != nil {
		p.PropDiameter, p.haveD = units.Feet(*in.D), true
	} else if in.Thrust != nil && in.Thrust.D != nil {
		p.PropDiameter, p.haveD = units.Feet(*in.Thrust.D), true
	}

	// Overrides are in place before the test records are reduced so that
	// thrust reduction can use them when there is no drag record; the
	// drag record's results take precedence there and are replaced below.
	override := func() {
		if in.CD0 != nil {
			p.CD0, p.haveCD0 = *in.CD0, true
		}
		if in.E != nil {
			p.Oswald, p.haveE = *in.E, true
		}
		if in.PropB != nil {
			p.PropB, p.haveB = *in.PropB, true
		}
		if in.PropM != nil {
			p.PropM, p.haveM = *in.PropM, true
		}
	}
	override()

	if in.Drag != nil {
		if err := p.reduceDrag(in.Drag); err != nil {
			return Plate{}, err
		}
		lg.Debug("reduced drag test", "C_D0", p.CD0, "e", p.Oswald)
	}
	if in.Thrust != nil {
		if err := p.reduceThrust(in.Thrust); err != nil {
			return Plate{}, err
		}
		lg.Debug("reduced thrust test", "b", p.PropB, "m", p.PropM)
	}

	override()

	if err := require("", field{p.haveS, "S"}, field{p.haveA, "A"}, field{p.haveM0, "M0"},
		field{p.haveD, "d"}, field{p.haveCD0, "C_D0"}, field{p.haveE, "e"}, field{p.haveB, "b"},
		field{p.haveM, "m"}); err != nil {
		return Plate{}, err
	}

	return p.Plate, nil
}

type field struct {
	have bool
	key  string
}

// require returns a *MissingInputError for the first absent field.
func require(record string, fields ...field) error {
	for _, f := range fields {
		if !f.have {
			return &MissingInputError{Record: record, Key: f.key}
		}
	}
	return nil
}

func (p *partialPlate) reduceDrag(d *DragTest) error {
	if errs := d.missing(); len(errs) > 0 {
		return errs[0]
	}
	if err := require("", field{p.haveS, "S"}, field{p.haveA, "A"}); err != nil {
		return err
	}

	oat := atmos.Measured(*d.T)
	sigma := atmos.RelativeDensity(*d.Hp, oat)
	dh := atmos.Tapeline(*d.DHp, *d.Hp, oat)
	vbg := atmos.TAS(*d.VCbg, *d.Hp, oat)
	gamma, err := atmos.FlightAngle(vbg, dh, *d.DT)
	if err != nil {
		return stageError("bootstrap", err)
	}

	// [PoLA] eq 9.41 has -W here, which gives C_D0 the wrong sign for a
	// descent measured as a positive altitude change. [Bootstrap] agrees
	// with +W.
	w := units.PoundsForce(*d.W)
	v := units.FeetPerSecond(vbg)
	rho := atmos.SeaLevelDensity * sigma
	g := float64(gamma)

	p.CD0 = w * gomath.Sin(g) / (rho * p.WingArea * v * v)
	p.Oswald = 4 * p.CD0 / (gomath.Pi * p.AspectRatio * math.Sqr(gomath.Tan(g)))
	p.haveCD0, p.haveE = true, true
	return nil
}

func (p *partialPlate) reduceThrust(t *ThrustTest) error {
	if errs := t.missing(); len(errs) > 0 {
		return errs[0]
	}
	if err := require("", field{p.haveS, "S"}, field{p.haveA, "A"}, field{p.haveM0, "M0"},
		field{p.haveD, "d"}, field{p.haveCD0, "C_D0"}, field{p.haveE, "e"}); err != nil {
		return err
	}

	oat := atmos.Measured(*t.T)
	rho := atmos.SeaLevelDensity * atmos.RelativeDensity(*t.Hp, oat)
	phi := atmos.DropoffFactor(*t.Hp, oat, p.DropoffC)
	vx := units.FeetPerSecond(atmos.TAS(*t.VCx, *t.Hp, oat))
	vM := units.FeetPerSecond(atmos.TAS(*t.VC_M, *t.Hp, oat))
	w := units.PoundsForce(*t.W)
	d, s := p.PropDiameter, p.WingArea
	piEA := gomath.Pi * p.Oswald * p.AspectRatio
	vx4 := math.Sqr(math.Sqr(vx))

	// [Bootstrap] eq 8, [PoLA] eq 7.1
	p.PropB = s*p.CD0/(2*d*d) - 2*w*w/(rho*rho*d*d*s*piEA*vx4)

	// [Bootstrap] eq 9 with πM0 = P0/2n0
	p.PropM = (d * w * w / (gomath.Pi * p.Torque * phi * rho * s * piEA)) * (1/(vM*vM) + vM*vM/vx4)

	p.haveB, p.haveM = true, true
	return nil
}
