// units/units.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package units is the boundary between SI quantities, represented with
// gonum's unit package, and the foot-slug-second system (lbf, °R, ft/s)
// that the Bootstrap Method's reference constants and published data
// plates are expressed in. Everything outside this package and atmos
// passes gonum quantities around; the algebra in bootstrap works on plain
// float64 values in the working units defined here.
package units

import (
	gomath "math"

	"github.com/mmp/lowry/math"
	"gonum.org/v1/gonum/unit"
)

const (
	MetersPerFoot       = 0.3048
	NewtonsPerPound     = 4.4482216152605 // lbf
	KilogramsPerSlug    = NewtonsPerPound / MetersPerFoot
	MetersPerSecondKnot = 1852.0 / 3600
	FeetPerSecondKnot   = MetersPerSecondKnot / MetersPerFoot
	FootPoundsPerHP     = 550 // ft·lbf/s
	KelvinPerRankine    = 5.0 / 9
	RankineOffset       = 459.67 // °R at 0 °F
	PascalsPerInchHg    = 3386.389
)

// Length

func Feet(l unit.Length) float64 { return float64(l) / MetersPerFoot }

func FromFeet(ft float64) unit.Length { return unit.Length(ft * MetersPerFoot) }

func SquareFeet(a unit.Area) float64 { return float64(a) / (MetersPerFoot * MetersPerFoot) }

func FromSquareFeet(sqft float64) unit.Area {
	return unit.Area(sqft * MetersPerFoot * MetersPerFoot)
}

// Velocity

func FeetPerSecond(v unit.Velocity) float64 { return float64(v) / MetersPerFoot }

func FromFeetPerSecond(fps float64) unit.Velocity { return unit.Velocity(fps * MetersPerFoot) }

func Knots(v unit.Velocity) float64 { return float64(v) / MetersPerSecondKnot }

func FromKnots(kt float64) unit.Velocity { return unit.Velocity(kt * MetersPerSecondKnot) }

func FeetPerMinute(v unit.Velocity) float64 { return 60 * FeetPerSecond(v) }

// Force

func PoundsForce(f unit.Force) float64 { return float64(f) / NewtonsPerPound }

func FromPoundsForce(lbf float64) unit.Force { return unit.Force(lbf * NewtonsPerPound) }

// Torque

func FootPounds(t unit.Torque) float64 {
	return float64(t) / (NewtonsPerPound * MetersPerFoot)
}

func FromFootPounds(ftlbf float64) unit.Torque {
	return unit.Torque(ftlbf * NewtonsPerPound * MetersPerFoot)
}

// Power

// FootPoundsPerSecond returns p in ft·lbf/s.
func FootPoundsPerSecond(p unit.Power) float64 {
	return float64(p) / (NewtonsPerPound * MetersPerFoot)
}

func FromFootPoundsPerSecond(v float64) unit.Power {
	return unit.Power(v * NewtonsPerPound * MetersPerFoot)
}

func Horsepower(p unit.Power) float64 { return FootPoundsPerSecond(p) / FootPoundsPerHP }

func FromHorsepower(hp float64) unit.Power { return FromFootPoundsPerSecond(hp * FootPoundsPerHP) }

// Rotational speed. Engine speeds are carried as a unit.Frequency whose
// value is in radians per second: the 2π of a revolution is folded into
// the unit rather than appearing in the torque equation, so that
// M0 = P0 / n0 directly.

func FromRPM(rpm float64) unit.Frequency { return unit.Frequency(rpm * 2 * gomath.Pi / 60) }

func RPM(f unit.Frequency) float64 { return float64(f) * 60 / (2 * gomath.Pi) }

func RadiansPerSecond(f unit.Frequency) float64 { return float64(f) }

// Temperature

func Rankine(t unit.Temperature) float64 { return float64(t) / KelvinPerRankine }

func FromRankine(r float64) unit.Temperature { return unit.Temperature(r * KelvinPerRankine) }

func FromFahrenheit(f float64) unit.Temperature { return FromRankine(f + RankineOffset) }

func Fahrenheit(t unit.Temperature) float64 { return Rankine(t) - RankineOffset }

func FromCelsius(c float64) unit.Temperature { return unit.Temperature(c + 273.15) }

func Celsius(t unit.Temperature) float64 { return float64(t) - 273.15 }

// Pressure

func InchesOfMercury(p unit.Pressure) float64 { return float64(p) / PascalsPerInchHg }

func FromInchesOfMercury(inHg float64) unit.Pressure { return unit.Pressure(inHg * PascalsPerInchHg) }

// Time

func Seconds(t unit.Time) float64 { return float64(t) }

func FromSeconds(s float64) unit.Time { return unit.Time(s) }

// Angle

func Degrees(a unit.Angle) float64 { return math.Degrees(float64(a)) }

func FromDegrees(d float64) unit.Angle { return unit.Angle(math.Radians(d)) }

// Density, as a general unit since gonum has no dedicated type for it.

var densityDims = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -3}

// FromSlugsPerCubicFoot returns a mass density of the given number of
// slug/ft^3.
func FromSlugsPerCubicFoot(rho float64) *unit.Unit {
	return unit.New(rho*KilogramsPerSlug/(MetersPerFoot*MetersPerFoot*MetersPerFoot), densityDims)
}

// SlugsPerCubicFoot returns the given density in slug/ft^3; it returns a
// dimension mismatch error if u is not a mass density.
func SlugsPerCubicFoot(u unit.Uniter) (float64, error) {
	if !unit.DimensionsMatch(u, unit.New(1, densityDims)) {
		return 0, mismatch(u.Unit(), "slug/ft^3")
	}
	return u.Unit().Value() * (MetersPerFoot * MetersPerFoot * MetersPerFoot) / KilogramsPerSlug, nil
}
