// atmos/atmos.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package atmos implements the linear-lapse-rate standard atmosphere used
// by the Bootstrap Method, with an optional correction for a measured
// outside air temperature, along with the airspeed and flight-path
// conversions that depend on it.
package atmos

import (
	"fmt"
	gomath "math"

	"github.com/mmp/lowry/units"
	"gonum.org/v1/gonum/unit"
)

const (
	// SeaLevelTemperature is the standard temperature at zero pressure
	// altitude, in kelvin.
	SeaLevelTemperature unit.Temperature = 288.15

	// LapseRate is the standard temperature lapse rate, in kelvin per
	// foot of pressure altitude.
	LapseRate = 0.001981

	// GasConstant is the specific gas constant for air, ft/°R.
	GasConstant = 53.355

	// SeaLevelPressure is the standard pressure at zero pressure
	// altitude, in inches of mercury.
	SeaLevelPressure = 29.921

	// SeaLevelDensity is the standard sea level air density, slug/ft^3.
	SeaLevelDensity = 0.00237

	// DefaultDropoffC is the empirical constant of the thrust dropoff
	// factor when an airframe does not specify its own.
	DefaultDropoffC = 0.12
)

// [PoLA] eq 1.10: sigma = (1 - h/h1)^n for h in feet.
const (
	powerLawHeight   = 145457
	powerLawExponent = 4.25635
)

// [PoLA] eq F.2: sigma = (T0/T)(1 - k h) with T in °R, h in feet.
const (
	measuredT0 = 518.7
	measuredK  = 6.8752e-6
)

// OAT is an outside air temperature observation. The zero value means no
// temperature was measured and the standard atmosphere applies.
type OAT struct {
	T        unit.Temperature
	Measured bool
}

// Standard is the absent observation.
var Standard = OAT{}

// Measured returns an observation of the given temperature.
func Measured(t unit.Temperature) OAT {
	return OAT{T: t, Measured: true}
}

func (o OAT) String() string {
	if !o.Measured {
		return "standard"
	}
	return fmt.Sprintf("%.1fC", units.Celsius(o.T))
}

// StandardTemperature returns the standard temperature at the given
// pressure altitude.
func StandardTemperature(hp unit.Length) unit.Temperature {
	if hp == 0 {
		return SeaLevelTemperature
	}
	return SeaLevelTemperature - unit.Temperature(LapseRate*units.Feet(hp))
}

// StandardPressure returns the standard pressure at the given pressure
// altitude using the barometric formula.
func StandardPressure(hp unit.Length) unit.Pressure {
	if hp == 0 {
		return units.FromInchesOfMercury(SeaLevelPressure)
	}
	// Work in °R since the gas constant is per °R.
	lapse := LapseRate / units.KelvinPerRankine
	t0 := units.Rankine(SeaLevelTemperature)
	p := SeaLevelPressure * gomath.Pow(1-lapse*units.Feet(hp)/t0, 1/(lapse*GasConstant))
	return units.FromInchesOfMercury(p)
}

// RelativeDensity returns sigma, the ratio of the air density at the
// given pressure altitude to the standard sea level density. Without a
// measured temperature it uses the power-law fit of the standard
// atmosphere and is exactly 1 at sea level. With one, it uses the ideal
// gas law with the pressure ratio approximated from pressure altitude.
func RelativeDensity(hp unit.Length, oat OAT) float64 {
	h := units.Feet(hp)
	if oat.Measured {
		return (measuredT0 / units.Rankine(oat.T)) * (1 - measuredK*h)
	}
	if h == 0 {
		return 1
	}
	return gomath.Pow(1-h/powerLawHeight, powerLawExponent)
}

// Density returns the air density at the given pressure altitude as a
// mass density quantity.
func Density(hp unit.Length, oat OAT) *unit.Unit {
	return units.FromSlugsPerCubicFoot(SeaLevelDensity * RelativeDensity(hp, oat))
}

// DropoffFactor returns phi, the fraction of sea level propeller thrust
// available at altitude, (sigma - C)/(1 - C).
func DropoffFactor(hp unit.Length, oat OAT, c float64) float64 {
	return (RelativeDensity(hp, oat) - c) / (1 - c)
}

// DensityAltitude returns the altitude in the standard atmosphere with the
// same density as the given conditions.
func DensityAltitude(hp unit.Length, oat OAT) unit.Length {
	if !oat.Measured {
		return hp
	}
	sigma := RelativeDensity(hp, oat)
	return units.FromFeet(powerLawHeight * (1 - gomath.Pow(sigma, 1/powerLawExponent)))
}

// Conditions summarizes the standard atmosphere at one altitude.
type Conditions struct {
	Altitude    unit.Length
	Temperature unit.Temperature
	Pressure    unit.Pressure
	Sigma       float64
	Phi         float64
}

// Table returns the standard atmosphere at each of the given altitudes,
// with phi computed using the dropoff constant c.
func Table(altitudes []unit.Length, c float64) []Conditions {
	t := make([]Conditions, len(altitudes))
	for i, h := range altitudes {
		t[i] = Conditions{
			Altitude:    h,
			Temperature: StandardTemperature(h),
			Pressure:    StandardPressure(h),
			Sigma:       RelativeDensity(h, Standard),
			Phi:         DropoffFactor(h, Standard, c),
		}
	}
	return t
}
