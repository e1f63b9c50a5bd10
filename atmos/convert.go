// atmos/convert.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package atmos

import (
	gomath "math"

	"github.com/mmp/lowry/math"
	"github.com/mmp/lowry/units"
	"gonum.org/v1/gonum/unit"
)

// TAS converts a calibrated airspeed to true airspeed.
func TAS(vc unit.Velocity, hp unit.Length, oat OAT) unit.Velocity {
	return unit.Velocity(float64(vc) / gomath.Sqrt(RelativeDensity(hp, oat)))
}

// CAS converts a true airspeed to calibrated airspeed.
func CAS(v unit.Velocity, hp unit.Length, oat OAT) unit.Velocity {
	return unit.Velocity(float64(v) * gomath.Sqrt(RelativeDensity(hp, oat)))
}

// Tapeline converts a pressure altitude change measured around the
// pressure altitude hp into a true altitude change. [PoLA] eq F.4
func Tapeline(dhp, hp unit.Length, oat OAT) unit.Length {
	if !oat.Measured {
		return dhp
	}
	return unit.Length(float64(oat.T) / float64(StandardTemperature(hp)) * float64(dhp))
}

// FlightAngle returns the flight path angle for a climb (positive dh) or
// descent (negative dh) of dh over dt at true airspeed v. [Bootstrap] eq 3
func FlightAngle(v unit.Velocity, dh unit.Length, dt unit.Time) (unit.Angle, error) {
	a, err := math.Asin("flight angle", units.Feet(dh)/(units.FeetPerSecond(v)*units.Seconds(dt)))
	if err != nil {
		return 0, err
	}
	return unit.Angle(a), nil
}
