// bootstrap/composites.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bootstrap

import (
	gomath "math"

	"github.com/mmp/lowry/atmos"
	"github.com/mmp/lowry/math"
	"github.com/mmp/lowry/units"
	"gonum.org/v1/gonum/unit"
)

// Composites are the composite coefficients of [Bootstrap] pp. 27-28 for
// one plate, weight and density altitude, in working units. They reduce
// the performance equations to polynomials in airspeed V (ft/s):
// thrust is E + F V^2, parasite drag G V^2 and induced drag H/V^2.
type Composites struct {
	E float64 // lbf
	F float64 // slug/ft
	G float64 // slug/ft
	H float64 // ft lbf^2/slug
	K float64 // F - G, slug/ft
	Q float64 // E/K, ft lbf/slug
	R float64 // H/K, ft^2 lbf^2/slug^2
	U float64 // H/G, ft^2 lbf^2/slug^2

	// Sea level values of G and H.
	G0 float64
	H0 float64

	W     float64 // weight, lbf
	Sigma float64
	Phi   float64
}

// ComputeComposites returns the composite coefficients for the plate at
// weight w and density altitude h. A plate for which F0 = G0 or C_D0 = 0
// divides by zero; that is a malformed plate and is not checked for.
func ComputeComposites(p Plate, w unit.Force, h unit.Length) Composites {
	return computeComposites(p, units.PoundsForce(w), h)
}

func computeComposites(p Plate, w float64, h unit.Length) Composites {
	sigma := atmos.RelativeDensity(h, atmos.Standard)
	phi := atmos.DropoffFactor(h, atmos.Standard, p.DropoffC)
	rho0 := atmos.SeaLevelDensity
	d := p.PropDiameter

	// Sea level composites, with πM0 = P0/2n0.
	e0 := p.PropM * p.Torque * 2 * gomath.Pi / d
	f0 := rho0 * math.Sqr(d) * p.PropB
	g0 := rho0 * p.WingArea * p.CD0 / 2
	h0 := 2 * math.Sqr(w) / (rho0 * p.WingArea * gomath.Pi * p.Oswald * p.AspectRatio)
	k0 := f0 - g0
	q0 := e0 / k0
	r0 := h0 / k0
	u0 := h0 / g0

	return Composites{
		E:     phi * e0,
		F:     sigma * f0,
		G:     sigma * g0,
		H:     h0 / sigma,
		K:     sigma * k0,
		Q:     phi * q0 / sigma,
		R:     r0 / math.Sqr(sigma),
		U:     u0 / math.Sqr(sigma),
		G0:    g0,
		H0:    h0,
		W:     w,
		Sigma: sigma,
		Phi:   phi,
	}
}

// Thrust returns E + F V^2 at true airspeed v (ft/s), in lbf. [PoLA] eq 7.35
func (c Composites) Thrust(v float64) float64 { return c.E + c.F*v*v }

// ParasiteDrag returns G V^2. [PoLA] eq 7.37
func (c Composites) ParasiteDrag(v float64) float64 { return c.G * v * v }

// InducedDrag returns H/V^2.
func (c Composites) InducedDrag(v float64) float64 { return c.H / (v * v) }

// ClimbRate returns (E V + K V^3 - H/V)/W, in ft/s. [PoLA] eq 7.39
func (c Composites) ClimbRate(v float64) float64 {
	return (math.EvaluatePolynomial(v, 0, c.E, 0, c.K) - c.H/v) / c.W
}
