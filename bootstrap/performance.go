// bootstrap/performance.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bootstrap

import (
	gomath "math"

	"github.com/iancoleman/orderedmap"
	"github.com/mmp/lowry/math"
	"github.com/mmp/lowry/units"
	"gonum.org/v1/gonum/unit"
)

// Result holds the performance of an airplane at one weight and density
// altitude. Speeds without a C are true airspeeds; the VC fields are the
// corresponding calibrated airspeeds.
type Result struct {
	VMax unit.Velocity // V_M, maximum level flight speed
	VMin unit.Velocity // Vm, minimum level flight speed
	Vy   unit.Velocity // best rate of climb
	Vx   unit.Velocity // best angle of climb
	Vbg  unit.Velocity // best glide
	Vmd  unit.Velocity // minimum drag

	VCMax, VCMin, VCy, VCx, VCbg, VCmd unit.Velocity

	ROCy    unit.Velocity // maximum rate of climb, at Vy
	GammaX  unit.Angle    // maximum climb angle, at Vx
	ROCmd   unit.Velocity // power-off climb rate at Vmd; negative
	ROSmd   unit.Velocity // same as ROCmd
	GammaBG unit.Angle    // best glide angle; negative

	// AtSpeed is only present when an airspeed was given.
	AtSpeed *SpeedResult
}

// SpeedResult is the full-throttle performance at one true airspeed.
type SpeedResult struct {
	V              unit.Velocity
	Thrust         unit.Force    // T
	ParasiteDrag   unit.Force    // Dp
	InducedDrag    unit.Force    // Di
	Drag           unit.Force    // D
	ROC            unit.Velocity // rate of climb
	PowerRequired  unit.Power    // Pre
	PowerAvailable unit.Power    // Pav
	ExcessPower    unit.Power    // Pxs
	ExcessThrust   unit.Force    // Txs
	Gamma          unit.Angle    // climb angle
}

// Performance returns the characteristic airspeeds, climb rates and
// angles for the plate at weight w and density altitude h.
//
// A plate whose composites put a negative value under one of the roots
// (e.g., R > 0 so that Vx is undefined) fails with a *DomainError naming
// the quantity; no partial result is returned.
func Performance(p Plate, w unit.Force, h unit.Length) (Result, error) {
	return performance(computeComposites(p, units.PoundsForce(w), h), 0, false)
}

// PerformanceAt is Performance with the addition of thrust, drag, power
// and climb at true airspeed v.
func PerformanceAt(p Plate, w unit.Force, h unit.Length, v unit.Velocity) (Result, error) {
	return performance(computeComposites(p, units.PoundsForce(w), h), v, true)
}

// sqrtChain accumulates the first domain error over a sequence of root
// extractions so that the closed-form expressions read like formulas.
type sqrtChain struct {
	err error
}

func (s *sqrtChain) sqrt(q string, x float64) float64 {
	if s.err != nil {
		return 0
	}
	v, err := math.Sqrt(q, x)
	s.err = err
	return v
}

func (s *sqrtChain) root4(q string, x float64) float64 {
	if s.err != nil {
		return 0
	}
	v, err := math.Root4(q, x)
	s.err = err
	return v
}

func (s *sqrtChain) asin(q string, x float64) float64 {
	if s.err != nil {
		return 0
	}
	v, err := math.Asin(q, x)
	s.err = err
	return v
}

func performance(c Composites, v unit.Velocity, haveV bool) (Result, error) {
	var s sqrtChain
	Q, R, U := c.Q, c.R, c.U

	// [PoLA] eqs 7.19, 7.21
	disc := s.sqrt("V_M", math.Sqr(Q)/4+R)
	vM := s.sqrt("V_M", -Q/2+disc)
	vm := s.sqrt("Vm", -Q/2-disc)
	// [PoLA] eq 7.24
	vy := s.sqrt("Vy", -Q/6+s.sqrt("Vy", math.Sqr(Q)/36-R/3))
	// [PoLA] eqs 7.27, 7.31, 7.33
	vx := s.root4("Vx", -R)
	vbg := s.root4("Vbg", U)
	vmd := s.root4("Vmd", U/3)

	// [PoLA] eq 7.44
	gammaX := s.asin("gamma_x", (c.E-2*s.sqrt("gamma_x", -c.K*c.H))/c.W)
	// [PoLA] eq 7.51
	gammaBG := -s.asin("gamma_bg", 2*s.sqrt("gamma_bg", c.G*c.H)/c.W)

	if s.err != nil {
		return Result{}, stageError("performance", s.err)
	}

	// Climb rate polynomial at Vy and, with thrust zeroed (E = 0,
	// K = -G), at Vmd; [PoLA] eq 7.48 is awkward dimensionally.
	rocY := c.ClimbRate(vy)
	rocMD := (-c.G*vmd*vmd*vmd - c.H/vmd) / c.W

	cas := gomath.Sqrt(c.Sigma)
	fps := units.FromFeetPerSecond
	r := Result{
		VMax:    fps(vM),
		VMin:    fps(vm),
		Vy:      fps(vy),
		Vx:      fps(vx),
		Vbg:     fps(vbg),
		Vmd:     fps(vmd),
		VCMax:   fps(vM * cas),
		VCMin:   fps(vm * cas),
		VCy:     fps(vy * cas),
		VCx:     fps(vx * cas),
		VCbg:    fps(vbg * cas),
		VCmd:    fps(vmd * cas),
		ROCy:    fps(rocY),
		GammaX:  unit.Angle(gammaX),
		ROCmd:   fps(rocMD),
		ROSmd:   fps(rocMD),
		GammaBG: unit.Angle(gammaBG),
	}

	if haveV {
		sr, err := atSpeed(c, v)
		if err != nil {
			return Result{}, stageError("performance", err)
		}
		r.AtSpeed = &sr
	}
	return r, nil
}

// atSpeed evaluates the at-speed results; V in the result is vel exactly
// as given.
func atSpeed(c Composites, vel unit.Velocity) (SpeedResult, error) {
	v := units.FeetPerSecond(vel)
	if v <= 0 {
		return SpeedResult{}, &DomainError{Func: "1/V", Quantity: "V", Value: v}
	}

	t := c.Thrust(v)
	dp := c.ParasiteDrag(v)
	di := c.InducedDrag(v)
	d := dp + di
	roc := c.ClimbRate(v)
	pre := d * v // [PoLA] eq 7.9
	pav := t * v // [PoLA] eq 7.14

	gamma, err := math.Asin("gamma", roc/v) // [PoLA] eq 7.41
	if err != nil {
		return SpeedResult{}, err
	}

	return SpeedResult{
		V:              vel,
		Thrust:         units.FromPoundsForce(t),
		ParasiteDrag:   units.FromPoundsForce(dp),
		InducedDrag:    units.FromPoundsForce(di),
		Drag:           units.FromPoundsForce(d),
		ROC:            units.FromFeetPerSecond(roc),
		PowerRequired:  units.FromFootPoundsPerSecond(pre),
		PowerAvailable: units.FromFootPoundsPerSecond(pav),
		ExcessPower:    units.FromFootPoundsPerSecond(pav - pre), // [PoLA] eq 7.17
		ExcessThrust:   units.FromPoundsForce(t - d),
		Gamma:          unit.Angle(gamma),
	}, nil
}

// Ordered returns the result keyed by the conventional symbols, in a
// fixed order, with speeds in knots, climb rates in ft/min, angles in
// degrees, forces in lbf and power in hp. It marshals to JSON in that
// order.
func (r Result) Ordered() *orderedmap.OrderedMap {
	m := orderedmap.New()
	kt, fpm, deg := units.Knots, units.FeetPerMinute, units.Degrees

	m.Set("V_M", kt(r.VMax))
	m.Set("Vm", kt(r.VMin))
	m.Set("Vy", kt(r.Vy))
	m.Set("Vx", kt(r.Vx))
	m.Set("Vbg", kt(r.Vbg))
	m.Set("Vmd", kt(r.Vmd))
	m.Set("VC_M", kt(r.VCMax))
	m.Set("VCm", kt(r.VCMin))
	m.Set("VCy", kt(r.VCy))
	m.Set("VCx", kt(r.VCx))
	m.Set("VCbg", kt(r.VCbg))
	m.Set("VCmd", kt(r.VCmd))
	m.Set("ROC_y", fpm(r.ROCy))
	m.Set("gamma_x", deg(r.GammaX))
	m.Set("ROC_md", fpm(r.ROCmd))
	m.Set("ROS_md", fpm(r.ROSmd))
	m.Set("gamma_bg", deg(r.GammaBG))

	if s := r.AtSpeed; s != nil {
		m.Set("V", kt(s.V))
		m.Set("T", units.PoundsForce(s.Thrust))
		m.Set("Dp", units.PoundsForce(s.ParasiteDrag))
		m.Set("Di", units.PoundsForce(s.InducedDrag))
		m.Set("D", units.PoundsForce(s.Drag))
		m.Set("ROC", fpm(s.ROC))
		m.Set("Pre", units.Horsepower(s.PowerRequired))
		m.Set("Pav", units.Horsepower(s.PowerAvailable))
		m.Set("Pxs", units.Horsepower(s.ExcessPower))
		m.Set("Txs", units.PoundsForce(s.ExcessThrust))
		m.Set("gamma", deg(s.Gamma))
	}
	return m
}
