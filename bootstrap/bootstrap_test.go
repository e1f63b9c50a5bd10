// bootstrap/bootstrap_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bootstrap

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/mmp/lowry/atmos"
	"github.com/mmp/lowry/units"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/unit"
)

// [PoLA] table 7.1
var table71 = Plate{
	WingArea:     174,
	AspectRatio:  7.38,
	Torque:       311.2,
	DropoffC:     0.12,
	PropDiameter: 6.25,
	CD0:          0.037,
	Oswald:       0.72,
	PropM:        1.70,
	PropB:        -0.0564,
}

// [PoLA] appendix F
func appendixFInput() Input {
	return Input{
		S:  Ptr(units.FromSquareFeet(174)),
		B:  Ptr(units.FromFeet(35.83)),
		P0: Ptr(units.FromHorsepower(160)),
		N0: Ptr(units.FromRPM(2700)),
		D:  Ptr(units.FromFeet(6.25)),
		Drag: &DragTest{
			W:    Ptr(units.FromPoundsForce(2209)),
			Hp:   Ptr(units.FromFeet(5750)),
			T:    Ptr(units.FromFahrenheit(45)),
			VCbg: Ptr(units.FromKnots(70.5)),
			DHp:  Ptr(units.FromFeet(500)),
			DT:   Ptr(unit.Time(39.10)),
		},
		PropB: Ptr(table71.PropB),
		PropM: Ptr(table71.PropM),
	}
}

func checkRel(t *testing.T, what string, got, want, tol float64) {
	t.Helper()
	if !scalar.EqualWithinRel(got, want, tol) {
		t.Errorf("%s = %g, expected %g (rel. tolerance %g)", what, got, want, tol)
	}
}

func checkAbs(t *testing.T, what string, got, want, tol float64) {
	t.Helper()
	if !scalar.EqualWithinAbs(got, want, tol) {
		t.Errorf("%s = %g, expected %g (tolerance %g)", what, got, want, tol)
	}
}

func TestDeriveAppendixF(t *testing.T) {
	p, err := Derive(appendixFInput())
	if err != nil {
		t.Fatal(err)
	}

	checkRel(t, "A", p.AspectRatio, 7.3781, 1e-4)
	checkRel(t, "M0", p.Torque, 311.236, 1e-4)
	checkRel(t, "C", p.DropoffC, 0.12, 0)
	checkRel(t, "d", p.PropDiameter, 6.25, 1e-12)
	// Hand calculated, slightly different from the book.
	checkRel(t, "C_D0", p.CD0, 0.04093, 1e-3)
	checkRel(t, "e", p.Oswald, 0.5964, 1e-3)
	if p.CD0 <= 0 {
		t.Errorf("C_D0 should be positive for a descent with positive dh_p")
	}
}

func TestDeriveDoesNotModifyInput(t *testing.T) {
	in := appendixFInput()
	if _, err := Derive(in); err != nil {
		t.Fatal(err)
	}
	if in.A != nil || in.M0 != nil || in.C != nil || in.CD0 != nil || in.E != nil {
		t.Errorf("Derive filled in fields of its input: %+v", in)
	}
}

// thrustTest returns a thrust test record whose airspeeds are the ones
// the given plate predicts at the test conditions, so that reducing it
// should give back the plate's b and m.
func thrustTest(t *testing.T, p Plate, w unit.Force, hp unit.Length, temp unit.Temperature) *ThrustTest {
	hrho := atmos.DensityAltitude(hp, atmos.Measured(temp))
	r, err := Performance(p, w, hrho)
	if err != nil {
		t.Fatal(err)
	}
	return &ThrustTest{
		W:    Ptr(w),
		Hp:   Ptr(hp),
		T:    Ptr(temp),
		VCx:  Ptr(r.VCx),
		VC_M: Ptr(r.VCMax),
	}
}

func table71Input() Input {
	return Input{
		S:   Ptr(units.FromSquareFeet(table71.WingArea)),
		A:   Ptr(table71.AspectRatio),
		M0:  Ptr(units.FromFootPounds(table71.Torque)),
		C:   Ptr(table71.DropoffC),
		D:   Ptr(units.FromFeet(table71.PropDiameter)),
		CD0: Ptr(table71.CD0),
		E:   Ptr(table71.Oswald),
	}
}

func TestDeriveThrust(t *testing.T) {
	for _, tc := range []struct {
		w    float64
		hp   float64
		degF float64
	}{
		{2400, 0, 59},
		{2300, 3000, 60},
		{2100, 7500, 20},
	} {
		in := table71Input()
		in.Thrust = thrustTest(t, table71, units.FromPoundsForce(tc.w), units.FromFeet(tc.hp), units.FromFahrenheit(tc.degF))

		p, err := Derive(in)
		if err != nil {
			t.Fatal(err)
		}
		checkRel(t, "b", p.PropB, table71.PropB, 1e-6)
		checkRel(t, "m", p.PropM, table71.PropM, 1e-6)
	}
}

func TestDeriveThrustDiameter(t *testing.T) {
	in := table71Input()
	in.Thrust = thrustTest(t, table71, units.FromPoundsForce(2400), units.FromFeet(2000), units.FromFahrenheit(50))
	in.D = nil
	if _, err := Derive(in); !errors.Is(err, ErrMissingInput) {
		t.Errorf("expected missing d, got %v", err)
	}

	in.Thrust.D = Ptr(units.FromFeet(table71.PropDiameter))
	p, err := Derive(in)
	if err != nil {
		t.Fatal(err)
	}
	checkRel(t, "d", p.PropDiameter, table71.PropDiameter, 1e-12)
	checkRel(t, "m", p.PropM, table71.PropM, 1e-6)
}

func TestDeriveOverrides(t *testing.T) {
	in := appendixFInput()
	in.PropB, in.PropM = nil, nil
	in.Thrust = thrustTest(t, table71, units.FromPoundsForce(2200), units.FromFeet(4000), units.FromFahrenheit(55))

	p1, err := Derive(in)
	if err != nil {
		t.Fatal(err)
	}

	// Injecting the derived values as overrides gives an identical plate.
	in.CD0, in.E, in.PropB, in.PropM = Ptr(p1.CD0), Ptr(p1.Oswald), Ptr(p1.PropB), Ptr(p1.PropM)
	p2, err := Derive(in)
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Errorf("plates differ:\n%+v\n%+v", p1, p2)
	}

	// And overrides win over the flight test data.
	in.CD0, in.E, in.PropB, in.PropM = Ptr(0.05), Ptr(0.8), Ptr(-0.06), Ptr(1.6)
	p3, err := Derive(in)
	if err != nil {
		t.Fatal(err)
	}
	if p3.CD0 != 0.05 || p3.Oswald != 0.8 || p3.PropB != -0.06 || p3.PropM != 1.6 {
		t.Errorf("overrides not applied: %+v", p3)
	}

	// A fully specified plate derives to itself.
	full := table71Input()
	full.PropB, full.PropM = Ptr(table71.PropB), Ptr(table71.PropM)
	p, err := Derive(full)
	if err != nil {
		t.Fatal(err)
	}
	checkPlate(t, p, table71, 1e-12)
}

func checkPlate(t *testing.T, got, want Plate, tol float64) {
	t.Helper()
	checkRel(t, "S", got.WingArea, want.WingArea, tol)
	checkRel(t, "A", got.AspectRatio, want.AspectRatio, tol)
	checkRel(t, "M0", got.Torque, want.Torque, tol)
	checkRel(t, "C", got.DropoffC, want.DropoffC, tol)
	checkRel(t, "d", got.PropDiameter, want.PropDiameter, tol)
	checkRel(t, "C_D0", got.CD0, want.CD0, tol)
	checkRel(t, "e", got.Oswald, want.Oswald, tol)
	checkRel(t, "b", got.PropB, want.PropB, tol)
	checkRel(t, "m", got.PropM, want.PropM, tol)
}

func TestDeriveMissingInput(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Input)
		record string
		key    string
	}{
		{"drag W", func(in *Input) { in.Drag.W = nil }, "drag", "W"},
		{"drag VCbg", func(in *Input) { in.Drag.VCbg = nil }, "drag", "VCbg"},
		{"drag T", func(in *Input) { in.Drag.T = nil }, "drag", "T"},
		{"drag dt", func(in *Input) { in.Drag.DT = nil }, "drag", "dt"},
		{"span", func(in *Input) { in.B = nil }, "", "A"},
		{"area", func(in *Input) { in.S = nil }, "", "S"},
		{"no drag test", func(in *Input) { in.Drag = nil }, "", "C_D0"},
		{"no propeller", func(in *Input) { in.PropB = nil }, "", "b"},
		{"no torque", func(in *Input) { in.N0 = nil }, "", "M0"},
		{"thrust VC_M", func(in *Input) {
			in.PropB, in.PropM = nil, nil
			in.Thrust = &ThrustTest{
				W:   Ptr(units.FromPoundsForce(2400)),
				Hp:  Ptr(unit.Length(0)),
				T:   Ptr(atmos.SeaLevelTemperature),
				VCx: Ptr(units.FromKnots(63)),
			}
		}, "thrust", "VC_M"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := appendixFInput()
			tc.modify(&in)
			_, err := Derive(in)
			if !errors.Is(err, ErrMissingInput) {
				t.Fatalf("expected ErrMissingInput, got %v", err)
			}
			var mi *MissingInputError
			if !errors.As(err, &mi) || mi.Record != tc.record || mi.Key != tc.key {
				t.Errorf("expected %s.%s, got %v", tc.record, tc.key, err)
			}
		})
	}
}

func TestDeriveDomainError(t *testing.T) {
	in := appendixFInput()
	// Descending faster than the airspeed.
	in.Drag.DT = Ptr(unit.Time(1))
	_, err := Derive(in)
	if !errors.Is(err, ErrDomain) {
		t.Fatalf("expected domain error, got %v", err)
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != "bootstrap" {
		t.Errorf("expected bootstrap stage error, got %v", err)
	}
}

func TestComposites(t *testing.T) {
	// [PoLA] table 7.3, hand calculated
	c := ComputeComposites(table71, units.FromPoundsForce(2400), 0)
	if c.Sigma != 1 || c.Phi != 1 {
		t.Errorf("sea level sigma %g, phi %g", c.Sigma, c.Phi)
	}
	checkRel(t, "E", c.E, 531.85, 1e-3)
	checkRel(t, "F", c.F, -0.0052214, 1e-3)
	checkRel(t, "G", c.G, 0.0076290, 1e-3)
	checkRel(t, "H", c.H, 1673463, 1e-3)
	checkRel(t, "K", c.K, -0.012850, 1e-3)
	checkRel(t, "Q", c.Q, -41387.6, 1e-3)
	checkRel(t, "R", c.R, -1.30226e8, 1e-3)
	checkRel(t, "U", c.U, 2.19355e8, 1e-3)
	if c.G0 != c.G || c.H0 != c.H {
		t.Errorf("sea level G0, H0 should match G, H")
	}

	c = ComputeComposites(table71, units.FromPoundsForce(1800), units.FromFeet(8000))
	checkRel(t, "sigma", c.Sigma, 0.7860, 1e-3)
	checkRel(t, "phi", c.Phi, 0.7568, 1e-3)
	checkRel(t, "E", c.E, 402.52, 1e-3)
	checkRel(t, "F", c.F, -0.0041041, 1e-3)
	checkRel(t, "G", c.G, 0.0059965, 1e-3)
	checkRel(t, "H", c.H, 1197589, 1e-3)
	checkRel(t, "K", c.K, -0.0101006, 1e-3)
	checkRel(t, "Q", c.Q, -39851, 1e-3)
	checkRel(t, "R", c.R, -1.18566e8, 1e-3)
	checkRel(t, "U", c.U, 1.99713e8, 1e-3)
	checkRel(t, "G0", c.G0, 0.0076290, 1e-3)
	checkRel(t, "H0", c.H0, 1673463*(1800.0*1800)/(2400*2400), 1e-3)
}

func TestPerformanceSeaLevel(t *testing.T) {
	v := atmos.TAS(units.FromKnots(75), 0, atmos.Standard)
	r, err := PerformanceAt(table71, units.FromPoundsForce(2400), 0, v)
	if err != nil {
		t.Fatal(err)
	}

	kt, fpm, deg := units.Knots, units.FeetPerMinute, units.Degrees
	checkAbs(t, "VC_M", kt(r.VCMax), 115, 1.5)
	checkAbs(t, "VCy", kt(r.VCy), 76, 1.5)
	checkAbs(t, "VCx", kt(r.VCx), 63, 1.5)
	checkRel(t, "ROC_y", fpm(r.ROCy), 700, 0.02)

	checkRel(t, "V_M", kt(r.VMax), 115.43, 1e-4)
	checkRel(t, "Vm", kt(r.VMin), 34.704, 1e-4)
	checkRel(t, "Vy", kt(r.Vy), 75.960, 1e-4)
	checkRel(t, "Vx", kt(r.Vx), 63.292, 1e-4)
	checkRel(t, "Vbg", kt(r.Vbg), 72.105, 1e-4)
	checkRel(t, "Vmd", kt(r.Vmd), 54.788, 1e-4)
	checkRel(t, "ROC_y", fpm(r.ROCy), 701.34, 1e-4)
	checkRel(t, "gamma_x", deg(r.GammaX), 5.7046, 1e-4)
	checkRel(t, "gamma_bg", deg(r.GammaBG), -5.4029, 1e-4)
	checkRel(t, "ROC_md", fpm(r.ROCmd), -603.24, 1e-4)
	if r.ROSmd != r.ROCmd {
		t.Errorf("ROS_md %v != ROC_md %v", r.ROSmd, r.ROCmd)
	}
	if r.VCy != r.Vy {
		t.Errorf("calibrated and true airspeeds differ at sea level")
	}

	s := r.AtSpeed
	if s == nil {
		t.Fatal("no airspeed results")
	}
	checkRel(t, "T", units.PoundsForce(s.Thrust), 448.18, 1e-4)
	checkRel(t, "Dp", units.PoundsForce(s.ParasiteDrag), 122.25, 1e-4)
	checkRel(t, "Di", units.PoundsForce(s.InducedDrag), 104.44, 1e-4)
	checkRel(t, "D", units.PoundsForce(s.Drag), 226.68, 1e-4)
	checkRel(t, "ROC", fpm(s.ROC), 700.97, 1e-4)
	checkRel(t, "Pav", units.Horsepower(s.PowerAvailable), 103.15, 1e-4)
	checkRel(t, "Pre", units.Horsepower(s.PowerRequired), 52.172, 1e-4)
	checkRel(t, "Pxs", units.Horsepower(s.ExcessPower), 50.979, 1e-4)
	checkRel(t, "Txs", units.PoundsForce(s.ExcessThrust), 221.50, 1e-4)
	checkRel(t, "gamma", deg(s.Gamma), 5.2954, 1e-4)
}

func TestPerformanceAltitude(t *testing.T) {
	h := units.FromFeet(8000)
	r, err := PerformanceAt(table71, units.FromPoundsForce(1800), h, units.FromKnots(75))
	if err != nil {
		t.Fatal(err)
	}

	kt, fpm, deg := units.Knots, units.FeetPerMinute, units.Degrees
	checkRel(t, "VC_M", kt(r.VCMax), 100.51, 1e-4)
	checkRel(t, "VCm", kt(r.VCMin), 29.892, 1e-4)
	checkRel(t, "VCy", kt(r.VCy), 66.000, 1e-4)
	checkRel(t, "VCx", kt(r.VCx), 54.813, 1e-4)
	checkRel(t, "VCbg", kt(r.VCbg), 62.444, 1e-4)
	checkRel(t, "VCmd", kt(r.VCmd), 47.448, 1e-4)
	checkRel(t, "Vy", kt(r.Vy), 74.444, 1e-4)
	checkRel(t, "ROC_y", fpm(r.ROCy), 700.29, 1e-4)
	checkRel(t, "gamma_x", deg(r.GammaX), 5.8209, 1e-4)
	checkRel(t, "ROC_md", fpm(r.ROCmd), -589.26, 1e-4)
	// The best glide angle depends only on the plate.
	checkRel(t, "gamma_bg", deg(r.GammaBG), -5.4029, 1e-4)

	s := r.AtSpeed
	checkRel(t, "T", units.PoundsForce(s.Thrust), 336.76, 1e-4)
	checkRel(t, "Dp", units.PoundsForce(s.ParasiteDrag), 96.09, 1e-3)
	checkRel(t, "Di", units.PoundsForce(s.InducedDrag), 74.74, 1e-3)
	checkRel(t, "D", units.PoundsForce(s.Drag), 170.83, 1e-4)
	checkRel(t, "ROC", fpm(s.ROC), 700.16, 1e-4)
	checkRel(t, "Pav", units.Horsepower(s.PowerAvailable), 77.51, 1e-3)
	checkRel(t, "Pre", units.Horsepower(s.PowerRequired), 39.32, 1e-3)
	checkRel(t, "Pxs", units.Horsepower(s.ExcessPower), 38.19, 1e-3)
	checkRel(t, "Txs", units.PoundsForce(s.ExcessThrust), 165.93, 1e-4)
	checkRel(t, "gamma", deg(s.Gamma), 5.2893, 1e-4)
}

func TestPerformanceProperties(t *testing.T) {
	for _, w := range []float64{1800, 2100, 2400} {
		for _, h := range []float64{0, 2000, 5000, 8000, 12000} {
			wf, hl := units.FromPoundsForce(w), units.FromFeet(h)
			r, err := Performance(table71, wf, hl)
			if err != nil {
				t.Fatalf("%g lbf at %g ft: %v", w, h, err)
			}
			if r.AtSpeed != nil {
				t.Errorf("airspeed results without an airspeed")
			}

			c := ComputeComposites(table71, wf, hl)
			checkRel(t, "Vbg", units.FeetPerSecond(r.Vbg), gomath.Pow(c.U, 0.25), 1e-12)
			checkRel(t, "Vmd", units.FeetPerSecond(r.Vmd), gomath.Pow(c.U/3, 0.25), 1e-12)
			checkRel(t, "Vmd", float64(r.Vmd), float64(r.Vbg)/gomath.Pow(3, 0.25), 1e-12)

			if !(r.VMin < r.Vmd && r.Vmd < r.Vx && r.Vx < r.Vy && r.Vy < r.VMax) {
				t.Errorf("%g lbf at %g ft: unexpected speed ordering %+v", w, h, r)
			}
			if r.ROCy <= 0 || r.GammaX <= 0 || r.GammaBG >= 0 || r.ROCmd >= 0 {
				t.Errorf("%g lbf at %g ft: unexpected signs %+v", w, h, r)
			}

			// Thrust equals drag at the maximum level flight speed, and
			// the climb rate there is zero.
			at, err := PerformanceAt(table71, wf, hl, r.VMax)
			if err != nil {
				t.Fatal(err)
			}
			checkRel(t, "T at V_M", float64(at.AtSpeed.Thrust), float64(at.AtSpeed.Drag), 1e-9)
			checkAbs(t, "ROC at V_M", units.FeetPerMinute(at.AtSpeed.ROC), 0, 1e-6)

			// Vy maximizes the climb rate.
			for _, dv := range []float64{-2, 2} {
				near, err := PerformanceAt(table71, wf, hl, r.Vy+units.FromKnots(dv))
				if err != nil {
					t.Fatal(err)
				}
				if near.AtSpeed.ROC >= r.ROCy {
					t.Errorf("climb rate %v at Vy%+g kt exceeds ROC_y %v", near.AtSpeed.ROC, dv, r.ROCy)
				}
			}
		}
	}
}

func TestPerformanceDomainError(t *testing.T) {
	// A propeller polar intercept this large makes K, and so R, positive.
	p := table71
	p.PropB = 0.2
	_, err := Performance(p, units.FromPoundsForce(2400), 0)
	if !errors.Is(err, ErrDomain) {
		t.Fatalf("expected domain error, got %v", err)
	}
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DomainError, got %T", err)
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != "performance" {
		t.Errorf("expected performance stage error, got %v", err)
	}

	if _, err := PerformanceAt(table71, units.FromPoundsForce(2400), 0, 0); !errors.Is(err, ErrDomain) {
		t.Errorf("expected domain error for zero airspeed, got %v", err)
	}
}

func TestResultOrdered(t *testing.T) {
	r, err := PerformanceAt(table71, units.FromPoundsForce(2400), 0, units.FromKnots(75))
	if err != nil {
		t.Fatal(err)
	}
	m := r.Ordered()
	keys := m.Keys()
	want := []string{"V_M", "Vm", "Vy", "Vx", "Vbg", "Vmd", "VC_M", "VCm", "VCy", "VCx", "VCbg", "VCmd",
		"ROC_y", "gamma_x", "ROC_md", "ROS_md", "gamma_bg",
		"V", "T", "Dp", "Di", "D", "ROC", "Pre", "Pav", "Pxs", "Txs", "gamma"}
	if len(keys) != len(want) {
		t.Fatalf("got keys %v, expected %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: got %q, expected %q", i, keys[i], want[i])
		}
	}
	if v, ok := m.Get("ROC_y"); !ok || !scalar.EqualWithinRel(v.(float64), 701.34, 1e-4) {
		t.Errorf("ROC_y = %v", v)
	}

	r.AtSpeed = nil
	if n := len(r.Ordered().Keys()); n != 17 {
		t.Errorf("expected 17 keys without an airspeed, got %d", n)
	}
}
