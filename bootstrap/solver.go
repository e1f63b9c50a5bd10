// bootstrap/solver.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bootstrap

import (
	"runtime"
	"time"

	"github.com/mmp/lowry/atmos"
	"github.com/mmp/lowry/log"
	"github.com/mmp/lowry/units"
	"github.com/mmp/lowry/util"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/unit"
)

type compositesKey struct {
	Plate Plate
	W     float64 // N
	H     float64 // m
}

type performanceKey struct {
	compositesKey
	V     float64 // m/s
	HaveV bool
}

// Solver runs the bootstrap pipeline with each stage's results memoized,
// which pays off when the same plate, weight and altitude recur, as in a
// sweep over airspeeds. A Solver is safe for concurrent use. A nil
// *Solver computes everything directly.
type Solver struct {
	plates      *util.Memo[string, Plate]
	composites  *util.Memo[compositesKey, Composites]
	performance *util.Memo[performanceKey, Result]
	lg          *log.Logger
}

type SolverOptions struct {
	Size    int           // entries per stage; util.DefaultMemoSize if zero
	TTL     time.Duration // zero means entries stay until evicted
	Metrics *util.MemoMetrics
	Logger  *log.Logger
}

func NewSolver(opts SolverOptions) *Solver {
	mo := util.MemoOptions{Size: opts.Size, TTL: opts.TTL, Metrics: opts.Metrics, Logger: opts.Logger}
	return &Solver{
		plates:      util.NewMemo[string, Plate]("bootstrap", mo),
		composites:  util.NewMemo[compositesKey, Composites]("composites", mo),
		performance: util.NewMemo[performanceKey, Result]("performance", mo),
		lg:          opts.Logger,
	}
}

func (s *Solver) logger() *log.Logger {
	if s == nil {
		return nil
	}
	return s.lg
}

// Derive is the memoized version of the package-level Derive.
func (s *Solver) Derive(in Input) (Plate, error) {
	if s == nil {
		return Derive(in)
	}
	key, err := util.ObjectKey(in)
	if err != nil {
		s.lg.Debugf("unable to key input: %v", err)
		return derive(in, s.lg)
	}
	return s.plates.Get(key, func() (Plate, error) {
		s.lg.Debug("deriving plate")
		return derive(in, s.lg)
	})
}

// Composites is the memoized version of ComputeComposites.
func (s *Solver) Composites(p Plate, w unit.Force, h unit.Length) (Composites, error) {
	if s == nil {
		return ComputeComposites(p, w, h), nil
	}
	c, err := s.composites.Get(compositesKey{Plate: p, W: float64(w), H: float64(h)},
		func() (Composites, error) {
			s.lg.Debug("computing composites", "W", units.PoundsForce(w), "h", units.Feet(h))
			return ComputeComposites(p, w, h), nil
		})
	return c, stageError("composites", err)
}

// Performance is the memoized version of the package-level Performance.
func (s *Solver) Performance(p Plate, w unit.Force, h unit.Length) (Result, error) {
	return s.solve(p, w, h, 0, false)
}

// PerformanceAt is the memoized version of the package-level
// PerformanceAt.
func (s *Solver) PerformanceAt(p Plate, w unit.Force, h unit.Length, v unit.Velocity) (Result, error) {
	return s.solve(p, w, h, v, true)
}

func (s *Solver) solve(p Plate, w unit.Force, h unit.Length, v unit.Velocity, haveV bool) (Result, error) {
	compute := func() (Result, error) {
		c, err := s.Composites(p, w, h)
		if err != nil {
			return Result{}, err
		}
		return performance(c, v, haveV)
	}
	if s == nil {
		return compute()
	}

	key := performanceKey{
		compositesKey: compositesKey{Plate: p, W: float64(w), H: float64(h)},
		V:             float64(v),
		HaveV:         haveV,
	}
	return s.performance.Get(key, func() (Result, error) {
		s.lg.Debug("computing performance", "W", units.PoundsForce(w), "h", units.Feet(h),
			"V", units.Knots(v), "haveV", haveV)
		return compute()
	})
}

// Sweep evaluates PerformanceAt at each of the given true airspeeds. If
// any speed fails, the error is returned and there are no results.
func (s *Solver) Sweep(p Plate, w unit.Force, h unit.Length, speeds []unit.Velocity) ([]Result, error) {
	results := make([]Result, len(speeds))
	for i, v := range speeds {
		r, err := s.PerformanceAt(p, w, h, v)
		if err != nil {
			s.logger().Debugf("sweep stopped at %.1f kt: %v", units.Knots(v), err)
			return nil, err
		}
		results[i] = r
	}
	return results, nil
}

// SweepAltitudes evaluates Performance at each of the given density
// altitudes, or PerformanceAt if cas is non-nil, in which case the
// calibrated airspeed is converted to true airspeed at each altitude. The
// altitudes are evaluated concurrently.
func (s *Solver) SweepAltitudes(p Plate, w unit.Force, altitudes []unit.Length, cas *unit.Velocity) ([]Result, error) {
	results := make([]Result, len(altitudes))

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, h := range altitudes {
		eg.Go(func() error {
			var r Result
			var err error
			if cas != nil {
				r, err = s.PerformanceAt(p, w, h, atmos.TAS(*cas, h, atmos.Standard))
			} else {
				r, err = s.Performance(p, w, h)
			}
			results[i] = r
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Sweep evaluates PerformanceAt at each of the given true airspeeds
// without memoization.
func Sweep(p Plate, w unit.Force, h unit.Length, speeds []unit.Velocity) ([]Result, error) {
	return (*Solver)(nil).Sweep(p, w, h, speeds)
}

// SweepAltitudes is Solver.SweepAltitudes without memoization.
func SweepAltitudes(p Plate, w unit.Force, altitudes []unit.Length, cas *unit.Velocity) ([]Result, error) {
	return (*Solver)(nil).SweepAltitudes(p, w, altitudes, cas)
}
