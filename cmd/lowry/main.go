// cmd/lowry/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// lowry computes the performance of a fixed-pitch propeller airplane from
// its bootstrap data plate. The plate is derived from airframe data and
// glide and climb flight tests given in a YAML or JSON file, or loaded
// from a plate saved by an earlier run.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mmp/lowry/atmos"
	"github.com/mmp/lowry/bootstrap"
	"github.com/mmp/lowry/log"
	"github.com/mmp/lowry/units"
	"github.com/mmp/lowry/util"

	"github.com/goforj/godump"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gonum.org/v1/gonum/unit"
)

var (
	weight     = flag.String("weight", "2400", "gross weight, lbf (comma separated list allowed)")
	altitude   = flag.String("alt", "0", "density altitude, ft (comma separated list allowed)")
	speed      = flag.Float64("speed", 0, "calibrated airspeed, kt")
	sweep      = flag.String("sweep", "", "sweep calibrated airspeeds min:max:step, kt; writes CSV")
	jsonOutput = flag.Bool("json", false, "print results as JSON")
	csvOutput  = flag.Bool("csv", false, "print results as CSV")
	plateFile  = flag.String("plate", "", "load a saved data plate instead of deriving one")
	savePlate  = flag.String("save-plate", "", "save the derived data plate to this file")
	dump       = flag.Bool("dump", false, "dump the input and data plate")
	atmosTable = flag.String("atmos", "", "print the standard atmosphere over min:max:step, ft, and exit")
	metrics    = flag.Bool("metrics", false, "print cache metrics to stderr on exit")
	cpuprofile = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
	logLevel   = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir     = flag.String("logdir", "", "log file directory")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: lowry [flags] airframe.yaml\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	if err := run(lg); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "lowry: %v\n", err)
		os.Exit(1)
	}
}

func run(lg *log.Logger) error {
	if *atmosTable != "" {
		alts, err := parseRange(*atmosTable)
		if err != nil {
			return fmt.Errorf("-atmos: %w", err)
		}
		var h []unit.Length
		for _, ft := range alts {
			h = append(h, units.FromFeet(ft))
		}
		return writeAtmosphere(os.Stdout, atmos.Table(h, atmos.DefaultDropoffC))
	}

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer func() {
		if err := profiler.Cleanup(); err != nil {
			lg.Errorf("%v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	mm, err := util.NewMemoMetrics(reg, "lowry")
	if err != nil {
		return err
	}
	if *metrics {
		defer writeMetrics(reg, lg)
	}
	solver := bootstrap.NewSolver(bootstrap.SolverOptions{Metrics: mm, Logger: lg})

	plate, err := loadPlate(solver, lg)
	if err != nil {
		return err
	}
	if *dump {
		godump.Dump(plate)
	}
	if *savePlate != "" {
		if err := bootstrap.SavePlateFile(*savePlate, plate); err != nil {
			return err
		}
		lg.Infof("%s: saved data plate", *savePlate)
	}

	weights, err := parseList(*weight)
	if err != nil {
		return fmt.Errorf("-weight: %w", err)
	}
	alts, err := parseList(*altitude)
	if err != nil {
		return fmt.Errorf("-alt: %w", err)
	}
	var speeds []float64
	if *sweep != "" {
		if speeds, err = parseRange(*sweep); err != nil {
			return fmt.Errorf("-sweep: %w", err)
		}
	} else if *speed != 0 {
		speeds = []float64{*speed}
	}

	runs, err := evaluate(solver, plate, weights, alts, speeds)
	if err != nil {
		return err
	}
	lg.Info("computed performance", "weights", weights, "altitudes", alts, "speeds", len(speeds),
		"results", len(runs))

	switch {
	case *jsonOutput:
		return writeJSON(os.Stdout, plate, runs)
	case *csvOutput || *sweep != "":
		return writeCSV(os.Stdout, plate, runs)
	default:
		return writeText(os.Stdout, plate, runs)
	}
}

func loadPlate(solver *bootstrap.Solver, lg *log.Logger) (bootstrap.Plate, error) {
	if *plateFile != "" {
		if flag.NArg() != 0 {
			return bootstrap.Plate{}, errors.New("an input file may not be given with -plate")
		}
		p, err := bootstrap.LoadPlateFile(*plateFile)
		if err == nil {
			lg.Infof("%s: loaded data plate", *plateFile)
		}
		return p, err
	}

	if flag.NArg() != 1 {
		usage()
		return bootstrap.Plate{}, errors.New("expected a single airframe file")
	}
	fn := flag.Arg(0)
	in, err := bootstrap.LoadInput(fn)
	if err != nil {
		return bootstrap.Plate{}, err
	}
	if *dump {
		godump.Dump(in)
	}

	var e util.ErrorLogger
	e.Push(fn)
	in.Check(&e)
	e.Pop()
	if e.HaveErrors() {
		e.PrintErrors(lg)
		return bootstrap.Plate{}, fmt.Errorf("%s: invalid input", fn)
	}

	return solver.Derive(in)
}

// evaluate computes performance for each combination of weight, altitude
// and calibrated airspeed. Altitudes are evaluated concurrently.
func evaluate(solver *bootstrap.Solver, p bootstrap.Plate, weights, alts, speeds []float64) ([]evaluation, error) {
	var h []unit.Length
	for _, ft := range alts {
		h = append(h, units.FromFeet(ft))
	}

	var runs []evaluation
	for _, w := range weights {
		if len(speeds) == 0 {
			results, err := solver.SweepAltitudes(p, units.FromPoundsForce(w), h, nil)
			if err != nil {
				return nil, fmt.Errorf("W %g lbf: %w", w, err)
			}
			for i, r := range results {
				runs = append(runs, evaluation{W: w, H: alts[i], Result: r})
			}
			continue
		}
		for _, vc := range speeds {
			cas := units.FromKnots(vc)
			results, err := solver.SweepAltitudes(p, units.FromPoundsForce(w), h, &cas)
			if err != nil {
				return nil, fmt.Errorf("W %g lbf, VC %g kt: %w", w, vc, err)
			}
			for i, r := range results {
				runs = append(runs, evaluation{W: w, H: alts[i], VC: vc, Result: r})
			}
		}
	}
	return runs, nil
}

func writeMetrics(g prometheus.Gatherer, lg *log.Logger) {
	mfs, err := g.Gather()
	if err != nil {
		lg.Errorf("gathering metrics: %v", err)
		return
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
			lg.Errorf("writing metrics: %v", err)
			return
		}
	}
}
