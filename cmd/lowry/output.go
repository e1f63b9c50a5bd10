// cmd/lowry/output.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mmp/lowry/atmos"
	"github.com/mmp/lowry/bootstrap"
	"github.com/mmp/lowry/units"

	"github.com/iancoleman/orderedmap"
)

// evaluation is the performance at one weight and density altitude.
type evaluation struct {
	W      float64 // lbf
	H      float64 // ft
	VC     float64 // calibrated airspeed, kt; zero if none was given
	Result bootstrap.Result
}

func (r evaluation) ordered(p bootstrap.Plate) *orderedmap.OrderedMap {
	h := units.FromFeet(r.H)
	m := orderedmap.New()
	m.Set("W", r.W)
	m.Set("h", r.H)
	m.Set("sigma", atmos.RelativeDensity(h, atmos.Standard))
	m.Set("phi", atmos.DropoffFactor(h, atmos.Standard, p.DropoffC))
	if r.VC != 0 {
		m.Set("VC", r.VC)
	}
	res := r.Result.Ordered()
	for _, k := range res.Keys() {
		v, _ := res.Get(k)
		m.Set(k, v)
	}
	return m
}

var symbolUnits = map[string]string{
	"W": "lbf", "h": "ft", "VC": "kt", "V": "kt",
	"ROC_y": "ft/min", "ROC_md": "ft/min", "ROS_md": "ft/min", "ROC": "ft/min",
	"gamma_x": "deg", "gamma_bg": "deg", "gamma": "deg",
	"T": "lbf", "Dp": "lbf", "Di": "lbf", "D": "lbf", "Txs": "lbf",
	"Pre": "hp", "Pav": "hp", "Pxs": "hp",
}

func unitsOf(k string) string {
	if u, ok := symbolUnits[k]; ok {
		return u
	}
	if len(k) > 1 && k[0] == 'V' {
		return "kt"
	}
	return ""
}

func writeText(w io.Writer, p bootstrap.Plate, runs []evaluation) error {
	for i, r := range runs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		m := r.ordered(p)
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			if _, err := fmt.Fprintf(w, "%-9s %10.4g %s\n", k, v, unitsOf(k)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, p bootstrap.Plate, runs []evaluation) error {
	out := make([]*orderedmap.OrderedMap, len(runs))
	for i, r := range runs {
		out[i] = r.ordered(p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeCSV writes one row per run, with a header row naming each column
// and its units.
func writeCSV(w io.Writer, p bootstrap.Plate, runs []evaluation) error {
	cw := csv.NewWriter(w)
	for i, r := range runs {
		m := r.ordered(p)
		if i == 0 {
			var header []string
			for _, k := range m.Keys() {
				if u := unitsOf(k); u != "" {
					k += " (" + u + ")"
				}
				header = append(header, k)
			}
			if err := cw.Write(header); err != nil {
				return err
			}
		}
		var row []string
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			row = append(row, strconv.FormatFloat(v.(float64), 'f', 4, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeAtmosphere(w io.Writer, t []atmos.Conditions) error {
	if _, err := fmt.Fprintf(w, "%8s %8s %8s %8s %8s\n", "h (ft)", "T (degF)", "p (inHg)", "sigma", "phi"); err != nil {
		return err
	}
	for _, c := range t {
		if _, err := fmt.Fprintf(w, "%8.0f %8.1f %8.3f %8.4f %8.4f\n", units.Feet(c.Altitude),
			units.Fahrenheit(c.Temperature), units.InchesOfMercury(c.Pressure), c.Sigma, c.Phi); err != nil {
			return err
		}
	}
	return nil
}
