// units/parse.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package units

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/unit"
	"gopkg.in/yaml.v3"
)

var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

func mismatch(u *unit.Unit, want string) error {
	return fmt.Errorf("%w: %v is not %s", ErrDimensionMismatch, u.Dimensions(), want)
}

// Units that may follow the magnitude in a quantity string. Keys are
// lower case with multiplication written as a single space.
var parsers = map[string]func(float64) *unit.Unit{
	"": func(v float64) *unit.Unit { return unit.New(v, unit.Dimensions{}) },

	"ft":    func(v float64) *unit.Unit { return FromFeet(v).Unit() },
	"feet":  func(v float64) *unit.Unit { return FromFeet(v).Unit() },
	"foot":  func(v float64) *unit.Unit { return FromFeet(v).Unit() },
	"in":    func(v float64) *unit.Unit { return FromFeet(v / 12).Unit() },
	"m":     func(v float64) *unit.Unit { return unit.Length(v).Unit() },
	"km":    func(v float64) *unit.Unit { return unit.Length(1000 * v).Unit() },
	"nmi":   func(v float64) *unit.Unit { return unit.Length(1852 * v).Unit() },
	"sm":    func(v float64) *unit.Unit { return FromFeet(5280 * v).Unit() },
	"mi":    func(v float64) *unit.Unit { return FromFeet(5280 * v).Unit() },
	"ft^2":  func(v float64) *unit.Unit { return FromSquareFeet(v).Unit() },
	"sq ft": func(v float64) *unit.Unit { return FromSquareFeet(v).Unit() },
	"m^2":   func(v float64) *unit.Unit { return unit.Area(v).Unit() },

	"kt":     func(v float64) *unit.Unit { return FromKnots(v).Unit() },
	"kts":    func(v float64) *unit.Unit { return FromKnots(v).Unit() },
	"knots":  func(v float64) *unit.Unit { return FromKnots(v).Unit() },
	"mph":    func(v float64) *unit.Unit { return FromFeetPerSecond(v * 5280 / 3600).Unit() },
	"ft/s":   func(v float64) *unit.Unit { return FromFeetPerSecond(v).Unit() },
	"fps":    func(v float64) *unit.Unit { return FromFeetPerSecond(v).Unit() },
	"ft/min": func(v float64) *unit.Unit { return FromFeetPerSecond(v / 60).Unit() },
	"fpm":    func(v float64) *unit.Unit { return FromFeetPerSecond(v / 60).Unit() },
	"m/s":    func(v float64) *unit.Unit { return unit.Velocity(v).Unit() },
	"km/h":   func(v float64) *unit.Unit { return unit.Velocity(v / 3.6).Unit() },

	"lbf": func(v float64) *unit.Unit { return FromPoundsForce(v).Unit() },
	"lb":  func(v float64) *unit.Unit { return FromPoundsForce(v).Unit() },
	"lbs": func(v float64) *unit.Unit { return FromPoundsForce(v).Unit() },
	"n":   func(v float64) *unit.Unit { return unit.Force(v).Unit() },
	"kgf": func(v float64) *unit.Unit { return unit.Force(9.80665 * v).Unit() },

	"ft lbf": func(v float64) *unit.Unit { return FromFootPounds(v).Unit() },
	"lbf ft": func(v float64) *unit.Unit { return FromFootPounds(v).Unit() },
	"ft lb":  func(v float64) *unit.Unit { return FromFootPounds(v).Unit() },
	"n m":    func(v float64) *unit.Unit { return unit.Torque(v).Unit() },

	"hp":         func(v float64) *unit.Unit { return FromHorsepower(v).Unit() },
	"horsepower": func(v float64) *unit.Unit { return FromHorsepower(v).Unit() },
	"w":          func(v float64) *unit.Unit { return unit.Power(v).Unit() },
	"kw":         func(v float64) *unit.Unit { return unit.Power(1000 * v).Unit() },

	"rpm":   func(v float64) *unit.Unit { return FromRPM(v).Unit() },
	"rad/s": func(v float64) *unit.Unit { return unit.Frequency(v).Unit() },

	"inhg": func(v float64) *unit.Unit { return FromInchesOfMercury(v).Unit() },
	"hpa":  func(v float64) *unit.Unit { return unit.Pressure(100 * v).Unit() },
	"mb":   func(v float64) *unit.Unit { return unit.Pressure(100 * v).Unit() },
	"pa":   func(v float64) *unit.Unit { return unit.Pressure(v).Unit() },

	"s":       func(v float64) *unit.Unit { return unit.Time(v).Unit() },
	"sec":     func(v float64) *unit.Unit { return unit.Time(v).Unit() },
	"seconds": func(v float64) *unit.Unit { return unit.Time(v).Unit() },
	"min":     func(v float64) *unit.Unit { return unit.Time(60 * v).Unit() },
	"h":       func(v float64) *unit.Unit { return unit.Time(3600 * v).Unit() },

	"k":    func(v float64) *unit.Unit { return unit.Temperature(v).Unit() },
	"degk": func(v float64) *unit.Unit { return unit.Temperature(v).Unit() },
	"degc": func(v float64) *unit.Unit { return FromCelsius(v).Unit() },
	"c":    func(v float64) *unit.Unit { return FromCelsius(v).Unit() },
	"degf": func(v float64) *unit.Unit { return FromFahrenheit(v).Unit() },
	"f":    func(v float64) *unit.Unit { return FromFahrenheit(v).Unit() },
	"degr": func(v float64) *unit.Unit { return FromRankine(v).Unit() },
	"r":    func(v float64) *unit.Unit { return FromRankine(v).Unit() },

	"deg": func(v float64) *unit.Unit { return FromDegrees(v).Unit() },
	"rad": func(v float64) *unit.Unit { return unit.Angle(v).Unit() },

	"slug/ft^3": func(v float64) *unit.Unit { return FromSlugsPerCubicFoot(v) },
	"kg/m^3":    func(v float64) *unit.Unit { return unit.New(v, densityDims) },
}

var unitReplacer = strings.NewReplacer("·", " ", "*", " ", "²", "^2", "³", "^3", "°", "deg")

func normalizeUnit(s string) string {
	s = unitReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	s = strings.Join(strings.Fields(s), " ")
	switch s {
	case "ft2", "sqft":
		return "ft^2"
	case "m2":
		return "m^2"
	case "knot", "kias", "kcas", "ktas":
		return "kt"
	case "degree", "degrees":
		return "deg"
	case "radian", "radians":
		return "rad"
	case "secs", "second":
		return "s"
	case "hr":
		return "h"
	case "kelvin":
		return "k"
	case "celsius":
		return "c"
	case "fahrenheit":
		return "f"
	case "rankine":
		return "r"
	case "meter", "meters", "metre", "metres":
		return "m"
	case "newton", "newtons":
		return "n"
	case "watt", "watts":
		return "w"
	}
	return s
}

// numericPrefix returns the length of the leading floating-point literal
// in s.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	// Exponent, but only if digits follow so that "5 e" stays unparsable
	// and units such as "ft" never get consumed.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	return i
}

// Parse parses a magnitude followed by an optional unit, e.g. "174 ft^2",
// "70.5 kts", "45 degF", "311.2 ft·lbf" or "0.037".
func Parse(s string) (*unit.Unit, error) {
	s = strings.TrimSpace(s)
	n := numericPrefix(s)
	if n == 0 {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidQuantity)
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidQuantity)
	}

	u := normalizeUnit(s[n:])
	p, ok := parsers[u]
	if !ok {
		return nil, fmt.Errorf("%q: %w %q", s, ErrUnknownUnit, strings.TrimSpace(s[n:]))
	}
	return p(v), nil
}

func MustParse(s string) *unit.Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

///////////////////////////////////////////////////////////////////////////
// Quantity

// Quantity is a dimensioned value read from a configuration file. It
// satisfies unit.Uniter, so the typed gonum quantities can be filled in
// from it with their From methods.
type Quantity struct {
	u *unit.Unit
}

func MakeQuantity(u unit.Uniter) Quantity { return Quantity{u: u.Unit()} }

func (q Quantity) Unit() *unit.Unit {
	if q.u == nil {
		return unit.New(0, unit.Dimensions{})
	}
	return q.u
}

func (q Quantity) String() string {
	return fmt.Sprintf("%v", q.Unit())
}

func (q *Quantity) set(s string) error {
	u, err := Parse(s)
	if err != nil {
		return err
	}
	q.u = u
	return nil
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		q.u = unit.New(v, unit.Dimensions{})
		return nil
	case string:
		return q.set(v)
	default:
		return fmt.Errorf("%s: %w", string(b), ErrInvalidQuantity)
	}
}

func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %w", node.Line, ErrInvalidQuantity)
	}
	if err := q.set(node.Value); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// Dimensionless returns the value of q, which must have no dimensions.
func (q Quantity) Dimensionless() (float64, error) {
	u := q.Unit()
	if len(u.Dimensions()) != 0 {
		return 0, mismatch(u, "dimensionless")
	}
	return u.Value(), nil
}

// from fills in a typed gonum quantity from q, reporting a dimension
// mismatch if q has the wrong dimensions.
func from[T any, PT interface {
	*T
	From(unit.Uniter) error
}](q Quantity) (T, error) {
	var v T
	if err := PT(&v).From(q); err != nil {
		return v, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
	}
	return v, nil
}

func (q Quantity) Length() (unit.Length, error) { return from[unit.Length](q) }
func (q Quantity) Area() (unit.Area, error) { return from[unit.Area](q) }
func (q Quantity) Velocity() (unit.Velocity, error) { return from[unit.Velocity](q) }
func (q Quantity) Force() (unit.Force, error) { return from[unit.Force](q) }
func (q Quantity) Torque() (unit.Torque, error) { return from[unit.Torque](q) }
func (q Quantity) Power() (unit.Power, error) { return from[unit.Power](q) }
func (q Quantity) Frequency() (unit.Frequency, error) { return from[unit.Frequency](q) }
func (q Quantity) Pressure() (unit.Pressure, error) { return from[unit.Pressure](q) }
func (q Quantity) Time() (unit.Time, error) { return from[unit.Time](q) }
func (q Quantity) Temperature() (unit.Temperature, error) { return from[unit.Temperature](q) }

// CheckJSON reports whether v, as decoded by encoding/json, can be
// unmarshaled as a Quantity.
func (Quantity) CheckJSON(v any) bool {
	switch v.(type) {
	case string, float64:
		return true
	default:
		return false
	}
}
