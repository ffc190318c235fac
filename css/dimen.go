package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/keyframes/dom/style"
	"github.com/npillmayer/tyse/core/dimen"
)

// ErrNotADimension is returned by Parse for property values which are neither
// lengths, percentages, numbers nor one of the keywords auto, inherit and initial.
var ErrNotADimension = errors.New("not a CSS dimension")

// ErrNotInterpolable is returned by Interpolate for pairs of values without a
// common unit, e.g. 'auto' and '20px', or '2em' and '50%'.
var ErrNotInterpolable = errors.New("values are not interpolable")

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	dimenNumber   uint32 = 0x0005
	kindMask      uint32 = 0x000f

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenCH      uint32 = 0x0300
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenVMIN    uint32 = 0x0700
	dimenVMAX    uint32 = 0x0800
	dimenPercent uint32 = 0x0900
	relativeMask uint32 = 0xff00
)

// absolute units, in points
var absoluteUnits = map[string]float64{
	"pt": 1,
	"px": 0.75,
	"pc": 12,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
}

var relativeUnits = map[string]uint32{
	"em":   dimenEM,
	"ex":   dimenEX,
	"ch":   dimenCH,
	"rem":  dimenREM,
	"vw":   dimenVW,
	"vh":   dimenVH,
	"vmin": dimenVMIN,
	"vmax": dimenVMAX,
	"%":    dimenPercent,
}

// DimenT is an option type for CSS dimensions.
//
// Absolute lengths are held in scaled points, remembering the unit they have
// been given in. Relative lengths, percentages and plain numbers are held as
// a number together with their unit.
type DimenT struct {
	d     dimen.DU // absolute lengths
	x     float64  // numbers, percentages and relative lengths
	unit  string   // unit for formatting; empty for numbers and keywords
	flags uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| JustDimen dimen
	| Percentage float
	| Number float
	| ViewRel unit
	| FontRel unit
*/

func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x, formatted in
// points.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, unit: "pt", flags: dimenAbsolute}
}

// Length creates an absolute length of x in unit, e.g. Length(200, "px").
// Unknown units result in ErrNotADimension.
func Length(x float64, unit string) (DimenT, error) {
	unit = strings.ToLower(unit)
	if pts, ok := absoluteUnits[unit]; ok {
		du := dimen.DU(math.Round(x * pts * float64(dimen.PT)))
		return DimenT{d: du, unit: unit, flags: dimenAbsolute}, nil
	}
	if rel, ok := relativeUnits[unit]; ok {
		return DimenT{x: x, unit: unit, flags: rel}, nil
	}
	return DimenT{}, fmt.Errorf("%w: unit %q", ErrNotADimension, unit)
}

// Percentage creates a CSS dimension with a %-relative value, given in percent.
func Percentage(n float64) DimenT {
	return DimenT{x: n, unit: "%", flags: dimenPercent}
}

// Number creates a unitless value, as used for opacity or line-height.
func Number(x float64) DimenT {
	return DimenT{x: x, flags: dimenNumber}
}

// Parse reads a property value as a CSS dimension.
//
//     Parse("200px")  => absolute length
//     Parse("1.5em")  => font-relative length
//     Parse("50%")    => percentage
//     Parse("0.3")    => number
//     Parse("auto")   => auto
//
func Parse(p style.Property) (DimenT, error) {
	s := strings.ToLower(strings.TrimSpace(p.String()))
	switch s {
	case "":
		return DimenT{}, fmt.Errorf("%w: empty value", ErrNotADimension)
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	}
	i := len(s)
	for i > 0 && !isNumeric(s[i-1]) {
		i--
	}
	num, unit := s[:i], s[i:]
	x, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return DimenT{}, fmt.Errorf("%w: %q", ErrNotADimension, p)
	}
	if unit == "" {
		return Number(x), nil
	}
	d, err := Length(x, unit)
	if err != nil {
		return DimenT{}, fmt.Errorf("%w: %q", ErrNotADimension, p)
	}
	return d, nil
}

func isNumeric(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}

// IsAbsolute is true for absolute lengths.
func (d DimenT) IsAbsolute() bool {
	return d.flags&kindMask == dimenAbsolute
}

// IsNumber is true for unitless numbers.
func (d DimenT) IsNumber() bool {
	return d.flags&kindMask == dimenNumber
}

// IsKeyword is true for auto, inherit and initial.
func (d DimenT) IsKeyword() bool {
	k := d.flags & kindMask
	return k == dimenAuto || k == dimenInherit || k == dimenInitial
}

// Unit returns the unit a dimension has been created with. Numbers and
// keywords have no unit.
func (d DimenT) Unit() string {
	return d.unit
}

// Value returns the magnitude of a dimension in its unit.
func (d DimenT) Value() float64 {
	if d.IsAbsolute() {
		return float64(d.d) / (absoluteUnits[d.unit] * float64(dimen.PT))
	}
	return d.x
}

// DU returns an absolute length in scaled points, and false for other kinds
// of dimensions.
func (d DimenT) DU() (dimen.DU, bool) {
	return d.d, d.IsAbsolute()
}

// String formats a dimension as CSS text, e.g. "133.3333px".
func (d DimenT) String() string {
	switch d.flags & kindMask {
	case dimenAuto:
		return "auto"
	case dimenInherit:
		return "inherit"
	case dimenInitial:
		return "initial"
	case dimenNumber:
		return formatNumber(d.x)
	case dimenAbsolute:
		return formatNumber(d.Value()) + d.unit
	}
	if d.flags&relativeMask > 0 {
		return formatNumber(d.x) + d.unit
	}
	return ""
}

// Property returns a dimension as a style property value.
func (d DimenT) Property() style.Property {
	return style.Property(d.String())
}

func formatNumber(x float64) string {
	x = math.Round(x*1e4) / 1e4
	if x == 0 {
		x = 0 // no negative zero
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// --- Interpolation ---------------------------------------------------------

// Interpolate returns the dimension at fraction f on the way from a to b.
// f is not restricted to [0,1]. Absolute lengths are interpolated in scaled
// points and expressed in the unit of b. A unitless 0 is compatible with
// every length and percentage. All other pairs must share their unit,
// otherwise ErrNotInterpolable is returned.
func Interpolate(a, b DimenT, f float64) (DimenT, error) {
	a, b = zeroAs(a, b), zeroAs(b, a)
	if a.Match().IsKind(b) != nil {
		interpolate := DimenPattern[lerp](b).OneOf(DimenPatterns[lerp]{
			Just:     lerpAbsolute,
			Percent:  lerpPercent,
			Number:   lerpNumber,
			Relative: lerpRelative,
			Auto:     noLerp,
			Inherit:  noLerp,
			Initial:  noLerp,
			Default:  noLerp,
		})
		if d, ok := interpolate(a, b, f); ok {
			return d, nil
		}
	}
	return DimenT{}, fmt.Errorf("%w: %s and %s", ErrNotInterpolable, a, b)
}

// lerp interpolates between two dimensions of the same kind.
type lerp func(a, b DimenT, f float64) (DimenT, bool)

func noLerp(a, b DimenT, f float64) (DimenT, bool) {
	return DimenT{}, false
}

func lerpAbsolute(a, b DimenT, f float64) (DimenT, bool) {
	var x, y dimen.DU
	if a.Match().Just(&x) == nil || b.Match().Just(&y) == nil {
		return DimenT{}, false
	}
	du := float64(x) + (float64(y)-float64(x))*f
	return DimenT{d: dimen.DU(math.Round(du)), unit: b.unit, flags: dimenAbsolute}, true
}

func lerpPercent(a, b DimenT, f float64) (DimenT, bool) {
	var x, y float64
	if a.Match().Percentage(&x) == nil || b.Match().Percentage(&y) == nil {
		return DimenT{}, false
	}
	return Percentage(x + (y-x)*f), true
}

func lerpNumber(a, b DimenT, f float64) (DimenT, bool) {
	var x, y float64
	if a.Match().Number(&x) == nil || b.Match().Number(&y) == nil {
		return DimenT{}, false
	}
	return Number(x + (y-x)*f), true
}

// lerpRelative interpolates font- and viewport-relative lengths of the same
// unit.
func lerpRelative(a, b DimenT, f float64) (DimenT, bool) {
	if a.flags != b.flags || a.unit != b.unit {
		return DimenT{}, false
	}
	return DimenT{x: a.x + (b.x-a.x)*f, unit: b.unit, flags: b.flags}, true
}

// zeroAs re-interprets a unitless 0 as a zero of other's kind.
func zeroAs(d, other DimenT) DimenT {
	var x float64
	if d.Match().Number(&x) == nil || x != 0 || other.IsNumber() || other.IsKeyword() {
		return d
	}
	return DimenT{unit: other.unit, flags: other.flags}
}

// --- Matching --------------------------------------------------------------

func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

type Matcher struct {
	dimen DimenT
}

func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case (m.dimen.flags&kindMask > 0) && (m.dimen.flags&kindMask) == (d.flags&kindMask):
		return m
	case (m.dimen.flags&relativeMask > 0) && (d.flags&relativeMask > 0):
		if (m.dimen.flags&relativeMask == dimenPercent) != (d.flags&relativeMask == dimenPercent) {
			return nil
		}
		return m
	}
	return nil
}

func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.IsAbsolute() {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

func (m *Matcher) Percentage(p *float64) *Matcher {
	if m.dimen.flags&relativeMask == dimenPercent {
		if p != nil {
			*p = m.dimen.x
		}
		return m
	}
	return nil
}

func (m *Matcher) Number(x *float64) *Matcher {
	if m.dimen.IsNumber() {
		if x != nil {
			*x = m.dimen.x
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

type DimenPatterns[T any] struct {
	Auto     T
	Inherit  T
	Initial  T
	Just     T
	Percent  T
	Number   T
	Relative T
	Default  T
}

func DimenPattern[T any](d DimenT) *MatchExpr[T] {
	return &MatchExpr[T]{dimen: d}
}

type MatchExpr[T any] struct {
	dimen DimenT
}

func (m *MatchExpr[T]) OneOf(patterns DimenPatterns[T]) T {
	switch m.dimen.flags & kindMask {
	case dimenAuto:
		return patterns.Auto
	case dimenAbsolute:
		return patterns.Just
	case dimenInitial:
		return patterns.Initial
	case dimenInherit:
		return patterns.Inherit
	case dimenNumber:
		return patterns.Number
	}
	switch {
	case m.dimen.flags&relativeMask == dimenPercent:
		return patterns.Percent
	case m.dimen.flags&relativeMask > 0:
		return patterns.Relative
	}
	return patterns.Default
}
