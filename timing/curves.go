package timing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrUnknownTimingFunction is returned for names other than the supported
// curves.
var ErrUnknownTimingFunction = errors.New("unknown timing function")

// Easing maps the elapsed fraction of a transition to its eased progress.
// Both are in [0,1].
type Easing func(fraction float64) float64

// Names of the supported curves.
const (
	Ease      = "ease"
	Linear    = "linear"
	EaseIn    = "easeIn"
	EaseOut   = "easeOut"
	EaseInOut = "easeInOut"
)

var curves = map[string]Curve{
	Ease:      {P1: Point{0.25, 0.1}, P2: Point{0.25, 1}},
	Linear:    {P1: Point{0, 0}, P2: Point{1, 1}},
	EaseIn:    {P1: Point{0.42, 0}, P2: Point{1, 1}},
	EaseOut:   {P1: Point{0, 0}, P2: Point{0.58, 1}},
	EaseInOut: {P1: Point{0.42, 0}, P2: Point{0.58, 1}},
}

var aliases = map[string]string{
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,
}

// canonical returns the canonical name of a curve, or "" if the name is
// unknown.
func canonical(name string) string {
	if _, ok := curves[name]; ok {
		return name
	}
	return aliases[name]
}

// Names returns the names of all supported curves (without aliases).
func Names() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the control points of a named curve.
func Lookup(name string) (Curve, error) {
	c, ok := curves[canonical(name)]
	if !ok {
		return Curve{}, fmt.Errorf("%w: %q", ErrUnknownTimingFunction, name)
	}
	return c, nil
}

// --- Compiled curves -------------------------------------------------------

// compiledCurves caches polynomial coefficients per curve name. Entries are
// never invalidated, as the set of curves is fixed.
type compiledCurves struct {
	lock  *sync.RWMutex
	polys map[string]polynomial
}

var cache = compiledCurves{
	lock:  &sync.RWMutex{},
	polys: make(map[string]polynomial),
}

func (cc compiledCurves) get(name string) (polynomial, error) {
	canon := canonical(name)
	if canon == "" {
		return polynomial{}, fmt.Errorf("%w: %q", ErrUnknownTimingFunction, name)
	}
	cc.lock.RLock()
	poly, ok := cc.polys[canon]
	cc.lock.RUnlock()
	if ok {
		return poly, nil
	}
	poly = compile(curves[canon])
	cc.lock.Lock()
	defer cc.lock.Unlock()
	cc.polys[canon] = poly
	tracer().Debugf("compiled timing curve %s", canon)
	return poly, nil
}

func (cc compiledCurves) size() int {
	cc.lock.RLock()
	defer cc.lock.RUnlock()
	return len(cc.polys)
}

// --- Evaluation ------------------------------------------------------------

// EvaluateSeconds returns the eased progress of the named curve for the
// elapsed fraction x of a transition. cycleSeconds determines the precision of
// the result: longer transitions are solved more precisely, see package doc.
//
// x ≤ 0 results in exactly 0, x ≥ 1 in exactly 1.
func EvaluateSeconds(name string, x float64, cycleSeconds float64) (float64, error) {
	poly, err := cache.get(name)
	if err != nil {
		return 0, err
	}
	return poly.at(x, epsilon(cycleSeconds)), nil
}

// Evaluate is EvaluateSeconds for a cycle given as a time.Duration.
func Evaluate(name string, x float64, cycle time.Duration) (float64, error) {
	return EvaluateSeconds(name, x, cycle.Seconds())
}

// EasingFor resolves a curve name to an easing callback for transitions of
// length cycle.
func EasingFor(name string, cycle time.Duration) (Easing, error) {
	poly, err := cache.get(name)
	if err != nil {
		return nil, err
	}
	eps := epsilon(cycle.Seconds())
	return func(fraction float64) float64 {
		return poly.at(fraction, eps)
	}, nil
}
