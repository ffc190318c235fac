package css

import (
	"fmt"
	"image/color"
	"math"

	"github.com/npillmayer/keyframes/dom/style"
)

// InterpolateColor mixes colors a and b, with fraction f of the way from a
// to b. Channels are interpolated in non-premultiplied RGBA.
func InterpolateColor(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		v := float64(x) + (float64(y)-float64(x))*f
		return uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// InterpolateProperty returns the property value at fraction f on the way
// from a to b. Dimensions are interpolated with Interpolate, colors with
// InterpolateColor. For any other pair of values ErrNotInterpolable is
// returned.
func InterpolateProperty(a, b style.Property, f float64) (style.Property, error) {
	if da, err := Parse(a); err == nil {
		db, err := Parse(b)
		if err != nil {
			return style.NullStyle, fmt.Errorf("%w: %s and %s", ErrNotInterpolable, a, b)
		}
		d, err := Interpolate(da, db, f)
		if err != nil {
			return style.NullStyle, err
		}
		return d.Property(), nil
	}
	ca, okA := a.Color()
	cb, okB := b.Color()
	if okA && okB {
		return style.Property(style.ColorString(InterpolateColor(ca, cb, f))), nil
	}
	return style.NullStyle, fmt.Errorf("%w: %s and %s", ErrNotInterpolable, a, b)
}
