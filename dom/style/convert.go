package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"red":         {0xff, 0, 0, 0xff},
	"lime":        {0, 0xff, 0, 0xff},
	"green":       {0, 0x80, 0, 0xff},
	"blue":        {0, 0, 0xff, 0xff},
	"yellow":      {0xff, 0xff, 0, 0xff},
	"aqua":        {0, 0xff, 0xff, 0xff},
	"cyan":        {0, 0xff, 0xff, 0xff},
	"fuchsia":     {0xff, 0, 0xff, 0xff},
	"magenta":     {0xff, 0, 0xff, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"silver":      {0xc0, 0xc0, 0xc0, 0xff},
	"maroon":      {0x80, 0, 0, 0xff},
	"olive":       {0x80, 0x80, 0, 0xff},
	"purple":      {0x80, 0, 0x80, 0xff},
	"teal":        {0, 0x80, 0x80, 0xff},
	"navy":        {0, 0, 0x80, 0xff},
	"orange":      {0xff, 0xa5, 0, 0xff},
	"powderblue":  {0xb0, 0xe0, 0xe6, 0xff}, // X11 color and CSS color
}

// Color interprets a property as a CSS color. Supported are the basic
// color keywords, hex notation (#rgb, #rrggbb) and the functional
// notations rgb(…) and rgba(…).
//
// TODO hsl(…) notation
func (p Property) Color() (color.NRGBA, bool) {
	s := strings.ToLower(strings.TrimSpace(string(p)))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return hexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb") {
		return rgbColor(s)
	}
	return color.NRGBA{}, false
}

func hexColor(h string) (color.NRGBA, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, true
}

func rgbColor(s string) (color.NRGBA, bool) {
	lp, rp := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if lp < 0 || rp < lp {
		return color.NRGBA{}, false
	}
	fields := strings.FieldsFunc(s[lp+1:rp], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return color.NRGBA{}, false
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i, f := range fields {
		pct := strings.HasSuffix(f, "%")
		x, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		switch {
		case pct:
			x *= 2.55
		case i == 3:
			x *= 255
		}
		ch[i] = uint8(math.Max(0, math.Min(255, math.Round(x))))
	}
	return color.NRGBA{ch[0], ch[1], ch[2], ch[3]}, true
}

// ColorString formats a color as CSS text: opaque colors in hex notation,
// others in rgba(…) notation.
func ColorString(c color.Color) string {
	if c == nil {
		return "transparent"
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	a := strconv.FormatFloat(math.Round(float64(n.A)/255*1000)/1000, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", n.R, n.G, n.B, a)
}
