package css_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/npillmayer/keyframes/css"
	"github.com/npillmayer/keyframes/dom/style"
	"github.com/npillmayer/tyse/core/dimen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimenBasic(t *testing.T) {
	ten := css.JustDimen(dimen.PT * 10)
	var du dimen.DU
	switch m := ten.Match(); m {
	case m.Just(&du):
		t.Logf("du = %s", du)
	default:
		t.Errorf("expected Just(10pt) to be a fixed value, isn't: %#v", ten)
	}

	auto := css.Auto()
	switch m := auto.Match(); m {
	case m.IsKind(css.Auto()):
		t.Logf("dimen is auto")
	default:
		t.Errorf("expected dimen auto to match auto, isn't: %#v", auto)
	}

	pcnt := css.Percentage(80)
	var p float64
	switch m := pcnt.Match(); m {
	case m.Percentage(&p):
		t.Logf("percent = %g", p)
	default:
		t.Errorf("expected Percentage(80) to be a percentage value, isn't: %#v", pcnt)
	}
	if p != 80 {
		t.Errorf("expected percentage of 80, have %g", p)
	}
}

func TestDimenPattern(t *testing.T) {
	ten := css.JustDimen(dimen.PT * 10)
	// now use it
	zehn := css.DimenPattern[int](ten).OneOf(css.DimenPatterns[int]{
		Just:    10,
		Auto:    0,
		Default: -1,
	})
	if zehn != 10 {
		t.Errorf("expected zehn == 10, isn't: %#v", zehn)
	}

	opacity, err := css.Parse("0.5")
	require.NoError(t, err)
	kind := css.DimenPattern[string](opacity).OneOf(css.DimenPatterns[string]{
		Just:     "length",
		Number:   "number",
		Percent:  "percent",
		Relative: "relative",
		Default:  "?",
	})
	if kind != "number" {
		t.Errorf("expected 0.5 to be a number, is a %s", kind)
	}
}

func TestParse(t *testing.T) {
	for input, want := range map[style.Property]string{
		"200px":   "200px",
		"200PX":   "200px",
		"12pt":    "12pt",
		"2.5cm":   "2.5cm",
		"1in":     "1in",
		"-3mm":    "-3mm",
		"1.5em":   "1.5em",
		"2rem":    "2rem",
		"50%":     "50%",
		"12.5%":   "12.5%",
		"10vw":    "10vw",
		"0":       "0",
		"0.25":    "0.25",
		".5":      "0.5",
		"auto":    "auto",
		"inherit": "inherit",
		" 3px ":   "3px",
	} {
		d, err := css.Parse(input)
		if err != nil {
			t.Errorf("cannot parse %q: %v", input, err)
			continue
		}
		if d.String() != want {
			t.Errorf("expected %q to format as %q, is %q", input, want, d.String())
		}
	}
	for _, input := range []style.Property{"", "block", "red", "12furlongs", "px", "--"} {
		if _, err := css.Parse(input); !errors.Is(err, css.ErrNotADimension) {
			t.Errorf("expected %q not to be a dimension, error is %v", input, err)
		}
	}
}

func TestAbsoluteUnits(t *testing.T) {
	px, err := css.Parse("4px")
	require.NoError(t, err)
	pt, err := css.Parse("3pt")
	require.NoError(t, err)
	a, _ := px.DU()
	b, _ := pt.DU()
	assert.Equal(t, b, a, "4px = 3pt")
	in, err := css.Length(1, "in")
	require.NoError(t, err)
	c, ok := in.DU()
	assert.True(t, ok)
	assert.Equal(t, 72*dimen.PT, c)
	_, ok = css.Percentage(10).DU()
	assert.False(t, ok)
}

func TestInterpolate(t *testing.T) {
	for _, c := range []struct {
		a, b style.Property
		f    float64
		want string
	}{
		{"100px", "200px", 0.5, "150px"},
		{"100px", "200px", 0, "100px"},
		{"100px", "200px", 1, "200px"},
		{"0px", "100px", 1.0 / 3, "33.3333px"},
		{"12pt", "32px", 0.5, "24px"}, // target unit wins
		{"1em", "3em", 0.25, "1.5em"},
		{"0%", "50%", 0.5, "25%"},
		{"0", "1", 0.3, "0.3"},
		{"0", "200px", 0.5, "100px"},
		{"50%", "0", 0.5, "25%"},
		{"100px", "200px", 1.1, "210px"},
	} {
		a, err := css.Parse(c.a)
		require.NoError(t, err)
		b, err := css.Parse(c.b)
		require.NoError(t, err)
		d, err := css.Interpolate(a, b, c.f)
		if assert.NoError(t, err, "%s → %s", c.a, c.b) {
			assert.Equal(t, c.want, d.String(), "%s → %s at %g", c.a, c.b, c.f)
		}
	}
	for _, pair := range [][2]style.Property{
		{"auto", "200px"},
		{"1em", "10px"},
		{"1em", "1rem"},
		{"50%", "10px"},
		{"0.5", "10px"},
		{"auto", "auto"},
		{"inherit", "initial"},
		{"1vw", "2vh"},
	} {
		a, _ := css.Parse(pair[0])
		b, _ := css.Parse(pair[1])
		_, err := css.Interpolate(a, b, 0.5)
		assert.ErrorIs(t, err, css.ErrNotInterpolable, "%s → %s", pair[0], pair[1])
	}
}

func TestInterpolateProperty(t *testing.T) {
	p, err := css.InterpolateProperty("10px", "20px", 0.5)
	require.NoError(t, err)
	assert.Equal(t, style.Property("15px"), p)

	p, err = css.InterpolateProperty("black", "#ffffff", 0.5)
	require.NoError(t, err)
	assert.Equal(t, style.Property("#808080"), p)

	p, err = css.InterpolateProperty("rgba(255, 0, 0, 0)", "red", 0.5)
	require.NoError(t, err)
	assert.Equal(t, style.Property("rgba(255, 0, 0, 0.502)"), p)

	for _, pair := range [][2]style.Property{
		{"block", "none"},
		{"10px", "red"},
		{"red", "10px"},
		{"auto", "auto"},
	} {
		_, err := css.InterpolateProperty(pair[0], pair[1], 0.5)
		assert.ErrorIs(t, err, css.ErrNotInterpolable, "%s → %s", pair[0], pair[1])
	}
	mid := css.InterpolateColor(color.NRGBA{0, 0, 0, 255}, color.NRGBA{200, 100, 50, 255}, 0.5)
	assert.Equal(t, color.NRGBA{100, 50, 25, 255}, mid)
}
