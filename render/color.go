package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ColorScale maps an eigenvector component in [-1, 1] to a colour by linear
// RGB interpolation through three anchors.
type ColorScale struct {
	Low    color.RGBA
	Mid    color.RGBA
	High   color.RGBA
	NoData color.RGBA
}

// DefaultColorScale returns the red, white, blue scale.
func DefaultColorScale() ColorScale {
	return ColorScale{
		Low:    color.RGBA{R: 255, A: 255},
		Mid:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		High:   color.RGBA{B: 255, A: 255},
		NoData: color.RGBA{R: 204, G: 204, B: 204, A: 255},
	}
}

// NewColorScale builds a scale from hex anchors such as "#ff0000" or "red".
func NewColorScale(low, mid, high, noData string) (ColorScale, error) {
	var s ColorScale
	var err error
	if s.Low, err = ParseColor(low); err != nil {
		return s, err
	}
	if s.Mid, err = ParseColor(mid); err != nil {
		return s, err
	}
	if s.High, err = ParseColor(high); err != nil {
		return s, err
	}
	if s.NoData, err = ParseColor(noData); err != nil {
		return s, err
	}
	return s, nil
}

// At returns the colour for v. NaN maps to NoData; values outside [-1, 1]
// are clamped.
func (s ColorScale) At(v float64) color.RGBA {
	if math.IsNaN(v) {
		return s.NoData
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerp(s.Low, s.Mid, v+1)
	}
	return lerp(s.Mid, s.High, v)
}

// Brighter lightens c the way the selection highlight does: channels below
// 30 are lifted to 30, then every channel is divided by 0.7.
func Brighter(c color.RGBA) color.RGBA {
	const floor = 30
	const k = 0.7
	if c.R == 0 && c.G == 0 && c.B == 0 {
		return color.RGBA{R: floor, G: floor, B: floor, A: c.A}
	}
	lift := func(ch uint8) uint8 {
		f := float64(ch)
		if ch != 0 && ch < floor {
			f = floor
		}
		return uint8(math.Min(255, math.Round(f/k)))
	}
	return color.RGBA{R: lift(c.R), G: lift(c.G), B: lift(c.B), A: c.A}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var namedColors = map[string]color.RGBA{
	"red":   {R: 255, A: 255},
	"white": {R: 255, G: 255, B: 255, A: 255},
	"blue":  {B: 255, A: 255},
	"black": {A: 255},
	"grey":  {R: 204, G: 204, B: 204, A: 255},
	"gray":  {R: 204, G: 204, B: 204, A: 255},
}

// ParseColor accepts #rgb, #rrggbb or a small set of colour names.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, ErrBadColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, ErrBadColor)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
