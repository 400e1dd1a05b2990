package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGBA color. In TOML and JSON configuration it is written
// as a hex string, "#rrggbb" or "#rrggbbaa".
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// Common colors.
var (
	White     = RGB(255, 255, 255)
	Black     = RGB(0, 0, 0)
	LightGray = RGB(192, 192, 192)
)

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(255)
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse alpha %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) String() string { return c.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// WithAlpha returns c with its alpha set from a [0, 1] fraction.
func (c Color) WithAlpha(f float64) Color {
	f = max(0, min(1, f))
	c.A = uint8(f*255 + 0.5)
	return c
}

// Array returns c as [r, g, b, a], the layout used by graph documents.
func (c Color) Array() [4]int {
	return [4]int{int(c.R), int(c.G), int(c.B), int(c.A)}
}

// FromArray builds a color from [r, g, b, a] components, clamping each to
// the 0..255 range.
func FromArray(v [4]int) Color {
	clamp := func(x int) uint8 { return uint8(max(0, min(255, x))) }
	return Color{R: clamp(v[0]), G: clamp(v[1]), B: clamp(v[2]), A: clamp(v[3])}
}

// Blend mixes c toward o by t in Lab space. Alpha is interpolated linearly.
func (c Color) Blend(o Color, t float64) Color {
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(o.R) / 255, G: float64(o.G) / 255, B: float64(o.B) / 255}
	r, g, bl := a.BlendLab(b, t).Clamped().RGB255()
	alpha := float64(c.A) + (float64(o.A)-float64(c.A))*t
	return Color{R: r, G: g, B: bl, A: uint8(alpha + 0.5)}
}
