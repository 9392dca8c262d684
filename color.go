package surface

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without
// a leading '#'. Invalid input yields opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3: // RGB
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	case 8: // RRGGBBAA
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
		parseHex(hex[6:8], &a)
	default:
		return RGBA{R: 0, G: 0, B: 0, A: 1}
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

// parseHex is a helper for hex parsing.
func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

// HexString returns the color in "#rrggbb" lowercase form, dropping alpha.
func (c RGBA) HexString() string {
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(clamp255(c.R*255)),
		uint8(clamp255(c.G*255)),
		uint8(clamp255(c.B*255)))
}

// NormalizeHex converts a fill value to canonical "#rrggbb" lowercase form.
// Accepted inputs: "#rgb", "#rrggbb" (any case, '#' optional) and
// CSS "rgb(r, g, b)" function values. The second return value is false for
// anything else (named colors, "none", gradients, url() references).
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")") {
		return normalizeRGBFunc(lower)
	}

	h := lower
	if h[0] == '#' {
		h = h[1:]
	}
	switch len(h) {
	case 3:
		if !isHexDigits(h) {
			return "", false
		}
		return "#" + string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}), true
	case 6:
		if !isHexDigits(h) {
			return "", false
		}
		return "#" + h, true
	default:
		return "", false
	}
}

// normalizeRGBFunc converts "rgb(r, g, b)" to "#rrggbb".
func normalizeRGBFunc(s string) (string, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return "", false
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return "", false
		}
		ch[i] = uint8(v)
	}
	return fmt.Sprintf("#%02x%02x%02x", ch[0], ch[1], ch[2]), true
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Luminance returns the perceptual luminance of the color in [0, 1],
// using the Rec. 601 weights.
func (c RGBA) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// Darken returns the color scaled toward black by the given fraction.
// Darken(0.3) keeps 70% of each channel. Alpha is preserved.
func (c RGBA) Darken(fraction float64) RGBA {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	k := 1 - fraction
	return RGBA{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

// Grout darkening fractions. Light tiles take the stronger darken so the
// grout line stays visible; dark tiles take the lighter one so the line
// does not collapse into black.
const (
	groutDarkenLight = 0.30
	groutDarkenDark  = 0.15
	groutLumMidpoint = 0.5
)

// GroutColor computes the grout line color for a floor tile of the given
// base color. The result always has strictly lower luminance than any
// non-black base.
func GroutColor(base RGBA) RGBA {
	if base.Luminance() > groutLumMidpoint {
		return base.Darken(groutDarkenLight)
	}
	return base.Darken(groutDarkenDark)
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
