package pptx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidColor indicates a color string that is not #RRGGBB hex.
var ErrInvalidColor = errors.New("invalid hex color")

// Color is an RGB color stored as six uppercase hex digits ("1F2937").
type Color struct {
	RGB string
}

// ParseColor parses "#RRGGBB" (leading # optional, case-insensitive).
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for _, c := range hex {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	return Color{RGB: strings.ToUpper(hex)}, nil
}

// RGBColor builds a Color from 8-bit channels.
func RGBColor(r, g, b uint8) Color {
	return Color{RGB: fmt.Sprintf("%02X%02X%02X", r, g, b)}
}

// srgb returns the value for <a:srgbClr val="..."/>, defaulting to black.
func (c Color) srgb() string {
	if len(c.RGB) != 6 {
		return "000000"
	}
	return c.RGB
}
