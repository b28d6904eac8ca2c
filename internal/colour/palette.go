// Package colour provides the colour-space conversions and contrast metrics
// used to build accessible palettes.
package colour

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned when a string is not a six digit hex colour.
var ErrInvalidHex = errors.New("invalid hex colour")

// RGB represents a display colour with 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the colour as an upper-case hex string without the hash prefix (e.g., "1A2B3C").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// Floats returns the channels normalised to [0, 1].
func (rgb RGB) Floats() (r, g, b float64) {
	return float64(rgb.R) / 255.0, float64(rgb.G) / 255.0, float64(rgb.B) / 255.0
}

// Colorful converts the colour to a go-colorful value.
func (rgb RGB) Colorful() colorful.Color {
	r, g, b := rgb.Floats()
	return colorful.Color{R: r, G: g, B: b}
}

// FromColorful clamps c into the sRGB gamut and rounds each channel to 8 bits.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// ParseHex parses a six digit hex colour with an optional leading '#'.
// Case is not significant for parsing.
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q must have exactly 6 hex digits", ErrInvalidHex, s)
	}
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return RGB{}, fmt.Errorf("%w: %q contains non-hex character %q", ErrInvalidHex, s, hex[i])
		}
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return FromColorful(c), nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
