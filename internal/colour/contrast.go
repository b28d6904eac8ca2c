package colour

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RelativeLuminance calculates the relative luminance of a gamma encoded
// sRGB colour with channels in [0, 1] according to WCAG 2.x.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG21/#dfn-relative-luminance
func RelativeLuminance(r, g, b float64) float64 {
	lr, lg, lb := colorful.Color{R: r, G: g, B: b}.LinearRgb()
	return 0.2126*lr + 0.7152*lg + 0.0722*lb
}

// Luminance returns the WCAG relative luminance of an 8-bit colour.
func Luminance(c RGB) float64 {
	return RelativeLuminance(c.Floats())
}

// ContrastRatio calculates the WCAG 2.x contrast ratio between two relative
// luminances. The result is symmetric and lies between 1 and 21.
// Meets WCAG AA for normal text at 4.5:1 and AAA at 7:1.
func ContrastRatio(lum1, lum2 float64) float64 {
	lighter, darker := lum1, lum2
	if lighter < darker {
		lighter, darker = darker, lighter
	}
	return (lighter + 0.05) / (darker + 0.05)
}

// APCA constants (SA98G).
const (
	apcaMainTRC = 2.4

	apcaRedCoef   = 0.2126729
	apcaGreenCoef = 0.7151522
	apcaBlueCoef  = 0.0721750

	apcaNormBG  = 0.56
	apcaNormTXT = 0.57
	apcaRevTXT  = 0.62
	apcaRevBG   = 0.65

	apcaBlackThreshold = 0.022
	apcaBlackClamp     = 1.414
	apcaScale          = 1.14
	apcaLowOffset      = 0.027
	apcaDeltaYMin      = 0.0005
	apcaLowClip        = 0.1
)

// APCAContrast computes the signed perceptual lightness contrast (Lc) of
// text colour fg on background bg.
//
// The result is not symmetric. Positive values mean dark text on a light
// background, negative values light text on a dark background. Magnitude is
// roughly 0 to 108.
func APCAContrast(fg, bg RGB) float64 {
	txtY := apcaSoftClamp(screenLuminance(fg))
	bgY := apcaSoftClamp(screenLuminance(bg))

	if math.Abs(bgY-txtY) < apcaDeltaYMin {
		return 0
	}

	var c float64
	if bgY > txtY {
		c = (math.Pow(bgY, apcaNormBG) - math.Pow(txtY, apcaNormTXT)) * apcaScale
	} else {
		c = (math.Pow(bgY, apcaRevBG) - math.Pow(txtY, apcaRevTXT)) * apcaScale
	}

	var out float64
	switch {
	case math.Abs(c) < apcaLowClip:
		out = 0
	case c > 0:
		out = c - apcaLowOffset
	default:
		out = c + apcaLowOffset
	}
	return out * 100
}

// screenLuminance is the simple 2.4 power estimate APCA uses in place of
// the piecewise sRGB curve.
func screenLuminance(c RGB) float64 {
	r, g, b := c.Floats()
	return apcaRedCoef*math.Pow(r, apcaMainTRC) +
		apcaGreenCoef*math.Pow(g, apcaMainTRC) +
		apcaBlueCoef*math.Pow(b, apcaMainTRC)
}

// apcaSoftClamp lifts luminances near black to account for flare.
func apcaSoftClamp(y float64) float64 {
	if y >= apcaBlackThreshold {
		return y
	}
	return y + math.Pow(apcaBlackThreshold-y, apcaBlackClamp)
}

// Thresholds is a pair of minimum contrast requirements.
type Thresholds struct {
	// MinRatio is the minimum WCAG 2.x contrast ratio.
	MinRatio float64
	// MinAPCA is the minimum absolute APCA Lc value.
	MinAPCA float64
}

var (
	// SearchThresholds are what every colour of a valid combination must meet.
	SearchThresholds = Thresholds{MinRatio: 4.5, MinAPCA: 32.0}

	// ReportThresholds are the stricter marks shown next to generated colours.
	ReportThresholds = Thresholds{MinRatio: 7.0, MinAPCA: 50.0}
)

// Passes reports whether a ratio and APCA score both meet the thresholds.
// Boundary values pass.
func (t Thresholds) Passes(ratio, apca float64) bool {
	return t.PassesRatio(ratio) && t.PassesAPCA(apca)
}

// PassesRatio reports whether ratio meets MinRatio.
func (t Thresholds) PassesRatio(ratio float64) bool {
	return ratio >= t.MinRatio
}

// PassesAPCA reports whether |apca| meets MinAPCA.
func (t Thresholds) PassesAPCA(apca float64) bool {
	return math.Abs(apca) >= t.MinAPCA
}
