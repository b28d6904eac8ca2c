package colour

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// OKHSL is Björn Ottosson's hue/saturation/lightness model built on OKLab.
// https://bottosson.github.io/posts/colorpicker/
//
// Hue is a fraction of a full turn in [0, 1), saturation and lightness are
// in [0, 1]. Saturation 1 reaches the sRGB gamut boundary for every hue and
// lightness is the "toe" corrected OKLab L so that 0.5 reads as mid grey.

const (
	toeK1 = 0.206
	toeK2 = 0.03
	toeK3 = (1.0 + toeK1) / (1.0 + toeK2)

	// Saturation at which the chroma curve switches from the C0/Cmid
	// segment to the Cmid/Cmax segment.
	satMid    = 0.8
	satMidInv = 1.25
)

type lab struct{ L, A, B float64 }

// lc holds a lightness/chroma pair.
type lc struct{ L, C float64 }

// OkhslToRGB converts an OKHSL colour to 8-bit sRGB.
// Channels are clamped to the gamut and rounded to the nearest integer.
func OkhslToRGB(h, s, l float64) RGB {
	return FromColorful(OkhslToSRGB(h, s, l))
}

// OkhslToSRGB converts an OKHSL colour to unquantised, gamma encoded sRGB.
// Values may fall fractionally outside [0, 1] at the gamut edge.
func OkhslToSRGB(h, s, l float64) colorful.Color {
	if l >= 1 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	if l <= 0 {
		return colorful.Color{}
	}

	a := math.Cos(2 * math.Pi * h)
	b := math.Sin(2 * math.Pi * h)
	L := toeInv(l)

	cs := chromaLimits(L, a, b)

	var C float64
	if s < satMid {
		t := satMidInv * s
		k1 := satMid * cs.c0
		k2 := 1 - k1/cs.cMid
		C = t * k1 / (1 - k2*t)
	} else {
		t := (s - satMid) / (1 - satMid)
		k0 := cs.cMid
		k1 := (1 - satMid) * cs.cMid * cs.cMid * satMidInv * satMidInv / cs.c0
		k2 := 1 - k1/(cs.cMax-cs.cMid)
		C = k0 + t*k1/(1-k2*t)
	}

	r, g, bl := oklabToLinear(lab{L: L, A: C * a, B: C * b})
	return colorful.LinearRgb(r, g, bl)
}

// RGBToOkhsl converts an 8-bit sRGB colour to OKHSL.
func RGBToOkhsl(c RGB) (h, s, l float64) {
	return SRGBToOkhsl(c.Colorful())
}

// SRGBToOkhsl converts a gamma encoded sRGB colour to OKHSL.
// Achromatic colours report a hue and saturation of zero.
func SRGBToOkhsl(c colorful.Color) (h, s, l float64) {
	lr, lg, lb := c.LinearRgb()
	p := linearToOklab(lr, lg, lb)

	l = toe(p.L)
	C := math.Hypot(p.A, p.B)
	if C < 1e-6 || p.L <= 0 || p.L >= 1 {
		return 0, 0, l
	}

	a := p.A / C
	b := p.B / C
	h = 0.5 + 0.5*math.Atan2(-p.B, -p.A)/math.Pi
	if h >= 1 {
		h -= 1
	}

	cs := chromaLimits(p.L, a, b)
	if C < cs.cMid {
		k1 := satMid * cs.c0
		k2 := 1 - k1/cs.cMid
		t := C / (k1 + k2*C)
		s = t * satMid
	} else {
		k0 := cs.cMid
		k1 := (1 - satMid) * cs.cMid * cs.cMid * satMidInv * satMidInv / cs.c0
		k2 := 1 - k1/(cs.cMax-cs.cMid)
		t := (C - k0) / (k1 + k2*(C-k0))
		s = satMid + (1-satMid)*t
	}
	return h, s, l
}

func toe(x float64) float64 {
	d := toeK3*x - toeK1
	return 0.5 * (d + math.Sqrt(d*d+4*toeK2*toeK3*x))
}

func toeInv(x float64) float64 {
	return (x*x + toeK1*x) / (toeK3 * (x + toeK2))
}

func oklabToLinear(c lab) (r, g, b float64) {
	l := c.L + 0.3963377774*c.A + 0.2158037573*c.B
	m := c.L - 0.1055613458*c.A - 0.0638541728*c.B
	s := c.L - 0.0894841775*c.A - 1.2914855480*c.B

	l = l * l * l
	m = m * m * m
	s = s * s * s

	r = 4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g = -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	b = -0.0041960863*l - 0.7034186147*m + 1.7076147010*s
	return r, g, b
}

func linearToOklab(r, g, b float64) lab {
	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return lab{
		L: 0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A: 1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B: 0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
	}
}

// maxSaturation returns the largest S = C/L that stays inside the sRGB
// gamut for the normalised hue direction (a, b). One Halley step on top of
// a polynomial estimate.
func maxSaturation(a, b float64) float64 {
	var k0, k1, k2, k3, k4, wl, wm, ws float64
	switch {
	case -1.88170328*a-0.80936493*b > 1:
		// Red clips first.
		k0, k1, k2, k3, k4 = 1.19086277, 1.76576728, 0.59662641, 0.75515197, 0.56771245
		wl, wm, ws = 4.0767416621, -3.3077115913, 0.2309699292
	case 1.81444104*a-1.19445276*b > 1:
		// Green clips first.
		k0, k1, k2, k3, k4 = 0.73956515, -0.45954404, 0.08285427, 0.12541070, 0.14503204
		wl, wm, ws = -1.2684380046, 2.6097574011, -0.3413193965
	default:
		// Blue clips first.
		k0, k1, k2, k3, k4 = 1.35733652, -0.00915799, -1.15130210, -0.50559606, 0.00692167
		wl, wm, ws = -0.0041960863, -0.7034186147, 1.7076147010
	}

	S := k0 + k1*a + k2*b + k3*a*a + k4*a*b

	kl := 0.3963377774*a + 0.2158037573*b
	km := -0.1055613458*a - 0.0638541728*b
	ks := -0.0894841775*a - 1.2914855480*b

	lp := 1 + S*kl
	mp := 1 + S*km
	sp := 1 + S*ks

	l := lp * lp * lp
	m := mp * mp * mp
	s := sp * sp * sp

	ldS := 3 * kl * lp * lp
	mdS := 3 * km * mp * mp
	sdS := 3 * ks * sp * sp

	ldS2 := 6 * kl * kl * lp
	mdS2 := 6 * km * km * mp
	sdS2 := 6 * ks * ks * sp

	f := wl*l + wm*m + ws*s
	f1 := wl*ldS + wm*mdS + ws*sdS
	f2 := wl*ldS2 + wm*mdS2 + ws*sdS2

	return S - f*f1/(f1*f1-0.5*f*f2)
}

// findCusp returns the lightness and chroma of the most saturated in-gamut
// colour for the hue direction (a, b).
func findCusp(a, b float64) lc {
	sCusp := maxSaturation(a, b)
	r, g, bl := oklabToLinear(lab{L: 1, A: sCusp * a, B: sCusp * b})
	lCusp := math.Cbrt(1 / math.Max(math.Max(r, g), bl))
	return lc{L: lCusp, C: lCusp * sCusp}
}

// gamutIntersection finds t such that the line from (L0, 0) to (L1, C1)
// crosses the gamut boundary at L0*(1-t) + t*L1, t*C1.
func gamutIntersection(a, b, L1, C1, L0 float64, cusp lc) float64 {
	if (L1-L0)*cusp.C-(cusp.L-L0)*C1 <= 0 {
		// Lower half: the boundary is a straight line to black.
		return cusp.C * L0 / (C1*cusp.L + cusp.C*(L0-L1))
	}

	// Upper half: start from the triangle approximation and refine.
	t := cusp.C * (L0 - 1) / (C1*(cusp.L-1) + cusp.C*(L0-L1))

	dL := L1 - L0
	dC := C1

	kl := 0.3963377774*a + 0.2158037573*b
	km := -0.1055613458*a - 0.0638541728*b
	ks := -0.0894841775*a - 1.2914855480*b

	ldt := dL + dC*kl
	mdt := dL + dC*km
	sdt := dL + dC*ks

	L := L0*(1-t) + t*L1
	C := t * C1

	lp := L + C*kl
	mp := L + C*km
	sp := L + C*ks

	l := lp * lp * lp
	m := mp * mp * mp
	s := sp * sp * sp

	l1 := 3 * ldt * lp * lp
	m1 := 3 * mdt * mp * mp
	s1 := 3 * sdt * sp * sp

	l2 := 6 * ldt * ldt * lp
	m2 := 6 * mdt * mdt * mp
	s2 := 6 * sdt * sdt * sp

	step := func(wl, wm, ws float64) float64 {
		v := wl*l + wm*m + ws*s - 1
		v1 := wl*l1 + wm*m1 + ws*s1
		v2 := wl*l2 + wm*m2 + ws*s2
		u := v1 / (v1*v1 - 0.5*v*v2)
		if u < 0 {
			return math.MaxFloat64
		}
		return -v * u
	}

	tr := step(4.0767416621, -3.3077115913, 0.2309699292)
	tg := step(-1.2684380046, 2.6097574011, -0.3413193965)
	tb := step(-0.0041960863, -0.7034186147, 1.7076147010)

	return t + math.Min(tr, math.Min(tg, tb))
}

type chroma struct {
	c0, cMid, cMax float64
}

// chromaLimits returns the three reference chroma values OKHSL
// interpolates between for lightness L along hue direction (a, b).
func chromaLimits(L, a, b float64) chroma {
	cusp := findCusp(a, b)

	cMax := gamutIntersection(a, b, L, 1, L, cusp)
	stMaxS := cusp.C / cusp.L
	stMaxT := cusp.C / (1 - cusp.L)

	// Scale factor so the mid curve passes through the gamut boundary
	// where the triangle approximation says it should.
	k := cMax / math.Min(L*stMaxS, (1-L)*stMaxT)

	stMidS, stMidT := midSaturation(a, b)
	ca := L * stMidS
	cb := (1 - L) * stMidT
	cMid := 0.9 * k * math.Sqrt(math.Sqrt(1/(1/(ca*ca*ca*ca)+1/(cb*cb*cb*cb))))

	ca = L * 0.4
	cb = (1 - L) * 0.8
	c0 := math.Sqrt(1 / (1/(ca*ca) + 1/(cb*cb)))

	return chroma{c0: c0, cMid: cMid, cMax: cMax}
}

// midSaturation is a fitted approximation of the S/T values that give a
// smooth, roughly uniform chroma curve at mid saturation.
func midSaturation(a, b float64) (S, T float64) {
	S = 0.11516993 + 1/(7.44778970+4.15901240*b+
		a*(-2.19557347+1.75198401*b+
			a*(-2.13704948-10.02301043*b+
				a*(-4.24894561+5.38770819*b+4.69891013*a))))

	T = 0.11239642 + 1/(1.61320320-0.68124379*b+
		a*(0.40370612+0.90148123*b+
			a*(-0.27087943+0.61223990*b+
				a*(0.00299215-0.45399568*b-0.14661872*a))))
	return S, T
}
