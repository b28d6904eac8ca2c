// Package palette turns a lightness/saturation/offset triple into a set of
// evenly spaced hues with their contrast scores.
package palette

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmylchreest/huewheel/internal/colour"
	"github.com/jmylchreest/huewheel/internal/search"
)

var (
	// ErrInvalidParams is returned when generator parameters are out of range.
	ErrInvalidParams = errors.New("invalid palette parameters")

	// ErrNoCombinations is returned when a random pick is requested from an
	// empty combination set.
	ErrNoCombinations = errors.New("no valid combinations found for this background")
)

// validate is the shared validator instance for parameter validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Default generator parameters.
const (
	DefaultLightness  = 60.0
	DefaultSaturation = 100.0
	DefaultOffset     = 0.0
	DefaultCount      = 6
)

// Params are the inputs for a palette.
type Params struct {
	// Lightness is the OKHSL lightness in percent.
	Lightness float64 `validate:"gte=0,lte=100"`
	// Saturation is the OKHSL saturation in percent.
	Saturation float64 `validate:"gte=0,lte=100"`
	// Offset is the hue of the first colour in degrees. Any finite value is
	// accepted and wrapped into [0, 360).
	Offset float64
	// Count is the number of colours.
	Count int `validate:"gte=1,lte=360"`
}

// DefaultParams returns the default generator parameters.
func DefaultParams() Params {
	return Params{
		Lightness:  DefaultLightness,
		Saturation: DefaultSaturation,
		Offset:     DefaultOffset,
		Count:      DefaultCount,
	}
}

// FromCombination returns parameters reproducing a search result with
// count colours.
func FromCombination(c search.Combination, count int) Params {
	return Params{
		Lightness:  float64(c.Lightness),
		Saturation: float64(c.Saturation),
		Offset:     float64(c.Offset),
		Count:      count,
	}
}

// Validate checks the parameters. Errors wrap ErrInvalidParams.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"lightness", p.Lightness},
		{"saturation", p.Saturation},
		{"offset", p.Offset},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidParams, f.name)
		}
	}

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, strings.ToLower(e.Field())+" "+formatValidationMessage(e))
		}
		return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(msgs, "; "))
	}
	return nil
}

// formatValidationMessage creates a human-readable message from a validator error.
func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s (got %v)", e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s (got %v)", e.Param(), e.Value())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

// Swatch is one generated colour and its contrast against the background.
type Swatch struct {
	// Hue is the colour's hue in degrees, in [0, 360).
	Hue   float64    `json:"hue"`
	RGB   colour.RGB `json:"rgb"`
	Ratio float64    `json:"ratio"`
	APCA  float64    `json:"apca"`
}

// Hex returns the swatch colour as upper-case hex without a hash.
func (s Swatch) Hex() string {
	return s.RGB.Hex()
}

// Passes reports whether the swatch meets t.
func (s Swatch) Passes(t colour.Thresholds) bool {
	return t.Passes(s.Ratio, s.APCA)
}

// WrapDegrees maps any finite angle into [0, 360).
func WrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Hues returns count hues starting at offset and spaced 360/count degrees
// apart, each wrapped into [0, 360).
func Hues(offset float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	step := 360.0 / float64(count)
	hues := make([]float64, count)
	for n := range hues {
		hues[n] = WrapDegrees(offset + float64(n)*step)
	}
	return hues
}

// Generate builds the palette for p against bg, in hue order from the
// offset.
func Generate(bg colour.RGB, p Params) ([]Swatch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := p.Saturation / 100
	l := p.Lightness / 100
	bgLum := colour.Luminance(bg)

	hues := Hues(p.Offset, p.Count)
	swatches := make([]Swatch, len(hues))
	for i, hue := range hues {
		rgb := colour.OkhslToRGB(hue/360, s, l)
		swatches[i] = Swatch{
			Hue:   hue,
			RGB:   rgb,
			Ratio: colour.ContrastRatio(bgLum, colour.Luminance(rgb)),
			APCA:  colour.APCAContrast(rgb, bg),
		}
	}
	return swatches, nil
}

// PickRandom returns a uniformly chosen combination.
func PickRandom(combos []search.Combination, rng *rand.Rand) (search.Combination, error) {
	if len(combos) == 0 {
		return search.Combination{}, ErrNoCombinations
	}
	return combos[rng.IntN(len(combos))], nil
}

// NewRand returns a generator seeded from the wall clock and process id.
// It is not suitable for anything security related.
func NewRand() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	pid := uint64(os.Getpid())
	return rand.New(rand.NewPCG(now, pid<<32|now>>32)) // #nosec G404 - palette choice only
}
