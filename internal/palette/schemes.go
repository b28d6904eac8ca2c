package palette

import (
	"fmt"

	"github.com/jmylchreest/huewheel/internal/colour"
)

// Scheme is a published colour scheme: a background and its accent colours.
type Scheme struct {
	Name       string
	Background string
	Colours    []string
}

// KnownSchemes are the built-in schemes used for comparison.
var KnownSchemes = []Scheme{
	{Name: "Nord", Background: "2E3440", Colours: []string{"bf616a", "a3be8c", "ebcb8b", "81a1c1", "b48ead", "8fbcbb"}},
	{Name: "Dracula", Background: "282a36", Colours: []string{"ff5555", "50fa7b", "f1fa8c", "bd93f9", "ff79c6", "8be9fd"}},
	{Name: "Catppuccin", Background: "1e1e2e", Colours: []string{"f38ba8", "a6e3a1", "f9e2af", "89b4fa", "cba6f7", "94e2d5"}},
	{Name: "Gruvbox", Background: "1d2021", Colours: []string{"fb4934", "b8bb26", "fabd2f", "83a598", "d3869b", "8ec07c"}},
	{Name: "Rosepine", Background: "191724", Colours: []string{"eb6f92", "31748f", "f6c177", "c4a7e7", "ebbcba", "9ccfd8"}},
}

// AnalysedColour is one scheme colour with its contrast scores and OKHSL
// coordinates.
type AnalysedColour struct {
	Swatch

	// Saturation and Lightness are OKHSL values in percent.
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
}

// Analysis is the result of analysing one scheme.
type Analysis struct {
	Scheme     Scheme
	Background colour.RGB
	Colours    []AnalysedColour
}

// Analyse scores every colour of s against its background.
func Analyse(s Scheme) (Analysis, error) {
	bg, err := colour.ParseHex(s.Background)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to parse %s background: %w", s.Name, err)
	}
	bgLum := colour.Luminance(bg)

	out := Analysis{Scheme: s, Background: bg, Colours: make([]AnalysedColour, 0, len(s.Colours))}
	for _, hex := range s.Colours {
		fg, err := colour.ParseHex(hex)
		if err != nil {
			return Analysis{}, fmt.Errorf("failed to parse %s colour: %w", s.Name, err)
		}
		h, sat, l := colour.RGBToOkhsl(fg)
		out.Colours = append(out.Colours, AnalysedColour{
			Swatch: Swatch{
				Hue:   h * 360,
				RGB:   fg,
				Ratio: colour.ContrastRatio(bgLum, colour.Luminance(fg)),
				APCA:  colour.APCAContrast(fg, bg),
			},
			Saturation: sat * 100,
			Lightness:  l * 100,
		})
	}
	return out, nil
}
