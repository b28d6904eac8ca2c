package palette

import (
	"testing"
)

func TestKnownSchemes(t *testing.T) {
	if len(KnownSchemes) != 5 {
		t.Fatalf("KnownSchemes has %d entries, want 5", len(KnownSchemes))
	}
	for _, s := range KnownSchemes {
		if len(s.Colours) != 6 {
			t.Errorf("%s has %d colours, want 6", s.Name, len(s.Colours))
		}
	}
}

func TestAnalyse(t *testing.T) {
	for _, s := range KnownSchemes {
		t.Run(s.Name, func(t *testing.T) {
			a, err := Analyse(s)
			if err != nil {
				t.Fatalf("Analyse() unexpected error: %v", err)
			}
			if len(a.Colours) != len(s.Colours) {
				t.Fatalf("Analyse() returned %d colours, want %d", len(a.Colours), len(s.Colours))
			}
			for _, c := range a.Colours {
				if c.Ratio <= 1 {
					t.Errorf("%s ratio = %v, want > 1", c.Hex(), c.Ratio)
				}
				// Accents are lighter than these dark backgrounds.
				if c.APCA >= 0 {
					t.Errorf("%s APCA = %v, want negative", c.Hex(), c.APCA)
				}
				if c.Hue < 0 || c.Hue >= 360 {
					t.Errorf("%s hue = %v, want [0, 360)", c.Hex(), c.Hue)
				}
				if c.Lightness <= 0 || c.Lightness >= 100 {
					t.Errorf("%s lightness = %v, want (0, 100)", c.Hex(), c.Lightness)
				}
			}
		})
	}
}

func TestAnalyseInvalidScheme(t *testing.T) {
	if _, err := Analyse(Scheme{Name: "bad", Background: "zzzzzz"}); err == nil {
		t.Error("Analyse() expected error for invalid background")
	}
	if _, err := Analyse(Scheme{Name: "bad", Background: "000000", Colours: []string{"12"}}); err == nil {
		t.Error("Analyse() expected error for invalid colour")
	}
}
