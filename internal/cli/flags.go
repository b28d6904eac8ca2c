package cli

import (
	"github.com/jmylchreest/huewheel/internal/colour"
	"github.com/jmylchreest/huewheel/internal/util"
	"github.com/spf13/pflag"
)

// hexValue is a pflag.Value holding a background colour. The string the
// user typed (without a leading '#') is kept verbatim because it doubles
// as the cache key.
type hexValue struct {
	key string
	rgb colour.RGB
}

var _ pflag.Value = (*hexValue)(nil)

func newHexValue(def string) *hexValue {
	v := &hexValue{}
	if err := v.Set(def); err != nil {
		_ = v.Set("000000")
	}
	return v
}

func (v *hexValue) String() string {
	return v.key
}

func (v *hexValue) Set(s string) error {
	rgb, err := colour.ParseHex(s)
	if err != nil {
		return err
	}
	v.key = util.StripHash(s)
	v.rgb = rgb
	return nil
}

func (v *hexValue) Type() string {
	return "hex"
}

// paletteFlags holds the flags shared by commands that build a palette.
type paletteFlags struct {
	background *hexValue
	lightness  float64
	saturation float64
	offset     float64
	count      int
}

// bindBackground registers -b/--background on fs.
func bindBackground(fs *pflag.FlagSet, v *hexValue) {
	fs.VarP(v, "background", "b", "background colour as 6 hex digits, '#' optional")
}
