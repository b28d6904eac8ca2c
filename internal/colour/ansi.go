package colour

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ANSI escape codes for 24-bit terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiBold     = "\033[1m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
)

// Styler wraps text in 24-bit ANSI colour escapes.
// A zero Styler (Enabled == false) returns text unchanged.
type Styler struct {
	Enabled bool
}

// Foreground colours text with fg.
func (s Styler) Foreground(fg RGB, text string, bold bool) string {
	if !s.Enabled {
		return text
	}
	var b strings.Builder
	if bold {
		b.WriteString(ansiBold)
	}
	b.WriteString(fgEscape(fg))
	b.WriteString(text)
	b.WriteString(ansiReset)
	return b.String()
}

// OnBackground renders bold text in fg over bg.
func (s Styler) OnBackground(fg, bg RGB, text string) string {
	if !s.Enabled {
		return text
	}
	return ansiBold + bgEscape(bg) + fgEscape(fg) + text + ansiReset
}

func fgEscape(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, c.R, c.G, c.B, ansiSuffix)
}

func bgEscape(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
}

// VisibleWidth returns the number of runes in s that are not part of an
// ANSI CSI escape sequence.
func VisibleWidth(s string) int {
	n := 0
	for i := 0; i < len(s); {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return n
}
