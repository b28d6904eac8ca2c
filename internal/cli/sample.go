package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/huewheel/internal/colour"
	"github.com/jmylchreest/huewheel/internal/palette"
)

const sampleText = "Lorem ipsum dolor sit amet consectetur adipiscing elit. Quisque faucibus ex " +
	"sapien vitae pellentesque sem placerat. In id cursus mi pretium tellus duis " +
	"convallis. Tempus leo eu aenean sed diam urna tempor. Pulvinar vivamus fringilla " +
	"lacus nec metus bibendum egestas. Iaculis massa nisl malesuada lacinia integer " +
	"nunc posuere. Ut hendrerit semper vel class aptent taciti sociosqu. Ad litora " +
	"torquent per conubia nostra inceptos himenaeos."

// printSample writes the sample paragraph twice, bold then normal weight,
// cycling through the swatch colours word by word.
func printSample(w io.Writer, st colour.Styler, swatches []palette.Swatch) {
	if len(swatches) == 0 {
		return
	}
	words := strings.Fields(sampleText)

	fmt.Fprintln(w, "Bold:")
	fmt.Fprintln(w, colourWords(st, words, swatches, true))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Normal:")
	fmt.Fprintln(w, colourWords(st, words, swatches, false))
}

func colourWords(st colour.Styler, words []string, swatches []palette.Swatch, bold bool) string {
	coloured := make([]string, len(words))
	for i, word := range words {
		coloured[i] = st.Foreground(swatches[i%len(swatches)].RGB, word, bold)
	}
	return strings.Join(coloured, " ")
}
