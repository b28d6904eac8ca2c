package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/huewheel/internal/colour"
	"github.com/jmylchreest/huewheel/internal/palette"
	"github.com/jmylchreest/huewheel/internal/search"
	"github.com/jmylchreest/huewheel/internal/util/combocache"
	"github.com/spf13/cobra"
)

const contrastHint = "Change lightness and/or saturation for better contrast."

// generateOptions are the flags of the root (generate) command.
type generateOptions struct {
	paletteFlags
	random bool
	sample bool
}

func addGenerateFlags(cmd *cobra.Command, a *app) {
	opts := &generateOptions{
		paletteFlags: paletteFlags{background: newHexValue(a.cfg.Background)},
	}
	a.generate = opts

	fs := cmd.Flags()
	bindBackground(fs, opts.background)
	fs.Float64VarP(&opts.lightness, "lightness", "l", palette.DefaultLightness, "OKHSL lightness in percent (0-100)")
	fs.Float64VarP(&opts.saturation, "saturation", "s", palette.DefaultSaturation, "OKHSL saturation in percent (0-100)")
	fs.Float64VarP(&opts.offset, "offset", "o", palette.DefaultOffset, "hue of the first colour in degrees")
	fs.IntVarP(&opts.count, "count", "c", palette.DefaultCount, "number of colours (1-360)")
	fs.BoolVarP(&opts.random, "random", "r", false, "pick a random combination that passes the contrast thresholds")
	fs.BoolVar(&opts.sample, "sample", true, "print sample text in the palette colours")
}

// runGenerate prints a palette for the root command.
func (a *app) runGenerate(cmd *cobra.Command) error {
	opts := a.generate
	bg := opts.background.rgb
	out := cmd.OutOrStdout()

	params := palette.Params{
		Lightness:  opts.lightness,
		Saturation: opts.saturation,
		Offset:     opts.offset,
		Count:      opts.count,
	}

	// Reject bad input before any search or cache work. In random mode
	// only the count comes from the flags.
	check := params
	if opts.random {
		check = palette.FromCombination(search.Combination{}, opts.count)
	}
	if err := check.Validate(); err != nil {
		return err
	}

	if opts.random {
		combos, err := a.combinations(cmd, opts.background)
		if err != nil {
			return err
		}
		combo, err := palette.PickRandom(combos, palette.NewRand())
		if errors.Is(err, palette.ErrNoCombinations) {
			fmt.Fprintln(cmd.ErrOrStderr(), "No valid combinations found for this background!")
			return nil
		}
		if err != nil {
			return err
		}
		params = palette.FromCombination(combo, opts.count)
		a.logger.Debug("picked random combination", "combination", combo.String())
		fmt.Fprintf(out, "Random mode: %s\n\n", combo)
	}

	swatches, err := palette.Generate(bg, params)
	if err != nil {
		return err
	}

	a.logger.Debug("generated palette", "background", opts.background.key, "colours", joinHexes(swatches))

	ok := printSwatches(out, a.styler, bg, swatches)
	if opts.sample {
		fmt.Fprintln(out)
		printSample(out, a.styler, swatches)
	}
	if !ok {
		fmt.Fprintln(out)
		fmt.Fprintln(out, contrastHint)
	}
	return nil
}

// combinations returns the cached combination set for bg, searching and
// caching it on a miss.
func (a *app) combinations(cmd *cobra.Command, bg *hexValue) ([]search.Combination, error) {
	log := a.logger.Named("search")
	generate := func(ctx context.Context) ([]search.Combination, error) {
		return search.Search(ctx, bg.rgb, search.Options{
			Workers: a.workers,
			Progress: func(percent int) {
				log.Info("search progress", "percent", percent)
			},
		})
	}
	return combocache.LoadOrGenerate(cmd.Context(), bg.key, a.cacheOptions(), generate)
}

// printSwatches writes one report line per swatch and reports whether all
// of them met the report thresholds.
func printSwatches(w io.Writer, st colour.Styler, bg colour.RGB, swatches []palette.Swatch) bool {
	allPass := true
	th := colour.ReportThresholds
	for _, sw := range swatches {
		ratioOK := th.PassesRatio(sw.Ratio)
		apcaOK := th.PassesAPCA(sw.APCA)
		if !sw.Passes(th) {
			allPass = false
		}

		fmt.Fprintf(w, "%s | WCAG: %.2f %s | APCA: %.0f %s\n",
			st.OnBackground(sw.RGB, bg, "#"+sw.Hex()),
			sw.Ratio, mark(ratioOK),
			sw.APCA, mark(apcaOK))
	}
	return allPass
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// joinHexes formats swatch colours as a comma separated list.
func joinHexes(swatches []palette.Swatch) string {
	hexes := make([]string, len(swatches))
	for i, sw := range swatches {
		hexes[i] = "#" + sw.Hex()
	}
	return strings.Join(hexes, ", ")
}
