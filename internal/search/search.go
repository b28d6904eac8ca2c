// Package search enumerates every (lightness, saturation, hue offset)
// combination whose six evenly spaced hues all meet the contrast thresholds
// against a background.
package search

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/jmylchreest/huewheel/internal/colour"
	"github.com/jmylchreest/huewheel/internal/security"
	"golang.org/x/sync/errgroup"
)

// Grid bounds. Lightness and saturation are integer percentages, offset is
// an integer number of degrees.
const (
	MaxLightness  = 100
	MaxSaturation = 100
	OffsetSteps   = 360

	// Rotations is the number of hues tested per combination.
	Rotations = 6
	// RotationStep is the hue distance between tested hues in degrees.
	RotationStep = 360 / Rotations

	// GridSize is the number of candidate combinations in a full scan.
	GridSize = (MaxLightness + 1) * (MaxSaturation + 1) * OffsetSteps
)

// Combination is one grid point that passed the search.
type Combination struct {
	Lightness  uint8  `json:"lightness"`
	Saturation uint8  `json:"saturation"`
	Offset     uint16 `json:"offset"`
}

// String returns the combination in "l=.. s=.. o=.." form.
func (c Combination) String() string {
	return fmt.Sprintf("l=%d s=%d o=%d", c.Lightness, c.Saturation, c.Offset)
}

// ProgressFunc receives the percentage of lightness rows completed, in
// steps of 10. Calls are serialised.
type ProgressFunc func(percent int)

// Options configures a search.
type Options struct {
	// Workers is the number of lightness rows evaluated concurrently.
	// Zero means runtime.NumCPU(); one is a plain sequential scan.
	Workers int

	// Thresholds defaults to colour.SearchThresholds when zero.
	Thresholds colour.Thresholds

	// Progress is optional.
	Progress ProgressFunc
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Thresholds == (colour.Thresholds{}) {
		o.Thresholds = colour.SearchThresholds
	}
	return o
}

// background caches what every candidate is compared against.
type background struct {
	rgb colour.RGB
	lum float64
}

func newBackground(bg colour.RGB) background {
	return background{rgb: bg, lum: colour.Luminance(bg)}
}

// Search scans the full grid against bg and returns every valid
// combination.
//
// The result is in scan order: ascending lightness, then saturation, then
// offset. The cache file format depends on this order, and it holds for any
// number of workers. An empty result is not an error.
func Search(ctx context.Context, bg colour.RGB, opts Options) ([]Combination, error) {
	return searchRows(ctx, bg, 0, MaxLightness, opts)
}

// searchRows scans lightness rows lo..hi inclusive.
func searchRows(ctx context.Context, bg colour.RGB, lo, hi int, opts Options) ([]Combination, error) {
	opts = opts.withDefaults()
	back := newBackground(bg)

	rows := make([][]Combination, hi-lo+1)
	progress := newProgress(len(rows), opts.Progress)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for l := lo; l <= hi; l++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[l-lo] = scanRow(back, l, opts.Thresholds)
			progress.rowDone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, row := range rows {
		total += len(row)
	}
	out := make([]Combination, 0, total)
	for _, row := range rows {
		out = append(out, row...)
	}
	return out, nil
}

// scanRow evaluates every saturation and offset for one lightness.
func scanRow(back background, l int, th colour.Thresholds) []Combination {
	var row []Combination
	for s := 0; s <= MaxSaturation; s++ {
		for o := 0; o < OffsetSteps; o++ {
			if evaluate(back, l, s, o, th) {
				row = append(row, Combination{
					Lightness:  security.SafeUint8(l),
					Saturation: security.SafeUint8(s),
					Offset:     security.SafeUint16(o),
				})
			}
		}
	}
	return row
}

// Evaluate reports whether the combination (l%, s%, o°) is valid against
// bg under colour.SearchThresholds.
func Evaluate(bg colour.RGB, l, s, o int) bool {
	return evaluate(newBackground(bg), l, s, o, colour.SearchThresholds)
}

func evaluate(back background, l, s, o int, th colour.Thresholds) bool {
	lightness := float64(l) / 100
	saturation := float64(s) / 100

	for n := 0; n < Rotations; n++ {
		deg := (o + n*RotationStep) % 360
		fg := colour.OkhslToRGB(float64(deg)/360, saturation, lightness)

		ratio := colour.ContrastRatio(back.lum, colour.Luminance(fg))
		if !th.PassesRatio(ratio) {
			return false
		}
		if !th.PassesAPCA(colour.APCAContrast(fg, back.rgb)) {
			return false
		}
	}
	return true
}

// progress turns completed row counts into 10% steps.
type progress struct {
	mu       sync.Mutex
	done     int
	total    int
	reported int
	fn       ProgressFunc
}

func newProgress(total int, fn ProgressFunc) *progress {
	return &progress{total: total, reported: -10, fn: fn}
}

func (p *progress) rowDone() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	pct := p.done * 100 / p.total
	for p.reported+10 <= pct {
		p.reported += 10
		p.fn(p.reported)
	}
}
