// Package cli provides the command-line interface for huewheel.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/huewheel/internal/colour"
	"github.com/jmylchreest/huewheel/internal/config"
	"github.com/jmylchreest/huewheel/internal/util/combocache"
	"github.com/jmylchreest/huewheel/internal/version"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app holds state shared by all commands of one root command instance.
type app struct {
	cfg    config.Config
	cfgErr error

	// Global flags.
	verbose  bool
	quiet    bool
	color    config.ColorMode
	cacheDir string
	workers  int

	logger hclog.Logger
	styler colour.Styler

	generate *generateOptions
}

// NewRootCmd creates the root command with all subcommands attached.
// Environment configuration is read once, here, and becomes the flag
// defaults.
func NewRootCmd() *cobra.Command {
	a := &app{}
	a.cfg, a.cfgErr = config.Load()
	if a.cfgErr != nil {
		// Fall back to built-in defaults; the error is reported when a
		// command runs.
		a.cfg = config.Config{Background: config.DefaultBackground, Workers: 1, Color: config.ColorAuto}
	}
	a.color = a.cfg.Color

	rootCmd := &cobra.Command{
		Use:   "huewheel",
		Short: "Generate accessible, evenly spaced colour palettes",
		Long: `huewheel generates sets of foreground colours that are evenly spaced in
OKHSL hue and checks them against a background with both the WCAG 2 contrast
ratio and the APCA perceptual contrast score.

With --random it picks one of the (lightness, saturation, offset) triples
whose six 60° rotations all reach WCAG 4.5:1 and APCA Lc 32. The full set of
triples is computed once per background and cached on disk.

Examples:
  # Six colours at 60% lightness on black
  huewheel

  # Eight pastel colours on a light background
  huewheel -b fafafa -l 45 -s 60 -c 8

  # A random combination that is guaranteed to pass
  huewheel -b 1e1e2e --random

  # How do some popular schemes score?
  huewheel analyze`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().Var(&a.color, "color", "colour output (auto, always, never)")
	rootCmd.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", a.cfg.CacheDir, "combination cache directory (default: user cache dir)")
	rootCmd.PersistentFlags().IntVarP(&a.workers, "workers", "w", a.cfg.Workers, "number of parallel search workers")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	addGenerateFlags(rootCmd, a)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runGenerate(cmd)
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newCacheCmd(a))

	return rootCmd
}

// setup validates global flags and builds the logger and styler.
func (a *app) setup(cmd *cobra.Command) error {
	if a.cfgErr != nil {
		return fmt.Errorf("invalid configuration: %w", a.cfgErr)
	}
	if a.workers < 1 {
		return fmt.Errorf("invalid --workers: %d (must be at least 1)", a.workers)
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose, a.quiet)
	a.styler = colour.Styler{Enabled: colourEnabled(a.color, cmd.OutOrStdout())}

	a.logger.Debug("configuration resolved",
		"cache_dir", a.cacheDir, "workers", a.workers, "color", string(a.color), "ansi", a.styler.Enabled)
	return nil
}

// cacheOptions returns the cache settings for this invocation.
func (a *app) cacheOptions() combocache.Options {
	return combocache.Options{CacheDir: a.cacheDir, Logger: a.logger.Named("cache")}
}

// newLogger configures the logger based on verbose and quiet flags.
func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "huewheel",
		Output: w,
		Level:  level,
	})
}

// colourEnabled decides whether ANSI escapes are written to w.
func colourEnabled(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
