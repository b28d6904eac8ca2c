// Package config resolves settings from the environment, optionally
// loaded from a .env file, before command-line flags are applied.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/jmylchreest/huewheel/internal/colour"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvBackground = "HUEWHEEL_BACKGROUND"
	EnvCacheDir   = "HUEWHEEL_CACHE_DIR"
	EnvWorkers    = "HUEWHEEL_WORKERS"
	EnvColor      = "HUEWHEEL_COLOR"
	EnvNoColor    = "NO_COLOR"
)

// DefaultBackground is used when neither flag nor environment set one.
const DefaultBackground = "000000"

// ColorMode controls ANSI colour output.
type ColorMode string

// Colour output modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// String implements pflag.Value.
func (m *ColorMode) String() string {
	return string(*m)
}

// Set implements pflag.Value.
func (m *ColorMode) Set(s string) error {
	mode, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Type implements pflag.Value.
func (m *ColorMode) Type() string {
	return "mode"
}

// ParseColorMode parses auto, always or never (case-insensitive).
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid colour mode: %s (valid: auto, always, never)", s)
	}
}

// Config holds the resolved settings.
type Config struct {
	Background string
	CacheDir   string
	Workers    int
	Color      ColorMode
}

// Load reads an optional .env file from the working directory and then
// resolves the configuration from the environment.
func Load() (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv resolves the configuration from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Background: getEnv(EnvBackground, DefaultBackground),
		CacheDir:   getEnv(EnvCacheDir, ""),
		Workers:    runtime.NumCPU(),
		Color:      ColorAuto,
	}

	if _, err := colour.ParseHex(cfg.Background); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", EnvBackground, err)
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid %s: %q must be a positive integer", EnvWorkers, v)
		}
		cfg.Workers = n
	}

	if v := os.Getenv(EnvColor); v != "" {
		mode, err := ParseColorMode(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvColor, err)
		}
		cfg.Color = mode
	} else if os.Getenv(EnvNoColor) != "" {
		// https://no-color.org
		cfg.Color = ColorNever
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
