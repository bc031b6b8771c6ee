// Package config holds runtime configuration: defaults, CLI flag parsing,
// environment overrides and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// EnvFFprobe names the environment variable that overrides the ffprobe
// binary when --ffprobe is not given.
const EnvFFprobe = "DIRECTSCAN_FFPROBE"

// Report export formats, selected by the --report file extension.
const (
	ReportJSON = ".json"
	ReportCSV  = ".csv"
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Scan root (positional arg).
	RootDir string

	// Classification.
	IgnoreSubtitles bool   // --ignore-subs: skip the subtitle check.
	ProfilePath     string // Optional YAML profile; empty = built-in default.

	// Probing.
	FFprobeBin   string        // Empty = "ffprobe" on PATH.
	ProbeTimeout time.Duration // Default: 2m. Zero disables the bound.
	Workers      int           // Default: 1 (sequential).

	// Output.
	ReportPath string    // Optional .json/.csv export.
	ColorMode  ColorMode // Default: "auto".
	Verbose    bool
	LogFile    string // Optional log file path.
	CheckOnly  bool   // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with every default applied. Used as the
// base before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		ProbeTimeout: 2 * time.Minute,
		Workers:      1,
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// ApplyEnv fills settings not given on the command line from the
// environment, read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.FFprobeBin == "" {
		c.FFprobeBin = strings.TrimSpace(getenv(EnvFFprobe))
	}
}

// Validate checks enum and numeric fields and, unless CheckOnly is set,
// that a root directory was given.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q", c.ColorMode)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if c.ProbeTimeout < 0 {
		return fmt.Errorf("timeout must not be negative (got %s)", c.ProbeTimeout)
	}
	if c.ReportPath != "" {
		switch strings.ToLower(filepath.Ext(c.ReportPath)) {
		case ReportJSON, ReportCSV:
			// valid
		default:
			return fmt.Errorf("report %q must end in .json or .csv", c.ReportPath)
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.RootDir == "" {
		return ErrMissingDir
	}
	return nil
}

// ErrMissingDir is returned when no media directory was given.
var ErrMissingDir = errors.New("need exactly one media directory")

// ResolveRoot returns the absolute, symlink-resolved scan root and verifies
// it is a readable directory.
func ResolveRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("media directory not found: %s", path)
	}
	fi, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("media directory not accessible: %s: %w", path, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("not a directory: %s", path)
	}
	return resolved, nil
}
