package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into classification, probing, output and utility.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Sentinels returned by ParseFlags when the caller should print and exit 0.
var (
	ErrShowHelp    = errors.New("help requested")
	ErrShowVersion = errors.New("version requested")
)

// ParseFlags parses args (without the program name) into cfg.
// It returns ErrShowHelp or ErrShowVersion for --help/--version, and a
// non-nil error for unknown flags or a wrong number of positional args.
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("directscan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var negated negatedFlags

	defineClassificationFlags(fs, cfg)
	defineProbeFlags(fs, cfg)
	defineOutputFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	// Flags may follow the directory ("directscan /media -s"), so parsing
	// resumes after each positional argument.
	var positional []string
	for rest := args; ; {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return ErrShowHelp
			}
			return err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		return ErrShowHelp
	}
	if negated.showVersion {
		return ErrShowVersion
	}

	return parsePositionalArgs(positional, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineClassificationFlags registers -s/--ignore-subs and --profile.
func defineClassificationFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.IgnoreSubtitles, "ignore-subs", false, "Do not check subtitle compatibility")
	fs.BoolVar(&cfg.IgnoreSubtitles, "s", false, "Same as --ignore-subs")
	fs.StringVar(&cfg.ProfilePath, "profile", "", "YAML compatibility profile")
}

// defineProbeFlags registers --ffprobe, --timeout and -j/--workers.
func defineProbeFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.FFprobeBin, "ffprobe", "", "ffprobe binary")
	fs.DurationVar(&cfg.ProbeTimeout, "timeout", cfg.ProbeTimeout, "Per-file probe timeout (0 = none)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Files probed in parallel")
	fs.IntVar(&cfg.Workers, "j", cfg.Workers, "Same as --workers")
}

// defineOutputFlags registers --report, --color, --no-color, verbose and --log.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.ReportPath, "report", "", "Write report to .json or .csv file")
	fs.StringVar(&cfg.ReportPath, "o", "", "Same as --report")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored output")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --check, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Verify ffprobe and show the active profile")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets RootDir from the single positional arg; --check
// needs none.
func parsePositionalArgs(args []string, cfg *Config) error {
	if cfg.CheckOnly && len(args) == 0 {
		return nil
	}
	if len(args) != 1 {
		return ErrMissingDir
	}
	cfg.RootDir = NormalizeDirArg(args[0])
	return nil
}

// PrintUsage writes the help text to w. Column-aligned for readability.
func PrintUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "directscan v" + version + " - direct play compatibility report"},
		{"", ""},
		{"  directscan [OPTIONS] <media_dir>", ""},
		{"", ""},
		{"Classification", ""},
		{"  -s, --ignore-subs", "Do not check subtitle compatibility"},
		{"  --profile <file.yaml>", "Compatibility profile (default: nvidia-shield)"},
		{"", ""},
		{"Probing", ""},
		{"  --ffprobe <path>", "ffprobe binary (default: $" + EnvFFprobe + " or PATH)"},
		{"  --timeout <duration>", "Per-file probe timeout (default: 2m, 0 = none)"},
		{"  -j, --workers <n>", "Files probed in parallel (default: 1)"},
		{"", ""},
		{"Output", ""},
		{"  -o, --report <file>", "Also write the report as .json or .csv"},
		{"  --color", "Force colored output"},
		{"  --no-color", "Disable colored output"},
		{"  -v, --verbose", "Verbose output"},
		{"  -l, --log <path>", "Append logs to file"},
		{"", ""},
		{"Utility", ""},
		{"  -c, --check", "Verify ffprobe and show the active profile"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	var b strings.Builder
	for _, l := range lines {
		switch {
		case l.flags == "" && l.desc == "":
			b.WriteString("\n")
		case l.desc == "":
			b.WriteString(l.flags + "\n")
		case l.flags == "":
			b.WriteString(l.desc + "\n")
		default:
			padding := col1 - len(l.flags)
			if padding < 1 {
				padding = 1
			}
			fmt.Fprintf(&b, "%s%*s%s\n", l.flags, padding, "", l.desc)
		}
	}
	_, _ = io.WriteString(w, b.String())
}
