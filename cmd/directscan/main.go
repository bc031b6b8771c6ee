// Command directscan reports which files in a media library can be direct
// played by a client profile and which need server-side transcoding.
//
// It parses flags, validates configuration and the media directory, and
// either runs system diagnostics (--check) or the scan.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/backmassage/directscan/internal/check"
	"github.com/backmassage/directscan/internal/classify"
	"github.com/backmassage/directscan/internal/config"
	"github.com/backmassage/directscan/internal/display"
	"github.com/backmassage/directscan/internal/logging"
	"github.com/backmassage/directscan/internal/probe"
	"github.com/backmassage/directscan/internal/profile"
	"github.com/backmassage/directscan/internal/report"
	"github.com/backmassage/directscan/internal/scan"
	"github.com/backmassage/directscan/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Bootstrap: no logger yet, errors go straight to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, args); err != nil {
		switch {
		case errors.Is(err, config.ErrShowHelp):
			config.PrintUsage(os.Stdout, version)
			return 0
		case errors.Is(err, config.ErrShowVersion):
			fmt.Printf("directscan %s (%s)\n", version, commit)
			return 0
		}
		return usageError(err)
	}
	cfg.ApplyEnv(os.Getenv)
	if cfg.FFprobeBin == "" {
		cfg.FFprobeBin = probe.DefaultBinary
	}

	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	term.Configure(cfg.ColorMode)

	scanID := uuid.NewString()
	log, err := logging.NewLogger(&cfg, scanID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "directscan: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stderr)

	prof, err := profile.Resolve(cfg.ProfilePath)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	if cfg.CheckOnly {
		if !check.RunCheck(cfg.FFprobeBin, prof, log) {
			return 1
		}
		return 0
	}

	root, err := config.ResolveRoot(cfg.RootDir)
	if err != nil {
		return usageError(err)
	}

	log.Debug("directscan v%s (%s), scan %s", version, commit, scanID)
	log.Info("Scanning %s (profile: %s)", root, prof.Name())
	if cfg.IgnoreSubtitles {
		log.Info("Subtitle checks disabled")
	}

	// Files are still listed when ffprobe is missing; each one reports a
	// probe error.
	if err := check.CheckDeps(cfg.FFprobeBin); err != nil {
		log.Warn("%v: every file will report a probe error", err)
	}

	// Cancel on SIGINT/SIGTERM so the scan stops between files.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping scan")
			cancel()
		case <-ctx.Done():
		}
	}()

	files, err := scan.Discover(root, func(path string, err error) {
		log.Warn("Skipping %s: %v", path, err)
	})
	if err != nil {
		log.Error("Cannot read media directory: %v", err)
		return 1
	}
	log.Debug("Discovered %d candidate files", len(files))

	opts := report.Options{
		Root:            root,
		ProfileName:     prof.Name(),
		IgnoreSubtitles: cfg.IgnoreSubtitles,
	}
	out := report.New(os.Stdout, opts)

	scanner := &scan.Scanner{
		Prober:  probe.New(cfg.FFprobeBin, cfg.ProbeTimeout),
		Profile: prof,
		Options: classify.Options{IgnoreSubtitles: cfg.IgnoreSubtitles},
		Workers: cfg.Workers,
		Log:     log,
	}

	var entries []scan.Entry
	stats := scanner.Run(ctx, files, func(e scan.Entry) {
		out.Row(e.Path, e.Outcome)
		if cfg.ReportPath != "" {
			entries = append(entries, e)
		}
	})

	if err := out.Summary(stats); err != nil {
		log.Error("Write summary: %v", err)
		return 1
	}
	if ctx.Err() != nil {
		log.Warn("Scan interrupted after %d of %d files", stats.Scanned, len(files))
	}

	if cfg.ReportPath != "" {
		doc := report.NewDocument(scanID, opts, entries, stats)
		if err := report.Export(cfg.ReportPath, doc); err != nil {
			log.Error("%v", err)
			return 1
		}
		log.Success("Report written to %s", cfg.ReportPath)
	}
	return 0
}

// usageError prints err and the usage text to stderr and returns exit code 1.
func usageError(err error) int {
	fmt.Fprintf(os.Stderr, "directscan: %v\n\n", err)
	config.PrintUsage(os.Stderr, version)
	return 1
}
