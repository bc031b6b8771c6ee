// Package logging provides the leveled logger used across directscan.
//
// Console output goes to stderr so the report on stdout stays clean; an
// optional log file receives the same entries as JSON lines.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/backmassage/directscan/internal/config"
	"github.com/backmassage/directscan/internal/term"
)

// Logger provides printf-style leveled logging on top of zerolog.
type Logger struct {
	mu   sync.Mutex
	zl   zerolog.Logger
	file *os.File
}

// Options controls where a Logger writes.
type Options struct {
	Console io.Writer // defaults to os.Stderr
	Color   bool
	Verbose bool
	LogFile string
	ScanID  string
}

// NewLogger builds a Logger from cfg: stderr console output, coloured when
// terminal colours are enabled, debug level with --verbose, and an optional
// append-only log file.
func NewLogger(cfg *config.Config, scanID string) (*Logger, error) {
	return New(Options{
		Color:   term.Enabled(),
		Verbose: cfg.Verbose,
		LogFile: cfg.LogFile,
		ScanID:  scanID,
	})
}

// New builds a Logger from explicit options.
func New(opts Options) (*Logger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		NoColor:    !opts.Color,
		TimeFormat: time.DateTime,
	}}

	l := &Logger{}
	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("component", "directscan")
	if opts.ScanID != "" {
		ctx = ctx.Str("scan_id", opts.ScanID)
	}
	l.zl = ctx.Logger()
	return l, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Success logs at INFO level marked ok=true.
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Info().Bool("ok", true).Msgf(format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Debug logs at DEBUG level; dropped unless verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}
