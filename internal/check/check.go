// Package check provides system diagnostics (--check mode) and the
// pre-scan dependency check (CheckDeps) for ffprobe.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/directscan/internal/profile"
)

// ErrFfprobeNotFound is returned by CheckDeps when the ffprobe binary
// cannot be resolved.
var ErrFfprobeNotFound = errors.New("ffprobe not found")

// versionTimeout bounds the "ffprobe -version" call.
const versionTimeout = 10 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// CheckDeps verifies that bin (a name on PATH or a path) is executable.
func CheckDeps(bin string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, bin)
	}
	return nil
}

// RunCheck prints the ffprobe version and the active profile. It returns
// false when ffprobe is unusable.
func RunCheck(bin string, prof *profile.Profile, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfprobe(bin, log)
	printProfile(prof, log)
	return ok
}

// checkFfprobe resolves bin and logs the first line of its -version output.
func checkFfprobe(bin string, log Logger) bool {
	if err := CheckDeps(bin); err != nil {
		log.Error("%v", err)
		return false
	}
	line, err := Version(bin)
	if err != nil {
		log.Warn("ffprobe found but -version failed: %v", err)
		return false
	}
	log.Success("ffprobe: %s", line)
	return true
}

// Version returns the first line of "bin -version".
func Version(bin string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		return "", err
	}
	first := strings.TrimSpace(string(out))
	if idx := strings.Index(first, "\n"); idx > 0 {
		first = strings.TrimSpace(first[:idx])
	}
	if first == "" {
		return "", errors.New("empty version output")
	}
	return first, nil
}

func printProfile(prof *profile.Profile, log Logger) {
	log.Info("Profile: %s", prof.Name())
	log.Info("  Containers: %s", prof.Containers())
	log.Info("  Video:      %s", prof.Video())
	log.Info("  Audio:      %s", prof.Audio())
	subs := prof.Subtitles()
	if subs.Empty() {
		log.Info("  Subtitles:  (none allowed)")
		return
	}
	log.Info("  Subtitles:  %s", subs)
}
