// Package scan orchestrates file discovery and per-file probe and
// classification, emitting results in discovery order.
package scan

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/directscan/internal/classify"
	"github.com/backmassage/directscan/internal/probe"
	"github.com/backmassage/directscan/internal/profile"
)

// Prober inspects one media file.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
}

// Logger is the minimal logging interface the scanner needs.
type Logger interface {
	Warn(string, ...interface{})
	Debug(string, ...interface{})
}

// Entry is the scan result for one file. Result is nil when probing failed,
// in which case Err holds the cause.
type Entry struct {
	File
	Result  *probe.Result
	Outcome classify.Outcome
	Err     error
}

// Scanner probes and classifies files against a profile.
type Scanner struct {
	Prober  Prober
	Profile *profile.Profile
	Options classify.Options
	// Workers bounds concurrent probes. Values below 2 scan sequentially.
	Workers int
	Log     Logger
}

// Check probes and classifies a single file. A probe failure is logged once
// and recorded as the probe-failure outcome. ok is false only when ctx was
// cancelled before the file finished, in which case the entry must be
// discarded.
func (s *Scanner) Check(ctx context.Context, f File) (e Entry, ok bool) {
	e.File = f
	if ctx.Err() != nil {
		return e, false
	}

	res, err := s.Prober.Probe(ctx, f.Path)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return e, false
		}
		s.Log.Warn("Cannot probe file: %v", err)
		e.Err = err
		e.Outcome = classify.ProbeFailure()
		return e, true
	}
	if res.Warnings != "" {
		s.Log.Debug("ffprobe reported problems for %s: %s", f.Path, res.Warnings)
	}

	e.Result = res
	e.Outcome = classify.Classify(res, s.Profile, s.Options)
	return e, true
}

// Run checks every file and calls emit once per finished file, in the
// order of files, then returns the totals. Cancelling ctx stops dispatch of
// new files; files that did not finish are neither emitted nor counted.
func (s *Scanner) Run(ctx context.Context, files []File, emit func(Entry)) Stats {
	var stats Stats
	record := func(e Entry) {
		stats.Add(e)
		if emit != nil {
			emit(e)
		}
	}

	if s.Workers < 2 {
		for _, f := range files {
			e, ok := s.Check(ctx, f)
			if !ok {
				break
			}
			record(e)
		}
		return stats
	}

	type slot struct {
		entry Entry
		ok    bool
		done  chan struct{}
	}
	slots := make([]slot, len(files))
	for i := range slots {
		slots[i].done = make(chan struct{})
	}

	// Each slot is written by exactly one goroutine before its done channel
	// closes; the emitter below reads it only after the close.
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		var g errgroup.Group
		g.SetLimit(s.Workers)
		for i, f := range files {
			if ctx.Err() != nil {
				close(slots[i].done)
				continue
			}
			i, f := i, f
			g.Go(func() error {
				defer close(slots[i].done)
				slots[i].entry, slots[i].ok = s.Check(ctx, f)
				return nil
			})
		}
		_ = g.Wait()
	}()

	for i := range slots {
		<-slots[i].done
		if slots[i].ok {
			record(slots[i].entry)
		}
	}
	<-dispatched
	return stats
}
