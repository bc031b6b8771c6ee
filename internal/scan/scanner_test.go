package scan

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/backmassage/directscan/internal/classify"
	"github.com/backmassage/directscan/internal/codec"
	"github.com/backmassage/directscan/internal/probe"
	"github.com/backmassage/directscan/internal/profile"
)

// fakeProber returns canned results keyed by path.
type fakeProber struct {
	results map[string]*probe.Result
	delay   func(path string) time.Duration
	calls   atomic.Int32
	active  atomic.Int32
	peak    atomic.Int32
}

func (f *fakeProber) Probe(ctx context.Context, path string) (*probe.Result, error) {
	f.calls.Add(1)
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay != nil {
		select {
		case <-time.After(f.delay(path)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	res, ok := f.results[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s: empty output", probe.ErrProbeFailed, path)
	}
	return res, nil
}

// recordingLogger captures warnings.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(string, ...interface{}) {}

func mediaResult(container string, video, audio string) *probe.Result {
	return &probe.Result{
		Container: container,
		Video:     codec.NewSet(video),
		Audio:     codec.NewSet(audio),
	}
}

func newScanner(p Prober, workers int, log Logger) *Scanner {
	return &Scanner{
		Prober:  p,
		Profile: profile.Default(),
		Workers: workers,
		Log:     log,
	}
}

func TestScanner_SequentialFourFiles(t *testing.T) {
	prober := &fakeProber{results: map[string]*probe.Result{
		"/m/a.mkv": mediaResult("matroska", "hevc", "aac"),
		"/m/b.mp4": mediaResult("mov", "h264", "ac3"),
		"/m/c.mkv": mediaResult("matroska", "h264", "eac3"),
		"/m/d.avi": mediaResult("avi", "mpeg4", "mp3"),
	}}
	files := []File{
		{Path: "/m/a.mkv", Size: 100},
		{Path: "/m/b.mp4", Size: 200},
		{Path: "/m/c.mkv", Size: 300},
		{Path: "/m/d.avi", Size: 400},
	}

	var got []string
	stats := newScanner(prober, 1, &recordingLogger{}).Run(context.Background(), files, func(e Entry) {
		got = append(got, filepath.Base(e.Path))
	})

	assert.Equal(t, []string{"a.mkv", "b.mp4", "c.mkv", "d.avi"}, got)
	assert.Equal(t, 4, stats.Scanned)
	assert.Equal(t, 3, stats.DirectPlay)
	assert.Equal(t, 1, stats.Transcode)
	assert.Equal(t, int64(1000), stats.ScannedBytes)
	assert.Equal(t, int64(400), stats.TranscodeBytes)
	assert.InDelta(t, 75.0, stats.DirectPercent(), 1e-9)
	assert.InDelta(t, 25.0, stats.TranscodePercent(), 1e-9)
}

func TestScanner_ProbeFailureIsIsolated(t *testing.T) {
	prober := &fakeProber{results: map[string]*probe.Result{
		"/m/good.mkv": mediaResult("matroska", "h264", "aac"),
	}}
	log := &recordingLogger{}
	files := []File{{Path: "/m/bad.mkv"}, {Path: "/m/good.mkv"}}

	var entries []Entry
	stats := newScanner(prober, 1, log).Run(context.Background(), files, func(e Entry) {
		entries = append(entries, e)
	})

	require.Len(t, entries, 2)
	assert.False(t, entries[0].Outcome.DirectPlay)
	assert.Equal(t, "Probe error", entries[0].Outcome.Text())
	assert.ErrorIs(t, entries[0].Err, probe.ErrProbeFailed)
	assert.Nil(t, entries[0].Result)
	assert.True(t, entries[1].Outcome.DirectPlay)

	assert.Equal(t, 1, stats.ProbeErrors)
	require.Len(t, log.warns, 1, "a probe failure is reported exactly once")
	assert.Contains(t, log.warns[0], "/m/bad.mkv")
}

func TestScanner_IgnoreSubtitles(t *testing.T) {
	res := mediaResult("matroska", "h264", "aac")
	res.Subtitles = codec.NewSet("hdmv_pgs_subtitle")
	prober := &fakeProber{results: map[string]*probe.Result{"/m/a.mkv": res}}
	files := []File{{Path: "/m/a.mkv"}}

	s := newScanner(prober, 1, &recordingLogger{})
	stats := s.Run(context.Background(), files, nil)
	assert.Equal(t, 0, stats.DirectPlay)

	s.Options = classify.Options{IgnoreSubtitles: true}
	stats = s.Run(context.Background(), files, nil)
	assert.Equal(t, 1, stats.DirectPlay)
}

func TestScanner_ParallelPreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 24
	results := make(map[string]*probe.Result, n)
	files := make([]File, n)
	for i := range files {
		path := fmt.Sprintf("/m/%02d.mkv", i)
		files[i] = File{Path: path}
		results[path] = mediaResult("matroska", "h264", "aac")
	}
	prober := &fakeProber{
		results: results,
		// Earlier files finish later, so completion order is reversed.
		delay: func(path string) time.Duration {
			var i int
			_, _ = fmt.Sscanf(filepath.Base(path), "%02d.mkv", &i)
			return time.Duration(n-i) * time.Millisecond
		},
	}

	var got []string
	stats := newScanner(prober, 4, &recordingLogger{}).Run(context.Background(), files, func(e Entry) {
		got = append(got, e.Path)
	})

	want := make([]string, n)
	for i, f := range files {
		want[i] = f.Path
	}
	assert.Equal(t, want, got)
	assert.Equal(t, n, stats.Scanned)
	assert.LessOrEqual(t, prober.peak.Load(), int32(4))
	assert.Greater(t, prober.peak.Load(), int32(1))
}

func TestScanner_CancelStopsDispatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	results := map[string]*probe.Result{}
	files := make([]File, 10)
	for i := range files {
		files[i] = File{Path: fmt.Sprintf("/m/%d.mkv", i)}
		results[files[i].Path] = mediaResult("matroska", "h264", "aac")
	}
	prober := &fakeProber{results: results, delay: func(string) time.Duration { return 20 * time.Millisecond }}

	ctx, cancel := context.WithCancel(context.Background())
	emitted := 0
	stats := newScanner(prober, 2, &recordingLogger{}).Run(ctx, files, func(Entry) {
		emitted++
		if emitted == 2 {
			cancel()
		}
	})
	cancel()

	assert.Equal(t, emitted, stats.Scanned)
	assert.Less(t, stats.Scanned, len(files))
	assert.Equal(t, 0, stats.ProbeErrors, "cancelled probes are not reported as failures")
}

func TestScanner_SequentialCancel(t *testing.T) {
	prober := &fakeProber{results: map[string]*probe.Result{
		"/m/a.mkv": mediaResult("matroska", "h264", "aac"),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := newScanner(prober, 1, &recordingLogger{}).Run(ctx, []File{{Path: "/m/a.mkv"}}, nil)
	assert.Equal(t, 0, stats.Scanned)
	assert.Equal(t, int32(0), prober.calls.Load())
}

func TestStats_Empty(t *testing.T) {
	var s Stats
	assert.Zero(t, s.DirectPercent())
	assert.Zero(t, s.TranscodePercent())
}

// TestScan_RealFFprobe runs discovery and the real prober over generated
// clips when ffmpeg and ffprobe are installed.
func TestScan_RealFFprobe(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	dir := t.TempDir()
	gen := func(name string, args ...string) {
		t.Helper()
		base := []string{"-hide_banner", "-loglevel", "error",
			"-f", "lavfi", "-i", "testsrc=duration=1:size=320x240:rate=24",
			"-f", "lavfi", "-i", "sine=frequency=440:duration=1:sample_rate=48000"}
		cmd := exec.Command("ffmpeg", append(append(base, args...), "-y", filepath.Join(dir, name))...)
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			t.Skipf("cannot generate %s: %v", name, err)
		}
	}
	gen("good.mp4", "-c:v", "libx264", "-pix_fmt", "yuv420p", "-c:a", "aac")
	gen("legacy.mkv", "-c:v", "mpeg4", "-c:a", "mp3", "-f", "avi")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.mkv"), []byte("not a video"), 0o644))

	files, err := Discover(dir, nil)
	require.NoError(t, err)
	require.Len(t, files, 3)

	s := &Scanner{
		Prober:  probe.New("", 30*time.Second),
		Profile: profile.Default(),
		Log:     &recordingLogger{},
	}
	byName := map[string]Entry{}
	stats := s.Run(context.Background(), files, func(e Entry) { byName[filepath.Base(e.Path)] = e })

	assert.Equal(t, 3, stats.Scanned)
	assert.True(t, byName["good.mp4"].Outcome.DirectPlay, byName["good.mp4"].Outcome.Text())
	assert.Equal(t, "Container: avi", byName["legacy.mkv"].Outcome.Text())
	assert.Equal(t, "Probe error", byName["broken.mkv"].Outcome.Text())
}
