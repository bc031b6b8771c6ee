package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/directscan/internal/codec"
)

// DefaultBinary is the ffprobe executable looked up on PATH when no
// explicit binary is configured.
const DefaultBinary = "ffprobe"

// maxStderr bounds how much ffprobe stderr is carried in errors and warnings.
const maxStderr = 4096

// ErrProbeFailed marks every failure to obtain usable metadata for a file.
var ErrProbeFailed = errors.New("probe failed")

// Prober runs ffprobe. The zero value is not usable; call [New].
type Prober struct {
	bin     string
	timeout time.Duration
}

// New returns a Prober using bin (DefaultBinary when empty). A positive
// timeout bounds each ffprobe invocation; zero waits indefinitely.
func New(bin string, timeout time.Duration) *Prober {
	bin = strings.TrimSpace(bin)
	if bin == "" {
		bin = DefaultBinary
	}
	return &Prober{bin: bin, timeout: timeout}
}

// Binary returns the ffprobe executable this Prober invokes.
func (p *Prober) Binary() string { return p.bin }

// Args returns the ffprobe arguments used to inspect path.
func Args(path string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	}
}

// Probe runs one ffprobe JSON call against path and returns the parsed
// result. A non-zero exit is tolerated when stdout still carries valid
// metadata; the stderr text is then kept in Result.Warnings.
func (p *Prober) Probe(ctx context.Context, path string) (*Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	// #nosec G204 - binary comes from configuration; path is passed as a single argument
	cmd := exec.CommandContext(ctx, p.bin, Args(path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, runErr := cmd.Output()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s: timed out after %s", ErrProbeFailed, path, p.timeout)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("%w: %s: %v%s", ErrProbeFailed, path, runErr, stderrSuffix(stderr.String()))
		}
		return nil, fmt.Errorf("%w: %s: empty output", ErrProbeFailed, path)
	}

	res, err := ParseJSON(out)
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("%s: %w (exit: %v%s)", path, err, runErr, stderrSuffix(stderr.String()))
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Path = path
	if runErr != nil {
		res.Warnings = truncate(strings.TrimSpace(stderr.String()))
		if res.Warnings == "" {
			res.Warnings = runErr.Error()
		}
	}
	return res, nil
}

// ParseJSON converts raw ffprobe JSON output into a Result, validating the
// fields classification depends on. Exported for testing without a real
// ffprobe binary. All errors wrap ErrProbeFailed.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode ffprobe JSON: %w", ErrProbeFailed, err)
	}
	if err := raw.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  *ffprobeFormat   `json:"format"`
	Streams *[]ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

type ffprobeStream struct {
	Index     int               `json:"index"`
	CodecName *string           `json:"codec_name"`
	CodecType *string           `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

// validate rejects responses that carry no metadata at all and streams that
// lack the fields needed to classify them.
func (o *ffprobeOutput) validate() error {
	if o.Format == nil && o.Streams == nil {
		return errors.New("response has neither format nor streams")
	}
	if o.Streams == nil {
		return nil
	}
	for i, s := range *o.Streams {
		if s.CodecType == nil {
			return fmt.Errorf("stream %d: missing codec_type", i)
		}
		switch *s.CodecType {
		case TypeVideo, TypeAudio, TypeSubtitle:
			if s.CodecName == nil || strings.TrimSpace(*s.CodecName) == "" {
				return fmt.Errorf("stream %d (%s): missing codec_name", i, *s.CodecType)
			}
		}
	}
	return nil
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *Result {
	res := &Result{}
	if raw.Format != nil {
		res.FormatName = raw.Format.FormatName
		res.Container = ContainerName(raw.Format.FormatName)
		res.Duration = parseFloat(raw.Format.Duration)
		res.Size = parseInt64(raw.Format.Size)
	}
	if raw.Streams == nil {
		return res
	}

	for _, s := range *raw.Streams {
		st := Stream{
			Index:    s.Index,
			Type:     *s.CodecType,
			Codec:    codec.Normalize(deref(s.CodecName)),
			Language: s.Tags["language"],
		}
		res.Streams = append(res.Streams, st)

		switch st.Type {
		case TypeVideo:
			res.Video.Add(st.Codec)
		case TypeAudio:
			res.Audio.Add(st.Codec)
		case TypeSubtitle:
			res.Subtitles.Add(st.Codec)
		}
	}
	return res
}

// ContainerName returns the canonical container for an ffprobe format_name:
// the first comma-separated alias, normalized. "mov,mp4,m4a,3gp,3g2,mj2"
// yields "mov".
func ContainerName(formatName string) string {
	first, _, _ := strings.Cut(formatName, ",")
	return codec.Normalize(first)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stderrSuffix(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	return " (stderr: " + truncate(stderr) + ")"
}

func truncate(s string) string {
	if len(s) > maxStderr {
		return s[:maxStderr] + "..."
	}
	return s
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
