package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/directscan/internal/classify"
	"github.com/backmassage/directscan/internal/scan"
)

// Document is the JSON export layout.
type Document struct {
	ScanID          string       `json:"scan_id"`
	GeneratedAt     time.Time    `json:"generated_at"`
	Root            string       `json:"root"`
	Profile         string       `json:"profile"`
	IgnoreSubtitles bool         `json:"ignore_subtitles"`
	Summary         SummaryJSON  `json:"summary"`
	Files           []FileRecord `json:"files"`
}

// SummaryJSON mirrors scan.Stats with percentages resolved. Percentages are
// omitted when no file was scanned.
type SummaryJSON struct {
	Scanned          int      `json:"scanned"`
	DirectPlay       int      `json:"direct_play"`
	Transcode        int      `json:"transcode"`
	ProbeErrors      int      `json:"probe_errors"`
	DirectPercent    *float64 `json:"direct_percent,omitempty"`
	TranscodePercent *float64 `json:"transcode_percent,omitempty"`
	ScannedBytes     int64    `json:"scanned_bytes"`
	TranscodeBytes   int64    `json:"transcode_bytes"`
}

// FileRecord is one exported file.
type FileRecord struct {
	Path       string           `json:"path"`
	Size       int64            `json:"size"`
	DirectPlay bool             `json:"direct_play"`
	Issues     string           `json:"issues"`
	Details    []classify.Issue `json:"details,omitempty"`
	Container  string           `json:"container,omitempty"`
	Video      []string         `json:"video,omitempty"`
	Audio      []string         `json:"audio,omitempty"`
	Subtitles  []string         `json:"subtitles,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// NewDocument assembles the export document for a finished scan.
func NewDocument(scanID string, opts Options, entries []scan.Entry, stats scan.Stats) Document {
	doc := Document{
		ScanID:          scanID,
		GeneratedAt:     time.Now().UTC(),
		Root:            opts.Root,
		Profile:         opts.ProfileName,
		IgnoreSubtitles: opts.IgnoreSubtitles,
		Summary: SummaryJSON{
			Scanned:        stats.Scanned,
			DirectPlay:     stats.DirectPlay,
			Transcode:      stats.Transcode,
			ProbeErrors:    stats.ProbeErrors,
			ScannedBytes:   stats.ScannedBytes,
			TranscodeBytes: stats.TranscodeBytes,
		},
		Files: make([]FileRecord, 0, len(entries)),
	}
	if stats.Scanned > 0 {
		direct, transcode := stats.DirectPercent(), stats.TranscodePercent()
		doc.Summary.DirectPercent = &direct
		doc.Summary.TranscodePercent = &transcode
	}
	for _, e := range entries {
		doc.Files = append(doc.Files, newFileRecord(e))
	}
	return doc
}

func newFileRecord(e scan.Entry) FileRecord {
	rec := FileRecord{
		Path:       e.Path,
		Size:       e.Size,
		DirectPlay: e.Outcome.DirectPlay,
		Issues:     e.Outcome.Text(),
		Details:    e.Outcome.Issues,
	}
	if e.Result != nil {
		rec.Container = e.Result.Container
		rec.Video = e.Result.Video.Names()
		rec.Audio = e.Result.Audio.Names()
		rec.Subtitles = e.Result.Subtitles.Names()
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}
	return rec
}

// Export writes the report to path, as JSON or CSV depending on the file
// extension. The file is replaced atomically; parent directories are
// created as needed.
func Export(path string, doc Document) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode JSON report: %w", err)
		}
	case ".csv":
		if err := writeCSV(&buf, doc); err != nil {
			return fmt.Errorf("encode CSV report: %w", err)
		}
	default:
		return fmt.Errorf("unsupported report format %q (use .json or .csv)", filepath.Ext(path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

var csvHeader = []string{"path", "direct_play", "issues", "container", "video", "audio", "subtitles", "size"}

func writeCSV(buf *bytes.Buffer, doc Document) error {
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range doc.Files {
		row := []string{
			f.Path,
			strconv.FormatBool(f.DirectPlay),
			f.Issues,
			f.Container,
			strings.Join(f.Video, " "),
			strings.Join(f.Audio, " "),
			strings.Join(f.Subtitles, " "),
			strconv.FormatInt(f.Size, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
