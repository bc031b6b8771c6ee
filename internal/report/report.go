// Package report renders scan results: a File / Direct Play / Issues table
// followed by a summary block, plus optional JSON or CSV export.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/backmassage/directscan/internal/classify"
	"github.com/backmassage/directscan/internal/display"
	"github.com/backmassage/directscan/internal/scan"
	"github.com/backmassage/directscan/internal/term"
)

// NoFilesNotice is printed instead of percentages when nothing was scanned.
const NoFilesNotice = "No media files found."

// SubtitlesSkippedNotice is printed when subtitle checks were disabled.
const SubtitlesSkippedNotice = "Subtitle compatibility was not evaluated (--ignore-subs)."

// Options describes the scan a report belongs to.
type Options struct {
	Root            string
	ProfileName     string
	IgnoreSubtitles bool
}

// Writer renders the table and summary to an io.Writer. Rows are aligned
// by a tabwriter and flushed by Summary.
type Writer struct {
	out     io.Writer
	tw      *tabwriter.Writer
	opts    Options
	printer *message.Printer
	rows    int
}

// New returns a Writer printing to out.
func New(out io.Writer, opts Options) *Writer {
	return &Writer{
		out:     out,
		tw:      tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		opts:    opts,
		printer: message.NewPrinter(language.English),
	}
}

// verdictWidth is the visible width of the verdict column. The verdict and
// issue columns are padded by hand because tabwriter counts colour codes
// towards cell width.
const verdictWidth = len("Direct Play")

// Verdict renders a direct-play verdict as "Yes" or "No", coloured when
// colours are enabled.
func Verdict(directPlay bool) string {
	if directPlay {
		return term.Paint(term.Green, "Yes")
	}
	return term.Paint(term.Red, "No")
}

// Row adds one file to the table. The file is shown by base name.
func (w *Writer) Row(path string, o classify.Outcome) {
	if w.rows == 0 {
		w.header()
	}
	w.rows++

	name := filepath.Base(path)
	issues := o.Text()
	if issues == "" {
		fmt.Fprintf(w.tw, "%s\t%s\n", name, Verdict(o.DirectPlay))
		return
	}
	plain := "No"
	if o.DirectPlay {
		plain = "Yes"
	}
	pad := strings.Repeat(" ", verdictWidth-len(plain))
	fmt.Fprintf(w.tw, "%s\t%s%s  %s\n", name, Verdict(o.DirectPlay), pad, issues)
}

func (w *Writer) header() {
	title := "Media Compatibility Report"
	if w.opts.ProfileName != "" {
		title += " (" + w.opts.ProfileName + ")"
	}
	fmt.Fprintln(w.out, term.Paint(term.Bold, title))
	fmt.Fprintln(w.tw, "File\tDirect Play  Issues")
	fmt.Fprintln(w.tw, "----\t-----------  ------")
}

// Summary flushes the table and prints the totals. The titled header is
// printed even when no row was added. With no scanned files it prints
// NoFilesNotice instead of counts and percentages.
func (w *Writer) Summary(s scan.Stats) error {
	if w.rows == 0 {
		w.header()
	}
	if err := w.tw.Flush(); err != nil {
		return err
	}

	p := w.printer
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = p.Fprintf(w.out, format, args...)
		}
	}

	printf("\n")
	if s.Scanned == 0 {
		printf("%s\n", NoFilesNotice)
	} else {
		printf("Summary\n")
		printf("  Files scanned:    %d\n", s.Scanned)
		printf("  Direct play:      %d (%s)\n", s.DirectPlay, display.FormatPercent(s.DirectPercent()))
		printf("  Needs transcode:  %d (%s)\n", s.Transcode, display.FormatPercent(s.TranscodePercent()))
		if s.ProbeErrors > 0 {
			printf("  Probe errors:     %d\n", s.ProbeErrors)
		}
		printf("  Library size:     %s (%s needs transcode)\n",
			display.FormatBytes(s.ScannedBytes), display.FormatBytes(s.TranscodeBytes))
	}
	if w.opts.IgnoreSubtitles {
		printf("%s\n", SubtitlesSkippedNotice)
	}
	return err
}
