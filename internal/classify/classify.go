// Package classify decides whether a probed file can be direct-played by a
// client described by a [profile.Profile].
package classify

import (
	"strings"

	"github.com/backmassage/directscan/internal/codec"
	"github.com/backmassage/directscan/internal/probe"
	"github.com/backmassage/directscan/internal/profile"
)

// Kind identifies which check produced an Issue.
type Kind string

const (
	KindProbe     Kind = "probe"
	KindContainer Kind = "container"
	KindVideo     Kind = "video"
	KindAudio     Kind = "audio"
	KindSubtitles Kind = "subtitles"
)

var kindLabels = map[Kind]string{
	KindContainer: "Container",
	KindVideo:     "Video",
	KindAudio:     "Audio",
	KindSubtitles: "Subtitles",
}

// Issue is one reason a file needs transcoding. Values lists the offending
// identifiers: the container name, or every codec of that stream type found
// in the file.
type Issue struct {
	Kind   Kind     `json:"kind"`
	Values []string `json:"values"`
}

// String renders the issue as "Video: av1, vp8". A probe failure renders as
// "Probe error"; a check with nothing found keeps an empty list ("Audio: ").
func (i Issue) String() string {
	if i.Kind == KindProbe {
		return "Probe error"
	}
	return kindLabels[i.Kind] + ": " + strings.Join(i.Values, ", ")
}

// Outcome is the verdict for one file. DirectPlay is true exactly when
// Issues is empty.
type Outcome struct {
	DirectPlay bool
	Issues     []Issue
}

// Text joins the issue strings with ", " in check order.
func (o Outcome) Text() string {
	parts := make([]string, len(o.Issues))
	for i, is := range o.Issues {
		parts[i] = is.String()
	}
	return strings.Join(parts, ", ")
}

// ProbeFailed reports whether the outcome records a probe failure.
func (o Outcome) ProbeFailed() bool {
	return len(o.Issues) == 1 && o.Issues[0].Kind == KindProbe
}

// Options tunes classification.
type Options struct {
	// IgnoreSubtitles skips the subtitle check entirely.
	IgnoreSubtitles bool
}

// ProbeFailure returns the outcome recorded for a file ffprobe could not
// inspect.
func ProbeFailure() Outcome {
	return Outcome{Issues: []Issue{{Kind: KindProbe}}}
}

// Classify runs every check against res and p in a fixed order (container,
// video, audio, subtitles). Checks never short-circuit, so a file may carry
// several issues. Video and audio pass when at least one stream codec is
// allowed; subtitles pass when there are none or all of them are allowed.
func Classify(res *probe.Result, p *profile.Profile, opts Options) Outcome {
	var issues []Issue

	if !p.AllowsContainer(res.Container) {
		issues = append(issues, found(KindContainer, codec.NewSet(res.Container)))
	}
	if !p.AnyVideo(res.Video) {
		issues = append(issues, found(KindVideo, res.Video))
	}
	if !p.AnyAudio(res.Audio) {
		issues = append(issues, found(KindAudio, res.Audio))
	}
	if !opts.IgnoreSubtitles && !res.Subtitles.Empty() && !p.AllSubtitles(res.Subtitles) {
		issues = append(issues, found(KindSubtitles, res.Subtitles))
	}

	return Outcome{DirectPlay: len(issues) == 0, Issues: issues}
}

func found(kind Kind, s codec.Set) Issue {
	return Issue{Kind: kind, Values: s.Names()}
}
