// Package profile defines the compatibility profile a playback client is
// checked against: the container formats and video, audio and subtitle
// codecs it decodes without server-side transcoding.
//
// A Profile is immutable once built. The default profile models an NVIDIA
// Shield running Jellyfin; custom profiles are loaded from YAML.
package profile

import (
	"errors"
	"fmt"

	"github.com/backmassage/directscan/internal/codec"
)

// DefaultName is the name of the built-in profile.
const DefaultName = "nvidia-shield"

// Profile holds the four allow-lists used for classification.
type Profile struct {
	name       string
	containers codec.Set
	video      codec.Set
	audio      codec.Set
	subtitles  codec.Set
}

// Spec is the mutable input to [New]; it mirrors the YAML file layout.
type Spec struct {
	Name       string   `yaml:"name"`
	Containers []string `yaml:"containers"`
	Video      []string `yaml:"video"`
	Audio      []string `yaml:"audio"`
	Subtitles  []string `yaml:"subtitles"`
}

// New validates spec and builds an immutable Profile. Containers, video and
// audio must each list at least one identifier; an empty subtitle list is
// allowed (every subtitle stream is then unsupported).
func New(spec Spec) (*Profile, error) {
	p := &Profile{
		name:       spec.Name,
		containers: codec.NewSet(spec.Containers...),
		video:      codec.NewSet(spec.Video...),
		audio:      codec.NewSet(spec.Audio...),
		subtitles:  codec.NewSet(spec.Subtitles...),
	}
	if p.name == "" {
		p.name = "custom"
	}
	switch {
	case p.containers.Empty():
		return nil, errors.New("profile must list at least one container")
	case p.video.Empty():
		return nil, errors.New("profile must list at least one video codec")
	case p.audio.Empty():
		return nil, errors.New("profile must list at least one audio codec")
	}
	return p, nil
}

// Default returns the built-in direct-play profile.
func Default() *Profile {
	p, err := New(Spec{
		Name:       DefaultName,
		Containers: []string{"matroska", "mov", "mp4"},
		Video:      []string{"h264", "hevc", "vp9", "mpeg2video", "mpeg4", "vc1"},
		Audio:      []string{"aac", "ac3", "eac3", "dts", "truehd", "flac", "mp3", "opus"},
		Subtitles:  []string{"subrip", "ass", "ssa", "mov_text"},
	})
	if err != nil {
		panic(fmt.Sprintf("default profile: %v", err))
	}
	return p
}

// Name returns the profile name.
func (p *Profile) Name() string { return p.name }

// Containers returns a copy of the allowed container formats.
func (p *Profile) Containers() codec.Set { return p.containers.Clone() }

// Video returns a copy of the allowed video codecs.
func (p *Profile) Video() codec.Set { return p.video.Clone() }

// Audio returns a copy of the allowed audio codecs.
func (p *Profile) Audio() codec.Set { return p.audio.Clone() }

// Subtitles returns a copy of the allowed subtitle codecs.
func (p *Profile) Subtitles() codec.Set { return p.subtitles.Clone() }

// AllowsContainer reports whether format is an allowed container.
func (p *Profile) AllowsContainer(format string) bool { return p.containers.Has(format) }

// AnyVideo reports whether at least one of found is an allowed video codec.
func (p *Profile) AnyVideo(found codec.Set) bool { return found.Intersects(p.video) }

// AnyAudio reports whether at least one of found is an allowed audio codec.
func (p *Profile) AnyAudio(found codec.Set) bool { return found.Intersects(p.audio) }

// AllSubtitles reports whether every codec in found is an allowed subtitle
// codec. An empty set always passes.
func (p *Profile) AllSubtitles(found codec.Set) bool { return found.SubsetOf(p.subtitles) }
