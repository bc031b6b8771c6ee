package probe

import "github.com/backmassage/directscan/internal/codec"

// Stream type names as reported in ffprobe's codec_type field.
const (
	TypeVideo    = "video"
	TypeAudio    = "audio"
	TypeSubtitle = "subtitle"
)

// Stream holds the parsed properties of a single stream of any type.
type Stream struct {
	Index    int
	Type     string
	Codec    string
	Language string
}

// Result is the parsed output of a single ffprobe call.
//
// Container is the first comma-separated alias of FormatName ("matroska"
// for "matroska,webm"). The codec sets hold the codec names of streams of
// the matching type in stream order; other stream types are recorded in
// Streams only.
type Result struct {
	Path       string
	FormatName string
	Container  string
	Duration   float64
	Size       int64

	Video     codec.Set
	Audio     codec.Set
	Subtitles codec.Set
	Streams   []Stream

	// Warnings is ffprobe's stderr when it exited non-zero but still
	// produced usable JSON.
	Warnings string
}
