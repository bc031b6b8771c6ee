// Package probe provides ffprobe-based media inspection and a typed result.
//
// One ffprobe call per file requests JSON stream and format metadata:
//
//	ffprobe -v error -print_format json -show_streams -show_format <path>
//
// The response is decoded into wire types, validated, and converted into a
// [Result] holding the canonical container name and the video, audio and
// subtitle codec sets. Anything that does not yield a usable response
// (launch failure, empty output, bad JSON, missing required fields) is
// reported as an error wrapping [ErrProbeFailed].
package probe
