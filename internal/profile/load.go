package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML profile from path. Unknown keys are rejected so that a
// typo (e.g. "subtitle:") fails loudly instead of silently allowing nothing.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a YAML profile document.
func Parse(data []byte) (*Profile, error) {
	var spec Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty profile document")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return New(spec)
}

// Resolve returns the profile at path, or [Default] when path is empty.
func Resolve(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
