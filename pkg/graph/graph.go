package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/procmap/pkg/errors"
)

// Input encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type decoder interface{ Decode(v any) error }

var decoders = map[string]func(io.Reader) decoder{
	FormatJSON: func(r io.Reader) decoder { return json.NewDecoder(r) },
	FormatYAML: func(r io.Reader) decoder { return yaml.NewDecoder(r) },
}

// ReadInput decodes an input document and validates it. An empty format
// means JSON.
func ReadInput(r io.Reader, format string) (Input, error) {
	if format == "" {
		format = FormatJSON
	}
	newDecoder, ok := decoders[format]
	if !ok {
		return Input{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", format)
	}

	var in Input
	if err := newDecoder(r).Decode(&in); err != nil {
		return Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", format)
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// ReadInputFile is ReadInput on a file, with the format taken from its
// extension.
func ReadInputFile(path string) (Input, error) {
	if err := errors.ValidateInputFile(path); err != nil {
		return Input{}, err
	}
	f, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
		return Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	case err != nil:
		return Input{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInput(f, FormatOf(path))
}

// UnmarshalInput decodes a JSON input document.
func UnmarshalInput(data []byte) (Input, error) {
	return ReadInput(bytes.NewReader(data), FormatJSON)
}

// FormatOf maps .yaml and .yml to FormatYAML and everything else to
// FormatJSON.
func FormatOf(path string) string {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		return FormatYAML
	}
	return FormatJSON
}

// MarshalLayout encodes l as indented JSON with a trailing newline.
func MarshalLayout(l Layout) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return append(data, '\n'), nil
}

func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes l to path, replacing any existing file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
