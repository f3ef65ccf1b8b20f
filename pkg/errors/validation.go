package errors

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Formats accepted by the render paths of the CLI and the HTTP API.
var Formats = []string{"json", "svg", "dot", "graphviz", "png", "pdf"}

// ValidateFormat checks that format is one of the supported output formats.
// An empty format is rejected; callers apply their own default first.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(Formats, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// layoutIDRegex matches the canonical textual form of a UUID.
var layoutIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateLayoutID checks that id looks like an identifier issued by the
// layout store.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "layout id cannot be empty")
	}
	if !layoutIDRegex.MatchString(strings.ToLower(id)) {
		return New(ErrCodeInvalidID, "invalid layout id: %q", id)
	}
	return nil
}

// ValidateInputFile checks that path names a JSON or YAML input document.
//
// Validation rules:
//   - Non-empty, at most 4096 characters
//   - No null bytes or control characters
//   - Extension .json, .yaml or .yml
func ValidateInputFile(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return nil
	default:
		return New(ErrCodeInvalidPath, "unsupported input file %q (want .json, .yaml or .yml)", path)
	}
}

// ValidateKey checks a cache key for safe use as a file name.
//
// Validation rules:
//   - Non-empty
//   - No path separators or traversal sequences (..)
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) {
		return New(ErrCodeInvalidInput, "key cannot contain path separators")
	}
	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidInput, "key cannot contain path traversal sequences (..)")
	}
	return nil
}
