package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFigureName validates a figure name used as an output file stem.
//
// Names are restricted to what is safe as a plain file name:
//   - not empty, at most 128 characters
//   - no control characters
//   - no path separators or traversal sequences
func ValidateFigureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "figure name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "figure name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "figure name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "figure name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// svgIDRegex matches identifiers usable both as an SVG id attribute and as
// a bare CSS id selector.
var svgIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateSVGID validates an id that styles are scoped under.
func ValidateSVGID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "svg id cannot be empty")
	}
	if !svgIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid svg id: %q", id)
	}
	return nil
}

// ValidatePath validates a relative output path inside the build directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
