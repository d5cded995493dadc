package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// questionIDRegex matches ids that are safe as element id suffixes
// (matrix-{id}, rating-{id}, ...) and as URL path segments.
var questionIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateQuestionID validates a question identifier.
//
// The id is interpolated into element ids, file names and URL paths, so the
// rules are conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - Only ASCII letters, digits, '_', '.', '-' and no leading punctuation
//   - No ".." sequences
func ValidateQuestionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "question id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidID, "question id too long (max 128 characters)")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "question id cannot contain %q", "..")
	}
	if !questionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid question id: %q", id)
	}
	return nil
}

// ValidateChoiceKey validates an answer-choice key of a frequency table.
// Keys end up as SVG text, so control characters are rejected.
func ValidateChoiceKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidFrequency, "choice key cannot be empty")
	}
	if len(key) > 64 {
		return New(ErrCodeInvalidFrequency, "choice key too long (max 64 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFrequency, "choice key contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a relative output path for rendered artifacts.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateOutputPath(path string) error {
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
