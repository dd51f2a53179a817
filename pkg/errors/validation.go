package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// optionIDRegex matches dotted option identifiers such as
// "layered.considerModelOrder.strategy".
var optionIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*(\.[A-Za-z][A-Za-z0-9_-]*)*$`)

// ValidateOptionID validates a layout option identifier.
//
// Option IDs are dot-separated segments, each starting with a letter, with a
// maximum length of 256 characters.
func ValidateOptionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidOption, "option id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidOption, "option id too long (max 256 characters)")
	}
	if !optionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidOption, "invalid option id: %q", id)
	}
	return nil
}

// ValidateElementName validates a node, port or edge name from an input
// graph or configuration file.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateElementName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "element name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "element name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "element name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a file path passed on the command line or in an API
// request for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
