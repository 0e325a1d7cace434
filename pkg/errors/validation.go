package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a repository-relative item path.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No ".." path segments
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// gemNameRegex matches names RubyGems accepts for a gem.
var gemNameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateGemName validates a RubyGems package name.
func ValidateGemName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "gem name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "gem name too long (max 256 characters)")
	}
	if !gemNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid gem name: %q", name)
	}
	if !strings.ContainsFunc(name, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) {
		return New(ErrCodeInvalidPackage, "gem name must contain a letter or digit: %q", name)
	}
	return nil
}
