package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxDocumentSize is the largest JSON document accepted for generation.
// Larger documents produce graphs no layout can present legibly.
const MaxDocumentSize = 8 << 20

// ValidateDocumentSize rejects documents larger than [MaxDocumentSize].
func ValidateDocumentSize(n int) error {
	if n > MaxDocumentSize {
		return New(ErrCodeInputTooLarge, "document too large (%d bytes, max %d)", n, MaxDocumentSize)
	}
	return nil
}

// ValidateOutputFilename validates an export filename for safety.
// It ensures the filename is a simple basename without path components,
// since it ends up in a Content-Disposition header.
func ValidateOutputFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFormat, "output filename cannot be empty")
	}
	if filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidFormat, "output filename must not contain path separators: %q", name)
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidFormat, "invalid output filename: %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) || r == '"' {
			return New(ErrCodeInvalidFormat, "output filename contains invalid characters")
		}
	}
	return nil
}
