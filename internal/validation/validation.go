// Package validation checks user-supplied paths, archive entry names and file
// sizes before the corpus loader or report sinks touch the filesystem.
package validation

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/JuniperReports/core/errors"
)

// Limits on input size (CWE-400).
const (
	// MaxFileSize is the largest scripture file read into memory (256 MB).
	MaxFileSize = 256 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Validation errors. All of them match errors.ErrInvalidInput.
var (
	ErrEmptyPath        = fmt.Errorf("%w: path cannot be empty", errors.ErrInvalidInput)
	ErrPathTooLong      = fmt.Errorf("%w: path too long", errors.ErrInvalidInput)
	ErrInvalidCharacter = fmt.Errorf("%w: invalid character in path", errors.ErrInvalidInput)
	ErrPathTraversal    = fmt.Errorf("%w: path traversal detected", errors.ErrInvalidInput)
	ErrFileTooLarge     = fmt.Errorf("%w: file too large", errors.ErrInvalidInput)
)

// ValidatePath rejects empty or overlong paths and paths containing control
// characters.
func ValidatePath(p string) error {
	if p == "" {
		return ErrEmptyPath
	}
	if len(p) > MaxPathLength {
		return ErrPathTooLong
	}
	for _, r := range p {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q", ErrInvalidCharacter, r)
		}
	}
	return nil
}

// EntryName cleans a slash-separated archive entry name. Absolute names and
// names that climb out of the archive root are rejected.
func EntryName(name string) (string, error) {
	if err := ValidatePath(name); err != nil {
		return "", err
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}
	return clean, nil
}

// CheckSize rejects files larger than MaxFileSize.
func CheckSize(name string, size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, name, size, MaxFileSize)
	}
	return nil
}
