// Package fileutil provides file, path, and output naming utilities.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-deck2pptx/internal/dateutil"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPattern    = errors.New("filename pattern cannot be empty")
	ErrUnclosedPattern = errors.New("filename pattern has an unclosed token")
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (name)
//   - "./custom.yaml" -> true (relative path)
//   - "../shared/config.yaml" -> true (parent path)
//   - "/absolute/path.yaml" -> true (absolute)
//   - "C:\windows\path.yaml" -> true (Windows)
//   - "my-config" -> false (hyphenated name)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// EnsureDir creates dir and any missing parents. A blank dir means the
// current directory and is a no-op.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// SafeFileName replaces characters that break file paths with hyphens and
// trims the result. Deck names are user-controlled, so this runs before a
// name reaches a filename pattern.
func SafeFileName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '-'
		}
		return r
	}, name)
	mapped = strings.Trim(mapped, " -.")
	if mapped == "" {
		return "deck"
	}
	return mapped
}

// OutputName expands a filename pattern for one conversion.
//
// Tokens:
//   - {id}          presentation identifier
//   - {name}        deck name, sanitized for filesystem use
//   - {date}        date in YYYY-MM-DD
//   - {date:FORMAT} date with dateutil tokens or a preset (iso, us, ...)
//   - {ext}         output extension without the dot
//
// Text outside tokens is preserved. Unknown tokens are preserved literally,
// braces included, so patterns fail loudly in the filename instead of
// silently dropping text.
func OutputName(pattern, id, name, ext string, now time.Time) (string, error) {
	if pattern == "" {
		return "", ErrEmptyPattern
	}

	var out strings.Builder
	out.Grow(len(pattern) + 16)

	i := 0
	for i < len(pattern) {
		if pattern[i] != '{' {
			out.WriteByte(pattern[i])
			i++
			continue
		}

		end := strings.IndexByte(pattern[i:], '}')
		if end == -1 {
			return "", fmt.Errorf("%w: at position %d", ErrUnclosedPattern, i)
		}

		token := pattern[i+1 : i+end]
		switch {
		case token == "id":
			out.WriteString(id)
		case token == "name":
			out.WriteString(SafeFileName(name))
		case token == "ext":
			out.WriteString(ext)
		case token == "date":
			date, err := dateutil.ResolveDate("auto", now)
			if err != nil {
				return "", err
			}
			out.WriteString(SafeFileName(date))
		case strings.HasPrefix(token, "date:"):
			// Presets like "us" resolve with slashes; sanitize so a date
			// never introduces path components.
			date, err := dateutil.ResolveDate("auto:"+token[len("date:"):], now)
			if err != nil {
				return "", err
			}
			out.WriteString(SafeFileName(date))
		default:
			out.WriteString(pattern[i : i+end+1])
		}
		i += end + 1
	}

	return out.String(), nil
}
