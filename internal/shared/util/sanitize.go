package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameLen = 255

// ErrInvalidFileName is returned for names that are empty or try to escape a directory.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, drops control characters and caps the length
// of a client-supplied upload name.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		s = strings.ToValidUTF8(s[:maxFileNameLen], "")
	}
	return s, nil
}
