package util

import (
	"strings"
	"unicode"
)

const maxFileNameLen = 128

// SanitizeFileName makes a client-supplied upload name safe to log: path
// separators and control characters are replaced and the result is
// bounded. Empty or traversal-only names become "upload".
func SanitizeFileName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "..", "_")
	if runes := []rune(s); len(runes) > maxFileNameLen {
		s = string(runes[:maxFileNameLen])
	}
	if strings.Trim(s, "_. ") == "" {
		return "upload"
	}
	return s
}
