package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode"
)

const pathDigestLen = 12

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters and digits are kept, hyphens and underscores pass through, anything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return unicode.ToLower(r)
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, value)
	out := strings.Trim(mapped, "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

// PathToken names per-file artifacts such as lock files. It keeps the base
// name readable and appends a digest of the full path so equal base names in
// different directories do not collide.
func PathToken(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return SanitizeToken(filepath.Base(path)) + "-" + hex.EncodeToString(sum[:])[:pathDigestLen]
}
