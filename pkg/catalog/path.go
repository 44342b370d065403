package catalog

import (
	"fmt"
	"go/token"
	"strings"
)

// EscapeMarker is appended to path segments that collide with reserved
// identifiers of the addressing layer. It is stripped again before a path
// reaches the provider.
const EscapeMarker = "_"

// Separator delimits path segments.
const Separator = "/"

// Wildcard is the token matching exactly one path segment.
const Wildcard = "*"

// EscapeSegment appends the escape marker when seg is a reserved
// identifier. Already-escaped segments are returned unchanged.
func EscapeSegment(seg string) string {
	if token.IsKeyword(seg) {
		return seg + EscapeMarker
	}
	return seg
}

// UnescapeSegment strips the escape marker from a reserved-identifier
// segment. Segments that are not escaped forms are returned unchanged.
func UnescapeSegment(seg string) string {
	if trimmed, ok := strings.CutSuffix(seg, EscapeMarker); ok && token.IsKeyword(trimmed) {
		return trimmed
	}
	return seg
}

// NormalizePath lowercases path and escapes reserved-identifier segments.
// Normalization is idempotent. Fails with ErrMalformedPath when path lacks
// the leading separator.
func NormalizePath(path string) (string, error) {
	if !strings.HasPrefix(path, Separator) {
		return "", fmt.Errorf("%w: %q lacks leading %q", ErrMalformedPath, path, Separator)
	}

	segments := strings.Split(strings.ToLower(path), Separator)
	for i, seg := range segments {
		segments[i] = EscapeSegment(UnescapeSegment(seg))
	}
	return strings.Join(segments, Separator), nil
}

// WirePath strips every escape marker from a normalized path, yielding the
// form the provider understands.
func WirePath(path string) string {
	segments := strings.Split(path, Separator)
	for i, seg := range segments {
		segments[i] = UnescapeSegment(seg)
	}
	return strings.Join(segments, Separator)
}

// ContainsWildcard reports whether any segment of path is the wildcard
// token.
func ContainsWildcard(path string) bool {
	for _, seg := range strings.Split(path, Separator) {
		if seg == Wildcard {
			return true
		}
	}
	return false
}
