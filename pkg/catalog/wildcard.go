package catalog

import "strings"

// Match reports whether key is denoted by pattern. Both must be normalized
// absolute paths. The wildcard token matches exactly one segment and never
// crosses a separator. A key extending below a fully matched pattern is a
// descendant match, so a node prefix denotes its whole subtree.
func Match(pattern, key string) bool {
	if pattern == Separator {
		return true
	}

	pat := strings.Split(pattern, Separator)
	seg := strings.Split(key, Separator)

	if len(seg) < len(pat) {
		return false
	}
	for i, p := range pat {
		if p != Wildcard && p != seg[i] {
			return false
		}
	}
	return true
}

// IsDescendant reports whether key lies strictly below path, at any depth.
func IsDescendant(path, key string) bool {
	if path == Separator {
		return len(key) > len(Separator)
	}
	return strings.HasPrefix(key, path+Separator)
}
