package core

import (
	"path"
	"strings"
)

// MatchesAny reports whether filePath matches any of the glob-style patterns.
//
// A pattern matches either by standard glob matching against the full path,
// or, when the pattern contains a path separator, as a prefix match with the
// trailing wildcard stripped. The prefix rule is what makes "lambda/*" catch
// anything under that directory even when glob depth rules would not.
//
// Malformed patterns never fail the call; they simply do not match.
func MatchesAny(filePath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesPattern(filePath, pattern) {
			return true
		}
	}
	return false
}

func matchesPattern(filePath, pattern string) bool {
	// path.Match does not cross "/" with "*", so also try the basename
	// to mirror fnmatch behavior for extension patterns like "*.tf".
	if ok, err := path.Match(pattern, filePath); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, err := path.Match(pattern, path.Base(filePath)); err == nil && ok {
			return true
		}
	}
	if strings.Contains(pattern, "/") {
		prefix := strings.TrimRight(pattern, "*")
		if prefix != "" && strings.HasPrefix(filePath, prefix) {
			return true
		}
	}
	return false
}
