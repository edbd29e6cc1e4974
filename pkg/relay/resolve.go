package relay

import "strings"

// Resolve joins the configured base address with a request path. Paths that
// already carry an http(s) scheme pass through unchanged; otherwise the
// result contains exactly one slash at the join.
func Resolve(base, path string) string {
	if HasScheme(path) {
		return path
	}

	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// HasScheme reports whether path is already an absolute http(s) URL.
func HasScheme(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
