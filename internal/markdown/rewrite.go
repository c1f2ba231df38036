package markdown

import (
	"path"
	"strings"
)

// RewriteDestination maps a markdown link destination to its published URL.
//
// External destinations (anything with a scheme), pure fragments, and
// protocol-relative URLs pass through untouched. Root-relative destinations
// get the base path prefix. Relative destinations are resolved against the
// post's source directory to a root-relative URL, then prefixed.
func RewriteDestination(dest, basePath, sourceDir string) string {
	if dest == "" || isExternal(dest) || strings.HasPrefix(dest, "#") {
		return dest
	}

	// Preserve fragment and query across path cleaning.
	suffix := ""
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		suffix = dest[i:]
		dest = dest[:i]
	}
	if dest == "" {
		return suffix
	}

	// path.Clean/Join drop a trailing slash, but directory-style URLs are
	// the canonical form for post routes; put it back.
	trailingSlash := strings.HasSuffix(dest, "/")

	var rooted string
	if strings.HasPrefix(dest, "/") {
		rooted = path.Clean(dest)
	} else {
		rooted = path.Join("/", sourceDir, dest)
	}
	if trailingSlash && rooted != "/" {
		rooted += "/"
	}

	return basePath + rooted + suffix
}

func isExternal(dest string) bool {
	if strings.HasPrefix(dest, "//") {
		return true
	}
	// A scheme before any slash marks an absolute URL (http:, https:,
	// mailto:, data:, ...).
	i := strings.Index(dest, ":")
	if i < 0 {
		return false
	}
	slash := strings.Index(dest, "/")
	return slash < 0 || i < slash
}
