package crawler

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Scope decides which discovered links are eligible for traversal:
// the host must equal the start URL's host and the path must match at
// least one allow pattern. Out-of-scope links are recorded by the
// spider but never fetched.
type Scope struct {
	// host is the start URL's host, compared case-insensitively.
	host string

	// allowPatterns are glob patterns on the URL path. Empty means any
	// path on the host is eligible.
	allowPatterns []string
}

// NewScope creates a scope rooted at the given start URL.
func NewScope(start *url.URL, allowPatterns []string) *Scope {
	return &Scope{
		host:          start.Host,
		allowPatterns: allowPatterns,
	}
}

// Allows reports whether the URL is eligible for traversal.
func (s *Scope) Allows(u *url.URL) bool {
	if !strings.EqualFold(u.Host, s.host) {
		return false
	}

	if len(s.allowPatterns) == 0 {
		return true
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range s.allowPatterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//
// A trailing "/*" additionally matches the bare prefix and any depth
// below it, so "/policy/*" matches "/policy", "/policy/a", and
// "/policy/a/b".
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	return matched
}
