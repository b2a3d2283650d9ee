package crawler

import (
	"net/url"
	"testing"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse URL %q: %v", raw, err)
	}
	return u
}

// TestScopeAllows tests the host + path eligibility rule.
func TestScopeAllows(t *testing.T) {
	t.Parallel()

	start := mustURL(t, "https://support.example.com/policy/a")

	tests := []struct {
		name     string
		patterns []string
		target   string
		want     bool
	}{
		{
			name:     "same host matching pattern",
			patterns: []string{"/policy/*"},
			target:   "https://support.example.com/policy/b",
			want:     true,
		},
		{
			name:     "same host wrong path",
			patterns: []string{"/policy/*"},
			target:   "https://support.example.com/blog/post",
			want:     false,
		},
		{
			name:     "different host",
			patterns: []string{"/policy/*"},
			target:   "https://other.com/policy/b",
			want:     false,
		},
		{
			name:     "host comparison is case-insensitive",
			patterns: []string{"/policy/*"},
			target:   "https://SUPPORT.EXAMPLE.COM/policy/b",
			want:     true,
		},
		{
			name:     "no patterns allows any path on host",
			patterns: nil,
			target:   "https://support.example.com/anything",
			want:     true,
		},
		{
			name:     "prefix pattern matches nested paths",
			patterns: []string{"/policy/*"},
			target:   "https://support.example.com/policy/a/b/c",
			want:     true,
		},
		{
			name:     "prefix pattern matches bare prefix",
			patterns: []string{"/policy/*"},
			target:   "https://support.example.com/policy",
			want:     true,
		},
		{
			name:     "second pattern matches",
			patterns: []string{"/policy/*", "/howitworks/*"},
			target:   "https://support.example.com/howitworks/rules",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scope := NewScope(start, tt.patterns)
			if got := scope.Allows(mustURL(t, tt.target)); got != tt.want {
				t.Errorf("Allows(%s) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

// TestMatchPattern tests glob path matching.
func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/policy/*", "/policy/community", true},
		{"/policy/*", "/policy/community/details", true},
		{"/policy/*", "/policy", true},
		{"/policy/*", "/policies", false},
		{"/api/v?", "/api/v1", true},
		{"/api/v?", "/api/v12", false},
		{"[bad", "/anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.path, func(t *testing.T) {
			t.Parallel()

			if got := matchPattern(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}
