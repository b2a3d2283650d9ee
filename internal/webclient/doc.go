// Package webclient builds the pre-configured HTTP client handed to
// the crawler. Keeping client construction separate from the crawler
// mirrors how transport setup is injected rather than owned: the
// spider receives a ready client, which also lets tests substitute
// httptest-backed clients freely.
package webclient
