package webclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

// TestClientRedirects tests the redirect policy.
func TestClientRedirects(t *testing.T) {
	t.Parallel()

	t.Run("follows same-host redirects", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/final", http.StatusFound)
		})
		mux.HandleFunc("/final", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("ok"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := New(WithTimeout(5 * time.Second))
		resp, err := client.Get(srv.URL + "/start")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if resp.Request.URL.Path != "/final" {
			t.Errorf("expected final path, got %s", resp.Request.URL.Path)
		}
	})

	t.Run("refuses cross-host redirects", func(t *testing.T) {
		t.Parallel()

		other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("should never be reached"))
		}))
		defer other.Close()

		// 127.0.0.1 vs localhost gives two distinct hostnames backed
		// by the same interface.
		otherURL, err := url.Parse(other.URL)
		if err != nil {
			t.Fatalf("failed to parse URL: %v", err)
		}
		crossHost := "http://localhost:" + otherURL.Port() + "/elsewhere"

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, crossHost, http.StatusMovedPermanently)
		}))
		defer srv.Close()

		client := New(WithTimeout(5 * time.Second))
		resp, err := client.Get(srv.URL + "/start")
		if err == nil {
			resp.Body.Close()
			t.Fatal("expected redirect refusal")
		}

		var urlErr *url.Error
		if !errors.As(err, &urlErr) || !errors.Is(urlErr.Err, ErrCrossHostRedirect) {
			t.Errorf("expected ErrCrossHostRedirect, got %v", err)
		}
	})
}
