package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadConfigFile tests YAML config file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads site overrides", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, ".policysnap")
		content := `sites:
  support.example.com:
    allow:
      - "/help/*"
      - "/policy/*"
    selector: "main"
    delay: 2s
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		sc, ok := cf.SiteFor("support.example.com")
		if !ok {
			t.Fatal("expected site config for support.example.com")
		}
		if len(sc.Allow) != 2 {
			t.Errorf("expected 2 allow patterns, got %d", len(sc.Allow))
		}
		if sc.Selector != "main" {
			t.Errorf("unexpected selector: %s", sc.Selector)
		}
		if sc.Delay != 2*time.Second {
			t.Errorf("unexpected delay: %v", sc.Delay)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".policysnap")
		if err := os.WriteFile(path, []byte("sites: [broken"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("empty file yields empty sites map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".policysnap")
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected non-nil sites map")
		}
	})
}

// TestFindConfigFile tests config file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty path, got %s", got)
		}
	})
}
