package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/policysnap/policysnap/internal/model"
)

// Save writes the crawl result to path as pretty-printed JSON.
//
// The write is atomic: content goes to a temp file in the target
// directory first and is renamed into place, so a crash mid-write
// never leaves a truncated snapshot behind.
func Save(path string, result *model.CrawlResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	return nil
}

// Load reads a crawl result back from a snapshot file. Order and
// content round-trip exactly: Load(Save(r)) yields a result equal
// to r.
func Load(path string) (*model.CrawlResult, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided snapshot path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var result model.CrawlResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}

	return &result, nil
}
