package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PageRecord represents one successfully fetched policy page.
// Records are created by the crawler, persisted in snapshots and the
// run archive, and consumed by the assembler. A record is immutable
// once the crawler has emitted it.
type PageRecord struct {
	// URL is the canonical absolute URL of the page after
	// normalization (fragment stripped, tracking parameters removed,
	// host lower-cased).
	URL string `json:"url"`

	// Title is the page title extracted from the <title> tag.
	// May be empty when the page declares no title.
	Title string `json:"title"`

	// HTML is the raw response body. Limited to MaxHTMLSize bytes.
	HTML string `json:"html"`

	// FetchedAt is the time the page was fetched, in UTC.
	FetchedAt time.Time `json:"fetched_at"`

	// Hash is the SHA-256 hash of the HTML content.
	// Used for change detection between archived runs.
	Hash string `json:"hash"`
}

// MaxHTMLSize is the maximum size of stored page HTML.
// Policy pages are text-heavy but small; 5MB leaves generous headroom
// while preventing memory exhaustion from unexpected responses.
const MaxHTMLSize = 5 * 1024 * 1024 // 5MB

// ComputeHash calculates and sets the SHA-256 hash of the page HTML.
// Call this after setting the HTML field.
func (p *PageRecord) ComputeHash() {
	if p.HTML == "" {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256([]byte(p.HTML))
	p.Hash = hex.EncodeToString(hash[:])
}

// TruncateHTML ensures the stored HTML doesn't exceed MaxHTMLSize.
// Call this after setting HTML to enforce the size limit.
func (p *PageRecord) TruncateHTML() {
	if len(p.HTML) > MaxHTMLSize {
		p.HTML = p.HTML[:MaxHTMLSize]
	}
}
