package model

import "time"

// Section is the atomic unit of the assembled document: one heading
// plus the body text extracted under it, attributed to the page it
// came from.
type Section struct {
	// Heading is the normalized section heading. Never empty after
	// assembly: pages without headings get a placeholder derived from
	// the page title.
	Heading string `json:"heading"`

	// BodyText is the extracted readable text of the section.
	BodyText string `json:"body_text"`

	// SourceURL is the URL of the page the section was extracted from.
	SourceURL string `json:"source_url"`

	// Order is the section's position in the document: a dense
	// zero-based sequence assigned once during assembly and never
	// reused or reassigned afterwards.
	Order int `json:"order"`
}

// Document is the terminal artifact of the assembly pass: an ordered,
// de-duplicated sequence of sections ready for rendering. Renderers
// receive the document by value transfer and must not mutate it.
type Document struct {
	// GeneratedAt is when the document was assembled, in UTC.
	GeneratedAt time.Time `json:"generated_at"`

	// StartURL is the URL the underlying crawl started from.
	StartURL string `json:"start_url"`

	// PageCount is the number of crawled pages the document was
	// assembled from (before de-duplication).
	PageCount int `json:"page_count"`

	// Sections holds the assembled sections in order.
	Sections []Section `json:"sections"`
}

// SectionCount returns the number of sections in the document.
func (d *Document) SectionCount() int {
	return len(d.Sections)
}

// SourcePages returns the distinct source URLs in first-appearance
// order. Used by renderers to build per-page groupings.
func (d *Document) SourcePages() []string {
	seen := make(map[string]bool, len(d.Sections))
	pages := make([]string, 0)
	for _, s := range d.Sections {
		if !seen[s.SourceURL] {
			seen[s.SourceURL] = true
			pages = append(pages, s.SourceURL)
		}
	}
	return pages
}

// SectionsForPage returns the sections attributed to the given source
// URL, preserving document order.
func (d *Document) SectionsForPage(sourceURL string) []Section {
	sections := make([]Section, 0)
	for _, s := range d.Sections {
		if s.SourceURL == sourceURL {
			sections = append(sections, s)
		}
	}
	return sections
}
