package assembler

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/policysnap/policysnap/internal/content"
	"github.com/policysnap/policysnap/internal/model"
)

// Assembler turns a sequence of crawled page records into one ordered,
// de-duplicated Document. Assembly is deterministic: the same input
// always yields the same output, and it never fails. Malformed HTML
// degrades to best-effort text extraction.
type Assembler struct {
	// selector identifies the main content region; it must match the
	// selector the crawler discovered links with.
	selector string

	logger *slog.Logger

	// titleCaser title-cases placeholder headings derived from page
	// titles.
	titleCaser cases.Caser
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithContentSelector sets the CSS selector list for the main content
// region.
func WithContentSelector(selector string) Option {
	return func(a *Assembler) {
		a.selector = selector
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// New creates an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		selector:   "article, main, [role=main]",
		logger:     slog.Default(),
		titleCaser: cases.Title(language.English),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assemble builds the Document from page records in their crawl
// discovery order. Sections within a page keep document order; a
// section whose normalized body text exactly matches an earlier
// section's is dropped (first occurrence wins), and Order stays a
// dense zero-based sequence across the drops.
func (a *Assembler) Assemble(result *model.CrawlResult) *model.Document {
	doc := &model.Document{
		GeneratedAt: time.Now().UTC(),
		StartURL:    result.StartURL,
		PageCount:   result.PageCount(),
		Sections:    make([]model.Section, 0),
	}

	seenBodies := make(map[string]bool)
	order := 0

	for _, page := range result.Pages {
		sections, fallback := content.ExtractSections(page.HTML, a.selector)
		if fallback {
			a.logger.Debug("degraded extraction for page", "url", page.URL)
		}

		for _, sec := range sections {
			normalized := normalizeBody(sec.Body)
			if normalized != "" && seenBodies[normalized] {
				a.logger.Debug("dropping duplicate section",
					"url", page.URL,
					"heading", sec.Heading,
				)
				continue
			}
			if normalized != "" {
				seenBodies[normalized] = true
			}

			doc.Sections = append(doc.Sections, model.Section{
				Heading:   a.normalizeHeading(sec.Heading, page.Title),
				BodyText:  sec.Body,
				SourceURL: page.URL,
				Order:     order,
			})
			order++
		}
	}

	return doc
}

// normalizeBody produces the comparable form of a section body used
// for de-duplication: whitespace collapsed to single spaces and
// lower-cased. Shared boilerplate (disclaimers, footers that slipped
// into the content region) normalizes identically across pages.
func normalizeBody(body string) string {
	return strings.ToLower(strings.Join(strings.Fields(body), " "))
}

// normalizeHeading trims and collapses the heading to single-space
// separated form. Headings that are empty after trimming get a
// placeholder derived from the source page's title.
func (a *Assembler) normalizeHeading(heading, pageTitle string) string {
	h := strings.Join(strings.Fields(heading), " ")
	if h != "" {
		return h
	}

	title := strings.Join(strings.Fields(pageTitle), " ")
	if title == "" {
		return "Untitled"
	}
	return a.titleCaser.String(title)
}
