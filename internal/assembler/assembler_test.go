package assembler

import (
	"reflect"
	"testing"
	"time"

	"github.com/policysnap/policysnap/internal/model"
)

func record(url, title, html string) *model.PageRecord {
	return &model.PageRecord{
		URL:       url,
		Title:     title,
		HTML:      html,
		FetchedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func resultWith(pages ...*model.PageRecord) *model.CrawlResult {
	r := model.NewCrawlResult("https://example.com/policy/a")
	for _, p := range pages {
		r.AddPage(p)
	}
	return r
}

// TestAssembleOrdering tests discovery-order pages and dense section order.
func TestAssembleOrdering(t *testing.T) {
	t.Parallel()

	result := resultWith(
		record("https://example.com/policy/a", "Policy A",
			`<article><h1>First</h1><p>alpha</p><h2>Second</h2><p>beta</p></article>`),
		record("https://example.com/policy/b", "Policy B",
			`<article><h1>Third</h1><p>gamma</p></article>`),
	)

	doc := New(WithContentSelector("article")).Assemble(result)

	if doc.SectionCount() != 3 {
		t.Fatalf("expected 3 sections, got %d", doc.SectionCount())
	}

	wantHeadings := []string{"First", "Second", "Third"}
	for i, want := range wantHeadings {
		if doc.Sections[i].Heading != want {
			t.Errorf("section %d: expected heading %q, got %q", i, want, doc.Sections[i].Heading)
		}
		if doc.Sections[i].Order != i {
			t.Errorf("section %d: expected dense order %d, got %d", i, i, doc.Sections[i].Order)
		}
	}

	if doc.Sections[2].SourceURL != "https://example.com/policy/b" {
		t.Errorf("unexpected source attribution: %s", doc.Sections[2].SourceURL)
	}
	if doc.PageCount != 2 {
		t.Errorf("expected page count 2, got %d", doc.PageCount)
	}
	if doc.StartURL != "https://example.com/policy/a" {
		t.Errorf("unexpected start URL: %s", doc.StartURL)
	}
}

// TestAssembleDeduplication tests first-occurrence-wins body dedup.
func TestAssembleDeduplication(t *testing.T) {
	t.Parallel()

	t.Run("shared boilerplate emitted once, attributed to first page", func(t *testing.T) {
		t.Parallel()

		const boilerplate = "All content must comply with community standards."

		result := resultWith(
			record("https://example.com/policy/a", "Policy A",
				`<article><h1>A</h1><p>Unique to A.</p><h2>Disclaimer</h2><p>`+boilerplate+`</p></article>`),
			record("https://example.com/policy/b", "Policy B",
				`<article><h1>B</h1><p>Unique to B.</p><h2>Disclaimer</h2><p>`+boilerplate+`</p></article>`),
		)

		doc := New(WithContentSelector("article")).Assemble(result)

		count := 0
		for _, s := range doc.Sections {
			if s.BodyText == boilerplate {
				count++
				if s.SourceURL != "https://example.com/policy/a" {
					t.Errorf("boilerplate attributed to %s, expected first page", s.SourceURL)
				}
			}
		}
		if count != 1 {
			t.Errorf("boilerplate emitted %d times, expected 1", count)
		}
	})

	t.Run("dedup compares whitespace-collapsed lower-cased text", func(t *testing.T) {
		t.Parallel()

		result := resultWith(
			record("https://example.com/policy/a", "A",
				`<article><h1>One</h1><p>Shared   Sentence here.</p></article>`),
			record("https://example.com/policy/b", "B",
				`<article><h1>Two</h1><p>shared sentence HERE.</p></article>`),
		)

		doc := New(WithContentSelector("article")).Assemble(result)
		if doc.SectionCount() != 1 {
			t.Errorf("expected 1 section after dedup, got %d", doc.SectionCount())
		}
	})

	t.Run("order stays dense across drops", func(t *testing.T) {
		t.Parallel()

		result := resultWith(
			record("https://example.com/policy/a", "A",
				`<article><h1>One</h1><p>dup</p><h2>Two</h2><p>keep</p></article>`),
			record("https://example.com/policy/b", "B",
				`<article><h1>Three</h1><p>dup</p><h2>Four</h2><p>also keep</p></article>`),
		)

		doc := New(WithContentSelector("article")).Assemble(result)

		for i, s := range doc.Sections {
			if s.Order != i {
				t.Errorf("section %d has order %d, sequence not dense", i, s.Order)
			}
		}
	})
}

// TestAssembleIdempotence tests that assembly is deterministic.
func TestAssembleIdempotence(t *testing.T) {
	t.Parallel()

	result := resultWith(
		record("https://example.com/policy/a", "Policy A",
			`<article><h1>Rules</h1><p>Be kind.</p><p>Shared text.</p></article>`),
		record("https://example.com/policy/b", "Policy B",
			`<article><p>Shared text.</p><h2>More</h2><p>Extra.</p></article>`),
	)

	first := New(WithContentSelector("article")).Assemble(result)
	second := New(WithContentSelector("article")).Assemble(result)

	if !reflect.DeepEqual(first.Sections, second.Sections) {
		t.Errorf("assembly is not deterministic:\nfirst:  %+v\nsecond: %+v", first.Sections, second.Sections)
	}
}

// TestAssembleHeadings tests heading normalization and placeholders.
func TestAssembleHeadings(t *testing.T) {
	t.Parallel()

	t.Run("headings are trimmed and collapsed", func(t *testing.T) {
		t.Parallel()

		result := resultWith(
			record("https://example.com/policy/a", "A",
				"<article><h1>  Spaced\n   Heading  </h1><p>body</p></article>"),
		)

		doc := New(WithContentSelector("article")).Assemble(result)
		if doc.Sections[0].Heading != "Spaced Heading" {
			t.Errorf("unexpected heading: %q", doc.Sections[0].Heading)
		}
	})

	t.Run("page with no headings gets title-derived placeholder", func(t *testing.T) {
		t.Parallel()

		result := resultWith(
			record("https://example.com/policy/a", "community guidelines overview",
				`<article><p>Body text.</p></article>`),
		)

		doc := New(WithContentSelector("article")).Assemble(result)
		if doc.SectionCount() != 1 {
			t.Fatalf("expected 1 section, got %d", doc.SectionCount())
		}
		if doc.Sections[0].Heading != "Community Guidelines Overview" {
			t.Errorf("unexpected placeholder heading: %q", doc.Sections[0].Heading)
		}
	})

	t.Run("no heading and no title falls back to Untitled", func(t *testing.T) {
		t.Parallel()

		result := resultWith(
			record("https://example.com/policy/a", "", `<article><p>Body.</p></article>`),
		)

		doc := New(WithContentSelector("article")).Assemble(result)
		if doc.Sections[0].Heading != "Untitled" {
			t.Errorf("unexpected heading: %q", doc.Sections[0].Heading)
		}
	})
}

// TestAssembleMalformedHTML tests that assembly never fails.
func TestAssembleMalformedHTML(t *testing.T) {
	t.Parallel()

	result := resultWith(
		record("https://example.com/policy/a", "Broken", `<article><p>Recoverable <b>text`),
	)

	doc := New(WithContentSelector("article")).Assemble(result)
	if doc.SectionCount() == 0 {
		t.Fatal("expected best-effort extraction to yield a section")
	}
}
