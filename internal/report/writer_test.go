package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/policysnap/policysnap/internal/model"
)

func sampleDocument() *model.Document {
	return &model.Document{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		StartURL:    "https://example.com/policy",
		PageCount:   2,
		Sections: []model.Section{
			{Heading: "Acceptable Use", BodyText: "Be kind.", SourceURL: "https://example.com/policy", Order: 0},
			{Heading: "Privacy", BodyText: "We collect nothing.", SourceURL: "https://example.com/policy/privacy", Order: 1},
		},
	}
}

// TestMarkdownWriter tests the Markdown rendering.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders headings and sources", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithTitle("Example Policies"))

		n, err := w.Write(sampleDocument())
		if err != nil {
			t.Fatalf("failed to write markdown: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero bytes written")
		}

		out := buf.String()
		for _, want := range []string{
			"# Example Policies",
			"## Contents",
			"## Acceptable Use",
			"## Privacy",
			"Be kind.",
			"https://example.com/policy/privacy",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("markdown output missing %q", want)
			}
		}
	})

	t.Run("default title", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleDocument()); err != nil {
			t.Fatalf("failed to write markdown: %v", err)
		}

		if !strings.Contains(buf.String(), "# Policy Document") {
			t.Error("expected default document heading")
		}
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		doc := &model.Document{
			GeneratedAt: time.Now(),
			StartURL:    "https://example.com",
		}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(doc); err != nil {
			t.Fatalf("failed to write markdown: %v", err)
		}

		if !strings.Contains(buf.String(), "No content was extracted") {
			t.Error("expected empty-document notice")
		}
	})
}

// TestJSONWriter tests the JSON rendering.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output round-trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		want := sampleDocument()

		if _, err := NewJSONWriter(&buf).Write(want); err != nil {
			t.Fatalf("failed to write JSON: %v", err)
		}

		var got model.Document
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if got.StartURL != want.StartURL || len(got.Sections) != len(want.Sections) {
			t.Errorf("decoded document mismatch: %+v", got)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleDocument()); err != nil {
			t.Fatalf("failed to write JSON: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  \"") {
			t.Error("expected indented output")
		}
	})
}

// errWriter always fails, for MultiWriter error propagation.
type errWriter struct{}

func (errWriter) Write(*model.Document) (int, error) {
	return 0, errors.New("sink failed")
}

// TestMultiWriter tests fan-out and error propagation.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all sinks", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(&a), NewMarkdownWriter(&b))

		if _, err := mw.Write(sampleDocument()); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected output in both sinks")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(errWriter{}, NewJSONWriter(&buf))

		if _, err := mw.Write(sampleDocument()); err == nil {
			t.Error("expected error from failing sink")
		}
		if buf.Len() != 0 {
			t.Error("expected no output after failing sink")
		}
	})
}
