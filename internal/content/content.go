package content

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Section is one heading/body pair extracted from a page, in document
// order. The heading is empty for text that precedes the first heading
// or for pages with no headings at all.
type Section struct {
	// Heading is the raw heading text (h1-h6), untrimmed.
	Heading string

	// Body is the readable text under the heading, with newlines
	// between block-level elements.
	Body string
}

// MainRegion locates the main content region of a parsed page.
// The selector is a comma-separated CSS candidate list; among matching
// elements the one with the most text wins, which reliably skips
// navigation and footer boilerplate on help-center pages. When nothing
// matches, the <body> element is returned so extraction degrades to
// the whole page rather than failing.
//
// Both the crawler (link scope) and the assembler (text extraction)
// go through this one function, so the two components can never
// disagree about what counts as main content.
func MainRegion(doc *goquery.Document, selector string) *goquery.Selection {
	if selector != "" {
		var best *goquery.Selection
		bestLen := 0

		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if l := len(strings.TrimSpace(s.Text())); l > bestLen {
				best = s
				bestLen = l
			}
		})

		if best != nil {
			return best
		}
	}

	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// Title extracts the page title: the <title> tag first, then the
// og:title meta property. Returns an empty string when neither exists.
func Title(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}

// ExtractLinks returns the absolute form of all anchor targets inside
// the main content region, resolved against base. Non-navigable
// schemes (javascript:, mailto:, tel:, data:) and bare fragments are
// dropped. Order follows document order; duplicates are kept so the
// caller's visited-set logic stays authoritative.
func ExtractLinks(htmlText string, base *url.URL, selector string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	links := make([]string, 0)
	MainRegion(doc, selector).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if resolved := resolveLink(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})

	return links
}

// resolveLink resolves one href against the base URL, filtering out
// non-navigable targets.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// ExtractSections splits the main content region into heading/body
// pairs by walking heading elements (h1-h6) as section boundaries.
// A page with no headings yields one section with an empty heading.
//
// Extraction is best-effort and never fails: when the HTML cannot be
// parsed at all, the raw input is returned as a single section body
// and fallback is true so callers can log the degradation.
func ExtractSections(htmlText string, selector string) (sections []Section, fallback bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return []Section{{Body: strings.TrimSpace(htmlText)}}, true
	}

	region := MainRegion(doc, selector)

	var (
		result  []Section
		current Section
		body    strings.Builder
	)

	flush := func() {
		current.Body = tidyText(body.String())
		if current.Heading != "" || current.Body != "" {
			result = append(result, current)
		}
		body.Reset()
	}

	for _, node := range region.Nodes {
		walkSections(node, &current, &body, flush)
	}
	flush()

	if len(result) == 0 {
		// Nothing extractable in the region; degrade to the full
		// document text so the page still contributes a section.
		return []Section{{Body: tidyText(doc.Text())}}, true
	}

	return result, false
}

// walkSections walks the DOM below n in document order, starting a new
// section at each heading element and accumulating text in between.
func walkSections(n *html.Node, current *Section, body *strings.Builder, flush func()) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			flush()
			*current = Section{Heading: nodeText(n)}
			return // heading text must not leak into the body
		case "script", "style", "noscript", "template":
			return
		case "p", "div", "li", "tr", "br", "section", "ul", "ol", "table", "blockquote":
			body.WriteString("\n")
		}
	}

	if n.Type == html.TextNode {
		body.WriteString(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkSections(c, current, body, flush)
	}
}

// nodeText returns the concatenated text content below n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// tidyText trims each line, drops empty runs down to single blank
// lines, and trims the result. It preserves paragraph structure while
// removing the indentation noise HTML extraction produces.
func tidyText(s string) string {
	lines := strings.Split(s, "\n")
	var sb strings.Builder
	blank := true

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				sb.WriteString("\n")
				blank = true
			}
			continue
		}
		if !blank {
			sb.WriteString("\n")
		}
		sb.WriteString(collapseSpaces(line))
		blank = false
	}

	return strings.TrimSpace(sb.String())
}

// collapseSpaces collapses runs of whitespace within a line to single
// spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
