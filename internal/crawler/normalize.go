package crawler

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during normalization.
// They identify campaigns and click sources, never distinct content,
// so two URLs differing only in these are the same page. Unknown
// parameters are kept: stripping everything would conflate genuinely
// different pages (e.g. ?hl= language variants).
var trackingParams = map[string]bool{
	"gclid":   true,
	"fbclid":  true,
	"msclkid": true,
	"mc_cid":  true,
	"mc_eid":  true,
	"ref":     true,
	"igshid":  true,
}

// Normalize converts a URL to its canonical comparable form: fragment
// dropped, tracking parameters stripped, scheme and host lower-cased,
// and the empty path normalized to "/". Two URLs that normalize
// identically are treated as the same page by the visited set.
func Normalize(u *url.URL) string {
	n := *u

	n.Fragment = ""
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)

	if n.Path == "" {
		n.Path = "/"
	}

	if n.RawQuery != "" {
		q := n.Query()
		for key := range q {
			if trackingParams[key] || strings.HasPrefix(key, "utm_") {
				q.Del(key)
			}
		}
		n.RawQuery = q.Encode()
	}

	return n.String()
}

// NormalizeString parses and normalizes a raw URL string.
// Unparseable URLs are returned unchanged; they will fail later at
// fetch time with a proper error.
func NormalizeString(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return Normalize(u)
}
