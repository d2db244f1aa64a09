// Package sanitize strips the book description field down to an allow-list
// of HTML tags before it is stored or indexed.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"b", "i", "p", "a", "blockquote", "code", "q", "em", "br",
		"ul", "u", "tt", "tr", "th", "td", "ol", "li",
		"h6", "h5", "h4", "h3", "abbr",
	)
	// Relative URLs are passed through unchanged; only the scheme is
	// constrained, never the host, so in-library relative links survive.
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(true)
	p.RequireNoReferrerOnLinks(false)
	p.AllowURLSchemes("http", "https", "")
	// rel is never in the allow-list, so bluemonday strips it by default.
	return p
}

// Description sanitizes a book's description field to the fixed allow-list:
// b, i, p, a, blockquote, code, q, em, br, ul, u, tt, tr, th, td, ol, li,
// h6, h5, h4, h3, abbr. Everything else is stripped; relative URLs survive.
func Description(html string) string {
	if html == "" {
		return ""
	}
	return policy.Sanitize(html)
}
