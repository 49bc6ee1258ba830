// Package parser holds the per-channel catalog scanners. Each scanner drives
// the browser session to render pages and extracts raw product cards with
// goquery; field heuristics and classification live in internal/extract.
package parser

import (
	"context"
	"strings"

	"PriceScanner/internal/infrastructure/browser"
)

// PageFetcher renders catalog pages to completion; implemented by the
// chromedp session.
type PageFetcher interface {
	FetchPages(ctx context.Context, pageURL string, opts browser.PageOptions) ([]string, error)
}

// absolutize prefixes site-relative hrefs with the channel base URL.
func absolutize(base, href string) string {
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(base, "/") + href
	}
	return href
}

// stripQuery drops everything from the first query-string delimiter on.
func stripQuery(href string) string {
	if i := strings.IndexByte(href, '?'); i >= 0 {
		return href[:i]
	}
	return href
}
