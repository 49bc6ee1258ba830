package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"PriceScanner/internal/domain"
	"PriceScanner/internal/infrastructure/browser"
)

const (
	carrefourStoresURL       = "https://www.carrefour.fr/magasin"
	defaultMaxStores         = 5
	carrefourStorePathPrefix = "/magasin/"
)

// discoverStores scrapes the store locator for drive stores. Each result URL
// can be activated before a category scan so prices come out store-specific.
func (c *CarrefourScanner) discoverStores(ctx context.Context) ([]domain.StoreContext, error) {
	pages, err := c.fetcher.FetchPages(ctx, carrefourStoresURL, browser.PageOptions{
		WaitVisible:  `a[href^="/magasin/"]`,
		CardSelector: `a[href^="/magasin/"]`,
	})
	if err != nil {
		return nil, fmt.Errorf("store locator: %w", err)
	}

	var stores []domain.StoreContext
	for _, html := range pages {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("store locator: parse page: %w", err)
		}
		stores = append(stores, extractCarrefourStores(doc)...)
	}

	c.debug("stores discovered", "count", len(stores))
	return stores, nil
}

// extractCarrefourStores pulls (name, URL) pairs from a store locator page.
// The locator links region and city index pages under the same /magasin/
// prefix; only leaf store pages (three path segments) are kept.
func extractCarrefourStores(doc *goquery.Document) []domain.StoreContext {
	var stores []domain.StoreContext
	seen := map[string]struct{}{}

	doc.Find(`a[href^="/magasin/"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		href = stripQuery(href)
		if !isCarrefourStorePath(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}

		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}

		seen[href] = struct{}{}
		stores = append(stores, domain.StoreContext{
			StoreName: name,
			StoreURL:  absolutize(carrefourBaseURL, href),
			Channel:   "carrefour",
		})
	})

	return stores
}

// isCarrefourStorePath keeps /magasin/<slug> leaf pages and drops the locator
// root and region/city index pages nested deeper.
func isCarrefourStorePath(href string) bool {
	rest := strings.TrimPrefix(href, carrefourStorePathPrefix)
	return rest != "" && rest != href && !strings.Contains(rest, "/")
}
