package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"PriceScanner/internal/domain"
	"PriceScanner/internal/extract"
	"PriceScanner/internal/infrastructure/browser"
	"PriceScanner/internal/scanner"
)

const (
	monoprixBaseURL      = "https://courses.monoprix.fr"
	monoprixParentClimbs = 12
)

// MonoprixScanner walks the top-level department pages of the Monoprix online
// shop. The pages are not scoped to taxonomy categories, so every product is
// classified into the shared taxonomy (no category hint).
type MonoprixScanner struct {
	fetcher PageFetcher
	builder *extract.Builder
	logger  *slog.Logger
}

// NewMonoprixScanner wires the browser session and the record builder.
func NewMonoprixScanner(fetcher PageFetcher, builder *extract.Builder, logger *slog.Logger) *MonoprixScanner {
	return &MonoprixScanner{fetcher: fetcher, builder: builder, logger: logger}
}

// Name identifies the strategy inside the registry.
func (m *MonoprixScanner) Name() string {
	return "monoprix"
}

// Scan renders each department page after scroll stabilization and extracts
// product cards. Cards without a usable price are dropped here, matching the
// channel's sparse markup.
func (m *MonoprixScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ProductObservation, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no pages provided for site %s", req.Store.StoreName)
	}

	var results []domain.ProductObservation
	for _, cat := range req.Categories {
		pages, err := m.fetcher.FetchPages(ctx, cat.URL, browser.PageOptions{
			WaitVisible:  `a[data-test="fop-product-link"]`,
			CardSelector: `a[data-test="fop-product-link"][href]`,
		})
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", cat.URL, err)
		}

		for _, html := range pages {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				return nil, fmt.Errorf("page %s: parse: %w", cat.URL, err)
			}
			for _, card := range extractMonoprixCards(doc) {
				obs, keep, err := m.builder.Build(card, req.Store, cat.Name)
				if err != nil {
					m.debug("skip malformed card", "error", err)
					continue
				}
				if keep && obs.PriceValue != nil {
					results = append(results, obs)
				}
			}
		}
	}

	m.debug("scan done", "rows", len(results))
	return extract.Deduplicate(results), nil
}

// extractMonoprixCards pulls raw cards from a rendered department page. The
// price node is not inside the product link, so the extraction climbs parent
// containers until it finds the matching price span.
func extractMonoprixCards(doc *goquery.Document) []domain.RawCard {
	var cards []domain.RawCard

	doc.Find(`a[data-test="fop-product-link"][href]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		href = stripQuery(href)

		title := strings.TrimSpace(link.Find(`h3[data-test="fop-title"]`).First().Text())
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}
		if title == "" {
			return
		}

		priceText := ""
		node := link
		for i := 0; i < monoprixParentClimbs && node.Length() > 0; i++ {
			if price := node.Find(`span[data-test="fop-price"]`).First(); price.Length() > 0 {
				priceText = strings.TrimSpace(strings.ReplaceAll(price.Text(), " ", " "))
				break
			}
			node = node.Parent()
		}
		if priceText == "" {
			return
		}

		cards = append(cards, domain.RawCard{
			Title:     title,
			PriceText: priceText,
			Href:      absolutize(monoprixBaseURL, href),
		})
	})

	return cards
}

func (m *MonoprixScanner) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}
