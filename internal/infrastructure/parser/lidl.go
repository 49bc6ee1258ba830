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
	lidlBaseURL      = "https://www.lidl.fr"
	lidlParentClimbs = 8
)

// LidlScanner extracts products from Lidl catalog pages, which render the
// same card markup family as Carrefour with a plain price span.
type LidlScanner struct {
	fetcher PageFetcher
	builder *extract.Builder
	logger  *slog.Logger
}

// NewLidlScanner wires the browser session and the record builder.
func NewLidlScanner(fetcher PageFetcher, builder *extract.Builder, logger *slog.Logger) *LidlScanner {
	return &LidlScanner{fetcher: fetcher, builder: builder, logger: logger}
}

// Name identifies the strategy inside the registry.
func (l *LidlScanner) Name() string {
	return "lidl"
}

// Scan renders each catalog page and extracts product cards.
func (l *LidlScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ProductObservation, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no categories provided for site %s", req.Store.StoreName)
	}

	var results []domain.ProductObservation
	for _, cat := range req.Categories {
		pages, err := l.fetcher.FetchPages(ctx, cat.URL, browser.PageOptions{
			WaitVisible:  "a.product-card-click-wrapper",
			CardSelector: "a.product-card-click-wrapper[href]",
		})
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		for _, html := range pages {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				return nil, fmt.Errorf("category %s: parse page: %w", cat.Name, err)
			}
			for _, card := range extractLidlCards(doc) {
				obs, keep, err := l.builder.Build(card, req.Store, cat.Name)
				if err != nil {
					l.debug("skip malformed card", "error", err)
					continue
				}
				if keep {
					results = append(results, obs)
				}
			}
		}
	}

	return extract.Deduplicate(results), nil
}

// extractLidlCards pulls raw cards out of a catalog page. The price span sits
// next to the card link, so the extraction climbs enclosing containers to
// find it.
func extractLidlCards(doc *goquery.Document) []domain.RawCard {
	var cards []domain.RawCard

	doc.Find("a.product-card-click-wrapper[href]").Each(func(_ int, link *goquery.Selection) {
		title := strings.TrimSpace(link.Find("h3.product-card-title__text").First().Text())
		if title == "" {
			return
		}

		priceText := "N/A"
		node := link
		for i := 0; i < lidlParentClimbs && node.Length() > 0; i++ {
			if price := node.Find("span.product-price__content").First(); price.Length() > 0 {
				priceText = strings.TrimSpace(price.Text())
				break
			}
			node = node.Parent()
		}

		href, _ := link.Attr("href")
		cards = append(cards, domain.RawCard{
			Title:     title,
			PriceText: priceText,
			Href:      absolutize(lidlBaseURL, href),
		})
	})

	return cards
}

func (l *LidlScanner) debug(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}
