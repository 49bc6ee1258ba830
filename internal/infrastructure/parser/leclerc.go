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
	leclercBaseURL      = "https://www.e.leclerc"
	leclercParentClimbs = 6
)

// LeclercScanner extracts products from E.Leclerc category pages. The markup
// splits prices into a euros block and a cents superscript inside a shared
// availability container, with the product label living outside it.
type LeclercScanner struct {
	fetcher PageFetcher
	builder *extract.Builder
	logger  *slog.Logger
}

// NewLeclercScanner wires the browser session and the record builder.
func NewLeclercScanner(fetcher PageFetcher, builder *extract.Builder, logger *slog.Logger) *LeclercScanner {
	return &LeclercScanner{fetcher: fetcher, builder: builder, logger: logger}
}

// Name identifies the strategy inside the registry.
func (l *LeclercScanner) Name() string {
	return "leclerc"
}

// Scan renders each category page once and extracts whatever is present; the
// channel has no incremental loading worth driving.
func (l *LeclercScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ProductObservation, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no categories provided for site %s", req.Store.StoreName)
	}

	var results []domain.ProductObservation
	for _, cat := range req.Categories {
		pages, err := l.fetcher.FetchPages(ctx, cat.URL, browser.PageOptions{
			WaitVisible:  "div.block-price-and-availability",
			CardSelector: "div.block-price-and-availability",
		})
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		for _, html := range pages {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				return nil, fmt.Errorf("category %s: parse page: %w", cat.Name, err)
			}
			for _, card := range extractLeclercCards(doc) {
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

// extractLeclercCards walks the price blocks and resolves the product label
// from the enclosing card container.
func extractLeclercCards(doc *goquery.Document) []domain.RawCard {
	var cards []domain.RawCard

	doc.Find("div.block-price-and-availability").Each(func(_ int, block *goquery.Selection) {
		title := "N/A"
		href := ""
		node := block
		for i := 0; i < leclercParentClimbs && node.Length() > 0; i++ {
			if label := node.Find("a.product-label").First(); label.Length() > 0 {
				title = strings.TrimSpace(label.Text())
				href, _ = label.Attr("href")
				break
			}
			node = node.Parent()
		}
		if title == "" || title == "N/A" {
			return
		}

		// The markup shows "2€35"; rejoin as "2,35 €" so the cents survive
		// numeric parsing downstream.
		priceText := "N/A"
		euros := strings.TrimSpace(block.Find("div.price-unit").First().Text())
		cents := strings.TrimSpace(block.Find("span.price-cents").First().Text())
		if euros != "" && cents != "" {
			priceText = euros + "," + cents + " €"
		}

		cards = append(cards, domain.RawCard{
			Title:     title,
			PriceText: priceText,
			Href:      absolutize(leclercBaseURL, href),
		})
	})

	return cards
}

func (l *LeclercScanner) debug(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}
