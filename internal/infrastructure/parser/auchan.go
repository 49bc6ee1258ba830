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

const auchanBaseURL = "https://www.auchan.fr"

// AuchanScanner walks search result pages paginated by a "Suivante" link.
// Auchan rarely embeds the EAN in product URLs, so barcodes are usually
// absent for this channel.
type AuchanScanner struct {
	fetcher PageFetcher
	builder *extract.Builder
	logger  *slog.Logger
}

// NewAuchanScanner wires the browser session and the record builder.
func NewAuchanScanner(fetcher PageFetcher, builder *extract.Builder, logger *slog.Logger) *AuchanScanner {
	return &AuchanScanner{fetcher: fetcher, builder: builder, logger: logger}
}

// Name identifies the strategy inside the registry.
func (a *AuchanScanner) Name() string {
	return "auchan"
}

// Scan renders every result page of each configured search and extracts
// product cards.
func (a *AuchanScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ProductObservation, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no searches provided for site %s", req.Store.StoreName)
	}

	var results []domain.ProductObservation
	for _, cat := range req.Categories {
		pages, err := a.fetcher.FetchPages(ctx, cat.URL, browser.PageOptions{
			WaitVisible:  "article",
			CardSelector: "article",
			NextPage:     []string{"suivante", "suivant"},
		})
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", cat.Name, err)
		}

		for _, html := range pages {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				return nil, fmt.Errorf("search %s: parse page: %w", cat.Name, err)
			}
			for _, card := range extractAuchanCards(doc) {
				obs, keep, err := a.builder.Build(card, req.Store, cat.Name)
				if err != nil {
					a.debug("skip malformed card", "error", err)
					continue
				}
				if keep {
					results = append(results, obs)
				}
			}
		}
		a.debug("search scanned", "search", cat.Name, "pages", len(pages))
	}

	return extract.Deduplicate(results), nil
}

// extractAuchanCards pulls raw cards from a result page. The visible price
// block is preferred; the itemprop meta value is the fallback.
func extractAuchanCards(doc *goquery.Document) []domain.RawCard {
	var cards []domain.RawCard

	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(".product-thumbnail__description").First().Text())
		if title == "" {
			return
		}

		href, _ := sel.Find("a[href]").First().Attr("href")

		priceText := "N/A"
		if block := sel.Find("div.product-price").First(); block.Length() > 0 {
			text := strings.TrimSpace(block.Text())
			if m := cardPriceExpr.FindString(text); m != "" {
				priceText = m
			} else if text != "" {
				priceText = text
			}
		}
		if priceText == "N/A" {
			if content, ok := sel.Find(`meta[itemprop="price"]`).First().Attr("content"); ok && content != "" {
				priceText = content + " €"
			}
		}

		cards = append(cards, domain.RawCard{
			Title:     title,
			PriceText: priceText,
			Href:      absolutize(auchanBaseURL, href),
		})
	})

	return cards
}

func (a *AuchanScanner) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
