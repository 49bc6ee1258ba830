package parser

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"PriceScanner/internal/domain"
	"PriceScanner/internal/extract"
	"PriceScanner/internal/infrastructure/browser"
	"PriceScanner/internal/scanner"
)

const carrefourBaseURL = "https://www.carrefour.fr"

var cardPriceExpr = regexp.MustCompile(`\d+(?:[.,]\d{1,2})?\s*€`)

// CarrefourScanner walks category pages loaded in batches behind a
// "Produits suivants" button.
type CarrefourScanner struct {
	fetcher PageFetcher
	builder *extract.Builder
	logger  *slog.Logger
}

// NewCarrefourScanner wires the browser session and the record builder.
func NewCarrefourScanner(fetcher PageFetcher, builder *extract.Builder, logger *slog.Logger) *CarrefourScanner {
	return &CarrefourScanner{fetcher: fetcher, builder: builder, logger: logger}
}

// Name identifies the strategy inside the registry.
func (c *CarrefourScanner) Name() string {
	return "carrefour"
}

// Scan renders each category page per target store and extracts product
// cards. With the discoverStores option the store locator supplies the target
// stores; otherwise the configured store is scanned as-is. A store-specific
// URL is activated in-tab before its category pages so the rendered prices
// belong to that drive store.
func (c *CarrefourScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ProductObservation, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no categories provided for site %s", req.Store.StoreName)
	}

	stores, err := c.targetStores(ctx, req)
	if err != nil {
		return nil, err
	}

	var results []domain.ProductObservation
	for _, store := range stores {
		for _, cat := range req.Categories {
			pages, err := c.fetcher.FetchPages(ctx, cat.URL, browser.PageOptions{
				ActivateURL:  storeActivationURL(store),
				WaitVisible:  "a.product-card-click-wrapper",
				CardSelector: "a.product-card-click-wrapper[href]",
				LoadMore:     []string{"produits suivants"},
			})
			if err != nil {
				return nil, fmt.Errorf("store %s category %s: %w", store.StoreName, cat.Name, err)
			}

			for _, html := range pages {
				doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
				if err != nil {
					return nil, fmt.Errorf("category %s: parse page: %w", cat.Name, err)
				}
				for _, card := range extractCarrefourCards(doc) {
					obs, keep, err := c.builder.Build(card, store, cat.Name)
					if err != nil {
						c.debug("skip malformed card", "error", err)
						continue
					}
					if keep {
						results = append(results, obs)
					}
				}
			}
			c.debug("category scanned", "store", store.StoreName, "category", cat.Name, "rows", len(results))
		}
	}

	return extract.Deduplicate(results), nil
}

// targetStores resolves which stores this scan covers: the discovered drive
// stores (capped by the maxStores option) when discovery is on, otherwise
// just the configured one.
func (c *CarrefourScanner) targetStores(ctx context.Context, req scanner.Request) ([]domain.StoreContext, error) {
	if req.Options["discoverStores"] != "true" {
		return []domain.StoreContext{req.Store}, nil
	}

	discovered, err := c.discoverStores(ctx)
	if err != nil {
		return nil, err
	}
	if len(discovered) == 0 {
		return []domain.StoreContext{req.Store}, nil
	}

	limit := defaultMaxStores
	if v, err := strconv.Atoi(req.Options["maxStores"]); err == nil && v > 0 {
		limit = v
	}
	if len(discovered) > limit {
		discovered = discovered[:limit]
	}
	return discovered, nil
}

// storeActivationURL returns the page to visit before category scans; the
// national catalog root needs no activation.
func storeActivationURL(store domain.StoreContext) string {
	if store.StoreURL == "" || store.StoreURL == carrefourBaseURL {
		return ""
	}
	return store.StoreURL
}

// extractCarrefourCards pulls raw cards out of a rendered category page.
// A card counts only when it carries both the product link and a title.
func extractCarrefourCards(doc *goquery.Document) []domain.RawCard {
	var cards []domain.RawCard

	doc.Find("div.product-list-card-plp-grid-new, div[class*='product-list-card'], article").
		Each(func(_ int, sel *goquery.Selection) {
			link := sel.Find("a.product-card-click-wrapper[href]").First()
			title := sel.Find("h3.product-card-title__text").First()
			if link.Length() == 0 || title.Length() == 0 {
				return
			}

			href, _ := link.Attr("href")
			cards = append(cards, domain.RawCard{
				Title:     strings.TrimSpace(title.Text()),
				PriceText: carrefourPriceText(sel),
				Href:      absolutize(carrefourBaseURL, href),
			})
		})

	return cards
}

// carrefourPriceText reassembles the price from its markup fragments:
//
//	<div data-testid="product-price__amount--main"><p>1</p><p>,30</p><p>€</p></div>
//
// Falls back to any amount block, then to a regex over the card text. "N/A"
// marks a card whose price never rendered; the dedup pass may still replace
// it with a priced sighting.
func carrefourPriceText(card *goquery.Selection) string {
	for _, selector := range []string{
		`[data-testid="product-price__amount--main"]`,
		`[data-testid^="product-price__amount"]`,
	} {
		if text := joinPriceFragments(card.Find(selector).First()); text != "" {
			return text
		}
	}

	if m := cardPriceExpr.FindString(card.Text()); m != "" {
		return m
	}
	return "N/A"
}

func joinPriceFragments(amount *goquery.Selection) string {
	if amount.Length() == 0 {
		return ""
	}

	var parts []string
	amount.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return ""
	}

	text := strings.Join(parts, " ")
	text = strings.ReplaceAll(text, "  ", " ")
	return strings.TrimSpace(strings.ReplaceAll(text, " ,", ","))
}

func (c *CarrefourScanner) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
