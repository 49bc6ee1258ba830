package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestExtractMonoprixCards(t *testing.T) {
	t.Parallel()

	html := `
	<div class="product-tile">
	  <div class="fop-body">
	    <a data-test="fop-product-link" href="/products/riz-basmati-500g/abc123?source=plp">
	      <h3 data-test="fop-title">Riz basmati 500g MONOPRIX</h3>
	    </a>
	  </div>
	  <div class="fop-footer">
	    <span data-test="fop-price">2,05&nbsp;€</span>
	  </div>
	</div>
	<div class="product-tile">
	  <a data-test="fop-product-link" href="/products/sans-prix/def456">
	    <h3 data-test="fop-title">Produit sans prix</h3>
	  </a>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	cards := extractMonoprixCards(doc)
	if len(cards) != 1 {
		t.Fatalf("expected 1 card (price-less tile dropped), got %d", len(cards))
	}

	card := cards[0]
	if card.Title != "Riz basmati 500g MONOPRIX" {
		t.Errorf("unexpected title: %q", card.Title)
	}
	if card.PriceText != "2,05 €" {
		t.Errorf("unexpected price text: %q", card.PriceText)
	}
	if card.Href != "https://courses.monoprix.fr/products/riz-basmati-500g/abc123" {
		t.Errorf("query string must be stripped, got %q", card.Href)
	}
}

func TestExtractMonoprixCardsTitleFallsBackToLinkText(t *testing.T) {
	t.Parallel()

	html := `
	<div>
	  <a data-test="fop-product-link" href="/products/oeufs/xyz">Œufs frais x12</a>
	  <span data-test="fop-price">3,10 €</span>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	cards := extractMonoprixCards(doc)
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Title != "Œufs frais x12" {
		t.Fatalf("unexpected title: %q", cards[0].Title)
	}
}
