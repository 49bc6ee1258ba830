package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestExtractCarrefourCards(t *testing.T) {
	t.Parallel()

	html := `
	<div class="product-list-card-plp-grid-new">
	  <a class="product-card-click-wrapper" href="/p/pates-spaghetti-barilla-3560070553990">
	    <h3 class="product-card-title__text">Pâtes spaghetti n°5 BARILLA</h3>
	  </a>
	  <div data-testid="product-price__amount--main">
	    <p>1</p><p>,30</p><p>€</p>
	  </div>
	</div>
	<div class="product-list-card-plp-grid-new">
	  <a class="product-card-click-wrapper" href="/p/riz-basmati-3038350208705">
	    <h3 class="product-card-title__text">Riz basmati</h3>
	  </a>
	</div>
	<article>
	  <p>bloc publicitaire sans produit</p>
	</article>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	cards := extractCarrefourCards(doc)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	first := cards[0]
	if first.Title != "Pâtes spaghetti n°5 BARILLA" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.PriceText != "1 ,30 €" && first.PriceText != "1,30 €" {
		t.Errorf("unexpected price text: %q", first.PriceText)
	}
	if first.Href != "https://www.carrefour.fr/p/pates-spaghetti-barilla-3560070553990" {
		t.Errorf("unexpected href: %q", first.Href)
	}

	// the second card never rendered a price
	if cards[1].PriceText != "N/A" {
		t.Errorf("expected N/A price, got %q", cards[1].PriceText)
	}
}

func TestCarrefourPriceFragmentJoin(t *testing.T) {
	t.Parallel()

	html := `<div class="c">
	  <div data-testid="product-price__amount--main">
	    <p>12</p><p>,99</p><p>€</p>
	  </div>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	got := carrefourPriceText(doc.Find("div.c").First())
	if got != "12,99 €" {
		t.Fatalf("joined price = %q, want %q", got, "12,99 €")
	}
}

func TestCarrefourPriceRegexFallback(t *testing.T) {
	t.Parallel()

	html := `<div class="c">promo exceptionnelle 2,15 € seulement</div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	got := carrefourPriceText(doc.Find("div.c").First())
	if got != "2,15 €" {
		t.Fatalf("fallback price = %q, want %q", got, "2,15 €")
	}
}
