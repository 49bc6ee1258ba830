package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"PriceScanner/internal/extract"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestExtractAuchanCards(t *testing.T) {
	t.Parallel()

	html := `
	<article>
	  <a href="/produit/farine-de-ble-t55-francine"><span>voir</span></a>
	  <div class="product-thumbnail__description">Farine de blé T55 FRANCINE</div>
	  <div class="product-price">1,35 €</div>
	</article>
	<article>
	  <a href="/produit/farine-complete"></a>
	  <div class="product-thumbnail__description">Farine complète</div>
	  <meta itemprop="price" content="2.10"/>
	</article>
	<article>
	  <div class="banner">publicité</div>
	</article>`

	cards := extractAuchanCards(mustDoc(t, html))
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	if cards[0].PriceText != "1,35 €" {
		t.Errorf("visible price block must win, got %q", cards[0].PriceText)
	}
	if cards[0].Href != "https://www.auchan.fr/produit/farine-de-ble-t55-francine" {
		t.Errorf("unexpected href: %q", cards[0].Href)
	}
	if cards[1].PriceText != "2.10 €" {
		t.Errorf("itemprop fallback must apply, got %q", cards[1].PriceText)
	}
}

func TestExtractLeclercCards(t *testing.T) {
	t.Parallel()

	html := `
	<div class="product-card">
	  <a class="product-label" href="/cat/riz/riz-basmati">Riz basmati TAUREAU AILE</a>
	  <div class="block-price-and-availability">
	    <div class="price-unit">2</div>
	    <span class="price-cents">35</span>
	  </div>
	</div>
	<div class="product-card">
	  <a class="product-label" href="/cat/riz/riz-thai">Riz thaï</a>
	  <div class="block-price-and-availability">
	    <div class="availability">indisponible</div>
	  </div>
	</div>`

	cards := extractLeclercCards(mustDoc(t, html))
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Title != "Riz basmati TAUREAU AILE" {
		t.Errorf("unexpected title: %q", cards[0].Title)
	}
	if cards[0].PriceText != "2,35 €" {
		t.Errorf("unexpected price text: %q", cards[0].PriceText)
	}
	if cards[1].PriceText != "N/A" {
		t.Errorf("missing price must stay N/A, got %q", cards[1].PriceText)
	}
}

func TestLeclercSplitPriceKeepsCents(t *testing.T) {
	t.Parallel()

	html := `
	<div class="product-card">
	  <a class="product-label" href="/cat/riz/riz-long">Riz long grain</a>
	  <div class="block-price-and-availability">
	    <div class="price-unit">2</div>
	    <span class="price-cents">35</span>
	  </div>
	</div>`

	cards := extractLeclercCards(mustDoc(t, html))
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}

	value := extract.ParsePrice(cards[0].PriceText)
	if value == nil {
		t.Fatalf("price %q did not parse", cards[0].PriceText)
	}
	if *value != 2.35 {
		t.Errorf("cents lost: parsed %.2f from %q, want 2.35", *value, cards[0].PriceText)
	}
}

func TestExtractLidlCards(t *testing.T) {
	t.Parallel()

	html := `
	<div class="tile">
	  <a class="product-card-click-wrapper" href="/p/huile-olive-vierge">
	    <h3 class="product-card-title__text">Huile d'olive vierge extra PRIMADONNA</h3>
	  </a>
	  <span class="product-price__content">4,99 €</span>
	</div>`

	cards := extractLidlCards(mustDoc(t, html))
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Title != "Huile d'olive vierge extra PRIMADONNA" {
		t.Errorf("unexpected title: %q", cards[0].Title)
	}
	if cards[0].PriceText != "4,99 €" {
		t.Errorf("unexpected price text: %q", cards[0].PriceText)
	}
	if cards[0].Href != "https://www.lidl.fr/p/huile-olive-vierge" {
		t.Errorf("unexpected href: %q", cards[0].Href)
	}
}
