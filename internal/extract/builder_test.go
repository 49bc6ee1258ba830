package extract

import (
	"errors"
	"testing"

	"PriceScanner/internal/domain"
	"PriceScanner/internal/taxonomy"
)

var testStore = domain.StoreContext{
	StoreName: "Carrefour Market Test",
	StoreURL:  "https://www.carrefour.fr/magasin/market-test",
	Channel:   "carrefour",
}

func TestBuildComposesFields(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewClassifier(taxonomy.Default()))

	card := domain.RawCard{
		Title:     "Pâtes spaghetti n°5 BARILLA",
		PriceText: "1,30 €",
		Href:      "https://www.carrefour.fr/p/pates-3560070553990",
	}

	got, keep, err := b.Build(card, testStore, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !keep {
		t.Fatal("expected observation to be kept")
	}

	if got.Name != card.Title {
		t.Errorf("name must stay verbatim, got %q", got.Name)
	}
	if got.Brand != "BARILLA" {
		t.Errorf("brand = %q, want BARILLA", got.Brand)
	}
	if got.Barcode != "3560070553990" {
		t.Errorf("barcode = %q, want 3560070553990", got.Barcode)
	}
	if got.PriceValue == nil || *got.PriceValue != 1.30 {
		t.Errorf("price = %v, want 1.30", got.PriceValue)
	}
	if got.Category != "alimentaire_pates" {
		t.Errorf("category = %q, want alimentaire_pates", got.Category)
	}
	if got.StoreURL != testStore.StoreURL || got.Channel != "carrefour" {
		t.Errorf("store context not carried: %+v", got)
	}
}

func TestBuildCategoryHintSkipsClassifier(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewClassifier(taxonomy.Default()))

	// "jus" would be blacklisted, but the page is already scoped to a category.
	card := domain.RawCard{Title: "jus de pates", PriceText: "0,99 €"}
	got, keep, err := b.Build(card, testStore, "alimentaire_pates")
	if err != nil || !keep {
		t.Fatalf("hinted build rejected: keep=%v err=%v", keep, err)
	}
	if got.Category != "alimentaire_pates" {
		t.Fatalf("category = %q, want hint", got.Category)
	}
}

func TestBuildDropsBlacklisted(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewClassifier(taxonomy.Default()))

	_, keep, err := b.Build(domain.RawCard{Title: "jus d'orange"}, testStore, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if keep {
		t.Fatal("blacklisted card must be dropped")
	}
}

func TestBuildSuppliedBarcodeWins(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewClassifier(taxonomy.Default()))

	card := domain.RawCard{
		Title:   "Riz basmati",
		Href:    "https://www.carrefour.fr/p/riz-3038350208705",
		Barcode: "9999999999999",
	}
	got, _, err := b.Build(card, testStore, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got.Barcode != "9999999999999" {
		t.Fatalf("structured barcode must win over URL heuristic, got %q", got.Barcode)
	}
}

func TestBuildMissingTitleIsAFault(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewClassifier(taxonomy.Default()))

	_, _, err := b.Build(domain.RawCard{PriceText: "1,00 €"}, testStore, "")
	if !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
}

// Three passes over the same product with prices "N/A", "1,35 €", "1,40 €"
// must reduce to a single observation priced 1.35.
func TestBuildThenDeduplicateEndToEnd(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewClassifier(taxonomy.Default()))
	href := "https://www.carrefour.fr/p/riz-basmati-3038350208705"

	var all []domain.ProductObservation
	for _, priceText := range []string{"N/A", "1,35 €", "1,40 €"} {
		card := domain.RawCard{Title: "Riz basmati", PriceText: priceText, Href: href}
		o, keep, err := b.Build(card, testStore, "")
		if err != nil || !keep {
			t.Fatalf("build %q: keep=%v err=%v", priceText, keep, err)
		}
		all = append(all, o)
	}

	out := Deduplicate(all)
	if len(out) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(out))
	}
	if out[0].PriceValue == nil || *out[0].PriceValue != 1.35 {
		t.Fatalf("expected first resolved price 1.35, got %v", out[0].PriceValue)
	}
}
