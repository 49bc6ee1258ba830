package extract

import (
	"testing"

	"PriceScanner/internal/taxonomy"
)

func TestClassifyKeywordMatch(t *testing.T) {
	t.Parallel()

	c := NewClassifier(taxonomy.Default())

	cases := []struct {
		name string
		want string
	}{
		{"riz basmati", "alimentaire_riz"},
		{"Pâtes spaghetti n°5 BARILLA", "alimentaire_pates"},
		{"Farine de blé T55 FRANCINE", "alimentaire_farine"},
		{"Savon de Marseille", "hygiene_savon"},
		{"Eau de Javel 2L", "entretien_eau_de_javel"},
	}

	for _, tc := range cases {
		got, ok := c.Classify(tc.name)
		if !ok {
			t.Errorf("Classify(%q) unexpectedly blacklisted", tc.name)
			continue
		}
		if got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyBlacklistBeatsKeywords(t *testing.T) {
	t.Parallel()

	c := NewClassifier(taxonomy.Default())

	// "jus" is blacklisted even though "pates" matches a category.
	if got, ok := c.Classify("jus de pates"); ok {
		t.Fatalf("expected blacklist rejection, got %q", got)
	}
	if _, ok := c.Classify("Gâteau au chocolat"); ok {
		t.Fatal("expected blacklist rejection for dessert item")
	}
}

func TestClassifyFallback(t *testing.T) {
	t.Parallel()

	c := NewClassifier(taxonomy.Default())

	got, ok := c.Classify("mystery item")
	if !ok {
		t.Fatal("fallback item must not be rejected")
	}
	if got != "alimentaire_fruits_legumes" {
		t.Fatalf("expected fallback bucket, got %q", got)
	}
}

func TestClassifyDeterministicPriority(t *testing.T) {
	t.Parallel()

	// "brosse" (hygiene) and "vaisselle" (entretien) both match; the category
	// declared first must win, on every call.
	tax := taxonomy.Taxonomy{
		Categories: []taxonomy.Category{
			{Key: "first", Keywords: []string{"brosse"}},
			{Key: "second", Keywords: []string{"vaisselle"}},
			{Key: "bucket"},
		},
		Fallback: "bucket",
	}
	c := NewClassifier(tax)

	for i := 0; i < 10; i++ {
		got, ok := c.Classify("brosse vaisselle")
		if !ok || got != "first" {
			t.Fatalf("run %d: got (%q, %v), want (first, true)", i, got, ok)
		}
	}
}

func TestClassifyAccentInsensitive(t *testing.T) {
	t.Parallel()

	c := NewClassifier(taxonomy.Default())

	got, ok := c.Classify("ŒUFS frais x12")
	if !ok || got != "alimentaire_oeufs" {
		t.Fatalf("got (%q, %v), want (alimentaire_oeufs, true)", got, ok)
	}
}

func TestClassifyAlternateTaxonomy(t *testing.T) {
	t.Parallel()

	tax := taxonomy.Taxonomy{
		Categories: []taxonomy.Category{
			{Key: "boissons", Keywords: []string{"the", "café"}},
			{Key: "autre"},
		},
		Blacklist: []string{"alcool"},
		Fallback:  "autre",
	}
	c := NewClassifier(tax)

	if got, _ := c.Classify("Café moulu"); got != "boissons" {
		t.Fatalf("got %q, want boissons", got)
	}
	if _, ok := c.Classify("bière sans alcool"); ok {
		t.Fatal("expected blacklist rejection")
	}
	if got, _ := c.Classify("eau plate"); got != "autre" {
		t.Fatalf("got %q, want autre", got)
	}
}
