package extract

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Œufs À LA COQUE", "oeufs a la coque"},
		{"Pâtes Complètes", "pates completes"},
		{"HUILE D'OLIVE", "huile d'olive"},
		{"", ""},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		want  float64
		isNil bool
	}{
		{"1,30 €", 1.30, false},
		{"1.30", 1.30, false},
		{"2 €", 2, false},
		{"1 , 30 €", 1, false},
		{"", 0, true},
		{"N/A", 0, true},
		{"prix indisponible", 0, true},
		{"€€€", 0, true},
	}

	for _, c := range cases {
		got := ParsePrice(c.in)
		switch {
		case c.isNil && got != nil:
			t.Errorf("ParsePrice(%q) = %v, want nil", c.in, *got)
		case !c.isNil && got == nil:
			t.Errorf("ParsePrice(%q) = nil, want %v", c.in, c.want)
		case !c.isNil && *got != c.want:
			t.Errorf("ParsePrice(%q) = %v, want %v", c.in, *got, c.want)
		}
	}
}

func TestParsePriceDigitFreeAlwaysNil(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"gratuit", "sur demande", "—", "euro", "   "} {
		if got := ParsePrice(in); got != nil {
			t.Errorf("ParsePrice(%q) = %v, want nil", in, *got)
		}
	}
}

func TestGuessBrand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Pâtes spaghetti n°5 BARILLA", "BARILLA"},
		{"pâtes alimentaires spaghetti CARREFOUR CLASSIC", "CARREFOUR CLASSIC"},
		{"riz basmati", ""},
		{"", ""},
		{"N/A", ""},
		{"Farine de blé T55 FRANCINE", "T55 FRANCINE"},
	}

	for _, c := range cases {
		if got := GuessBrand(c.in); got != c.want {
			t.Errorf("GuessBrand(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGuessBrandCapsAtThreeTokens(t *testing.T) {
	t.Parallel()

	got := GuessBrand("riz LE GRAND MOULIN DORE")
	if got != "GRAND MOULIN DORE" {
		t.Fatalf("expected last three tokens, got %q", got)
	}
}

func TestExtractBarcode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"https://www.carrefour.fr/p/pates-3560070553990", "3560070553990"},
		{"https://www.carrefour.fr/p/pates-3560070553990?sort=asc", "3560070553990"},
		{"https://www.carrefour.fr/p/pates-abc", ""},
		{"https://www.carrefour.fr/p/pates-123", ""},
		{"", ""},
	}

	for _, c := range cases {
		if got := ExtractBarcode(c.in); got != c.want {
			t.Errorf("ExtractBarcode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
