package export

import (
	"os"
	"strings"
	"testing"

	"PriceScanner/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestExportSortsByPriceWithUnpricedLast(t *testing.T) {
	t.Parallel()

	exporter := NewCSVExporter(t.TempDir())
	path, err := exporter.Export([]domain.ProductObservation{
		{Name: "Riz basmati", PriceText: "2,35 €", PriceValue: ptr(2.35), Category: "alimentaire_riz", StoreName: "Carrefour"},
		{Name: "Café moulu", PriceText: "N/A", Category: "alimentaire_cafe", StoreName: "Carrefour"},
		{Name: "Pâtes penne", Brand: "BARILLA", PriceText: "1,30 €", PriceValue: ptr(1.30), Category: "alimentaire_pates", StoreName: "Carrefour"},
	})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "\uFEFF") {
		t.Error("export must start with a UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(content, "\uFEFF")), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "produit,marque,code_barre,prix,prix_num,categorie,magasin,url_magasin,url_produit" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Pâtes penne,BARILLA,") {
		t.Errorf("row 1 must be the cheapest product, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Riz basmati,") {
		t.Errorf("row 2 must follow by price, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "Café moulu,") {
		t.Errorf("unpriced row must come last, got %q", lines[3])
	}
	if !strings.Contains(lines[1], ",1.3,") {
		t.Errorf("prix_num must use a dot decimal without padding, got %q", lines[1])
	}
	if !strings.Contains(lines[3], ",N/A,,") {
		t.Errorf("unpriced row must keep the raw text and an empty prix_num, got %q", lines[3])
	}
}

func TestExportDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := []domain.ProductObservation{
		{Name: "b", PriceValue: ptr(2)},
		{Name: "a", PriceValue: ptr(1)},
	}
	exporter := NewCSVExporter(t.TempDir())
	if _, err := exporter.Export(input); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if input[0].Name != "b" || input[1].Name != "a" {
		t.Error("export must sort a copy, not the caller's slice")
	}
}
