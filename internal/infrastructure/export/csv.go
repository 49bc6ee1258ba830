package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"PriceScanner/internal/domain"
)

var csvHeader = []string{
	"produit",
	"marque",
	"code_barre",
	"prix",
	"prix_num",
	"categorie",
	"magasin",
	"url_magasin",
	"url_produit",
}

// CSVExporter writes observation snapshots as UTF-8 CSV files with a BOM so
// spreadsheet tools pick up the accented product names.
type CSVExporter struct {
	dir string
}

// NewCSVExporter creates an exporter writing into dir. The directory is
// created on the first export.
func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{dir: dir}
}

// Export writes all observations to a timestamped file, cheapest first with
// unpriced rows at the end, and returns the file path.
func (e *CSVExporter) Export(observations []domain.ProductObservation) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	rows := make([]domain.ProductObservation, len(observations))
	copy(rows, observations)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].PriceValue, rows[j].PriceValue
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	path := filepath.Join(e.dir, "prix_"+time.Now().Format("20060102_150405")+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString("\uFEFF"); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, obs := range rows {
		priceNum := ""
		if obs.PriceValue != nil {
			priceNum = strconv.FormatFloat(*obs.PriceValue, 'f', -1, 64)
		}
		record := []string{
			obs.Name,
			obs.Brand,
			obs.Barcode,
			obs.PriceText,
			priceNum,
			obs.Category,
			obs.StoreName,
			obs.StoreURL,
			obs.ProductURL,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush export: %w", err)
	}

	return path, nil
}
