package extract

import "regexp"

var barcodeExpr = regexp.MustCompile(`-(\d{8,14})(?:\?|$)`)

// ExtractBarcode pulls an EAN-like digit run from a product URL when the
// channel embeds it as the final path segment ("/p/pates-3560070553990").
// Channels whose URL scheme does not follow this convention simply yield
// nothing; that is a per-channel capability, not a fault.
func ExtractBarcode(productURL string) string {
	if productURL == "" {
		return ""
	}
	match := barcodeExpr.FindStringSubmatch(productURL)
	if match == nil {
		return ""
	}
	return match[1]
}
