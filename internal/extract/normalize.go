package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures have no combining-mark decomposition, so fold them up front.
var ligatures = strings.NewReplacer("œ", "oe", "æ", "ae")

// Normalize lower-cases text and folds accented Latin characters to their
// ASCII equivalents ("Œufs À LA COQUE" -> "oeufs a la coque"). It preprocesses
// keyword matching only and is never used for display values.
func Normalize(text string) string {
	lowered := ligatures.Replace(strings.ToLower(text))
	folded, _, err := transform.String(foldAccents, lowered)
	if err != nil {
		return lowered
	}
	return folded
}
