package extract

import (
	"regexp"
	"slices"
	"strings"
)

const maxBrandTokens = 3

var nonLetters = regexp.MustCompile(`[^A-Za-zÀ-ÖØ-öø-ÿ]`)

// GuessBrand infers a brand from the trailing run of upper-case tokens in a
// product name ("Pâtes spaghetti n°5 BARILLA" -> "BARILLA"). At most the last
// three tokens are kept, so brands longer than three words come back truncated.
// Returns an empty string when no trailing token qualifies.
func GuessBrand(name string) string {
	if name == "" || name == missingValue {
		return ""
	}

	tokens := strings.Fields(strings.ReplaceAll(name, " ", " "))

	var tail []string
	for i := len(tokens) - 1; i >= 0; i-- {
		letters := nonLetters.ReplaceAllString(tokens[i], "")
		if letters == "" || letters != strings.ToUpper(letters) {
			break
		}
		tail = append(tail, tokens[i])
		if len(tail) == maxBrandTokens {
			break
		}
	}

	if len(tail) == 0 {
		return ""
	}

	slices.Reverse(tail)
	return strings.Trim(strings.Join(tail, " "), " ,;-")
}
