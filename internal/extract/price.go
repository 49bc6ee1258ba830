package extract

import (
	"regexp"
	"strconv"
	"strings"
)

const missingValue = "N/A"

var priceExpr = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*€?`)

// ParsePrice extracts the first numeric amount from a formatted price string
// ("1,30 €" -> 1.30). It returns nil for empty, sentinel, or digit-free input;
// no input string makes it panic or error.
func ParsePrice(raw string) *float64 {
	if raw == "" || raw == missingValue {
		return nil
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, " ", " "))
	match := priceExpr.FindStringSubmatch(cleaned)
	if match == nil {
		return nil
	}

	value, err := strconv.ParseFloat(strings.Replace(match[1], ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &value
}
