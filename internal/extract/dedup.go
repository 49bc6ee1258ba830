package extract

import "PriceScanner/internal/domain"

// Deduplicate collapses repeated sightings of the same product. The first
// observation seen for a key stays, unless a later duplicate brings a resolved
// price where the stored one has none. Price magnitudes and recency are never
// compared. First-appearance order is preserved for surviving keys, and the
// operation is idempotent.
func Deduplicate(observations []domain.ProductObservation) []domain.ProductObservation {
	index := make(map[domain.ObservationKey]int, len(observations))
	out := make([]domain.ProductObservation, 0, len(observations))

	for _, obs := range observations {
		key := obs.Key()
		at, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, obs)
			continue
		}
		if out[at].PriceValue == nil && obs.PriceValue != nil {
			out[at] = obs
		}
	}
	return out
}
