package extract

import (
	"errors"

	"PriceScanner/internal/domain"
)

// ErrMissingTitle reports a raw card whose title container was absent. That is
// a defect in the upstream extraction contract, not a per-item condition.
var ErrMissingTitle = errors.New("raw card has no title field")

// Builder composes the extraction heuristics into one observation per raw
// card. It is a pure transformation with no side effects.
type Builder struct {
	classifier *Classifier
}

// NewBuilder wires the shared taxonomy classifier.
func NewBuilder(classifier *Classifier) *Builder {
	return &Builder{classifier: classifier}
}

// Build turns a raw card into a ProductObservation. A non-empty categoryHint
// short-circuits classification for pages already scoped to one category. The
// boolean is false when the name hit the blacklist; such cards must be dropped
// by the caller before deduplication.
func (b *Builder) Build(card domain.RawCard, store domain.StoreContext, categoryHint string) (domain.ProductObservation, bool, error) {
	if card.Title == "" {
		return domain.ProductObservation{}, false, ErrMissingTitle
	}

	obs := domain.ProductObservation{
		Name:       card.Title,
		Brand:      GuessBrand(card.Title),
		Barcode:    card.Barcode,
		PriceText:  card.PriceText,
		PriceValue: ParsePrice(card.PriceText),
		StoreName:  store.StoreName,
		StoreURL:   store.StoreURL,
		ProductURL: card.Href,
		Channel:    store.Channel,
	}
	if obs.Barcode == "" {
		obs.Barcode = ExtractBarcode(card.Href)
	}

	if categoryHint != "" {
		obs.Category = categoryHint
		return obs, true, nil
	}

	category, ok := b.classifier.Classify(card.Title)
	if !ok {
		return domain.ProductObservation{}, false, nil
	}
	obs.Category = category
	return obs, true, nil
}
