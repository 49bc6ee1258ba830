package domain

// RawCard is the flat field mapping a channel parser pulls out of one product
// tile. Values are already localized text/attributes; no markup reaches the core.
type RawCard struct {
	Title     string
	PriceText string
	Href      string
	ImageSrc  string
	Barcode   string // only set when the source exposes it as structured data
}

// StoreContext identifies the selling location a scan runs against.
type StoreContext struct {
	StoreName string
	StoreURL  string
	Channel   string // "carrefour", "monoprix", ...
}

// ProductObservation is one scraped sighting of a product at a point in time.
// Optional fields stay empty (or nil for PriceValue) when not derivable.
type ProductObservation struct {
	Name       string
	Brand      string
	Barcode    string // digits only, 8-14
	PriceText  string
	PriceValue *float64 // nil when PriceText did not parse; never a fabricated zero
	Category   string
	StoreName  string
	StoreURL   string
	ProductURL string
	Channel    string
}

// ObservationKey is the identity tuple used to recognize repeated sightings of
// the same product across extraction passes.
type ObservationKey struct {
	StoreURL   string
	ProductURL string
	Name       string
	PriceText  string
}

// Key derives the identity key: (store, product URL) when the URL is known,
// otherwise (store, name, price text).
func (o ProductObservation) Key() ObservationKey {
	if o.ProductURL != "" {
		return ObservationKey{StoreURL: o.StoreURL, ProductURL: o.ProductURL}
	}
	return ObservationKey{StoreURL: o.StoreURL, Name: o.Name, PriceText: o.PriceText}
}

// CategoryRef backs the category dropdown of the query page.
type CategoryRef struct {
	ID   int64
	Name string
}

// StoreRef backs the store dropdown of the query page.
type StoreRef struct {
	ID   int64
	Name string
}

// PriceQuery carries the optional filters and sort key of the query page.
// Zero IDs and empty strings mean "no filter".
type PriceQuery struct {
	Name       string
	Brand      string
	CategoryID int64
	StoreID    int64
	Sort       string // prix_asc, prix_desc, nom_asc, nom_desc
}

// PriceRow is one line of the min-price-per-product query.
type PriceRow struct {
	ProductName string
	Brand       string
	CategoryID  int64
	Category    string
	Price       *float64
}
