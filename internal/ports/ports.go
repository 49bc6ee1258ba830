package ports

import (
	"context"
	"time"

	"PriceScanner/internal/domain"
)

// ObservationSource pulls product observations from the configured channels.
type ObservationSource interface {
	Collect(ctx context.Context) ([]domain.ProductObservation, error)
}

// ObservationRepository persists observations into the relational store.
type ObservationRepository interface {
	SaveObservations(ctx context.Context, observations []domain.ProductObservation) error
}

// DocumentSink stores one schema-less record per observation.
type DocumentSink interface {
	InsertObservations(ctx context.Context, observations []domain.ProductObservation) error
}

// Exporter renders the final record set as a table and returns its location.
type Exporter interface {
	Export(observations []domain.ProductObservation) (string, error)
}

// PriceQuerier serves the filtered/sorted views backing the query page.
type PriceQuerier interface {
	Categories(ctx context.Context) ([]domain.CategoryRef, error)
	Brands(ctx context.Context) ([]string, error)
	Stores(ctx context.Context) ([]domain.StoreRef, error)
	MinPrices(ctx context.Context, query domain.PriceQuery) ([]domain.PriceRow, error)
}

// Notifier streams run summaries to Telegram or other channels.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}

// Scheduler controls when scrape runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
