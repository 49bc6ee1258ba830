package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"PriceScanner/internal/domain"
	"PriceScanner/internal/extract"
	"PriceScanner/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Every adapter except the source is optional; nil means the sink is off.
type PipelineDeps struct {
	Source     ports.ObservationSource
	Exporter   ports.Exporter
	Documents  ports.DocumentSink
	Repository ports.ObservationRepository
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline implements one scrape-and-persist run across all configured sites.
type Pipeline struct {
	source     ports.ObservationSource
	exporter   ports.Exporter
	documents  ports.DocumentSink
	repository ports.ObservationRepository
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		exporter:   deps.Exporter,
		documents:  deps.Documents,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// Run orchestrates collecting, deduplicating, exporting, and persisting.
// The trigger label distinguishes manual runs from scheduled ones in logs
// and notifications.
func (p *Pipeline) Run(ctx context.Context, trigger string) error {
	if p.source == nil {
		return nil
	}

	observations, err := p.source.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect observations: %w", err)
	}

	observations = extract.Deduplicate(observations)
	priced := countPriced(observations)
	p.info("collection finished",
		"trigger", trigger,
		"observations", len(observations),
		"priced", priced)

	if len(observations) == 0 {
		return nil
	}

	exportPath := ""
	if p.exporter != nil {
		exportPath, err = p.exporter.Export(observations)
		if err != nil {
			return fmt.Errorf("export observations: %w", err)
		}
		p.info("export written", "path", exportPath)
	}

	if p.documents != nil {
		if err := p.documents.InsertObservations(ctx, observations); err != nil {
			return fmt.Errorf("store documents: %w", err)
		}
	}

	if p.repository != nil {
		if err := p.repository.SaveObservations(ctx, observations); err != nil {
			return fmt.Errorf("persist observations: %w", err)
		}
	}

	if p.notifier == nil {
		return nil
	}

	return p.notifier.PublishSummary(ctx, buildSummary(trigger, observations, priced, exportPath))
}

func buildSummary(trigger string, observations []domain.ProductObservation, priced int, exportPath string) string {
	stores := map[string]int{}
	var order []string
	for _, obs := range observations {
		if _, seen := stores[obs.StoreName]; !seen {
			order = append(order, obs.StoreName)
		}
		stores[obs.StoreName]++
	}

	summary := fmt.Sprintf("Relevé de prix (%s) : %d produits, %d avec prix.\n",
		trigger, len(observations), priced)
	for _, store := range order {
		summary += fmt.Sprintf("- %s : %d\n", store, stores[store])
	}
	if exportPath != "" {
		summary += "Export : " + exportPath
	}
	return summary
}

func countPriced(observations []domain.ProductObservation) int {
	n := 0
	for _, obs := range observations {
		if obs.PriceValue != nil {
			n++
		}
	}
	return n
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
