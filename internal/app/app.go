package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"PriceScanner/internal/config"
	"PriceScanner/internal/extract"
	"PriceScanner/internal/infrastructure/browser"
	"PriceScanner/internal/infrastructure/export"
	"PriceScanner/internal/infrastructure/parser"
	"PriceScanner/internal/infrastructure/scheduler"
	"PriceScanner/internal/infrastructure/storage"
	"PriceScanner/internal/infrastructure/telegram"
	"PriceScanner/internal/logging"
	"PriceScanner/internal/ports"
	"PriceScanner/internal/scanner"
	"PriceScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	cleanup  []func(context.Context) error
}

// New builds a runnable application instance. Optional sinks (Postgres,
// Mongo, Telegram) are wired only when configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	session := browser.NewSession(cfg.Browser, baseLogger.With("component", "browser"))
	builder := extract.NewBuilder(extract.NewClassifier(cfg.ResolveTaxonomy()))

	registry := scanner.NewRegistry()
	registry.Register(parser.NewCarrefourScanner(session, builder, baseLogger.With("component", "scanner.carrefour")))
	registry.Register(parser.NewMonoprixScanner(session, builder, baseLogger.With("component", "scanner.monoprix")))
	registry.Register(parser.NewAuchanScanner(session, builder, baseLogger.With("component", "scanner.auchan")))
	registry.Register(parser.NewLeclercScanner(session, builder, baseLogger.With("component", "scanner.leclerc")))
	registry.Register(parser.NewLidlScanner(session, builder, baseLogger.With("component", "scanner.lidl")))

	source := parser.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source"))

	app := &Application{cfg: cfg, logger: baseLogger}

	var repository ports.ObservationRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		app.cleanup = append(app.cleanup, func(context.Context) error { return db.Close() })

		repo := storage.NewPostgresRepository(db)
		if err := repo.InitSchema(ctx); err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		repository = repo
	}

	var documents ports.DocumentSink
	if cfg.Mongo.URI != "" {
		mongoRepo, err := storage.NewMongoRepository(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		app.cleanup = append(app.cleanup, mongoRepo.Close)
		documents = mongoRepo
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	app.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Exporter:   export.NewCSVExporter(cfg.Export.Directory),
		Documents:  documents,
		Repository: repository,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return app, nil
}

// Run executes one scrape immediately, or keeps running on the configured
// interval when the scheduler is enabled.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if !a.cfg.Scheduler.Enabled {
		return a.pipeline.Run(ctx, "manuel")
	}

	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval)
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases the storage connections.
func (a *Application) Close(ctx context.Context) error {
	var first error
	for _, fn := range a.cleanup {
		if err := fn(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
