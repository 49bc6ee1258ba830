package main

import (
	"database/sql"
	"os"

	_ "github.com/lib/pq"

	"PriceScanner/internal/config"
	"PriceScanner/internal/infrastructure/storage"
	"PriceScanner/internal/infrastructure/web"
	"PriceScanner/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Error("open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	server := web.NewServer(storage.NewPostgresRepository(db), logger.With("component", "web"))
	logger.Info("query page listening", "address", cfg.Server.Address)
	if err := server.Run(cfg.Server.Address); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
