package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/sheikh-saqib/account-ledger-service/internal/api"
	"github.com/sheikh-saqib/account-ledger-service/internal/config"
	"github.com/sheikh-saqib/account-ledger-service/internal/events/kafka"
	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/memory"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/postgres"
)

func main() {
	logger := newLogger("info")

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.LogLevel)

	store, cleanup, err := newStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open ledger store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		logger.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	service := ledger.NewService(store, publisher, logger)
	handler := api.NewHandler(service, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, handler.Routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	parsed, err := charmlog.ParseLevel(level)
	if err != nil {
		parsed = charmlog.InfoLevel
	}
	return slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Level:           parsed,
	}))
}

func newStore(cfg *config.Config, logger *slog.Logger) (interfaces.LedgerStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store with seed accounts")
		return seededMemoryStore(), func() {}, nil
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewStore(db), func() { db.Close() }, nil
}

// seededMemoryStore mirrors the accounts schema.sql bootstraps, so the
// database-less mode serves the same data.
func seededMemoryStore() *memory.Store {
	store := memory.NewStore()
	store.SeedAccount(models.Account{ID: "A1", Number: 123, Name: "Katherine Sanchez", Active: true})
	store.SeedAccount(models.Account{ID: "A2", Number: 456, Name: "Eva Woodward", Active: false})
	return store
}
