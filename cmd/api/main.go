package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oriharu-heaven/ExpenseTracker/internal/api/handlers"
	"github.com/oriharu-heaven/ExpenseTracker/internal/api/middleware"
	"github.com/oriharu-heaven/ExpenseTracker/internal/batch"
	"github.com/oriharu-heaven/ExpenseTracker/internal/config"
	"github.com/oriharu-heaven/ExpenseTracker/internal/logger"
	"github.com/oriharu-heaven/ExpenseTracker/internal/receipt"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
	bqstore "github.com/oriharu-heaven/ExpenseTracker/internal/store/bigquery"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store/inmemory"
)

var cli struct {
	ListenAddress string `env:"LISTEN_ADDRESS" help:"${env} - Address to listen on" default:":8080"`
	Config        string `env:"CONFIG_PATH" help:"${env} - Path to config file"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("expense-api"),
		kong.Description("HTTP API for expense ingestion: CSV import, receipt scans and the record store."),
	)

	log := logger.New()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	ctx := logger.WithContext(context.Background(), log)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	registry := batch.NewRegistry()
	analyzer := receipt.NewGeminiAnalyzer(cfg.Gemini.Model)

	importHandler := handlers.NewImportHandler(st, log)
	scansHandler := handlers.NewScansHandler(registry, st, analyzer, log)
	recordsHandler := handlers.NewRecordsHandler(st, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/import/csv", importHandler.ImportCSV)
	mux.HandleFunc("POST /api/scans", scansHandler.CreateScan)
	mux.HandleFunc("GET /api/scans/{id}", scansHandler.GetScan)
	mux.HandleFunc("PATCH /api/scans/{id}/items/{itemID}", scansHandler.EditItem)
	mux.HandleFunc("DELETE /api/scans/{id}/items/{itemID}", scansHandler.DeleteItem)
	mux.HandleFunc("POST /api/scans/{id}/commit", scansHandler.CommitScan)
	mux.HandleFunc("GET /api/records", recordsHandler.ListRecords)
	mux.HandleFunc("PATCH /api/records/{id}", recordsHandler.UpdateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", recordsHandler.DeleteRecord)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.CORS(middleware.Recovery(log)(middleware.Logger(log)(mux)))

	srv := &http.Server{
		Addr:              cli.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cli.ListenAddress).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.RecordStore, func() error, error) {
	switch cfg.Store.Backend {
	case "bigquery":
		st, err := bqstore.NewStore(ctx, cfg.Store.ProjectID, cfg.Store.Dataset, cfg.Store.Table)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return inmemory.NewStore(), func() error { return nil }, nil
	}
}
