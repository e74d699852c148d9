package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"github.com/oriharu-heaven/ExpenseTracker/internal/config"
	"github.com/oriharu-heaven/ExpenseTracker/internal/logger"
	"github.com/oriharu-heaven/ExpenseTracker/internal/sheetsync"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
	bqstore "github.com/oriharu-heaven/ExpenseTracker/internal/store/bigquery"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store/inmemory"
)

var cli struct {
	Config  string        `env:"CONFIG_PATH" help:"${env} - Path to config file"`
	DryRun  bool          `help:"Report what would be exported without writing to the sheet"`
	Timeout time.Duration `help:"Overall timeout" default:"5m"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("expense-sync-sheets"),
		kong.Description("Appends unsynced expense records to the configured Google Sheet."),
	)

	log := logger.New()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		log.Fatal().Msg("sheets.spreadsheet_id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	appender, err := sheetsync.NewSheetsAppender(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.WriteRange)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	exported, err := sheetsync.SyncRecords(ctx, st, appender, cli.DryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Sheet sync failed")
	}
	fmt.Printf("Exported %d records.\n", exported)
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
