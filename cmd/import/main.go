package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/oriharu-heaven/ExpenseTracker/internal/config"
	"github.com/oriharu-heaven/ExpenseTracker/internal/csvimport"
	"github.com/oriharu-heaven/ExpenseTracker/internal/logger"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
	bqstore "github.com/oriharu-heaven/ExpenseTracker/internal/store/bigquery"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store/inmemory"
)

var cli struct {
	File    string        `arg:"" help:"CSV file to import" type:"existingfile"`
	Config  string        `env:"CONFIG_PATH" help:"${env} - Path to config file"`
	Timeout time.Duration `help:"Overall timeout" default:"5m"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("expense-import"),
		kong.Description("Imports expense records from a CSV file into the store."),
	)

	log := logger.New()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	data, err := os.ReadFile(cli.File)
	if err != nil {
		log.Fatal().Err(err).Str("file", cli.File).Msg("Failed to read CSV file")
	}

	log.Info().Str("file", cli.File).Msg("Starting CSV import")

	result := csvimport.New(st).Import(ctx, string(data))
	for _, msg := range result.Errors {
		fmt.Println(msg)
	}
	fmt.Printf("Imported %d records (%d rejected lines).\n", result.SuccessCount, len(result.Errors))
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
