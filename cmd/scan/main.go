package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/oriharu-heaven/ExpenseTracker/internal/batch"
	"github.com/oriharu-heaven/ExpenseTracker/internal/config"
	"github.com/oriharu-heaven/ExpenseTracker/internal/gcs"
	"github.com/oriharu-heaven/ExpenseTracker/internal/logger"
	"github.com/oriharu-heaven/ExpenseTracker/internal/receipt"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
	bqstore "github.com/oriharu-heaven/ExpenseTracker/internal/store/bigquery"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store/inmemory"
)

var cli struct {
	Image      string        `arg:"" help:"Receipt image: local path or gs:// URI"`
	Config     string        `env:"CONFIG_PATH" help:"${env} - Path to config file"`
	AutoCommit bool          `help:"Commit the parsed batch without edits"`
	Timeout    time.Duration `help:"Overall timeout" default:"5m"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("expense-scan"),
		kong.Description("Analyzes a receipt image with Gemini and prints or commits the parsed batch."),
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

	imageBytes, mimeType, err := loadImage(ctx, cli.Image)
	if err != nil {
		log.Fatal().Err(err).Str("image", cli.Image).Msg("Failed to load image")
	}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	session := batch.NewSession(st)
	analyzer := receipt.NewGeminiAnalyzer(cfg.Gemini.Model)

	if err := session.Scan(ctx, analyzer, imageBytes, mimeType); err != nil {
		log.Fatal().Err(err).Msg("Scan failed")
	}

	items := session.Items()
	log.Info().Int("item_count", len(items)).Msg("Scan ready")

	if !cli.AutoCommit {
		out, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode items")
		}
		fmt.Println(string(out))
		return
	}

	results, err := session.Commit(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Commit failed")
	}
	committed := 0
	for _, res := range results {
		if res.Err != nil {
			log.Error().Err(res.Err).Str("item_id", res.ItemID).Msg("Item insert failed")
			continue
		}
		committed++
	}
	fmt.Printf("Committed %d of %d records.\n", committed, len(results))
}

func loadImage(ctx context.Context, ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "gs://") {
		return gcs.FetchImage(ctx, ref)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, "", err
	}
	return data, http.DetectContentType(data), nil
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
