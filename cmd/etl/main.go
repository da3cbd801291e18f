// Command etl runs one market snapshot ETL cycle: fetch a page of CoinGecko
// market data, normalize it, and append it to the crypto_prices table.
//
// The process is a single invocation per schedule tick, not a daemon. It
// exits 0 on success and 1 on any fatal error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/sgarrity/coingecko-data/internal/api"
	"github.com/sgarrity/coingecko-data/internal/config"
	"github.com/sgarrity/coingecko-data/internal/database"
	"github.com/sgarrity/coingecko-data/internal/logging"
	"github.com/sgarrity/coingecko-data/internal/pipeline"
	"github.com/sgarrity/coingecko-data/internal/version"
	"github.com/sgarrity/coingecko-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional; env vars used otherwise)")
	logFile := flag.String("log-file", "logs/etl.log", "log file path (empty for console only)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	os.Exit(run(*configPath, *logFile))
}

func run(configPath, logFile string) int {
	// .env is optional; real deployments inject credentials directly.
	_ = godotenv.Load()

	logger, closeLogs := logging.New(logFile, slog.LevelInfo)
	defer closeLogs.Close()

	logger = logger.With("run_id", uuid.New().String())
	slog.SetDefault(logger)

	logger.Info("etl starting", "version", version.String())

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadAndValidate(configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return 1
	}
	defer pool.Close()

	client := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxAttempts, cfg.API.Backoff),
	)

	// Reachability is informational only; the fetch has its own retries.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		logger.Warn("upstream ping failed", "error", err)
	}
	cancel()

	store := writer.NewPriceWriter(pool, logger)
	p := pipeline.New(client, store, cfg.Fetch, logger)

	report, err := p.Run(ctx)
	if err != nil {
		logger.Error("etl run failed", "error", err)
		return 1
	}

	logger.Info("etl finished",
		"load_timestamp", report.LoadTS,
		"rows", report.Rows,
		"inserted", report.Load.Inserted,
		"elapsed", report.Elapsed,
	)
	return 0
}
