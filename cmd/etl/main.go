package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/rastraverba/etl/internal/config"
	"github.com/rastraverba/etl/internal/db"
	"github.com/rastraverba/etl/internal/env"
	"github.com/rastraverba/etl/internal/logger"
	"github.com/rastraverba/etl/internal/ratelimit"
	"github.com/rastraverba/etl/internal/store"
	"github.com/rastraverba/etl/internal/tracker"
	"github.com/rastraverba/etl/internal/tracker/camara"
	"github.com/rastraverba/etl/internal/tracker/persist"
	"github.com/rastraverba/etl/internal/tracker/queridodiario"
	"github.com/rastraverba/etl/internal/tracker/transferegov"
)

func main() {
	const component = "Main"
	var appLogger = &logger.Logger{MinLevel: logger.LevelInfo}

	// Remove default timestamp since we add our own
	log.SetFlags(0)

	godotenv.Load()

	cfg := config.FromEnv()

	yearPtr := flag.Int("year", cfg.Year, "Reference year of the emendas to trace")
	dryRunPtr := flag.Bool("dry-run", cfg.DryRun, "Skip live API calls and write the sample dataset")
	limitPtr := flag.Int("limit", 0, "Maximum number of emendas to process (0 = no limit)")
	outputPtr := flag.String("output", cfg.OutputPath, "Parquet output path")
	verbosePtr := flag.Bool("verbose", cfg.Verbose, "Enable debug logging")
	logLevelPtr := flag.String("loglevel", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg.Year = *yearPtr
	cfg.DryRun = *dryRunPtr
	cfg.Limit = *limitPtr
	cfg.OutputPath = *outputPtr
	cfg.Verbose = *verbosePtr

	appLogger.SetLogLevel(logger.ParseLevel(*logLevelPtr))
	if cfg.Verbose {
		appLogger.SetLogLevel(logger.LevelDebug)
	}

	startingTime := time.Now()
	appLogger.Info(component, "Rastreador de Emendas starting: startTime=%s", startingTime.Format(time.RFC3339))
	appLogger.Info(component, "Run settings: year=%d dryRun=%t limit=%d rpm=%d output=%s",
		cfg.Year, cfg.DryRun, cfg.Limit, cfg.RequestsPerMinute, cfg.OutputPath)
	if cfg.TransfereGovKey == "" {
		appLogger.Warn(component, "TRANSFARENCY_API_KEY not set, TransfereGov calls are unauthenticated")
	}

	ctx := context.Background()

	var storage *store.Storage
	var run *store.PipelineRun
	if cfg.DBAddr != "" {
		database, err := db.New(
			cfg.DBAddr,
			env.GetInt("DB_MAX_OPEN_CONNS", 25),
			env.GetInt("DB_MAX_IDLE_CONNS", 25),
			env.GetString("DB_MAX_IDLE_TIME", "15m"))
		if err != nil {
			appLogger.Fatal(component, "Database connection failed: error=%v", err)
			return
		}
		defer database.Close()
		appLogger.Info(component, "Database connection pool established")

		storage = store.NewStorage(database)
		run = &store.PipelineRun{
			ID:         uuid.NewString(),
			Year:       cfg.Year,
			DryRun:     cfg.DryRun,
			Status:     store.RunStatusRunning,
			OutputFile: cfg.OutputPath,
			StartedAt:  time.Now().UTC(),
		}
		if err := storage.PipelineRuns.InsertRun(ctx, run); err != nil {
			appLogger.Warn(component, "Failed to record pipeline run: error=%v", err)
			run = nil
		}
	}

	transferClient := transferegov.New(cfg, appLogger)
	camaraClient := camara.New(ratelimit.New(cfg.RequestsPerMinute), appLogger)
	gazetteClient := queridodiario.New(ratelimit.New(cfg.RequestsPerMinute), appLogger)
	writer := persist.New(cfg.OutputPath, appLogger)

	orchestrator := tracker.NewOrchestrator(
		cfg, transferClient, camaraClient, transferClient, gazetteClient, writer, appLogger)

	records, err := orchestrator.Run()

	if run != nil {
		status := store.RunStatusSuccess
		if err != nil {
			status = store.RunStatusFailure
		}
		if ferr := storage.PipelineRuns.FinishRun(ctx, run.ID, status, len(records), err); ferr != nil {
			appLogger.Warn(component, "Failed to finish pipeline run record: error=%v", ferr)
		}
	}

	if err != nil {
		appLogger.Fatal(component, "Pipeline failed: error=%v", err)
		return
	}

	appLogger.Info(component, "Pipeline finished: rows=%d output=%s elapsed=%s",
		len(records), cfg.OutputPath, time.Since(startingTime).Round(time.Second))
}
