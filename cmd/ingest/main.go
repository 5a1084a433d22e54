package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/config"
	"github.com/dawn1811/Rok-Manager/internal/identity"
	"github.com/dawn1811/Rok-Manager/internal/ingest"
	"github.com/dawn1811/Rok-Manager/internal/logger"
	"github.com/dawn1811/Rok-Manager/internal/source"
	"github.com/dawn1811/Rok-Manager/internal/store/clickhouse"
	"github.com/dawn1811/Rok-Manager/internal/store/s3blob"
)

// One-shot ingestion run: load registry, ingest every configured event's
// tables, save registry, print the run summary.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting ingestion run",
		zap.String("environment", cfg.Service.Environment),
		zap.Strings("events", cfg.Ingest.Events))

	ctx := context.Background()

	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	snapshots := clickhouse.NewSnapshotStore(clickhouseClient, log)

	if err := snapshots.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	registryStore, err := s3blob.NewRegistryStore(ctx, cfg.S3, log)
	if err != nil {
		log.Fatal("Failed to create registry store", zap.Error(err))
	}

	headers, err := source.LoadHeaderMap(cfg.Ingest.HeaderAliasFile)
	if err != nil {
		log.Fatal("Failed to load header alias file", zap.Error(err))
	}
	csvSource := source.NewCSVDir(cfg.Ingest.SourceRoot, headers, log)

	runner := ingest.NewRunner(
		identity.NewLifecycle(registryStore, log),
		identity.NewResolver(log),
		snapshots,
		csvSource,
		csvSource,
		ingest.RunnerConfig{MaxBatchOps: cfg.Ingest.MaxBatchOps},
		log,
	)

	summary, runErr := runner.Run(ctx, cfg.Ingest.Events)

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Error("Failed to encode run summary", zap.Error(err))
	} else {
		fmt.Println(string(out))
	}

	if runErr != nil {
		log.Error("Ingestion run failed", zap.Error(runErr))
		os.Exit(1)
	}
}
