package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/config"
	"github.com/dawn1811/Rok-Manager/internal/handler"
	"github.com/dawn1811/Rok-Manager/internal/identity"
	"github.com/dawn1811/Rok-Manager/internal/ingest"
	"github.com/dawn1811/Rok-Manager/internal/logger"
	"github.com/dawn1811/Rok-Manager/internal/service"
	"github.com/dawn1811/Rok-Manager/internal/source"
	"github.com/dawn1811/Rok-Manager/internal/store/clickhouse"
	"github.com/dawn1811/Rok-Manager/internal/store/s3blob"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
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

	log.Info("Starting ingestion API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Initialize ClickHouse client and snapshot store
	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	snapshots := clickhouse.NewSnapshotStore(clickhouseClient, log)

	if err := snapshots.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Initialize registry store
	registryStore, err := s3blob.NewRegistryStore(ctx, cfg.S3, log)
	if err != nil {
		log.Fatal("Failed to create registry store", zap.Error(err))
	}

	// Initialize tabular source
	headers, err := source.LoadHeaderMap(cfg.Ingest.HeaderAliasFile)
	if err != nil {
		log.Fatal("Failed to load header alias file", zap.Error(err))
	}
	csvSource := source.NewCSVDir(cfg.Ingest.SourceRoot, headers, log)

	// Wire up the ingestion runner and run service
	runner := ingest.NewRunner(
		identity.NewLifecycle(registryStore, log),
		identity.NewResolver(log),
		snapshots,
		csvSource,
		csvSource,
		ingest.RunnerConfig{MaxBatchOps: cfg.Ingest.MaxBatchOps},
		log,
	)
	runService := service.NewRunService(runner, cfg.Ingest.Events, log)

	h := handler.NewHandler(runService, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
