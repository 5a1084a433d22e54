package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds service-level settings
type Service struct {
	Environment     string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort         string `envconfig:"SERVICE_API_PORT" default:"8080"`
	HealthCheckPort string `envconfig:"SERVICE_HEALTH_CHECK_PORT" default:"8081"`
}

// ClickHouse holds snapshot store connection settings
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// S3 holds registry object storage settings
type S3 struct {
	Endpoint    string `envconfig:"S3_ENDPOINT"`
	Region      string `envconfig:"S3_REGION" required:"true"`
	Bucket      string `envconfig:"S3_BUCKET" required:"true"`
	RegistryKey string `envconfig:"S3_REGISTRY_KEY" default:"registry/entities.json"`
}

// Ingest holds ingestion run settings
type Ingest struct {
	MaxBatchOps     int      `envconfig:"INGEST_MAX_BATCH_OPS" default:"499"`
	SourceRoot      string   `envconfig:"INGEST_SOURCE_ROOT" required:"true"`
	HeaderAliasFile string   `envconfig:"INGEST_HEADER_ALIAS_FILE" default:"configs/headers.yaml"`
	Events          []string `envconfig:"INGEST_EVENTS" required:"true"`
}

// Config is the root configuration loaded from environment variables
type Config struct {
	Service    Service
	ClickHouse ClickHouse
	S3         S3
	Ingest     Ingest
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
