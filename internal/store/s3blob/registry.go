package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	envConfig "github.com/dawn1811/Rok-Manager/internal/config"
	"github.com/dawn1811/Rok-Manager/internal/domain"
)

// ObjectAPI is the slice of the S3 client the registry store uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// RegistryStore persists the whole entity registry as a single JSON object
// under a fixed key. Load and Save move the entire document; there is no
// partial or merge persistence.
type RegistryStore struct {
	client ObjectAPI
	bucket string
	key    string
	log    *zap.Logger
}

// NewRegistryStore creates a registry store backed by S3-compatible object
// storage.
func NewRegistryStore(ctx context.Context, s3Config envConfig.S3, log *zap.Logger) (*RegistryStore, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(s3Config.Region),
	}

	var clientOpts []func(*s3.Options)

	// Configure for local development with MinIO
	if s3Config.Endpoint != "" {
		log.Info("Configuring object storage for local development",
			zap.String("endpoint", s3Config.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3Config.Endpoint)
			o.UsePathStyle = true
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, clientOpts...)

	log.Info("Registry object store client created",
		zap.String("region", s3Config.Region),
		zap.String("bucket", s3Config.Bucket),
		zap.String("key", s3Config.RegistryKey))

	return &RegistryStore{
		client: client,
		bucket: s3Config.Bucket,
		key:    s3Config.RegistryKey,
		log:    log,
	}, nil
}

// NewRegistryStoreWithClient builds a store around an existing client.
// Used by tests to substitute a fake object API.
func NewRegistryStoreWithClient(client ObjectAPI, bucket, key string, log *zap.Logger) *RegistryStore {
	return &RegistryStore{client: client, bucket: bucket, key: key, log: log}
}

// Load fetches the registry document. A missing object is a cold start and
// returns an empty registry.
func (s *RegistryStore) Load(ctx context.Context) (*domain.Registry, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			s.log.Info("No existing registry document found, starting fresh")
			return domain.NewRegistry(), nil
		}
		return nil, fmt.Errorf("failed to fetch registry object: %w", err)
	}
	defer func() {
		if err := out.Body.Close(); err != nil {
			s.log.Error("Failed to close registry object body", zap.Error(err))
		}
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry object: %w", err)
	}

	reg := domain.NewRegistry()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to decode registry document: %w", err)
	}
	return reg, nil
}

// Save writes the whole registry document, replacing the previous object.
func (s *RegistryStore) Save(ctx context.Context, reg *domain.Registry) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to encode registry document: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put registry object: %w", err)
	}
	return nil
}
