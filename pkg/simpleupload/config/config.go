// Package config builds the upload service's client, repository, and
// server settings from defaults, functional options, and environment
// variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-upload/pkg/simpleupload"
	"github.com/tendant/simple-upload/pkg/simpleupload/repo"
	repomemory "github.com/tendant/simple-upload/pkg/simpleupload/repo/memory"
	repopg "github.com/tendant/simple-upload/pkg/simpleupload/repo/postgres"
	storagememory "github.com/tendant/simple-upload/pkg/simpleupload/storage/memory"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:        "8080",
		Environment: "development",
		StorageType: "memory",
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// ServerConfig represents server configuration for the upload service.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Upload history persistence: empty or "memory" keeps records in
	// memory, a postgres URL stores them in upload.uploads.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	// Storage backend: "s3" or "memory".
	StorageType string `env:"UPLOAD_STORAGE" env-default:"memory"`

	// Default bucket and optional public domain for uploaded objects.
	DefaultBucket string `env:"UPLOAD_DEFAULT_BUCKET" env-default:""`
	BucketDomain  string `env:"UPLOAD_BUCKET_DOMAIN" env-default:""`

	S3 S3Config
}

// S3Config holds credentials and endpoint settings for the S3 backend.
type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
}

// WithEnv applies environment variable overrides via cleanenv.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// WithPort overrides the listen port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithStorage selects the storage backend type ("s3" or "memory").
func WithStorage(storageType string) Option {
	return func(c *ServerConfig) error {
		c.StorageType = storageType
		return nil
	}
}

// WithDatabaseURL sets the upload-history database URL.
func WithDatabaseURL(databaseURL string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseURL = databaseURL
		return nil
	}
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.StorageType != "memory" && c.StorageType != "s3" {
		return errors.New("storage type must be 'memory' or 's3'")
	}

	if c.StorageType == "s3" && (c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "") {
		return errors.New("AWS credentials are required when using s3 storage")
	}

	if c.DatabaseURL != "" && c.DatabaseURL != "memory" &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("unsupported DATABASE_URL format (use 'memory' or 'postgresql://...')")
	}

	return nil
}

// BuildClient creates an upload client from the configuration.
func (c *ServerConfig) BuildClient() (*simpleupload.Client, error) {
	if c.StorageType == "memory" {
		// Backend is injected, so the credentials are never used on the
		// wire; they still have to be non-empty.
		return simpleupload.New("memory", "memory",
			simpleupload.WithObjectStore(storagememory.New()))
	}

	opts := []simpleupload.ClientOption{
		simpleupload.WithRegion(c.S3.Region),
	}
	if c.S3.UsePathStyle {
		opts = append(opts, simpleupload.WithPathStyle())
	}

	if c.S3.Endpoint != "" {
		return simpleupload.NewWithEndpoint(c.S3.AccessKeyID, c.S3.SecretAccessKey, c.S3.Endpoint, opts...)
	}
	return simpleupload.New(c.S3.AccessKeyID, c.S3.SecretAccessKey, opts...)
}

// BuildRepository creates the upload-history repository from the
// configuration.
func (c *ServerConfig) BuildRepository(ctx context.Context) (repo.Repository, error) {
	if c.DatabaseURL == "" || c.DatabaseURL == "memory" {
		return repomemory.New(), nil
	}

	pool, err := pgxpool.New(ctx, c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return repopg.NewWithPool(pool), nil
}
