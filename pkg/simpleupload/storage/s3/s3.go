// Package s3 implements an object store on top of the AWS SDK, usable with
// AWS S3 and S3-compatible services (MinIO, Cloudflare R2) through a custom
// endpoint.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Config options for the S3 store.
type Config struct {
	AccessKeyID     string // Access key ID
	SecretAccessKey string // Secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	Region          string // Region (default: us-east-1)
	UsePathStyle    bool   // Use path-style addressing (default: false)
}

// Store is an S3-compatible object store.
type Store struct {
	client *s3.Client
}

// New creates an S3 store bound to the given credentials and endpoint. When
// credentials are empty the default provider chain is used.
func New(config Config) (*Store, error) {
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	return &Store{client: s3.NewFromConfig(awsCfg, s3Options...)}, nil
}

// Upload streams content to bucket/key. The SDK's uploader splits the
// stream into multipart chunks as needed.
func (s *Store) Upload(ctx context.Context, bucket, key string, r io.Reader, acl, contentType string) error {
	uploader := manager.NewUploader(s.client)

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	applyParams(input, acl, contentType)

	if _, err := uploader.Upload(ctx, input); err != nil {
		return wrapAPIError("failed to upload to S3", err)
	}
	return nil
}

// Put stores content as a single PutObject call.
func (s *Store) Put(ctx context.Context, bucket, key string, r io.Reader, acl, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	applyParams(input, acl, contentType)

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return wrapAPIError("failed to put object to S3", err)
	}
	return nil
}

func applyParams(input *s3.PutObjectInput, acl, contentType string) {
	if acl != "" {
		input.ACL = types.ObjectCannedACL(acl)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
}

// wrapAPIError surfaces the service error code (NoSuchBucket, AccessDenied,
// ...) in the message while keeping the SDK error unwrappable.
func wrapAPIError(msg string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s (%s): %w", msg, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
