package simpleupload

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	s3store "github.com/tendant/simple-upload/pkg/simpleupload/storage/s3"
	"github.com/tendant/simple-upload/pkg/simpleupload/urlstrategy"
)

// Client uploads local files and remote resources to an object store and
// returns the public URL of the stored object.
//
// A Client is safe for concurrent use: it holds no mutable state beyond the
// underlying store's own client.
type Client struct {
	store      ObjectStore
	fs         afero.Fs
	httpClient *http.Client
}

// ClientOption applies configuration to a Client during construction.
type ClientOption func(*clientConfig)

type clientConfig struct {
	region       string
	usePathStyle bool
	store        ObjectStore
	fs           afero.Fs
	httpClient   *http.Client
}

// WithRegion sets the region for the underlying S3 client (default:
// us-east-1). Ignored when an ObjectStore is injected.
func WithRegion(region string) ClientOption {
	return func(c *clientConfig) {
		c.region = region
	}
}

// WithPathStyle enables path-style addressing on the underlying S3 client,
// which some S3-compatible providers (e.g. MinIO) require.
func WithPathStyle() ClientOption {
	return func(c *clientConfig) {
		c.usePathStyle = true
	}
}

// WithObjectStore injects a storage backend, replacing the S3 client built
// from the credentials. Intended for tests.
func WithObjectStore(store ObjectStore) ClientOption {
	return func(c *clientConfig) {
		c.store = store
	}
}

// WithFs sets the filesystem local files are read from (default: the OS
// filesystem).
func WithFs(fs afero.Fs) ClientOption {
	return func(c *clientConfig) {
		c.fs = fs
	}
}

// WithHTTPClient sets the HTTP client used to fetch remote URLs (default:
// http.DefaultClient).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = httpClient
	}
}

// New creates a Client bound to the provider's default endpoint.
//
// Credential correctness is not verified here; invalid credentials surface
// on the first upload.
func New(accessKeyID, secretAccessKey string, opts ...ClientOption) (*Client, error) {
	return newClient(accessKeyID, secretAccessKey, "", opts...)
}

// NewWithEndpoint creates a Client for an S3-compatible provider reached at
// an explicit endpoint (MinIO, Cloudflare R2, ...). The endpoint is
// mandatory; use New for the default provider endpoint.
func NewWithEndpoint(accessKeyID, secretAccessKey, endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, &ConfigError{Field: "endpoint", Err: ErrEndpointRequired}
	}
	return newClient(accessKeyID, secretAccessKey, endpoint, opts...)
}

func newClient(accessKeyID, secretAccessKey, endpoint string, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if accessKeyID == "" || secretAccessKey == "" {
		return nil, &ConfigError{Field: "credentials", Err: ErrCredentialsRequired}
	}

	store := cfg.store
	if store == nil {
		var err error
		store, err = s3store.New(s3store.Config{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			Endpoint:        endpoint,
			Region:          cfg.region,
			UsePathStyle:    cfg.usePathStyle,
		})
		if err != nil {
			return nil, err
		}
	}

	fs := cfg.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		store:      store,
		fs:         fs,
		httpClient: httpClient,
	}, nil
}

// UploadFile streams the file at path to bucket/key and returns the public
// URL of the uploaded object. The ACL is validated before any network call.
func (c *Client) UploadFile(ctx context.Context, path, bucket, key string, opts ...UploadOption) (string, error) {
	req := newUploadRequest(opts)
	if err := ValidateACL(req.ACL); err != nil {
		return "", err
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	contentType := req.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}

	if err := c.store.Upload(ctx, bucket, key, f, string(req.ACL), contentType); err != nil {
		return "", &StorageError{Bucket: bucket, Key: key, Op: "upload", Err: err}
	}

	return urlstrategy.For(req.BucketDomain).PublicURL(bucket, key), nil
}

// UploadFromURL fetches url with a blocking GET and stores the response
// body at bucket/key, returning the public URL of the uploaded object. A
// non-2xx response fails with a FetchError before any store call; the body
// bytes are passed through unmodified.
func (c *Client) UploadFromURL(ctx context.Context, url, bucket, key string, opts ...UploadOption) (string, error) {
	req := newUploadRequest(opts)
	if err := ValidateACL(req.ACL); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = resp.Header.Get("Content-Type")
	}

	if err := c.store.Put(ctx, bucket, key, resp.Body, string(req.ACL), contentType); err != nil {
		return "", &StorageError{Bucket: bucket, Key: key, Op: "put", Err: err}
	}

	return urlstrategy.For(req.BucketDomain).PublicURL(bucket, key), nil
}
