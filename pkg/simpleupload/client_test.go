package simpleupload_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-upload/pkg/simpleupload"
	memorystorage "github.com/tendant/simple-upload/pkg/simpleupload/storage/memory"
)

func newTestClient(t *testing.T, store *memorystorage.Store, fs afero.Fs, opts ...simpleupload.ClientOption) *simpleupload.Client {
	t.Helper()

	opts = append([]simpleupload.ClientOption{
		simpleupload.WithObjectStore(store),
		simpleupload.WithFs(fs),
	}, opts...)

	client, err := simpleupload.New("test-access-key", "test-secret-key", opts...)
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	store := memorystorage.New()

	t.Run("MissingCredentials", func(t *testing.T) {
		_, err := simpleupload.New("", "", simpleupload.WithObjectStore(store))
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleupload.ErrCredentialsRequired)

		var configErr *simpleupload.ConfigError
		assert.ErrorAs(t, err, &configErr)
	})

	t.Run("EndpointOptionalForDefaultProvider", func(t *testing.T) {
		_, err := simpleupload.New("key", "secret", simpleupload.WithObjectStore(store))
		assert.NoError(t, err)
	})
}

func TestNewWithEndpoint(t *testing.T) {
	store := memorystorage.New()

	t.Run("EndpointRequired", func(t *testing.T) {
		_, err := simpleupload.NewWithEndpoint("key", "secret", "", simpleupload.WithObjectStore(store))
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleupload.ErrEndpointRequired)
	})

	t.Run("EndpointSupplied", func(t *testing.T) {
		_, err := simpleupload.NewWithEndpoint("key", "secret", "https://minio.local:9000", simpleupload.WithObjectStore(store))
		assert.NoError(t, err)
	})
}

func TestUploadFile(t *testing.T) {
	ctx := context.Background()

	newFs := func(t *testing.T, path string, data []byte) afero.Fs {
		t.Helper()
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
		return fs
	}

	t.Run("DefaultURL", func(t *testing.T) {
		store := memorystorage.New()
		fs := newFs(t, "/tmp/x.png", []byte("png bytes"))
		client := newTestClient(t, store, fs)

		url, err := client.UploadFile(ctx, "/tmp/x.png", "mybucket", "images/x.png")
		require.NoError(t, err)
		assert.Equal(t, "https://mybucket.s3.amazonaws.com/images/x.png", url)

		obj, err := store.Get("mybucket", "images/x.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("png bytes"), obj.Data)
		assert.Equal(t, "public-read", obj.ACL)
		assert.Equal(t, "image/png", obj.ContentType)
	})

	t.Run("BucketDomainURL", func(t *testing.T) {
		store := memorystorage.New()
		fs := newFs(t, "/tmp/x.png", []byte("png bytes"))
		client := newTestClient(t, store, fs)

		url, err := client.UploadFile(ctx, "/tmp/x.png", "mybucket", "images/x.png",
			simpleupload.WithBucketDomain("cdn.example.com"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/images/x.png", url)
	})

	t.Run("BucketDomainIgnoresBucket", func(t *testing.T) {
		store := memorystorage.New()
		fs := newFs(t, "/tmp/x.png", []byte("png bytes"))
		client := newTestClient(t, store, fs)

		for _, bucket := range []string{"a", "another-bucket", "x-y-z"} {
			url, err := client.UploadFile(ctx, "/tmp/x.png", bucket, "k",
				simpleupload.WithBucketDomain("cdn.example.com"))
			require.NoError(t, err)
			assert.Equal(t, "https://cdn.example.com/k", url)
		}
	})

	t.Run("CustomACL", func(t *testing.T) {
		store := memorystorage.New()
		fs := newFs(t, "/tmp/x.png", []byte("png bytes"))
		client := newTestClient(t, store, fs)

		_, err := client.UploadFile(ctx, "/tmp/x.png", "mybucket", "k",
			simpleupload.WithACL(simpleupload.ACLPrivate))
		require.NoError(t, err)

		obj, err := store.Get("mybucket", "k")
		require.NoError(t, err)
		assert.Equal(t, "private", obj.ACL)
	})

	t.Run("InvalidACLFailsBeforeStore", func(t *testing.T) {
		store := memorystorage.New()
		fs := newFs(t, "/tmp/x.png", []byte("png bytes"))
		client := newTestClient(t, store, fs)

		_, err := client.UploadFile(ctx, "/tmp/x.png", "mybucket", "k",
			simpleupload.WithACL("public"))
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleupload.ErrInvalidACL)
		assert.Contains(t, err.Error(), `"public"`)

		uploads, puts := store.Calls()
		assert.Zero(t, uploads)
		assert.Zero(t, puts)
	})

	t.Run("MissingFile", func(t *testing.T) {
		store := memorystorage.New()
		client := newTestClient(t, store, afero.NewMemMapFs())

		_, err := client.UploadFile(ctx, "/tmp/missing.png", "mybucket", "k")
		require.Error(t, err)

		uploads, _ := store.Calls()
		assert.Zero(t, uploads)
	})

	t.Run("ContentTypeOverride", func(t *testing.T) {
		store := memorystorage.New()
		fs := newFs(t, "/tmp/data.bin", []byte{0x1, 0x2})
		client := newTestClient(t, store, fs)

		_, err := client.UploadFile(ctx, "/tmp/data.bin", "mybucket", "k",
			simpleupload.WithContentType("application/x-custom"))
		require.NoError(t, err)

		obj, err := store.Get("mybucket", "k")
		require.NoError(t, err)
		assert.Equal(t, "application/x-custom", obj.ContentType)
	})
}

func TestUploadFromURL(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		body := []byte("remote resource bytes \x00\xff")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(body)
		}))
		defer server.Close()

		store := memorystorage.New()
		client := newTestClient(t, store, afero.NewMemMapFs(),
			simpleupload.WithHTTPClient(server.Client()))

		url, err := client.UploadFromURL(ctx, server.URL, "mybucket", "images/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://mybucket.s3.amazonaws.com/images/a.jpg", url)

		obj, err := store.Get("mybucket", "images/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, body, obj.Data, "body must be passed through unmodified")
		assert.Equal(t, "image/jpeg", obj.ContentType)
		assert.Equal(t, "public-read", obj.ACL)

		uploads, puts := store.Calls()
		assert.Zero(t, uploads)
		assert.Equal(t, 1, puts)
	})

	t.Run("BucketDomainURL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("x"))
		}))
		defer server.Close()

		store := memorystorage.New()
		client := newTestClient(t, store, afero.NewMemMapFs(),
			simpleupload.WithHTTPClient(server.Client()))

		url, err := client.UploadFromURL(ctx, server.URL, "mybucket", "k",
			simpleupload.WithBucketDomain("cdn.example.com"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/k", url)
	})

	t.Run("NotFoundFailsBeforeStore", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		store := memorystorage.New()
		client := newTestClient(t, store, afero.NewMemMapFs(),
			simpleupload.WithHTTPClient(server.Client()))

		_, err := client.UploadFromURL(ctx, server.URL, "mybucket", "k")
		require.Error(t, err)

		var fetchErr *simpleupload.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)

		uploads, puts := store.Calls()
		assert.Zero(t, uploads)
		assert.Zero(t, puts)
	})

	t.Run("ConnectionError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		httpClient := server.Client()
		server.Close()

		store := memorystorage.New()
		client := newTestClient(t, store, afero.NewMemMapFs(),
			simpleupload.WithHTTPClient(httpClient))

		_, err := client.UploadFromURL(ctx, server.URL, "mybucket", "k")
		require.Error(t, err)

		var fetchErr *simpleupload.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Zero(t, fetchErr.StatusCode)
		assert.Error(t, errors.Unwrap(fetchErr))
	})

	t.Run("InvalidACLFailsBeforeFetch", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		store := memorystorage.New()
		client := newTestClient(t, store, afero.NewMemMapFs(),
			simpleupload.WithHTTPClient(server.Client()))

		_, err := client.UploadFromURL(ctx, server.URL, "mybucket", "k",
			simpleupload.WithACL("Public-Read"))
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleupload.ErrInvalidACL)
		assert.Zero(t, requests)
	})
}
