package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/simple-upload/pkg/simpleupload"
	"github.com/tendant/simple-upload/pkg/simpleupload/objectkey"
	"github.com/tendant/simple-upload/pkg/simpleupload/repo"
)

// UploadHandler handles upload API endpoints.
type UploadHandler struct {
	client        *simpleupload.Client
	uploads       repo.Repository
	keys          objectkey.Generator
	defaultBucket string
	bucketDomain  string
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(client *simpleupload.Client, uploads repo.Repository, defaultBucket, bucketDomain string) *UploadHandler {
	return &UploadHandler{
		client:        client,
		uploads:       uploads,
		keys:          objectkey.NewUUIDGenerator(),
		defaultBucket: defaultBucket,
		bucketDomain:  bucketDomain,
	}
}

// Routes returns the router for upload endpoints.
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/file", h.UploadFile)
	r.Post("/remote", h.UploadRemote)
	r.Get("/", h.ListUploads)
	r.Get("/{upload_id}", h.GetUpload)
	return r
}

// UploadFileRequest represents the request to upload a server-local file.
type UploadFileRequest struct {
	Path         string `json:"path"`
	Bucket       string `json:"bucket,omitempty"`
	Key          string `json:"key,omitempty"`
	ACL          string `json:"acl,omitempty"`
	BucketDomain string `json:"bucket_domain,omitempty"`
}

// UploadRemoteRequest represents the request to upload a remote resource.
type UploadRemoteRequest struct {
	URL          string `json:"url"`
	Bucket       string `json:"bucket,omitempty"`
	Key          string `json:"key,omitempty"`
	ACL          string `json:"acl,omitempty"`
	BucketDomain string `json:"bucket_domain,omitempty"`
}

// UploadResponse represents a completed upload.
type UploadResponse struct {
	UploadID  string `json:"upload_id"`
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	PublicURL string `json:"public_url"`
}

// UploadFile uploads a file from the server's filesystem.
func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	var req UploadFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	bucket, key, domain, ok := h.resolveTarget(w, req.Bucket, req.Key, req.BucketDomain, filepath.Base(req.Path))
	if !ok {
		return
	}

	publicURL, err := h.client.UploadFile(r.Context(), req.Path, bucket, key, uploadOptions(req.ACL, domain)...)
	if err != nil {
		h.renderUploadError(w, err)
		return
	}

	record := &repo.Record{
		Bucket:     bucket,
		ObjectKey:  key,
		ACL:        effectiveACL(req.ACL),
		SourceType: repo.SourceTypeFile,
		Source:     req.Path,
		PublicURL:  publicURL,
	}
	if err := h.uploads.CreateUpload(r.Context(), record); err != nil {
		slog.Error("Fail to record upload", "bucket", bucket, "key", key, "error", err)
		http.Error(w, "failed to record upload", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, UploadResponse{
		UploadID:  record.ID.String(),
		Bucket:    bucket,
		Key:       key,
		PublicURL: publicURL,
	})
}

// UploadRemote fetches a remote URL and uploads its content.
func (h *UploadHandler) UploadRemote(w http.ResponseWriter, r *http.Request) {
	var req UploadRemoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}
	bucket, key, domain, ok := h.resolveTarget(w, req.Bucket, req.Key, req.BucketDomain, filepath.Base(req.URL))
	if !ok {
		return
	}

	publicURL, err := h.client.UploadFromURL(r.Context(), req.URL, bucket, key, uploadOptions(req.ACL, domain)...)
	if err != nil {
		h.renderUploadError(w, err)
		return
	}

	record := &repo.Record{
		Bucket:     bucket,
		ObjectKey:  key,
		ACL:        effectiveACL(req.ACL),
		SourceType: repo.SourceTypeRemote,
		Source:     req.URL,
		PublicURL:  publicURL,
	}
	if err := h.uploads.CreateUpload(r.Context(), record); err != nil {
		slog.Error("Fail to record upload", "bucket", bucket, "key", key, "error", err)
		http.Error(w, "failed to record upload", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, UploadResponse{
		UploadID:  record.ID.String(),
		Bucket:    bucket,
		Key:       key,
		PublicURL: publicURL,
	})
}

// ListUploads lists recorded uploads, newest first.
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	params := repo.ListParams{Bucket: r.URL.Query().Get("bucket")}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		params.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		params.Offset = offset
	}

	records, err := h.uploads.ListUploads(r.Context(), params)
	if err != nil {
		slog.Error("Fail to list uploads", "error", err)
		http.Error(w, "failed to list uploads", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*repo.Record{}
	}

	render.JSON(w, r, records)
}

// GetUpload returns one recorded upload by id.
func (h *UploadHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "upload_id"))
	if err != nil {
		http.Error(w, "invalid upload ID", http.StatusBadRequest)
		return
	}

	record, err := h.uploads.GetUpload(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrUploadNotFound) {
			http.Error(w, "upload not found", http.StatusNotFound)
			return
		}
		slog.Error("Fail to get upload", "upload_id", id, "error", err)
		http.Error(w, "failed to get upload", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, record)
}

// resolveTarget fills in the default bucket, generated key, and configured
// bucket domain; it writes the error response itself when the bucket is
// missing.
func (h *UploadHandler) resolveTarget(w http.ResponseWriter, bucket, key, domain, filename string) (string, string, string, bool) {
	if bucket == "" {
		bucket = h.defaultBucket
	}
	if bucket == "" {
		http.Error(w, "bucket is required", http.StatusBadRequest)
		return "", "", "", false
	}
	if key == "" {
		key = h.keys.GenerateKey(filename)
	}
	if domain == "" {
		domain = h.bucketDomain
	}
	return bucket, key, domain, true
}

// effectiveACL reports the ACL the store actually receives: the client
// defaults to public-read when none is requested.
func effectiveACL(acl string) string {
	if acl == "" {
		return string(simpleupload.ACLPublicRead)
	}
	return acl
}

func uploadOptions(acl, domain string) []simpleupload.UploadOption {
	var opts []simpleupload.UploadOption
	if acl != "" {
		opts = append(opts, simpleupload.WithACL(simpleupload.ACL(acl)))
	}
	if domain != "" {
		opts = append(opts, simpleupload.WithBucketDomain(domain))
	}
	return opts
}

func (h *UploadHandler) renderUploadError(w http.ResponseWriter, err error) {
	var configErr *simpleupload.ConfigError
	var fetchErr *simpleupload.FetchError

	switch {
	case errors.As(err, &configErr):
		http.Error(w, configErr.Error(), http.StatusBadRequest)
	case errors.As(err, &fetchErr):
		slog.Error("Fail to fetch remote resource", "url", fetchErr.URL, "status", fetchErr.StatusCode, "error", err)
		http.Error(w, fetchErr.Error(), http.StatusBadGateway)
	default:
		slog.Error("Fail to upload", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
