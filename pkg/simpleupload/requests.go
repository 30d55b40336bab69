package simpleupload

// UploadRequest carries the per-upload settings shared by UploadFile and
// UploadFromURL. Callers build it through functional options.
type UploadRequest struct {
	ACL          ACL
	BucketDomain string
	ContentType  string
}

// UploadOption represents a functional option for an upload operation.
type UploadOption func(*UploadRequest)

func newUploadRequest(opts []UploadOption) UploadRequest {
	req := UploadRequest{ACL: ACLPublicRead}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&req)
	}
	return req
}

// WithACL sets the canned ACL applied to the uploaded object. The default
// is public-read.
func WithACL(acl ACL) UploadOption {
	return func(r *UploadRequest) {
		r.ACL = acl
	}
}

// WithBucketDomain overrides public URL construction with a custom domain
// (e.g. "cdn.example.com"), replacing the default
// {bucket}.s3.amazonaws.com form.
func WithBucketDomain(domain string) UploadOption {
	return func(r *UploadRequest) {
		r.BucketDomain = domain
	}
}

// WithContentType sets the content type stored with the object. When unset,
// UploadFile derives it from the file extension and UploadFromURL takes it
// from the response's Content-Type header.
func WithContentType(contentType string) UploadOption {
	return func(r *UploadRequest) {
		r.ContentType = contentType
	}
}
