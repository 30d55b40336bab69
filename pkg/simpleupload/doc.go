// Package simpleupload provides a small client for uploading files and
// remote resources to S3-compatible object storage and constructing the
// public URL of the stored object.
//
// It exposes a single Client that holds credentials and an optional custom
// endpoint, with two operations: UploadFile streams a local file to a
// bucket/key, and UploadFromURL fetches an HTTP(S) resource and stores its
// body. Both return the public URL of the uploaded object. The storage
// protocol itself (signing, multipart, retries) is delegated to an
// ObjectStore implementation; the S3 implementation lives under
// storage/s3 and an in-memory implementation for tests under
// storage/memory.
package simpleupload
