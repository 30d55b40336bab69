// Command upload performs a one-shot upload of a local file or a remote URL
// to S3-compatible storage and prints the public URL of the stored object.
//
// Credentials come from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
//
// Usage:
//
//	upload -file /tmp/x.png -bucket mybucket -key images/x.png
//	upload -url https://example.com/a.jpg -bucket mybucket -acl private
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/tendant/simple-upload/pkg/simpleupload"
	"github.com/tendant/simple-upload/pkg/simpleupload/objectkey"
)

func main() {
	var (
		file         = flag.String("file", "", "local file to upload")
		remoteURL    = flag.String("url", "", "remote URL to upload")
		bucket       = flag.String("bucket", "", "target bucket (required)")
		key          = flag.String("key", "", "object key (generated when empty)")
		acl          = flag.String("acl", "", "canned ACL (default public-read)")
		bucketDomain = flag.String("bucket-domain", "", "custom domain for the public URL")
		endpoint     = flag.String("endpoint", "", "custom endpoint for S3-compatible providers")
		region       = flag.String("region", "", "region (default us-east-1)")
		pathStyle    = flag.Bool("path-style", false, "use path-style addressing")
	)
	flag.Parse()

	_ = godotenv.Load(".env")

	if *bucket == "" {
		fmt.Fprintln(os.Stderr, "usage: -bucket is required")
		flag.Usage()
		os.Exit(2)
	}
	if (*file == "") == (*remoteURL == "") {
		fmt.Fprintln(os.Stderr, "usage: exactly one of -file or -url is required")
		flag.Usage()
		os.Exit(2)
	}

	accessKeyID := os.Getenv("AWS_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	var clientOpts []simpleupload.ClientOption
	if *region != "" {
		clientOpts = append(clientOpts, simpleupload.WithRegion(*region))
	}
	if *pathStyle {
		clientOpts = append(clientOpts, simpleupload.WithPathStyle())
	}

	var client *simpleupload.Client
	var err error
	if *endpoint != "" {
		client, err = simpleupload.NewWithEndpoint(accessKeyID, secretAccessKey, *endpoint, clientOpts...)
	} else {
		client, err = simpleupload.New(accessKeyID, secretAccessKey, clientOpts...)
	}
	if err != nil {
		slog.Error("Fail to create upload client", "error", err)
		os.Exit(1)
	}

	var uploadOpts []simpleupload.UploadOption
	if *acl != "" {
		uploadOpts = append(uploadOpts, simpleupload.WithACL(simpleupload.ACL(*acl)))
	}
	if *bucketDomain != "" {
		uploadOpts = append(uploadOpts, simpleupload.WithBucketDomain(*bucketDomain))
	}

	ctx := context.Background()

	var publicURL string
	if *file != "" {
		objectKey := *key
		if objectKey == "" {
			objectKey = objectkey.NewUUIDGenerator().GenerateKey(filepath.Base(*file))
		}
		publicURL, err = client.UploadFile(ctx, *file, *bucket, objectKey, uploadOpts...)
	} else {
		objectKey := *key
		if objectKey == "" {
			objectKey = objectkey.NewUUIDGenerator().GenerateKey(filepath.Base(*remoteURL))
		}
		publicURL, err = client.UploadFromURL(ctx, *remoteURL, *bucket, objectKey, uploadOpts...)
	}
	if err != nil {
		slog.Error("Fail to upload", "error", err)
		os.Exit(1)
	}

	fmt.Println(publicURL)
}
