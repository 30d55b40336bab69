// Package urlstrategy constructs public URLs for uploaded objects.
package urlstrategy

import (
	"fmt"
	"strings"
)

// Strategy defines the interface for public URL construction.
type Strategy interface {
	// PublicURL returns the public URL of the object stored at bucket/key.
	PublicURL(bucket, key string) string
}

// S3Strategy generates URLs on the default virtual-hosted S3 domain:
// https://{bucket}.s3.amazonaws.com/{key}.
type S3Strategy struct{}

// NewS3Strategy creates the default URL strategy.
func NewS3Strategy() *S3Strategy {
	return &S3Strategy{}
}

func (s *S3Strategy) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}

// BucketDomainStrategy generates URLs on a caller-supplied domain, e.g. a
// CDN or a CNAME pointing at the bucket: https://{domain}/{key}. The bucket
// does not appear in the URL.
type BucketDomainStrategy struct {
	Domain string
}

// NewBucketDomainStrategy creates a strategy for the given domain. A
// trailing slash on the domain is dropped.
func NewBucketDomainStrategy(domain string) *BucketDomainStrategy {
	return &BucketDomainStrategy{Domain: strings.TrimSuffix(domain, "/")}
}

func (s *BucketDomainStrategy) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s/%s", s.Domain, key)
}

// For returns the strategy matching the given bucket domain: the domain
// strategy when non-empty, the default S3 strategy otherwise.
func For(bucketDomain string) Strategy {
	if bucketDomain != "" {
		return NewBucketDomainStrategy(bucketDomain)
	}
	return NewS3Strategy()
}
