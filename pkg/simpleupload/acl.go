package simpleupload

import "fmt"

// ACL is the domain type for canned access control lists.
type ACL string

// Canned ACL constants (typed). These are the values S3 recognizes; see
// https://docs.aws.amazon.com/AmazonS3/latest/userguide/acl-overview.html#canned-acl
const (
	ACLPrivate                ACL = "private"
	ACLPublicRead             ACL = "public-read"
	ACLPublicReadWrite        ACL = "public-read-write"
	ACLAuthenticatedRead      ACL = "authenticated-read"
	ACLAWSExecRead            ACL = "aws-exec-read"
	ACLBucketOwnerRead        ACL = "bucket-owner-read"
	ACLBucketOwnerFullControl ACL = "bucket-owner-full-control"
	ACLLogDeliveryWrite       ACL = "log-delivery-write"
)

var validACLs = map[ACL]struct{}{
	ACLPrivate:                {},
	ACLPublicRead:             {},
	ACLPublicReadWrite:        {},
	ACLAuthenticatedRead:      {},
	ACLAWSExecRead:            {},
	ACLBucketOwnerRead:        {},
	ACLBucketOwnerFullControl: {},
	ACLLogDeliveryWrite:       {},
}

// ValidateACL checks that acl is one of the canned ACLs recognized by
// S3-compatible providers. An empty ACL is valid: the store receives no ACL
// and the provider applies its default.
func ValidateACL(acl ACL) error {
	if acl == "" {
		return nil
	}
	if _, ok := validACLs[acl]; !ok {
		return &ConfigError{
			Field: "acl",
			Err: fmt.Errorf("%w: %q (see https://docs.aws.amazon.com/AmazonS3/latest/userguide/acl-overview.html#canned-acl)",
				ErrInvalidACL, acl),
		}
	}
	return nil
}
