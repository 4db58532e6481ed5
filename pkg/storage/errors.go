package storage

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags an Error with the taxonomy the HTTP boundary maps to a status
// code. It is a closed set — see pkg/server/response.go for the mapping.
type Kind int

const (
	// KindInternal covers any failure that doesn't fit a more specific kind.
	KindInternal Kind = iota
	KindBucketNotFound
	KindBucketAlreadyExists
	KindBucketNotEmpty
	KindInvalidBucketName
	KindUnsupportedRegion
	KindObjectNotFound
	KindInvalidObjectKey
	KindMetadataStoreFailure
	KindFilesystemFailure
)

func (k Kind) String() string {
	switch k {
	case KindBucketNotFound:
		return "BucketNotFound"
	case KindBucketAlreadyExists:
		return "BucketAlreadyExists"
	case KindBucketNotEmpty:
		return "BucketNotEmpty"
	case KindInvalidBucketName:
		return "InvalidBucketName"
	case KindUnsupportedRegion:
		return "UnsupportedRegion"
	case KindObjectNotFound:
		return "ObjectNotFound"
	case KindInvalidObjectKey:
		return "InvalidObjectKey"
	case KindMetadataStoreFailure:
		return "MetadataStoreFailure"
	case KindFilesystemFailure:
		return "FilesystemFailure"
	default:
		return "Internal"
	}
}

// Error is the engine's tagged-variant error. The HTTP boundary switches on
// Kind rather than pattern-matching message text.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapErr(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Cause: errors.WithStack(cause)}
}

// KindOf extracts the Kind of err, defaulting to KindInternal when err is
// not (or does not wrap) a *storage.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func NewBucketNotFound(name string) error {
	return newErr(KindBucketNotFound, fmt.Sprintf("bucket %q not found", name))
}

func NewBucketAlreadyExists(name string) error {
	return newErr(KindBucketAlreadyExists, fmt.Sprintf("bucket %q already exists", name))
}

func NewBucketNotEmpty(name string) error {
	return newErr(KindBucketNotEmpty, fmt.Sprintf("bucket %q is not empty", name))
}

func NewInvalidBucketName(name string) error {
	return newErr(KindInvalidBucketName, fmt.Sprintf("invalid bucket name %q", name))
}

func NewUnsupportedRegion(region string) error {
	return newErr(KindUnsupportedRegion, fmt.Sprintf("unsupported region %q", region))
}

func NewObjectNotFound(bucket, key string) error {
	return newErr(KindObjectNotFound, fmt.Sprintf("object %q not found in bucket %q", key, bucket))
}

func NewInvalidObjectKey(key string) error {
	return newErr(KindInvalidObjectKey, fmt.Sprintf("invalid object key %q", key))
}

func NewMetadataStoreFailure(cause error) error {
	return wrapErr(KindMetadataStoreFailure, "metadata store failure", cause)
}

func NewFilesystemFailure(cause error) error {
	return wrapErr(KindFilesystemFailure, "filesystem failure", cause)
}
