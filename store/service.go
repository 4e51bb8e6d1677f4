package store

import (
	"context"
	"io"

	"github.com/timemore/publicstore/errors"
)

type ServiceConfig any

// Service is a storage backend bound to a single bucket. Backends
// return ErrObjectNotFound (possibly wrapped) from StatObject when the
// object is absent, and wrap credential rejections with access.Wrap.
type Service interface {
	// PutPublicObject writes content at objectKey, readable by anyone.
	// An empty contentType leaves the choice to the backend.
	PutPublicObject(ctx context.Context, objectKey string, content io.Reader, size int64, contentType string) error

	// StatObject checks that objectKey exists.
	StatObject(ctx context.Context, objectKey string) error

	RemoveObject(ctx context.Context, objectKey string) error

	// PublicURL returns the address the object is served from. It does
	// not contact the service.
	PublicURL(objectKey string) string
}

var (
	ErrBucketNotFound = errors.Msg("bucket not found")
	ErrObjectNotFound = errors.Msg("object not found")
)
