package domain

import (
	"context"
	"io"
)

// BlobStorage holds document bytes under server-generated object keys
// (S3/MinIO). It sits outside the relational transaction, which is why the
// document service orders blob writes before metadata writes.
type BlobStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get streams the object; contentLen and contentType come from the store.
	Get(ctx context.Context, key string) (rc io.ReadCloser, contentLen int64, contentType string, err error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
