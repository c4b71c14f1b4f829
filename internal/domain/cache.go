package domain

import "context"

// Cache keys in one place so they do not drift across packages.
func CacheKeyDocumentMeta(id DocumentID) string { return "docmeta:" + id.String() }

// Simple k/v interface. Implementation is Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	Ping(context.Context) error
	Close()
}
