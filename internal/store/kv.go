package store

import "context"

// KV is the local durable key-value store the tracker persists its
// single current-session slot into. Get returns ("", false, nil) for a
// missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
