// Package cache is the durable local mirror of store state: a flat
// key/value space of JSON documents under fixed keys. It is advisory;
// nothing reconciles it against the server, and a crash between a memory
// update and the cache write leaves them divergent until the next
// successful fetch.
package cache

import "context"

// Fixed keys mirrored by the stores.
const (
	KeyTickets  = "maintenance_requests"
	KeyMessages = "messages"
	KeySession  = "auth_session"
)

// Cache reads and writes JSON documents. Get reports found=false for
// missing or unreadable entries; corrupt entries are treated as missing,
// never fatal.
type Cache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Put(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}
