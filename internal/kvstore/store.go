// Package kvstore abstracts the TTL-backed keyed store shared by the
// admission controller and the deduplicator. The store exposes exactly the
// two atomic primitives those components need:
//
//   - IncrWithLimit: a single compare-and-increment on a windowed counter,
//     so two concurrent attempts can never both slip past a limit.
//   - SetNX: insert-if-absent with TTL, so two concurrent identical
//     dispatches can never both pass the duplicate check.
//
// Both primitives expire state automatically; no cleanup sweep is required.
//
// Two implementations are provided: a Redis-backed store for deployments
// with multiple worker processes, and an in-process memory store for
// single-process setups, development, and tests.
package kvstore

import (
	"context"
	"time"
)

// Store is the atomic TTL-backed keyed store contract.
//
// Implementations must be safe for unlimited concurrent callers and must
// make each operation linearizable per key.
type Store interface {
	// IncrWithLimit atomically increments the counter at key unless the
	// increment would exceed limit. It returns whether the increment was
	// admitted and the counter value after the call. The key's TTL is set
	// to ttl when the counter is created and is not refreshed afterwards,
	// so the window expires relative to its first hit.
	//
	// Rejected calls do not modify the counter: only admitted increments
	// count toward the limit.
	IncrWithLimit(ctx context.Context, key string, limit int64, ttl time.Duration) (admitted bool, count int64, err error)

	// SetNX registers key with the given TTL if it is absent. It returns
	// true when the key was inserted by this call and false when it
	// already existed. An existing key's TTL is never refreshed.
	SetNX(ctx context.Context, key string, ttl time.Duration) (inserted bool, err error)
}
