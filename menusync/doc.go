// Package menusync keeps a normalized view of the menu consistent across the
// three surfaces that consume it (admin editing, point-of-sale ordering, and
// the public online menu) while the backing store changes underneath it.
//
// # Read path
//
// Every read takes an explicit menu.Context and flows through the process-wide
// query cache under a key from the cache package's registry:
//
//	svc.Items(ctx, menu.ContextPOS)      // published items only
//	svc.Items(ctx, menu.ContextAdmin)    // drafts included
//	svc.Bundle(ctx, menu.ContextOnline)  // composite view with derived indices
//
// Fresh entries are served directly; stale ones are served while a background
// refetch runs; absent ones block, with concurrent callers sharing one fetch.
// Transient fetch failures are retried (2 attempts) before the error reaches
// the caller, and a previously cached value survives a failed refresh.
//
// A cached value of the wrong shape degrades to an empty collection with a
// one-time warning rather than failing the screen that asked for it.
//
// # Write path
//
// Mutations validate their payload, write through the store, and on success
// invalidate exactly the keys the write affects: the entity's own keys, every
// context's bundle key, and dependent index keys (deleting a protein type
// also drops variant keys, since variants resolve protein names through the
// bundle). A failed write invalidates nothing.
//
// # Invalidation
//
// Invalidation is a shared primitive (Invalidation): mutation handlers, the
// realtime bridge, and the poll fallback all converge on it. Invalidation is
// lazy: it marks entries expired and lets the next read refetch; nothing is
// refetched synchronously.
package menusync
