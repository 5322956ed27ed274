// Package cache defines the caching contract and key registry for the menu
// sync layer.
//
// # Overview
//
// Two things live here:
//
//   - Service: the read-through cache interface with prefix invalidation
//   - the key registry: canonical cache keys for (entity, context, filters)
//
// Keys form a hierarchy joined by "::" under the "menu" namespace:
//
//	menu::categories               every context, every filter
//	menu::categories::pos          one context, every filter
//	menu::categories::pos::f=v     one concrete read
//	menu::bundle::pos              the composite view for one context
//
// Invalidation targets any level of that hierarchy: DeleteByPrefix with
// EntityPrefix wipes an entity everywhere, ContextPrefix narrows to one
// surface, and Delete takes out a single concrete key.
//
// # Key determinism
//
// Filters are sorted by name and serialized with deterministic rules (maps by
// sorted pairs, structs by exported fields), so two logically identical reads
// always map to the same entry no matter the argument order at the call site.
//
// # Usage
//
//	key := cache.EntityKey(cache.EntityItems, menu.ContextPOS)
//	items, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) ([]menu.MenuItem, error) {
//		return store.Items(ctx, menu.ContextPOS)
//	})
//
// The default Service implementation lives in internal/cacheinfra and is
// constructed through pkg/di.
package cache
