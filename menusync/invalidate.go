package menusync

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-menu-sync/cache"
	"github.com/goliatone/go-menu-sync/menu"
)

// Invalidation is the single invalidation primitive the whole layer converges
// on: mutation handlers, the realtime bridge, and the poll fallback all route
// through it, so no path can disagree about which keys a change touches.
type Invalidation struct {
	cache cache.Service
	log   *slog.Logger
}

// NewInvalidation builds the primitive over a cache service.
func NewInvalidation(service cache.Service, logger *slog.Logger) *Invalidation {
	if logger == nil {
		logger = slog.New(nopHandler{})
	}
	return &Invalidation{cache: service, log: logger}
}

// Entity drops every key for an entity across all contexts and filters.
func (v *Invalidation) Entity(ctx context.Context, e cache.Entity) error {
	return v.cache.DeleteByPrefix(ctx, cache.EntityPrefix(e))
}

// EntityForContext drops an entity's keys under one context only.
func (v *Invalidation) EntityForContext(ctx context.Context, e cache.Entity, mctx menu.Context) error {
	return v.cache.DeleteByPrefix(ctx, cache.ContextPrefix(e, mctx))
}

// Bundle drops the composite bundle key for one context.
func (v *Invalidation) Bundle(ctx context.Context, mctx menu.Context) error {
	return v.cache.Delete(ctx, cache.BundleKey(mctx))
}

// Bundles drops the composite bundle key for every context. Mutations use
// this: an admin edit must be visible on every surface on its next read.
func (v *Invalidation) Bundles(ctx context.Context) error {
	for _, mctx := range menu.Contexts() {
		if err := v.cache.Delete(ctx, cache.BundleKey(mctx)); err != nil {
			return err
		}
	}
	return nil
}

// Entities drops several entities across all contexts, then all bundles.
func (v *Invalidation) Entities(ctx context.Context, entities ...cache.Entity) error {
	for _, e := range entities {
		if err := v.Entity(ctx, e); err != nil {
			return err
		}
	}
	return v.Bundles(ctx)
}

// InvalidateTable handles a change notification for a backing table under the
// currently active context: the composite bundle key for that context plus the
// entity's keys under it. Table names the layer does not watch are ignored.
// Row content never matters here; published-only filtering decides what to
// show, not what to invalidate.
func (v *Invalidation) InvalidateTable(ctx context.Context, table string, mctx menu.Context) error {
	e, ok := cache.EntityForTable(table)
	if !ok {
		v.log.Debug("change event for unwatched table ignored", "table", table)
		return nil
	}
	if err := v.Bundle(ctx, mctx); err != nil {
		return err
	}
	return v.EntityForContext(ctx, e, mctx)
}
