package menusync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-menu-sync/cache"
	"github.com/goliatone/go-menu-sync/menu"
	"github.com/goliatone/go-menu-sync/store"
)

// Service is the cached read/mutate facade over the menu store. Every read
// takes an explicit consumption context and goes through the process-wide
// query cache; every mutation writes through the store and invalidates the
// keys it affects.
type Service struct {
	store *store.Store
	cache cache.Service
	inval *Invalidation
	log   *slog.Logger

	// warned tracks keys that already produced a malformed-value warning, so
	// a bad payload degrades to "no data" exactly once per key, not once per
	// render.
	warned *xsync.MapOf[string, struct{}]
}

// New builds a Service. A nil logger discards output.
func New(st *store.Store, cacheService cache.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(nopHandler{})
	}
	return &Service{
		store:  st,
		cache:  cacheService,
		inval:  NewInvalidation(cacheService, logger),
		log:    logger,
		warned: xsync.NewMapOf[string, struct{}](),
	}
}

// Invalidation exposes the shared invalidation primitive for the realtime
// bridge and the poll fallback.
func (s *Service) Invalidation() *Invalidation {
	return s.inval
}

// Categories returns categories for the context, cached.
func (s *Service) Categories(ctx context.Context, mctx menu.Context) ([]menu.Category, error) {
	key := cache.EntityKey(cache.EntityCategories, mctx)
	cats, err := cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]menu.Category, error) {
		return s.store.Categories(ctx, mctx)
	})
	return normalize(s, key, cats, err)
}

// Items returns menu items for the context, cached.
func (s *Service) Items(ctx context.Context, mctx menu.Context) ([]menu.MenuItem, error) {
	key := cache.EntityKey(cache.EntityItems, mctx)
	items, err := cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]menu.MenuItem, error) {
		return s.store.Items(ctx, mctx)
	})
	return normalize(s, key, items, err)
}

// ItemsWithVariants returns the composite item read (variant lists embedded),
// cached under its own filtered key.
func (s *Service) ItemsWithVariants(ctx context.Context, mctx menu.Context) ([]menu.MenuItem, error) {
	key := cache.EntityKey(cache.EntityItems, mctx, cache.F("variants", true))
	items, err := cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]menu.MenuItem, error) {
		return s.store.ItemsWithVariants(ctx, mctx)
	})
	return normalize(s, key, items, err)
}

// Variants returns item variants for the context, cached.
func (s *Service) Variants(ctx context.Context, mctx menu.Context) ([]menu.ItemVariant, error) {
	key := cache.EntityKey(cache.EntityVariants, mctx)
	variants, err := cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]menu.ItemVariant, error) {
		return s.store.Variants(ctx, mctx)
	})
	return normalize(s, key, variants, err)
}

// ProteinTypes returns protein types, cached per context.
func (s *Service) ProteinTypes(ctx context.Context, mctx menu.Context) ([]menu.ProteinType, error) {
	key := cache.EntityKey(cache.EntityProteinTypes, mctx)
	types, err := cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]menu.ProteinType, error) {
		return s.store.ProteinTypes(ctx, mctx)
	})
	return normalize(s, key, types, err)
}

// Customizations returns customizations visible on the context's surface,
// cached.
func (s *Service) Customizations(ctx context.Context, mctx menu.Context) ([]menu.Customization, error) {
	key := cache.EntityKey(cache.EntityCustomizations, mctx)
	customizations, err := cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]menu.Customization, error) {
		return s.store.Customizations(ctx, mctx)
	})
	return normalize(s, key, customizations, err)
}

// SetMeals returns set meals for the context, cached.
func (s *Service) SetMeals(ctx context.Context, mctx menu.Context) ([]menu.SetMeal, error) {
	key := cache.EntityKey(cache.EntitySetMeals, mctx)
	meals, err := cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]menu.SetMeal, error) {
		return s.store.SetMeals(ctx, mctx)
	})
	return normalize(s, key, meals, err)
}

// Bundle returns the composite derived view for the context. The bundle is
// cached under its own key; its four inputs come through their entity caches,
// so a warm entity read is shared between the bundle and direct consumers.
// The bundle is recomputed whole on every refetch, never patched.
func (s *Service) Bundle(ctx context.Context, mctx menu.Context) (menu.Bundle, error) {
	key := cache.BundleKey(mctx)
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (menu.Bundle, error) {
		categories, err := s.Categories(ctx, mctx)
		if err != nil {
			return menu.Bundle{}, err
		}
		items, err := s.Items(ctx, mctx)
		if err != nil {
			return menu.Bundle{}, err
		}
		variants, err := s.Variants(ctx, mctx)
		if err != nil {
			return menu.Bundle{}, err
		}
		proteinTypes, err := s.ProteinTypes(ctx, mctx)
		if err != nil {
			return menu.Bundle{}, err
		}
		return menu.BuildBundle(categories, items, variants, proteinTypes), nil
	})
}

// normalize applies the malformed-value policy: a cached value that cannot be
// converted to the expected collection type degrades to an empty collection
// with a one-time warning instead of failing the read. Real fetch errors pass
// through.
func normalize[T any](s *Service, key string, value []T, err error) ([]T, error) {
	if err == nil {
		return value, nil
	}
	if errors.Is(err, cache.ErrInvalidResultType) {
		if _, loaded := s.warned.LoadOrStore(key, struct{}{}); !loaded {
			s.log.Warn("malformed cached value, serving empty collection", "key", key, "error", err)
		}
		return []T{}, nil
	}
	return nil, err
}

// nopHandler is a no-op slog.Handler used when no logger is supplied.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
