package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidResultType is returned when a cached value cannot be converted to
// the type the caller asked for. This points at two callers sharing a key with
// different types, which is a programming error, but readers degrade rather
// than panic.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// FetchFn is the function signature the cache expects when fetching from the
// source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Service exposes the caching operations the menu sync layer needs: a
// read-through fetch with de-duplication, plus the invalidation primitives
// mutation handlers and the realtime bridge both converge on.
type Service interface {
	// GetOrFetch returns the value under key, invoking fetchFn when the entry
	// is absent or expired. Concurrent callers for the same absent key share
	// one fetch. A fetchFn error after retries exhaust is returned as-is.
	GetOrFetch(ctx context.Context, key string, fetchFn FetchFn[any]) (any, error)

	// Delete drops a single entry, forcing the next read to refetch.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix drops every entry whose key nests under prefix. This is
	// how "invalidate everything under entity X" is expressed.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// InvalidateKeys drops a batch of exact keys in one call.
	InvalidateKeys(ctx context.Context, keys []string) error
}

// GetOrFetch is the type-safe wrapper over Service.GetOrFetch. The zero value
// of T is returned alongside any error.
func GetOrFetch[T any](ctx context.Context, service Service, key string, fetchFn FetchFn[T]) (T, error) {
	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if result == nil {
		var zero T
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: key %q holds %T", ErrInvalidResultType, key, result)
	}
	return typed, nil
}
