package cacheinfra

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-menu-sync/cache"
)

// SturdycService implements cache.Service on top of a sturdyc client.
//
// The staleness and GC deadlines map onto sturdyc directly: the early-refresh
// window is the staleness deadline (a read inside it serves the cached value
// and refetches in the background; past the sync-refresh point the refetch
// blocks), and the TTL is the GC deadline after which an unused entry is
// evicted. In-flight de-duplication for a key is handled by sturdyc itself.
//
// Invalidation is deletion, the strictest form of an already-expired staleness
// deadline. Any read that starts after a Delete always runs a fresh fetch.
// sturdyc's own Delete does not reach a fetch already in flight, so the
// adapter keeps a per-key invalidation generation: results are stored with the
// generation their fetch started under, and a result whose generation is
// behind the current one is discarded and refetched instead of being served as
// fresh.
type SturdycService struct {
	client     *sturdyc.Client[any]
	attempts   int
	retryDelay time.Duration

	// gens tracks the invalidation generation per key. Every fetched key
	// registers here, so prefix invalidation can bump keys whose only presence
	// is an in-flight fetch.
	gens *xsync.MapOf[string, uint64]
}

var _ cache.Service = (*SturdycService)(nil)

// entry is the stored cache value: the caller's value plus the invalidation
// generation its fetch started under.
type entry struct {
	gen   uint64
	value any
}

// NewSturdycService validates cfg and builds the adapter.
func NewSturdycService(cfg cache.Config) (*SturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []sturdyc.Option{}
	if cfg.StaleAfter > 0 {
		// Async refreshes are spread across the stale window to avoid
		// refetch bursts when many keys go stale together.
		maxAsync := cfg.StaleAfter + (cfg.SyncRefreshAfter-cfg.StaleAfter)/2
		if maxAsync <= cfg.StaleAfter {
			maxAsync = cfg.StaleAfter + time.Second
		}
		opts = append(opts, sturdyc.WithEarlyRefreshes(
			cfg.StaleAfter,
			maxAsync,
			cfg.SyncRefreshAfter,
			cfg.RetryBaseDelay,
		))
	}
	if cfg.MissingRecordStorage {
		opts = append(opts, sturdyc.WithMissingRecordStorage())
	}
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.EvictAfter,
		cfg.EvictionPercentage,
		opts...,
	)

	return &SturdycService{
		client:     client,
		attempts:   cfg.FetchAttempts,
		retryDelay: cfg.RetryBaseDelay,
		gens:       xsync.NewMapOf[string, uint64](),
	}, nil
}

func (s *SturdycService) generation(key string) uint64 {
	gen, _ := s.gens.Load(key)
	return gen
}

func (s *SturdycService) bumpGeneration(key string) {
	s.gens.Compute(key, func(old uint64, _ bool) (uint64, bool) {
		return old + 1, false
	})
}

// GetOrFetch implements cache.Service. The fetch runs under the configured
// retry budget; permanent errors and context cancellation surface immediately.
// A result that was already in flight when its key got invalidated is thrown
// away and fetched again, so a read issued after an invalidation never
// receives pre-invalidation data.
func (s *SturdycService) GetOrFetch(ctx context.Context, key string, fetchFn cache.FetchFn[any]) (any, error) {
	retry := s.withRetry(fetchFn)
	for {
		res, err := s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
			gen, _ := s.gens.LoadOrStore(key, 0)
			value, err := retry(ctx)
			if err != nil {
				// sturdyc type-asserts the result even on the error path; a
				// nil interface fails that assertion and masks err behind
				// sturdyc's own invalid-type error.
				return struct{}{}, err
			}
			return entry{gen: gen, value: value}, nil
		})
		if err != nil {
			return nil, err
		}
		e, ok := res.(entry)
		if !ok {
			return res, nil
		}
		if e.gen == s.generation(key) {
			return e.value, nil
		}
		// The key was invalidated while this result's fetch was in flight;
		// the value predates the invalidation and must not be served.
		s.client.Delete(key)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func (s *SturdycService) withRetry(fetchFn cache.FetchFn[any]) cache.FetchFn[any] {
	return func(ctx context.Context) (any, error) {
		var lastErr error
		for attempt := 0; attempt < s.attempts; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(s.retryDelay * time.Duration(attempt)):
				}
			}
			value, err := fetchFn(ctx)
			if err == nil {
				return value, nil
			}
			lastErr = err
			if cache.IsPermanent(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
		}
		return nil, lastErr
	}
}

// Delete implements cache.Service. The generation bump comes first so a fetch
// completing between the two steps is still recognized as superseded.
func (s *SturdycService) Delete(ctx context.Context, key string) error {
	s.bumpGeneration(key)
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix implements cache.Service by scanning live keys. Key counts
// here are small (one key per entity/context/filter combination), so the scan
// is cheap. Registered generations are bumped too, which covers keys whose
// fetch is in flight and therefore not yet visible to the key scan.
func (s *SturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.gens.Range(func(key string, _ uint64) bool {
		if strings.HasPrefix(key, prefix) {
			s.bumpGeneration(key)
		}
		return true
	})
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.bumpGeneration(key)
			s.client.Delete(key)
		}
	}
	return nil
}

// InvalidateKeys implements cache.Service.
func (s *SturdycService) InvalidateKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		s.bumpGeneration(key)
		s.client.Delete(key)
	}
	return nil
}
