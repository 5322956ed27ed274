// Package di wires the menu sync layer: one cache service, one store, one
// sync service, and one realtime bridge per process. The cache and the
// bridge's subscription set are deliberately process-wide singletons;
// consumers share them instead of holding private copies.
package di

import (
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-menu-sync/cache"
	"github.com/goliatone/go-menu-sync/internal/cacheinfra"
	"github.com/goliatone/go-menu-sync/menusync"
	"github.com/goliatone/go-menu-sync/realtime"
	"github.com/goliatone/go-menu-sync/store"
)

// Container holds the singleton instances of the sync layer.
type Container struct {
	config       cache.Config
	cacheService cache.Service
	store        *store.Store
	menu         *menusync.Service
	bridge       *realtime.Bridge
}

// NewContainer builds the layer over a database handle. listener may be nil
// for deployments without a change stream; the bridge is then omitted and the
// cache runs in pure staleness mode (optionally with the poll fallback).
func NewContainer(db *bun.DB, listener realtime.Listener, config cache.Config, logger *slog.Logger) (*Container, error) {
	cacheService, err := cacheinfra.NewSturdycService(config)
	if err != nil {
		return nil, err
	}

	st := store.New(db, logger)
	svc := menusync.New(st, cacheService, logger)

	c := &Container{
		config:       config,
		cacheService: cacheService,
		store:        st,
		menu:         svc,
	}
	if listener != nil {
		c.bridge = realtime.NewBridge(listener, svc.Invalidation(), logger)
	}
	return c, nil
}

// NewContainerWithDefaults builds the layer with the default cache policy.
func NewContainerWithDefaults(db *bun.DB, listener realtime.Listener, logger *slog.Logger) (*Container, error) {
	return NewContainer(db, listener, cache.DefaultConfig(), logger)
}

// CacheService returns the singleton cache service.
func (c *Container) CacheService() cache.Service {
	return c.cacheService
}

// Store returns the backing-store access layer.
func (c *Container) Store() *store.Store {
	return c.store
}

// Menu returns the cached read/mutate service.
func (c *Container) Menu() *menusync.Service {
	return c.menu
}

// Bridge returns the realtime bridge, or nil when no listener was supplied.
func (c *Container) Bridge() *realtime.Bridge {
	return c.bridge
}

// Config returns a copy of the cache configuration in use.
func (c *Container) Config() cache.Config {
	return c.config
}
