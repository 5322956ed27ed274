package di

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-menu-sync/cache"
	"github.com/goliatone/go-menu-sync/realtime"
)

type stubListener struct{}

func (stubListener) Events(ctx context.Context, tables []string) (<-chan realtime.ChangeEvent, error) {
	return make(chan realtime.ChangeEvent), nil
}

func (stubListener) Close() error { return nil }

func openDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewContainer_WiresEverything(t *testing.T) {
	c, err := NewContainer(openDB(t), stubListener{}, cache.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}

	if c.CacheService() == nil {
		t.Error("cache service not wired")
	}
	if c.Store() == nil {
		t.Error("store not wired")
	}
	if c.Menu() == nil {
		t.Error("menu service not wired")
	}
	if c.Bridge() == nil {
		t.Error("bridge missing despite listener")
	}
}

func TestNewContainer_NilListenerOmitsBridge(t *testing.T) {
	c, err := NewContainer(openDB(t), nil, cache.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	if c.Bridge() != nil {
		t.Error("bridge must be nil without a listener")
	}
	if c.Menu() == nil {
		t.Error("menu service must still be wired")
	}
}

func TestNewContainer_RejectsInvalidConfig(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.EvictAfter = -time.Second

	if _, err := NewContainer(openDB(t), nil, cfg, nil); err == nil {
		t.Error("expected error for invalid cache config")
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	c, err := NewContainerWithDefaults(openDB(t), nil, nil)
	if err != nil {
		t.Fatalf("NewContainerWithDefaults failed: %v", err)
	}
	if got := c.Config(); got != cache.DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", got)
	}
}
