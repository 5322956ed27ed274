// Package store implements the ordered entity fetchers and write operations
// over the backing relational store. Fetchers honor the published-only rule of
// the caller's context and tolerate schema drift: a deployment missing the
// preferred ordering column is served through a documented legacy query whose
// fields are mapped back onto the canonical shape.
package store

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"
)

// Table names of the watched collections. They double as cache entity names.
const (
	TableCategories     = "categories"
	TableItems          = "items"
	TableVariants       = "item_variants"
	TableProteinTypes   = "protein_types"
	TableCustomizations = "customizations"
	TableSetMeals       = "set_meals"
)

// Store wraps a bun DB handle with the menu read/write operations.
type Store struct {
	db   *bun.DB
	log  *slog.Logger
	caps *capabilities
}

// New builds a Store. A nil logger discards output.
func New(db *bun.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Store{
		db:   db,
		log:  logger,
		caps: newCapabilities(),
	}
}

// DB exposes the underlying handle for callers that need raw access (the poll
// fallback, migrations in tests).
func (s *Store) DB() *bun.DB {
	return s.db
}

// discardHandler is a no-op slog.Handler for callers that pass no logger.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
