package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-menu-sync/menu"
)

// Items fetches menu items. Under a published-only context, drafts (null
// published_at) are excluded; admin sees everything.
func (s *Store) Items(ctx context.Context, mctx menu.Context) ([]menu.MenuItem, error) {
	var items []menu.MenuItem
	q := s.db.NewSelect().
		Model(&items).
		OrderExpr("name ASC")
	if mctx.PublishedOnly() {
		q = q.Where("published_at IS NOT NULL")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return items, nil
}

// ItemsWithVariants is the composite item read: items with their variant
// lists embedded, variants ordered within each item.
func (s *Store) ItemsWithVariants(ctx context.Context, mctx menu.Context) ([]menu.MenuItem, error) {
	var items []menu.MenuItem
	q := s.db.NewSelect().
		Model(&items).
		Relation("Variants", func(vq *bun.SelectQuery) *bun.SelectQuery {
			return vq.OrderExpr("display_order ASC")
		}).
		OrderExpr("name ASC")
	if mctx.PublishedOnly() {
		q = q.Where("published_at IS NOT NULL")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return items, nil
}
