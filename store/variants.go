package store

import (
	"context"

	"github.com/goliatone/go-menu-sync/menu"
)

// Variants fetches all item variants ordered by display order. Under a
// published-only context, variants belonging to draft items are excluded, so a
// customer-facing bundle never carries variants of items it cannot show.
func (s *Store) Variants(ctx context.Context, mctx menu.Context) ([]menu.ItemVariant, error) {
	var variants []menu.ItemVariant
	q := s.db.NewSelect().
		Model(&variants).
		OrderExpr("v.display_order ASC")
	if mctx.PublishedOnly() {
		q = q.Join("JOIN items AS i ON i.id = v.item_id").
			Where("i.published_at IS NOT NULL")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return variants, nil
}
