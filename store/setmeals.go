package store

import (
	"context"

	"github.com/goliatone/go-menu-sync/menu"
)

// SetMeals fetches set meals with their component lists embedded. Under a
// published-only context, inactive and unpublished set meals are excluded.
func (s *Store) SetMeals(ctx context.Context, mctx menu.Context) ([]menu.SetMeal, error) {
	var meals []menu.SetMeal
	q := s.db.NewSelect().
		Model(&meals).
		Relation("Components").
		OrderExpr("code ASC")
	if mctx.PublishedOnly() {
		q = q.Where("sm.active = ?", true).
			Where("sm.published_at IS NOT NULL")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return meals, nil
}
