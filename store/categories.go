package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-menu-sync/menu"
)

// legacyCategoryRow is the category shape of deployments that predate the
// display_order migration: ordering lives in sort_order and the active flag
// is called visible. The fallback read maps it onto the canonical Category so
// downstream consumers never see the difference.
type legacyCategoryRow struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        string  `bun:"id,pk"`
	Name      string  `bun:"name"`
	SortOrder *int    `bun:"sort_order"`
	Visible   bool    `bun:"visible"`
	ParentID  *string `bun:"parent_id"`
}

// Categories fetches all categories ordered by display order. Under a
// published-only context, inactive categories are excluded. When the
// deployment lacks the display_order column the read falls back once to the
// legacy sort_order/visible schema.
func (s *Store) Categories(ctx context.Context, mctx menu.Context) ([]menu.Category, error) {
	if s.caps.get(TableCategories) == capLegacy {
		return s.legacyCategories(ctx, mctx)
	}

	var cats []menu.Category
	q := s.db.NewSelect().
		Model(&cats).
		OrderExpr("display_order IS NULL, display_order ASC").
		OrderExpr("name ASC")
	if mctx.PublishedOnly() {
		q = q.Where("active = ?", true)
	}

	if err := q.Scan(ctx); err != nil {
		if !isUndefinedColumn(err) {
			return nil, classify(err)
		}
		s.log.Warn("categories: display_order column missing, using legacy schema",
			"table", TableCategories)
		s.caps.set(TableCategories, capLegacy)
		return s.legacyCategories(ctx, mctx)
	}

	s.caps.set(TableCategories, capPreferred)
	return cats, nil
}

func (s *Store) legacyCategories(ctx context.Context, mctx menu.Context) ([]menu.Category, error) {
	var rows []legacyCategoryRow
	q := s.db.NewSelect().
		Model(&rows).
		OrderExpr("sort_order IS NULL, sort_order ASC").
		OrderExpr("name ASC")
	if mctx.PublishedOnly() {
		q = q.Where("visible = ?", true)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}

	cats := make([]menu.Category, len(rows))
	for i, row := range rows {
		cats[i] = menu.Category{
			ID:              row.ID,
			Name:            row.Name,
			LegacySortOrder: row.SortOrder,
			Active:          row.Visible,
			ParentID:        row.ParentID,
		}
	}
	return cats, nil
}
