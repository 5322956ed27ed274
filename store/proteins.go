package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-menu-sync/menu"
)

// legacyProteinTypeRow is the protein-type shape before the display_order
// migration: no ordering column at all, names are simply listed
// alphabetically.
type legacyProteinTypeRow struct {
	bun.BaseModel `bun:"table:protein_types,alias:pt"`

	ID   string `bun:"id,pk"`
	Name string `bun:"name"`
}

// ProteinTypes fetches protein types ordered by display order, with rows
// missing an order value sorted alphabetically after the ordered ones. When
// the deployment lacks the display_order column entirely, the read falls back
// once to a plain alphabetical listing.
func (s *Store) ProteinTypes(ctx context.Context, mctx menu.Context) ([]menu.ProteinType, error) {
	_ = mctx // protein types carry no draft state; every context sees all rows

	if s.caps.get(TableProteinTypes) == capLegacy {
		return s.legacyProteinTypes(ctx)
	}

	var types []menu.ProteinType
	err := s.db.NewSelect().
		Model(&types).
		OrderExpr("display_order IS NULL, display_order ASC").
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		if !isUndefinedColumn(err) {
			return nil, classify(err)
		}
		s.log.Warn("protein types: display_order column missing, using alphabetical order",
			"table", TableProteinTypes)
		s.caps.set(TableProteinTypes, capLegacy)
		return s.legacyProteinTypes(ctx)
	}

	s.caps.set(TableProteinTypes, capPreferred)
	return types, nil
}

func (s *Store) legacyProteinTypes(ctx context.Context) ([]menu.ProteinType, error) {
	var rows []legacyProteinTypeRow
	err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}

	types := make([]menu.ProteinType, len(rows))
	for i, row := range rows {
		types[i] = menu.ProteinType{ID: row.ID, Name: row.Name}
	}
	return types, nil
}
