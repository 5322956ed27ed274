package store

import (
	"context"

	"github.com/goliatone/go-menu-sync/menu"
)

// Customizations fetches customizations visible to the given surface: POS
// reads honor the show_on_pos flag, online reads honor show_on_web, admin
// sees everything.
func (s *Store) Customizations(ctx context.Context, mctx menu.Context) ([]menu.Customization, error) {
	var customizations []menu.Customization
	q := s.db.NewSelect().
		Model(&customizations).
		OrderExpr("group_label ASC").
		OrderExpr("name ASC")
	switch mctx {
	case menu.ContextPOS:
		q = q.Where("show_on_pos = ?", true)
	case menu.ContextOnline:
		q = q.Where("show_on_web = ?", true)
	case menu.ContextAdmin:
		// no filtering
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return customizations, nil
}
