package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-menu-sync/menu"
)

// Write operations return the persisted row or an error; they never partially
// apply. Cache invalidation is the caller's job (menusync mutation handlers),
// so a failed write leaves the cache untouched.

// ErrNotFound is returned by updates and deletes that matched no row.
var ErrNotFound = sql.ErrNoRows

func (s *Store) insert(ctx context.Context, model any) error {
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) update(ctx context.Context, model any) error {
	res, err := s.db.NewUpdate().Model(model).WherePK().Exec(ctx)
	if err != nil {
		return classify(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) delete(ctx context.Context, model any) error {
	res, err := s.db.NewDelete().Model(model).WherePK().Exec(ctx)
	if err != nil {
		return classify(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c *menu.Category) (*menu.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *menu.Category) (*menu.Category, error) {
	if err := s.update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.delete(ctx, &menu.Category{ID: id})
}

func (s *Store) CreateItem(ctx context.Context, i *menu.MenuItem) (*menu.MenuItem, error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if err := s.insert(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Store) UpdateItem(ctx context.Context, i *menu.MenuItem) (*menu.MenuItem, error) {
	if err := s.update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.delete(ctx, &menu.MenuItem{ID: id})
}

func (s *Store) CreateVariant(ctx context.Context, v *menu.ItemVariant) (*menu.ItemVariant, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if err := s.insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) UpdateVariant(ctx context.Context, v *menu.ItemVariant) (*menu.ItemVariant, error) {
	if err := s.update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) DeleteVariant(ctx context.Context, id string) error {
	return s.delete(ctx, &menu.ItemVariant{ID: id})
}

func (s *Store) CreateProteinType(ctx context.Context, pt *menu.ProteinType) (*menu.ProteinType, error) {
	if pt.ID == "" {
		pt.ID = uuid.NewString()
	}
	if err := s.insert(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *Store) UpdateProteinType(ctx context.Context, pt *menu.ProteinType) (*menu.ProteinType, error) {
	if err := s.update(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *Store) DeleteProteinType(ctx context.Context, id string) error {
	return s.delete(ctx, &menu.ProteinType{ID: id})
}

func (s *Store) CreateCustomization(ctx context.Context, c *menu.Customization) (*menu.Customization, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) UpdateCustomization(ctx context.Context, c *menu.Customization) (*menu.Customization, error) {
	if err := s.update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) DeleteCustomization(ctx context.Context, id string) error {
	return s.delete(ctx, &menu.Customization{ID: id})
}

func (s *Store) CreateSetMeal(ctx context.Context, sm *menu.SetMeal) (*menu.SetMeal, error) {
	if sm.ID == "" {
		sm.ID = uuid.NewString()
	}
	for i := range sm.Components {
		if sm.Components[i].ID == "" {
			sm.Components[i].ID = uuid.NewString()
		}
		sm.Components[i].SetMealID = sm.ID
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(sm).Exec(ctx); err != nil {
			return err
		}
		if len(sm.Components) > 0 {
			if _, err := tx.NewInsert().Model(&sm.Components).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return sm, nil
}

func (s *Store) UpdateSetMeal(ctx context.Context, sm *menu.SetMeal) (*menu.SetMeal, error) {
	if err := s.update(ctx, sm); err != nil {
		return nil, err
	}
	return sm, nil
}

func (s *Store) DeleteSetMeal(ctx context.Context, id string) error {
	return s.delete(ctx, &menu.SetMeal{ID: id})
}
