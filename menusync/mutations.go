package menusync

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-menu-sync/cache"
	"github.com/goliatone/go-menu-sync/menu"
)

// Mutation handlers: validate, write through the store, then invalidate the
// keys the write affects. On any failure the error surfaces and nothing is
// invalidated; the cache keeps serving the last good state. Writes are never
// retried; they are not assumed idempotent.

// ErrCustomizationScope rejects customizations that both apply to all items
// and carry an explicit item list (or neither).
var ErrCustomizationScope = errors.New("menusync: customization must either apply to all items or list item ids, not both")

func validateCategory(c *menu.Category) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
	)
}

func validateItem(i *menu.MenuItem) error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&i.CategoryID, validation.Required),
		validation.Field(&i.Price, validation.Min(0.0)),
	)
}

func validateVariant(v *menu.ItemVariant) error {
	return validation.ValidateStruct(v,
		validation.Field(&v.ItemID, validation.Required),
		validation.Field(&v.Price, validation.Min(0.0)),
		validation.Field(&v.DisplayOrder, validation.Min(0)),
	)
}

func validateProteinType(pt *menu.ProteinType) error {
	return validation.ValidateStruct(pt,
		validation.Field(&pt.Name, validation.Required, validation.Length(1, 120)),
	)
}

func validateCustomization(c *menu.Customization) error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 200)),
	); err != nil {
		return err
	}
	if c.AppliesToAll == (len(c.ItemIDs) > 0) {
		return ErrCustomizationScope
	}
	return nil
}

func validateSetMeal(sm *menu.SetMeal) error {
	return validation.ValidateStruct(sm,
		validation.Field(&sm.Code, validation.Required),
		validation.Field(&sm.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&sm.Price, validation.Min(0.0)),
	)
}

// --- categories ---

func (s *Service) CreateCategory(ctx context.Context, c *menu.Category) (*menu.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	return created, s.inval.Entities(ctx, cache.EntityCategories)
}

func (s *Service) UpdateCategory(ctx context.Context, c *menu.Category) (*menu.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	return updated, s.inval.Entities(ctx, cache.EntityCategories)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	// Items are grouped by category in the bundle, so the item index changes
	// with the category set.
	return s.inval.Entities(ctx, cache.EntityCategories, cache.EntityItems)
}

// --- items ---

func (s *Service) CreateItem(ctx context.Context, i *menu.MenuItem) (*menu.MenuItem, error) {
	if err := validateItem(i); err != nil {
		return nil, err
	}
	created, err := s.store.CreateItem(ctx, i)
	if err != nil {
		return nil, err
	}
	return created, s.inval.Entities(ctx, cache.EntityItems)
}

func (s *Service) UpdateItem(ctx context.Context, i *menu.MenuItem) (*menu.MenuItem, error) {
	if err := validateItem(i); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateItem(ctx, i)
	if err != nil {
		return nil, err
	}
	// Publish-state changes alter which variants the published-only variant
	// read returns.
	return updated, s.inval.Entities(ctx, cache.EntityItems, cache.EntityVariants)
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	// Variants hang off items; published-only variant reads join through the
	// items table.
	return s.inval.Entities(ctx, cache.EntityItems, cache.EntityVariants)
}

// --- variants ---

func (s *Service) CreateVariant(ctx context.Context, v *menu.ItemVariant) (*menu.ItemVariant, error) {
	if err := validateVariant(v); err != nil {
		return nil, err
	}
	created, err := s.store.CreateVariant(ctx, v)
	if err != nil {
		return nil, err
	}
	// Composite item reads embed variant lists, so item keys go too.
	return created, s.inval.Entities(ctx, cache.EntityVariants, cache.EntityItems)
}

func (s *Service) UpdateVariant(ctx context.Context, v *menu.ItemVariant) (*menu.ItemVariant, error) {
	if err := validateVariant(v); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateVariant(ctx, v)
	if err != nil {
		return nil, err
	}
	return updated, s.inval.Entities(ctx, cache.EntityVariants, cache.EntityItems)
}

func (s *Service) DeleteVariant(ctx context.Context, id string) error {
	if err := s.store.DeleteVariant(ctx, id); err != nil {
		return err
	}
	return s.inval.Entities(ctx, cache.EntityVariants, cache.EntityItems)
}

// --- protein types ---

func (s *Service) CreateProteinType(ctx context.Context, pt *menu.ProteinType) (*menu.ProteinType, error) {
	if err := validateProteinType(pt); err != nil {
		return nil, err
	}
	created, err := s.store.CreateProteinType(ctx, pt)
	if err != nil {
		return nil, err
	}
	return created, s.inval.Entities(ctx, cache.EntityProteinTypes)
}

func (s *Service) UpdateProteinType(ctx context.Context, pt *menu.ProteinType) (*menu.ProteinType, error) {
	if err := validateProteinType(pt); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateProteinType(ctx, pt)
	if err != nil {
		return nil, err
	}
	// Variants resolve protein-type names through the bundle index.
	return updated, s.inval.Entities(ctx, cache.EntityProteinTypes, cache.EntityVariants)
}

func (s *Service) DeleteProteinType(ctx context.Context, id string) error {
	if err := s.store.DeleteProteinType(ctx, id); err != nil {
		return err
	}
	// Variants embed protein-type references; their index key must drop with
	// the protein type or a bundle read would keep resolving a stale name.
	return s.inval.Entities(ctx, cache.EntityProteinTypes, cache.EntityVariants)
}

// --- customizations ---

func (s *Service) CreateCustomization(ctx context.Context, c *menu.Customization) (*menu.Customization, error) {
	if err := validateCustomization(c); err != nil {
		return nil, err
	}
	created, err := s.store.CreateCustomization(ctx, c)
	if err != nil {
		return nil, err
	}
	return created, s.inval.Entity(ctx, cache.EntityCustomizations)
}

func (s *Service) UpdateCustomization(ctx context.Context, c *menu.Customization) (*menu.Customization, error) {
	if err := validateCustomization(c); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateCustomization(ctx, c)
	if err != nil {
		return nil, err
	}
	return updated, s.inval.Entity(ctx, cache.EntityCustomizations)
}

func (s *Service) DeleteCustomization(ctx context.Context, id string) error {
	if err := s.store.DeleteCustomization(ctx, id); err != nil {
		return err
	}
	return s.inval.Entity(ctx, cache.EntityCustomizations)
}

// --- set meals ---

func (s *Service) CreateSetMeal(ctx context.Context, sm *menu.SetMeal) (*menu.SetMeal, error) {
	if err := validateSetMeal(sm); err != nil {
		return nil, err
	}
	created, err := s.store.CreateSetMeal(ctx, sm)
	if err != nil {
		return nil, err
	}
	return created, s.inval.Entity(ctx, cache.EntitySetMeals)
}

func (s *Service) UpdateSetMeal(ctx context.Context, sm *menu.SetMeal) (*menu.SetMeal, error) {
	if err := validateSetMeal(sm); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateSetMeal(ctx, sm)
	if err != nil {
		return nil, err
	}
	return updated, s.inval.Entity(ctx, cache.EntitySetMeals)
}

func (s *Service) DeleteSetMeal(ctx context.Context, id string) error {
	if err := s.store.DeleteSetMeal(ctx, id); err != nil {
		return err
	}
	return s.inval.Entity(ctx, cache.EntitySetMeals)
}
