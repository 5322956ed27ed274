package menu

import (
	"time"

	"github.com/uptrace/bun"
)

// DisplayOrderSentinel is used when neither the preferred display-order column
// nor the legacy sort column carries a value. It sorts after any real ordering
// value an operator could plausibly assign.
const DisplayOrderSentinel = 1 << 30

// Category is a menu grouping. A category with a ParentID is a child
// (subcategory); one without is a parent or standalone. DisplayOrder is
// nullable because older deployments only carry the legacy sort column.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID           string `bun:"id,pk" json:"id"`
	Name         string `bun:"name" json:"name"`
	DisplayOrder *int   `bun:"display_order" json:"display_order"`
	// LegacySortOrder mirrors the legacy sort column when the fallback read
	// path is taken. Fetchers fold it into DisplayOrder before returning.
	LegacySortOrder *int    `bun:"-" json:"-"`
	Active          bool    `bun:"active" json:"active"`
	ParentID        *string `bun:"parent_id" json:"parent_id"`
}

// EffectiveDisplayOrder resolves the nullable ordering chain: preferred column,
// then the legacy sort value, then the sentinel. Never returns a "null".
func (c Category) EffectiveDisplayOrder() int {
	if c.DisplayOrder != nil {
		return *c.DisplayOrder
	}
	if c.LegacySortOrder != nil {
		return *c.LegacySortOrder
	}
	return DisplayOrderSentinel
}

// IsChild reports whether the category hangs under a parent.
func (c Category) IsChild() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

// MenuItem is a sellable product. PublishedAt null means draft: visible to
// admin, hidden from POS and online surfaces.
type MenuItem struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          string     `bun:"id,pk" json:"id"`
	Name        string     `bun:"name" json:"name"`
	CategoryID  string     `bun:"category_id" json:"category_id"`
	Price       float64    `bun:"price" json:"price"`
	PublishedAt *time.Time `bun:"published_at" json:"published_at"`

	// Variants is populated only by composite reads; plain item fetches leave
	// it nil.
	Variants []ItemVariant `bun:"rel:has-many,join:id=item_id" json:"variants,omitempty"`
}

// Published reports whether the item is visible to customer-facing contexts.
func (i MenuItem) Published() bool {
	return i.PublishedAt != nil
}

// ItemVariant is a purchasable variation of an item (size, protein, etc.).
// Tier prices default to the base price when unset.
type ItemVariant struct {
	bun.BaseModel `bun:"table:item_variants,alias:v"`

	ID            string   `bun:"id,pk" json:"id"`
	ItemID        string   `bun:"item_id" json:"item_id"`
	ProteinTypeID *string  `bun:"protein_type_id" json:"protein_type_id"`
	Price         float64  `bun:"price" json:"price"`
	DineInPrice   *float64 `bun:"dine_in_price" json:"dine_in_price"`
	DeliveryPrice *float64 `bun:"delivery_price" json:"delivery_price"`
	DisplayOrder  int      `bun:"display_order" json:"display_order"`
}

// EffectiveDineInPrice returns the dine-in tier price, defaulting to base.
func (v ItemVariant) EffectiveDineInPrice() float64 {
	if v.DineInPrice != nil {
		return *v.DineInPrice
	}
	return v.Price
}

// EffectiveDeliveryPrice returns the delivery tier price, defaulting to base.
func (v ItemVariant) EffectiveDeliveryPrice() float64 {
	if v.DeliveryPrice != nil {
		return *v.DeliveryPrice
	}
	return v.Price
}

// ProteinType labels variants (chicken, beef, tofu...). DisplayOrder null
// falls back to alphabetical ordering at fetch time.
type ProteinType struct {
	bun.BaseModel `bun:"table:protein_types,alias:pt"`

	ID           string `bun:"id,pk" json:"id"`
	Name         string `bun:"name" json:"name"`
	DisplayOrder *int   `bun:"display_order" json:"display_order"`
}

// Customization is an add-on or modifier. Price null means free. AppliesToAll
// and ItemIDs are mutually exclusive: either it applies everywhere or to the
// explicit list.
type Customization struct {
	bun.BaseModel `bun:"table:customizations,alias:cu"`

	ID           string   `bun:"id,pk" json:"id"`
	Name         string   `bun:"name" json:"name"`
	Price        *float64 `bun:"price" json:"price"`
	GroupLabel   string   `bun:"group_label" json:"group_label"`
	ShowOnPOS    bool     `bun:"show_on_pos" json:"show_on_pos"`
	ShowOnWeb    bool     `bun:"show_on_web" json:"show_on_web"`
	ShowOnVoice  bool     `bun:"show_on_voice" json:"show_on_voice"`
	AppliesToAll bool     `bun:"applies_to_all" json:"applies_to_all"`
	ItemIDs      []string `bun:"item_ids" json:"item_ids"`
}

// Free reports whether the customization carries no charge.
func (c Customization) Free() bool {
	return c.Price == nil
}

// SetMeal is a bundled offering composed of other items at fixed per-component
// prices.
type SetMeal struct {
	bun.BaseModel `bun:"table:set_meals,alias:sm"`

	ID          string     `bun:"id,pk" json:"id"`
	Code        string     `bun:"code" json:"code"`
	Name        string     `bun:"name" json:"name"`
	Price       float64    `bun:"price" json:"price"`
	Active      bool       `bun:"active" json:"active"`
	PublishedAt *time.Time `bun:"published_at" json:"published_at"`

	Components []SetMealComponent `bun:"rel:has-many,join:id=set_meal_id" json:"components,omitempty"`
}

// SetMealComponent ties an item into a set meal with its in-bundle price.
type SetMealComponent struct {
	bun.BaseModel `bun:"table:set_meal_components,alias:smc"`

	ID        string  `bun:"id,pk" json:"id"`
	SetMealID string  `bun:"set_meal_id" json:"set_meal_id"`
	ItemID    string  `bun:"item_id" json:"item_id"`
	Price     float64 `bun:"price" json:"price"`
}

// Bundle is the derived composite view over the raw collections: the inputs
// plus every index consumers need to render a menu without further queries.
// It is recomputed whole whenever any input changes, never patched.
type Bundle struct {
	Categories   []Category
	Items        []MenuItem
	Variants     []ItemVariant
	ProteinTypes []ProteinType

	// VariantsByItem groups variants under their parent item, sorted by
	// display order (stable on ties).
	VariantsByItem map[string][]ItemVariant
	// ProteinTypeByID indexes protein types; duplicate ids resolve
	// last-write-wins.
	ProteinTypeByID map[string]ProteinType
	// ItemsByCategory groups items under their category.
	ItemsByCategory map[string][]MenuItem
	// ParentCategories holds active categories without a parent, sorted by
	// effective display order.
	ParentCategories []Category
	// Subcategories maps a parent category id to its active children, sorted
	// by effective display order.
	Subcategories map[string][]Category
}
