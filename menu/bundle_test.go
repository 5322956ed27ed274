package menu

import (
	"reflect"
	"testing"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func sampleInputs() ([]Category, []MenuItem, []ItemVariant, []ProteinType) {
	categories := []Category{
		{ID: "starters", Name: "Starters", DisplayOrder: intp(1), Active: true},
		{ID: "mains", Name: "Mains", DisplayOrder: intp(2), Active: true, ParentID: strp("starters")},
		{ID: "retired", Name: "Retired", DisplayOrder: intp(3), Active: false},
	}
	items := []MenuItem{
		{ID: "rolls", Name: "Spring Rolls", CategoryID: "starters", Price: 6.5},
		{ID: "curry", Name: "Green Curry", CategoryID: "mains", Price: 14},
		{ID: "soup", Name: "Tom Yum", CategoryID: "starters", Price: 8},
	}
	variants := []ItemVariant{
		{ID: "v3", ItemID: "curry", Price: 15, DisplayOrder: 3},
		{ID: "v1", ItemID: "curry", Price: 14, DisplayOrder: 1},
		{ID: "v2", ItemID: "curry", Price: 14.5, DisplayOrder: 2},
	}
	proteinTypes := []ProteinType{
		{ID: "chicken", Name: "Chicken", DisplayOrder: intp(1)},
		{ID: "tofu", Name: "Tofu", DisplayOrder: intp(2)},
	}
	return categories, items, variants, proteinTypes
}

// "Starters" is a parent, "Mains" points at it, both active. The partition
// puts Starters in ParentCategories and Mains under Subcategories["starters"].
func TestBuildBundle_ParentChildPartition(t *testing.T) {
	b := BuildBundle(sampleInputs())

	if len(b.ParentCategories) != 1 || b.ParentCategories[0].ID != "starters" {
		t.Fatalf("ParentCategories = %+v, want only starters", b.ParentCategories)
	}
	children := b.Subcategories["starters"]
	if len(children) != 1 || children[0].ID != "mains" {
		t.Fatalf("Subcategories[starters] = %+v, want only mains", children)
	}
}

func TestBuildBundle_InactiveCategoriesExcludedFromPartition(t *testing.T) {
	b := BuildBundle(sampleInputs())

	for _, c := range b.ParentCategories {
		if c.ID == "retired" {
			t.Error("inactive category leaked into ParentCategories")
		}
	}
	for parent, children := range b.Subcategories {
		for _, c := range children {
			if c.ID == "retired" {
				t.Errorf("inactive category leaked into Subcategories[%s]", parent)
			}
		}
	}
	// The raw input collection is untouched.
	if len(b.Categories) != 3 {
		t.Errorf("raw Categories = %d, want 3", len(b.Categories))
	}
}

func TestBuildBundle_VariantsSortedByDisplayOrder(t *testing.T) {
	b := BuildBundle(sampleInputs())

	got := b.VariantsByItem["curry"]
	if len(got) != 3 {
		t.Fatalf("VariantsByItem[curry] has %d entries, want 3", len(got))
	}
	for i, wantID := range []string{"v1", "v2", "v3"} {
		if got[i].ID != wantID {
			t.Errorf("variant[%d] = %s, want %s", i, got[i].ID, wantID)
		}
	}
}

// Equal display orders keep their input order (stable sort).
func TestBuildBundle_VariantSortIsStable(t *testing.T) {
	variants := []ItemVariant{
		{ID: "b", ItemID: "item", DisplayOrder: 1},
		{ID: "a", ItemID: "item", DisplayOrder: 1},
		{ID: "c", ItemID: "item", DisplayOrder: 0},
	}
	b := BuildBundle(nil, nil, variants, nil)

	got := b.VariantsByItem["item"]
	for i, wantID := range []string{"c", "b", "a"} {
		if got[i].ID != wantID {
			t.Errorf("variant[%d] = %s, want %s", i, got[i].ID, wantID)
		}
	}
}

func TestBuildBundle_ItemsGroupedByCategory(t *testing.T) {
	b := BuildBundle(sampleInputs())

	if got := len(b.ItemsByCategory["starters"]); got != 2 {
		t.Errorf("ItemsByCategory[starters] = %d items, want 2", got)
	}
	if got := len(b.ItemsByCategory["mains"]); got != 1 {
		t.Errorf("ItemsByCategory[mains] = %d items, want 1", got)
	}
}

// Duplicate protein-type ids must not blow up; the later row wins.
func TestBuildBundle_DuplicateProteinTypesLastWriteWins(t *testing.T) {
	proteinTypes := []ProteinType{
		{ID: "pt", Name: "First"},
		{ID: "pt", Name: "Second"},
	}
	b := BuildBundle(nil, nil, nil, proteinTypes)

	if got := b.ProteinTypeByID["pt"].Name; got != "Second" {
		t.Errorf("ProteinTypeByID[pt].Name = %q, want %q", got, "Second")
	}
}

// Calling the builder twice on the same inputs yields structurally identical
// output: no clock, no randomness, nothing left to map iteration order.
func TestBuildBundle_Deterministic(t *testing.T) {
	categories, items, variants, proteinTypes := sampleInputs()

	first := BuildBundle(categories, items, variants, proteinTypes)
	second := BuildBundle(categories, items, variants, proteinTypes)

	if !reflect.DeepEqual(first, second) {
		t.Error("BuildBundle is not deterministic for identical inputs")
	}
}

func TestEffectiveDisplayOrder_FallbackChain(t *testing.T) {
	cases := []struct {
		name string
		cat  Category
		want int
	}{
		{"preferred column", Category{DisplayOrder: intp(5)}, 5},
		{"legacy sort", Category{LegacySortOrder: intp(9)}, 9},
		{"preferred wins over legacy", Category{DisplayOrder: intp(5), LegacySortOrder: intp(9)}, 5},
		{"sentinel when both null", Category{}, DisplayOrderSentinel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cat.EffectiveDisplayOrder(); got != tc.want {
				t.Errorf("EffectiveDisplayOrder() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEffectiveDisplayOrder_SentinelSortsLast(t *testing.T) {
	ordered := Category{DisplayOrder: intp(1 << 20)}
	unordered := Category{}
	if unordered.EffectiveDisplayOrder() <= ordered.EffectiveDisplayOrder() {
		t.Error("sentinel must sort after any real ordering value")
	}
}

func TestVariantPriceTiers_DefaultToBase(t *testing.T) {
	dineIn := 12.5
	v := ItemVariant{Price: 10}

	if got := v.EffectiveDineInPrice(); got != 10 {
		t.Errorf("EffectiveDineInPrice() = %v, want base 10", got)
	}
	if got := v.EffectiveDeliveryPrice(); got != 10 {
		t.Errorf("EffectiveDeliveryPrice() = %v, want base 10", got)
	}

	v.DineInPrice = &dineIn
	if got := v.EffectiveDineInPrice(); got != 12.5 {
		t.Errorf("EffectiveDineInPrice() = %v, want tier 12.5", got)
	}
}
