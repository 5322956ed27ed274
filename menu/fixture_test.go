package menu

import (
	"testing"

	"github.com/goliatone/go-menu-sync/pkg/testsupport"
)

type menuFixture struct {
	Categories   []Category    `json:"categories"`
	Items        []MenuItem    `json:"items"`
	Variants     []ItemVariant `json:"variants"`
	ProteinTypes []ProteinType `json:"protein_types"`
}

// A realistic menu shape end to end: nested categories, multi-variant items,
// tier prices, an inactive category.
func TestBuildBundle_FullMenuFixture(t *testing.T) {
	var fx menuFixture
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("full_menu.json"), &fx)

	b := BuildBundle(fx.Categories, fx.Items, fx.Variants, fx.ProteinTypes)

	if len(b.ParentCategories) != 2 {
		t.Fatalf("ParentCategories = %d, want 2 (seasonal inactive)", len(b.ParentCategories))
	}
	if b.ParentCategories[0].ID != "starters" || b.ParentCategories[1].ID != "mains" {
		t.Errorf("parent order = [%s %s], want [starters mains]",
			b.ParentCategories[0].ID, b.ParentCategories[1].ID)
	}

	children := b.Subcategories["mains"]
	if len(children) != 2 || children[0].ID != "curries" || children[1].ID != "noodles" {
		t.Fatalf("Subcategories[mains] = %+v, want ordered [curries noodles]", children)
	}

	curry := b.VariantsByItem["green-curry"]
	if len(curry) != 2 || curry[0].ID != "gc-chicken" {
		t.Fatalf("VariantsByItem[green-curry] = %+v, want gc-chicken first", curry)
	}

	// Tier prices resolve through the variant, defaulting to base.
	if got := curry[0].EffectiveDeliveryPrice(); got != 15.5 {
		t.Errorf("gc-chicken delivery price = %v, want 15.5", got)
	}
	if got := curry[0].EffectiveDineInPrice(); got != 14 {
		t.Errorf("gc-chicken dine-in price = %v, want base 14", got)
	}

	// Every variant's protein resolves through the index.
	for item, variants := range b.VariantsByItem {
		for _, v := range variants {
			if v.ProteinTypeID == nil {
				continue
			}
			if _, ok := b.ProteinTypeByID[*v.ProteinTypeID]; !ok {
				t.Errorf("variant %s of %s references unknown protein %s", v.ID, item, *v.ProteinTypeID)
			}
		}
	}
}
