package menu

import "sort"

// BuildBundle derives the composite menu view from the four raw collections.
// It is pure: no I/O, no clock, no randomness. Given the same inputs it
// produces structurally identical output on every call. Every slice that
// feeds a consumer is explicitly sorted, and ties keep their input order.
func BuildBundle(categories []Category, items []MenuItem, variants []ItemVariant, proteinTypes []ProteinType) Bundle {
	b := Bundle{
		Categories:      categories,
		Items:           items,
		Variants:        variants,
		ProteinTypes:    proteinTypes,
		VariantsByItem:  make(map[string][]ItemVariant),
		ProteinTypeByID: make(map[string]ProteinType, len(proteinTypes)),
		ItemsByCategory: make(map[string][]MenuItem),
		Subcategories:   make(map[string][]Category),
	}

	for _, v := range variants {
		b.VariantsByItem[v.ItemID] = append(b.VariantsByItem[v.ItemID], v)
	}
	for itemID := range b.VariantsByItem {
		group := b.VariantsByItem[itemID]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].DisplayOrder < group[j].DisplayOrder
		})
	}

	// Duplicate protein-type ids should not occur; if one does, the later row
	// wins and nothing blows up.
	for _, pt := range proteinTypes {
		b.ProteinTypeByID[pt.ID] = pt
	}

	for _, item := range items {
		b.ItemsByCategory[item.CategoryID] = append(b.ItemsByCategory[item.CategoryID], item)
	}

	// The parent/child partition only ever considers active categories.
	for _, c := range categories {
		if !c.Active {
			continue
		}
		if c.IsChild() {
			b.Subcategories[*c.ParentID] = append(b.Subcategories[*c.ParentID], c)
		} else {
			b.ParentCategories = append(b.ParentCategories, c)
		}
	}
	sortCategories(b.ParentCategories)
	for parentID := range b.Subcategories {
		sortCategories(b.Subcategories[parentID])
	}

	return b
}

func sortCategories(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].EffectiveDisplayOrder() < cats[j].EffectiveDisplayOrder()
	})
}
