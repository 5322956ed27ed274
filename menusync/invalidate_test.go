package menusync

import (
	"context"
	"testing"

	"github.com/goliatone/go-menu-sync/cache"
	"github.com/goliatone/go-menu-sync/menu"
)

// A change event for a watched table drops the composite bundle key for the
// active context plus that entity's keys under it, and nothing else.
func TestInvalidateTable_ScopedToActiveContext(t *testing.T) {
	spy := newSpyCache()
	inval := NewInvalidation(spy, nil)

	if err := inval.InvalidateTable(context.Background(), "items", menu.ContextPOS); err != nil {
		t.Fatalf("InvalidateTable failed: %v", err)
	}

	if !spy.sawDelete(cache.BundleKey(menu.ContextPOS)) {
		t.Error("pos bundle key not dropped")
	}
	if !spy.sawPrefixDelete(cache.ContextPrefix(cache.EntityItems, menu.ContextPOS)) {
		t.Error("pos item keys not dropped")
	}
	if spy.sawDelete(cache.BundleKey(menu.ContextAdmin)) {
		t.Error("admin bundle key dropped for a pos-context event")
	}
	if spy.sawPrefixDelete(cache.EntityPrefix(cache.EntityItems)) {
		t.Error("event invalidation must stay context-scoped, not entity-wide")
	}
}

func TestInvalidateTable_UnwatchedTableIgnored(t *testing.T) {
	spy := newSpyCache()
	inval := NewInvalidation(spy, nil)

	if err := inval.InvalidateTable(context.Background(), "orders", menu.ContextPOS); err != nil {
		t.Fatalf("InvalidateTable must ignore unwatched tables, got %v", err)
	}
	if len(spy.deletes) != 0 || len(spy.prefixDeletes) != 0 {
		t.Errorf("unwatched table touched keys: deletes=%v prefixes=%v", spy.deletes, spy.prefixDeletes)
	}
}

// An items change under POS makes the next bundle read refetch; the refetched
// bundle still excludes drafts because the fetchers filter, not the
// invalidation.
func TestInvalidateTable_BundleRefetchExcludesDrafts(t *testing.T) {
	svc, _, st := newTestService(t)
	seedMenu(t, st)
	ctx := context.Background()

	before, err := svc.Bundle(ctx, menu.ContextPOS)
	if err != nil {
		t.Fatalf("Bundle failed: %v", err)
	}
	if len(before.Items) != 1 {
		t.Fatalf("warm bundle items = %d, want 1", len(before.Items))
	}

	// Another draft appears via a change event rather than a local mutation.
	if _, err := st.CreateItem(ctx, &menu.MenuItem{ID: "draft2", Name: "Another Draft", CategoryID: "mains", Price: 9}); err != nil {
		t.Fatalf("insert draft: %v", err)
	}
	if err := svc.Invalidation().InvalidateTable(ctx, "items", menu.ContextPOS); err != nil {
		t.Fatalf("InvalidateTable failed: %v", err)
	}

	after, err := svc.Bundle(ctx, menu.ContextPOS)
	if err != nil {
		t.Fatalf("Bundle after event failed: %v", err)
	}
	if len(after.Items) != 1 {
		t.Errorf("pos bundle items after draft insert = %d, want still 1", len(after.Items))
	}
}
