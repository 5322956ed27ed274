package cache

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goliatone/go-menu-sync/menu"
)

// KeySeparator delimits cache key segments.
const KeySeparator = "::"

// Namespace roots every key this layer owns, so the cache can be shared with
// unrelated subsystems without prefix collisions.
const Namespace = "menu"

// Entity names a cacheable collection. Values match the backing-store table
// names so the realtime bridge can map a change notification straight to the
// keys it invalidates.
type Entity string

const (
	EntityCategories     Entity = "categories"
	EntityItems          Entity = "items"
	EntityVariants       Entity = "item_variants"
	EntityProteinTypes   Entity = "protein_types"
	EntityCustomizations Entity = "customizations"
	EntitySetMeals       Entity = "set_meals"

	// EntityBundle is the composite derived view; it has no backing table.
	EntityBundle Entity = "bundle"
)

// Entities lists every entity with a backing table, in watch order.
func Entities() []Entity {
	return []Entity{
		EntityCategories,
		EntityItems,
		EntityVariants,
		EntityProteinTypes,
		EntityCustomizations,
		EntitySetMeals,
	}
}

// EntityForTable maps a backing-store table name to its entity. The second
// return is false for tables this layer does not watch.
func EntityForTable(table string) (Entity, bool) {
	for _, e := range Entities() {
		if string(e) == table {
			return e, true
		}
	}
	return "", false
}

// Filter is a named optional parameter of a read. Filters are serialized
// sorted by name, so two logically identical requests produce identical keys
// regardless of the order the caller supplied them in.
type Filter struct {
	Name  string
	Value any
}

// F is shorthand for building a Filter.
func F(name string, value any) Filter {
	return Filter{Name: name, Value: value}
}

// EntityKey builds the canonical key for an entity read under a context,
// optionally narrowed by filters. The key nests under ContextPrefix and
// EntityPrefix, so both targeted and broad invalidations reach it.
func EntityKey(e Entity, ctx menu.Context, filters ...Filter) string {
	parts := []string{Namespace, string(e), ctx.String()}
	if len(filters) > 0 {
		sorted := make([]Filter, len(filters))
		copy(sorted, filters)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		for _, f := range sorted {
			parts = append(parts, f.Name+"="+serializeValue(f.Value))
		}
	}
	return strings.Join(parts, KeySeparator)
}

// BundleKey builds the key for the composite bundle under a context.
func BundleKey(ctx menu.Context) string {
	return EntityKey(EntityBundle, ctx)
}

// EntityPrefix matches every key for an entity across all contexts and
// filters.
func EntityPrefix(e Entity) string {
	return Namespace + KeySeparator + string(e)
}

// ContextPrefix matches every key for an entity under one context, any
// filters.
func ContextPrefix(e Entity, ctx menu.Context) string {
	return EntityPrefix(e) + KeySeparator + ctx.String()
}

// serializeValue renders a filter value deterministically. It covers the
// shapes read filters actually take: basic types, pointers, slices, maps
// (sorted), and flat structs.
func serializeValue(v any) string {
	if v == nil {
		return "nil"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "nil"
		}
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = serializeValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ",") + "]"
	case reflect.Map:
		if rv.IsNil() {
			return "nil"
		}
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, serializeValue(iter.Key().Interface())+"="+serializeValue(iter.Value().Interface()))
		}
		// Sorted pairs keep map serialization independent of iteration order.
		sort.Strings(pairs)
		return "{" + strings.Join(pairs, ",") + "}"
	case reflect.Struct:
		rt := rv.Type()
		parts := make([]string, 0, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			parts = append(parts, field.Name+":"+serializeValue(rv.Field(i).Interface()))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}
