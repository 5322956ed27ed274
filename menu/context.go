package menu

import "fmt"

// Context identifies which surface is consuming the menu. It is a closed set:
// adding a surface means touching every exhaustive switch over it, which is
// the point, since the published-only rule and the cache key namespace must
// both account for any new context.
type Context uint8

const (
	// ContextAdmin is the back-office editing surface. It sees drafts.
	ContextAdmin Context = iota
	// ContextPOS is the in-store point-of-sale surface.
	ContextPOS
	// ContextOnline is the public online-ordering surface.
	ContextOnline
)

// PublishedOnly reports whether reads under this context must be restricted to
// published rows. Customer-facing surfaces never see drafts; admin always does.
func (c Context) PublishedOnly() bool {
	switch c {
	case ContextAdmin:
		return false
	case ContextPOS, ContextOnline:
		return true
	default:
		panic(fmt.Sprintf("menu: unknown context %d", c))
	}
}

// String returns the canonical lower-case name used in cache keys and logs.
func (c Context) String() string {
	switch c {
	case ContextAdmin:
		return "admin"
	case ContextPOS:
		return "pos"
	case ContextOnline:
		return "online"
	default:
		return fmt.Sprintf("context(%d)", c)
	}
}

// ParseContext maps a context name back to its enum value.
func ParseContext(s string) (Context, error) {
	switch s {
	case "admin":
		return ContextAdmin, nil
	case "pos":
		return ContextPOS, nil
	case "online":
		return ContextOnline, nil
	default:
		return 0, fmt.Errorf("menu: invalid context %q", s)
	}
}

// Contexts returns every defined context. Useful when an invalidation has to
// fan out across all surfaces.
func Contexts() []Context {
	return []Context{ContextAdmin, ContextPOS, ContextOnline}
}
