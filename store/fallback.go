package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-menu-sync/cache"
)

// orderingCapability records, per table, whether the preferred ordering column
// is known to exist. The first undefined-column failure flips the table to the
// legacy path; after that every read goes straight to the legacy query, so the
// fallback detection runs at most once per table per process.
type orderingCapability int

const (
	capUnknown orderingCapability = iota
	capPreferred
	capLegacy
)

type capabilities struct {
	tables *xsync.MapOf[string, orderingCapability]
}

func newCapabilities() *capabilities {
	return &capabilities{tables: xsync.NewMapOf[string, orderingCapability]()}
}

func (c *capabilities) get(table string) orderingCapability {
	v, ok := c.tables.Load(table)
	if !ok {
		return capUnknown
	}
	return v
}

func (c *capabilities) set(table string, v orderingCapability) {
	c.tables.Store(table, v)
}

// pg error codes that must not trigger the schema fallback.
const (
	pgUndefinedColumn     = "42703"
	pgInsufficientPrivs   = "42501"
	pgInvalidAuthSpec     = "28000"
	pgInvalidPassword     = "28P01"
	pgUndefinedTableClass = "42P01"
)

// isUndefinedColumn strictly detects the "column does not exist" failure
// class. Only this class may route a read to the legacy query; network,
// permission, and missing-table errors surface unchanged.
func isUndefinedColumn(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUndefinedColumn
	}
	// sqlite (tests, embedded deployments) has no error codes for this.
	return strings.Contains(err.Error(), "no such column")
}

// classify wraps failures retrying cannot fix so the cache layer surfaces
// them without spending its retry budget.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgInsufficientPrivs, pgInvalidAuthSpec, pgInvalidPassword, pgUndefinedTableClass:
			return cache.Permanent(err)
		}
	}
	return err
}
