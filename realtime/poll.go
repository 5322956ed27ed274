package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-menu-sync/menu"
)

// changeMarker is the legacy stored event marker: a row appended whenever a
// menu table changes, for deployments with no notification stream.
type changeMarker struct {
	bun.BaseModel `bun:"table:menu_change_markers,alias:mcm"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Table     string    `bun:"table_name"`
	ChangedAt time.Time `bun:"changed_at"`
}

// PollFallback is the degraded substitute for the bridge: consumers call
// Check on demand (screen focus, order start) and any markers newer than the
// last check are replayed through the same invalidation primitive the bridge
// uses, so the two can never disagree about keys.
type PollFallback struct {
	db    *bun.DB
	inval Invalidator
	log   *slog.Logger

	mu     sync.Mutex
	lastID int64
}

// NewPollFallback builds the fallback over the marker table.
func NewPollFallback(db *bun.DB, inval Invalidator, logger *slog.Logger) *PollFallback {
	if logger == nil {
		logger = slog.New(nopHandler{})
	}
	return &PollFallback{db: db, inval: inval, log: logger}
}

// Check replays markers recorded since the previous call, invalidating under
// the given context. Marker-read errors are logged and swallowed: the poll
// path carries no correctness guarantees, staleness deadlines still bound how
// old a cached value can get.
func (p *PollFallback) Check(ctx context.Context, mctx menu.Context) {
	p.mu.Lock()
	since := p.lastID
	p.mu.Unlock()

	var markers []changeMarker
	err := p.db.NewSelect().
		Model(&markers).
		Where("id > ?", since).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		p.log.Warn("poll fallback marker read failed", "error", err)
		return
	}

	for _, m := range markers {
		if err := p.inval.InvalidateTable(ctx, m.Table, mctx); err != nil {
			p.log.Warn("poll fallback invalidation failed", "table", m.Table, "error", err)
			return
		}
		p.mu.Lock()
		if m.ID > p.lastID {
			p.lastID = m.ID
		}
		p.mu.Unlock()
	}
}
