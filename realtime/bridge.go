// Package realtime bridges the backing store's change-notification stream to
// cache invalidation. The bridge owns its subscription lifecycle as an
// explicit state machine instead of ambient module-level flags, so re-entrant
// consumer mounts (double-invoked effects, rapid navigation) cannot race a
// second subscription into existence.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/goliatone/go-menu-sync/cache"
	"github.com/goliatone/go-menu-sync/menu"
)

// Action is the kind of row change a notification reports.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ChangeEvent is one row change on a watched table. Old and New carry the
// previous and new row as raw JSON; the bridge never filters on their content
// when deciding whether to invalidate.
type ChangeEvent struct {
	Table  string          `json:"table"`
	Action Action          `json:"action"`
	Old    json.RawMessage `json:"old,omitempty"`
	New    json.RawMessage `json:"new,omitempty"`
}

// Listener delivers change events for a set of tables. Implementations own
// the transport (LISTEN/NOTIFY in production, fakes in tests). The returned
// channel closes when the stream ends or ctx is canceled.
type Listener interface {
	Events(ctx context.Context, tables []string) (<-chan ChangeEvent, error)
	Close() error
}

// Invalidator is the cache-side hook the bridge drives. menusync.Invalidation
// satisfies it.
type Invalidator interface {
	InvalidateTable(ctx context.Context, table string, mctx menu.Context) error
}

// State names the bridge lifecycle states.
type State int32

const (
	StateIdle State = iota
	StateSubscribing
	StateActive
	StateTearingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubscribing:
		return "subscribing"
	case StateActive:
		return "active"
	case StateTearingDown:
		return "tearing-down"
	default:
		return "unknown"
	}
}

// ErrTearingDown is returned when Start races an in-progress teardown; the
// caller should retry once teardown completes.
var ErrTearingDown = errors.New("realtime: bridge is tearing down")

// Bridge is the process-wide singleton connecting one change stream to the
// invalidation primitive. Duplicate subscriptions would double-invalidate and
// waste backend resources, which is exactly what the subscribing-state guard
// prevents.
type Bridge struct {
	listener Listener
	inval    Invalidator
	log      *slog.Logger

	mu        sync.Mutex
	state     State
	consumers int
	active    menu.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewBridge builds a Bridge over a listener and invalidator. The active
// context starts as POS; SetContext follows the surface the process serves.
func NewBridge(listener Listener, inval Invalidator, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(nopHandler{})
	}
	return &Bridge{
		listener: listener,
		inval:    inval,
		log:      logger,
		active:   menu.ContextPOS,
	}
}

// State reports the current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetContext records which consumption context is currently on screen; change
// events invalidate that context's keys.
func (b *Bridge) SetContext(mctx menu.Context) {
	b.mu.Lock()
	b.active = mctx
	b.mu.Unlock()
}

// ActiveContext returns the context change events currently invalidate.
func (b *Bridge) ActiveContext() menu.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Start registers a consumer mount. The first mount moves idle → subscribing
// and performs setup; any mount arriving while setup or delivery is underway
// just increments the consumer count and returns, which is the guard that
// serializes re-entrant setup. Subscription failure is logged, leaves the
// bridge idle, and is not an error: reads still work in pure staleness mode.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	switch b.state {
	case StateSubscribing, StateActive:
		b.consumers++
		b.mu.Unlock()
		return nil
	case StateTearingDown:
		b.mu.Unlock()
		return ErrTearingDown
	}
	b.state = StateSubscribing
	b.consumers = 1
	b.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.Background())
	events, err := b.listener.Events(runCtx, watchedTables())
	if err != nil {
		cancel()
		b.mu.Lock()
		b.state = StateIdle
		b.consumers = 0
		b.mu.Unlock()
		b.log.Warn("subscription setup failed, cache continues in staleness mode", "error", err)
		return nil
	}

	b.mu.Lock()
	if b.consumers == 0 {
		// Every consumer unmounted while setup was in flight.
		b.state = StateIdle
		b.mu.Unlock()
		cancel()
		b.listener.Close()
		return nil
	}
	b.state = StateActive
	b.cancel = cancel
	b.done = make(chan struct{})
	done := b.done
	b.mu.Unlock()

	go b.pump(runCtx, events, done)
	b.log.Info("realtime bridge active", "tables", len(watchedTables()))
	return nil
}

// Stop unregisters a consumer. The last unmount moves active → tearing-down,
// cancels delivery, closes the listener, and lands back in idle.
func (b *Bridge) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.consumers > 0 {
		b.consumers--
	}
	if b.consumers > 0 || b.state != StateActive {
		b.mu.Unlock()
		return nil
	}
	b.state = StateTearingDown
	cancel := b.cancel
	done := b.done
	b.cancel = nil
	b.done = nil
	b.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	err := b.listener.Close()

	b.mu.Lock()
	b.state = StateIdle
	b.mu.Unlock()
	b.log.Info("realtime bridge stopped")
	return err
}

func (b *Bridge) pump(ctx context.Context, events <-chan ChangeEvent, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.handle(ctx, ev)
		}
	}
}

// handle invalidates for one change event: the composite bundle key for the
// active context plus the entity key for the changed table. Content filtering
// happens only when deciding what to show: an items change without a publish
// timestamp still invalidates, so a later promotion from draft is picked up,
// while the published-only fetchers keep the draft itself invisible.
func (b *Bridge) handle(ctx context.Context, ev ChangeEvent) {
	mctx := b.ActiveContext()
	if ev.Table == string(cache.EntityItems) && mctx.PublishedOnly() && !rowPublished(ev.New) {
		b.log.Debug("draft item change, invalidating without new visible data",
			"action", string(ev.Action))
	}
	if err := b.inval.InvalidateTable(ctx, ev.Table, mctx); err != nil {
		b.log.Error("invalidation failed for change event",
			"table", ev.Table, "action", string(ev.Action), "error", err)
	}
}

// rowPublished inspects an items row payload for a non-null publish
// timestamp. Used for logging only, never for invalidation decisions.
func rowPublished(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var row struct {
		PublishedAt *string `json:"published_at"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return false
	}
	return row.PublishedAt != nil
}

func watchedTables() []string {
	entities := cache.Entities()
	tables := make([]string, len(entities))
	for i, e := range entities {
		tables[i] = string(e)
	}
	return tables
}

// nopHandler is a no-op slog.Handler for callers that pass no logger.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
