package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// ChannelPrefix prefixes the NOTIFY channel for each watched table. The
// backing store's row triggers publish to "<prefix>_<table>" with a JSON
// payload of shape {"table","action","old","new"}.
const ChannelPrefix = "menu_changes"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
)

// PQListener implements Listener over postgres LISTEN/NOTIFY.
type PQListener struct {
	conninfo string
	log      *slog.Logger
	pl       *pq.Listener
}

// NewPQListener builds a listener for the given connection string. Nothing
// connects until Events is called.
func NewPQListener(conninfo string, logger *slog.Logger) *PQListener {
	if logger == nil {
		logger = slog.New(nopHandler{})
	}
	return &PQListener{conninfo: conninfo, log: logger}
}

// Events opens the connection and subscribes one channel per table. Any
// channel failing to register fails the whole setup; the bridge treats that
// as non-fatal and stays in staleness mode.
func (l *PQListener) Events(ctx context.Context, tables []string) (<-chan ChangeEvent, error) {
	l.pl = pq.NewListener(l.conninfo, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				l.log.Warn("listener connection event", "event", int(ev), "error", err)
			}
		})

	for _, table := range tables {
		if err := l.pl.Listen(ChannelPrefix + "_" + table); err != nil {
			l.pl.Close()
			l.pl = nil
			return nil, fmt.Errorf("realtime: subscribing channel for table %s: %w", table, err)
		}
	}

	out := make(chan ChangeEvent, 64)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-l.pl.Notify:
				if !ok {
					return
				}
				if n == nil {
					// Reconnect marker from pq; no payload to deliver.
					continue
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
					l.log.Warn("dropping unparseable notification", "channel", n.Channel, "error", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close tears down the underlying connection.
func (l *PQListener) Close() error {
	if l.pl == nil {
		return nil
	}
	err := l.pl.Close()
	l.pl = nil
	return err
}
