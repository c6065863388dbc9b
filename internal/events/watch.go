package events

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// DefaultDebounce is how long Watch waits after the last message before
// refreshing.
const DefaultDebounce = 200 * time.Millisecond

// RefreshFunc reloads the named collections. A nil slice means all of them.
type RefreshFunc func(ctx context.Context, collections []string) error

// Watch calls refresh after bursts of messages on ch, batching the
// collections named by their subjects. A message on reconnect triggers an
// immediate full refresh, since notifications may have been missed while
// disconnected. Refresh errors are logged and watching continues. Watch
// returns when ctx is done or ch is closed.
func Watch(ctx context.Context, ch <-chan Message, reconnect <-chan struct{}, debounce time.Duration, refresh RefreshFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := map[string]bool{}
	all := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if c := Collection(msg.Subject); c != "" {
				pending[c] = true
			} else {
				all = true
			}
			timer.Reset(debounce)
		case <-reconnect:
			all = true
			timer.Reset(0)
		case <-timer.C:
			var collections []string
			if !all {
				for c := range pending {
					collections = append(collections, c)
				}
				sort.Strings(collections)
			}
			pending = map[string]bool{}
			all = false
			if err := refresh(ctx, collections); err != nil {
				logger.Warn("refresh failed", "collections", collections, "err", err)
			}
		}
	}
}

// Poll calls refresh with every collection each interval until ctx is done.
func Poll(ctx context.Context, interval time.Duration, refresh RefreshFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := refresh(ctx, nil); err != nil {
			logger.Warn("refresh failed", "err", err)
		}
	}
}
