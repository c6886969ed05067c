package cart

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

// Registry hands out one hydrated Manager per session.
// Views receive the manager from the registry instead of reaching for shared state.
type Registry struct {
	store       SnapshotStore
	notifier    Notifier
	maxQuantity int
	logger      *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Manager
	hydrate  singleflight.Group
}

// NewRegistry creates an empty session registry
func NewRegistry(store SnapshotStore, notifier Notifier, maxQuantity int, log *logger.Logger) *Registry {
	return &Registry{
		store:       store,
		notifier:    notifier,
		maxQuantity: maxQuantity,
		logger:      log,
		sessions:    make(map[string]*Manager),
	}
}

// Get returns the manager of a session, creating and hydrating it on first use.
// The returned manager is always active.
func (r *Registry) Get(ctx context.Context, sessionID string) *Manager {
	// Touching under r.mu keeps a concurrent Prune from dropping a cart being handed out
	r.mu.Lock()
	m, ok := r.sessions[sessionID]
	if ok {
		m.touch()
	}
	r.mu.Unlock()
	if ok {
		return m
	}

	// Concurrent first requests of a session share one load
	v, _, _ := r.hydrate.Do(sessionID, func() (any, error) {
		r.mu.Lock()
		if existing, ok := r.sessions[sessionID]; ok {
			existing.touch()
			r.mu.Unlock()
			return existing, nil
		}
		r.mu.Unlock()

		m := NewManager(sessionID, r.store, r.notifier, r.maxQuantity, r.logger)

		// A request that gives up must not leave the cart hydrated as empty
		m.Hydrate(context.WithoutCancel(ctx))

		r.mu.Lock()
		m.touch()
		r.sessions[sessionID] = m
		r.mu.Unlock()

		r.logger.WithFields(map[string]any{
			"session_id": sessionID,
			"items":      m.ItemCount(),
		}).Debug("Cart session opened")

		return m, nil
	})

	return v.(*Manager)
}

// Len returns the number of sessions held in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune drops sessions idle for longer than idle after their pending saves land.
// It returns the number of sessions dropped.
func (r *Registry) Prune(ctx context.Context, idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	r.mu.Lock()
	var stale []*Manager
	for id, m := range r.sessions {
		if m.idleSince().Before(cutoff) {
			stale = append(stale, m)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, m := range stale {
		if err := m.Flush(ctx); err != nil {
			r.logger.Warnf("Pruned cart session %s before its last save finished: %v", m.SessionID(), err)
		}
	}

	if len(stale) > 0 {
		r.logger.WithFields(map[string]any{
			"pruned": len(stale),
		}).Info("Pruned idle cart sessions")
	}

	return len(stale)
}

// Shutdown waits for every session's pending saves or until ctx is done
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	managers := make([]*Manager, 0, len(r.sessions))
	for _, m := range r.sessions {
		managers = append(managers, m)
	}
	r.mu.Unlock()

	r.logger.WithFields(map[string]any{
		"sessions": len(managers),
	}).Info("Flushing cart sessions...")

	for _, m := range managers {
		if err := m.Flush(ctx); err != nil {
			r.logger.Warn("Shutdown timeout reached before all carts were saved")
			return err
		}
	}

	r.logger.Info("All cart sessions flushed")
	return nil
}

// PruneEvery calls Prune on each tick until ctx is done
func (r *Registry) PruneEvery(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Prune(ctx, idle)
		case <-ctx.Done():
			return
		}
	}
}
