package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

const (
	// DefaultDebounce collects events for the same memorial into one recount
	DefaultDebounce = 1 * time.Second

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	attemptTimeout = 5 * time.Second
)

// ErrMissingMemorial is returned for events that do not name a memorial
var ErrMissingMemorial = errors.New("event has no memorial id")

// GuestbookEvent is the part of a guestbook event the counter needs
type GuestbookEvent struct {
	EventType  string    `json:"event_type"`
	MemorialID uuid.UUID `json:"memorial_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Recounter refreshes the stored count of one memorial
type Recounter interface {
	Recount(ctx context.Context, memorialID uuid.UUID) error
}

// CondolenceWorker turns guestbook events into debounced recounts
type CondolenceWorker struct {
	counter  Recounter
	logger   *logger.Logger
	debounce time.Duration

	mu       sync.Mutex
	pending  map[uuid.UUID]*pendingRecount
	stopping bool
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

type pendingRecount struct {
	timestamp time.Time
	timer     *time.Timer
}

// NewCondolenceWorker creates a worker. A non-positive debounce uses DefaultDebounce.
func NewCondolenceWorker(counter Recounter, debounce time.Duration, log *logger.Logger) *CondolenceWorker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &CondolenceWorker{
		counter:  counter,
		logger:   log,
		debounce: debounce,
		pending:  make(map[uuid.UUID]*pendingRecount),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// HandleEvent decodes a guestbook event and schedules a recount
func (w *CondolenceWorker) HandleEvent(data []byte) error {
	var event GuestbookEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.MemorialID == uuid.Nil {
		return ErrMissingMemorial
	}

	w.logger.WithFields(map[string]any{
		"type":        event.EventType,
		"memorial_id": event.MemorialID.String(),
	}).Debug("Received guestbook event")

	w.schedule(event.MemorialID, event.Timestamp)
	return nil
}

func (w *CondolenceWorker) schedule(memorialID uuid.UUID, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopping {
		return
	}

	if existing, ok := w.pending[memorialID]; ok {
		if timestamp.Before(existing.timestamp) {
			return
		}
		if existing.timer.Stop() {
			// The stopped timer's slot in wg carries over to the new one
			w.wg.Done()
		}
	}

	p := &pendingRecount{timestamp: timestamp}
	w.wg.Add(1)
	p.timer = time.AfterFunc(w.debounce, func() {
		w.process(memorialID, p)
	})
	w.pending[memorialID] = p
}

func (w *CondolenceWorker) process(memorialID uuid.UUID, p *pendingRecount) {
	defer w.wg.Done()

	w.mu.Lock()
	if w.pending[memorialID] == p {
		delete(w.pending, memorialID)
	}
	w.mu.Unlock()

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"memorial_id": memorialID.String(),
				"attempt":     attempt + 1,
				"backoff_ms":  backoff.Milliseconds(),
			}).Warn("Retrying condolence recount")

			select {
			case <-time.After(backoff):
			case <-w.ctx.Done():
				return
			}
			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, attemptTimeout)
		err := w.counter.Recount(ctx, memorialID)
		cancel()

		if err == nil {
			return
		}
		lastErr = err
	}

	w.logger.WithFields(map[string]any{
		"memorial_id": memorialID.String(),
		"max_retries": maxRetries,
	}).Error("Condolence recount failed after all retries", lastErr)
}

// Shutdown drops recounts that have not started and waits for running ones
func (w *CondolenceWorker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	w.stopping = true
	cancelled := 0
	for id, p := range w.pending {
		if p.timer.Stop() {
			w.wg.Done()
			cancelled++
		}
		delete(w.pending, id)
	}
	w.mu.Unlock()

	w.cancel()

	w.logger.WithFields(map[string]any{
		"cancelled_recounts": cancelled,
	}).Info("Shutting down condolence worker")

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PendingCount returns the number of scheduled recounts
func (w *CondolenceWorker) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
