package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

// StorageKey prefixes the blob key holding a session's cart snapshot
const StorageKey = "memorial-cart"

// Store loads and saves whole cart snapshots in a blob store.
// It is the only component that touches the blob store.
type Store struct {
	blobs       domain.BlobStore
	loadTimeout time.Duration
	saveTimeout time.Duration
	logger      *logger.Logger
}

// NewStore creates a snapshot store. A nil blob store behaves as storage that is unavailable.
func NewStore(blobs domain.BlobStore, loadTimeout, saveTimeout time.Duration, log *logger.Logger) *Store {
	return &Store{
		blobs:       blobs,
		loadTimeout: loadTimeout,
		saveTimeout: saveTimeout,
		logger:      log,
	}
}

func storageKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", StorageKey, sessionID)
}

// Load returns the saved items of a session, or an empty slice when nothing usable is stored
func (s *Store) Load(ctx context.Context, sessionID string) []domain.CartLineItem {
	if s.blobs == nil {
		return []domain.CartLineItem{}
	}

	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}

	raw, err := s.blobs.Get(ctx, storageKey(sessionID))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WithFields(map[string]any{
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Cart storage unavailable, starting with an empty cart")
		}
		return []domain.CartLineItem{}
	}

	var items []domain.CartLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WithFields(map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Discarding malformed cart snapshot")
		return []domain.CartLineItem{}
	}

	return normalize(items)
}

// Save overwrites the stored snapshot of a session with items. Failures are logged only.
func (s *Store) Save(ctx context.Context, sessionID string, items []domain.CartLineItem) {
	if s.blobs == nil {
		return
	}

	if items == nil {
		items = []domain.CartLineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Errorf(err, "Failed to serialize cart for session %s", sessionID)
		return
	}

	if s.saveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.saveTimeout)
		defer cancel()
	}

	if err := s.blobs.Set(ctx, storageKey(sessionID), string(data)); err != nil {
		s.logger.WithFields(map[string]any{
			"session_id": sessionID,
			"items":      len(items),
			"error":      err.Error(),
		}).Warn("Failed to save cart snapshot")
		return
	}

	s.logger.WithFields(map[string]any{
		"session_id": sessionID,
		"items":      len(items),
	}).Debug("Cart snapshot saved")
}

// normalize drops malformed entries and merges duplicate IDs, saturating at math.MaxInt
func normalize(items []domain.CartLineItem) []domain.CartLineItem {
	out := make([]domain.CartLineItem, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, item := range items {
		if item.ID <= 0 || item.Quantity < 1 || item.Price < 0 {
			continue
		}
		if i, ok := index[item.ID]; ok {
			if item.Quantity > math.MaxInt-out[i].Quantity {
				out[i].Quantity = math.MaxInt
			} else {
				out[i].Quantity += item.Quantity
			}
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}

	return out
}
