package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	pkgvalidator "github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/validator"
)

// DefaultMaxQuantity caps the quantity of a single line item
const DefaultMaxQuantity = 99

// Notifier shows transient messages to the shopper
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// SnapshotStore persists whole cart snapshots
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) []domain.CartLineItem
	Save(ctx context.Context, sessionID string, items []domain.CartLineItem)
}

type phase int

const (
	phaseUninitialized phase = iota
	phaseActive
)

// Manager owns the line items of one cart session.
//
// A manager starts uninitialized and rejects mutations with domain.ErrCartNotReady
// until Hydrate has loaded the saved snapshot. Every accepted mutation schedules a
// save of the full item list; saves run in the background and the last one written
// always carries the latest state.
type Manager struct {
	sessionID   string
	store       SnapshotStore
	notifier    Notifier
	validate    *validator.Validate
	logger      *logger.Logger
	maxQuantity int

	mu         sync.Mutex
	phase      phase
	items      []domain.CartLineItem
	isOpen     bool
	lastAccess time.Time

	// pending is the latest snapshot not yet handed to the store; nil when none
	pending []domain.CartLineItem
	saving  bool
	drained chan struct{}
}

// NewManager creates an uninitialized cart manager for a session
func NewManager(sessionID string, store SnapshotStore, notifier Notifier, maxQuantity int, log *logger.Logger) *Manager {
	if maxQuantity < 1 {
		maxQuantity = DefaultMaxQuantity
	}

	return &Manager{
		sessionID:   sessionID,
		store:       store,
		notifier:    notifier,
		validate:    pkgvalidator.Get(),
		logger:      log.With("session_id", sessionID),
		maxQuantity: maxQuantity,
		items:       []domain.CartLineItem{},
		lastAccess:  time.Now(),
	}
}

// SessionID returns the session this cart belongs to
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Hydrate loads the saved snapshot once and activates the manager.
// Calls after the first are no-ops.
func (m *Manager) Hydrate(ctx context.Context) {
	m.mu.Lock()
	if m.phase == phaseActive {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	items := m.store.Load(ctx, m.sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have finished hydrating while we were loading
	if m.phase == phaseActive {
		return
	}

	for i := range items {
		items[i].Quantity = m.clamp(items[i].Quantity)
	}
	m.items = items
	m.phase = phaseActive

	m.logger.WithFields(map[string]any{
		"items": len(items),
	}).Debug("Cart hydrated")
}

// Ready reports whether the manager accepts mutations
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == phaseActive
}

// AddItem adds quantity units of product, merging into an existing line item with the same ID
func (m *Manager) AddItem(product domain.CartProduct, quantity int) error {
	if err := m.validate.Struct(product); err != nil {
		m.logger.WithFields(map[string]any{
			"fields": pkgvalidator.Fields(err),
		}).Warn("Cart product validation failed")
		return domain.ErrInvalidInput
	}
	if quantity < 1 {
		return domain.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.activeLocked(); err != nil {
		return err
	}

	quantity = m.clamp(quantity)
	if i := m.indexLocked(product.ID); i >= 0 {
		m.items[i].Quantity = m.clamp(m.items[i].Quantity + quantity)
		m.notify("Cart updated", fmt.Sprintf("%s quantity updated in your cart", m.items[i].Name))
	} else {
		m.items = append(m.items, domain.NewCartLineItem(product, quantity))
		m.notify("Added to cart", fmt.Sprintf("%s has been added to your cart", product.Name))
	}

	m.isOpen = true
	m.scheduleSaveLocked()
	return nil
}

// RemoveItem deletes the line item with the given ID. Unknown IDs are not an error.
func (m *Manager) RemoveItem(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.activeLocked(); err != nil {
		return err
	}

	m.removeLocked(id)
	return nil
}

// UpdateQuantity sets the quantity of a line item; quantities below 1 remove it
func (m *Manager) UpdateQuantity(id int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.activeLocked(); err != nil {
		return err
	}

	if quantity < 1 {
		m.removeLocked(id)
		return nil
	}

	if i := m.indexLocked(id); i >= 0 {
		m.items[i].Quantity = m.clamp(quantity)
	}

	m.scheduleSaveLocked()
	return nil
}

// ClearCart removes every line item
func (m *Manager) ClearCart() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.activeLocked(); err != nil {
		return err
	}

	m.items = []domain.CartLineItem{}
	m.notify("Cart cleared", "All items have been removed from your cart")
	m.scheduleSaveLocked()
	return nil
}

// OpenCart shows the cart panel
func (m *Manager) OpenCart() {
	m.setOpen(true)
}

// CloseCart hides the cart panel
func (m *Manager) CloseCart() {
	m.setOpen(false)
}

func (m *Manager) setOpen(open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isOpen = open
	m.lastAccess = time.Now()
}

// IsOpen reports whether the cart panel is visible
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isOpen
}

// Items returns a copy of the line items in insertion order
func (m *Manager) Items() []domain.CartLineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneItems(m.items)
}

// ItemCount returns the sum of all quantities
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return itemCount(m.items)
}

// Subtotal returns the sum of price times quantity over all line items
func (m *Manager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return subtotal(m.items)
}

// View returns a consistent read model of the cart
func (m *Manager) View() domain.CartView {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastAccess = time.Now()
	return domain.CartView{
		SessionID: m.sessionID,
		Items:     cloneItems(m.items),
		ItemCount: itemCount(m.items),
		Subtotal:  subtotal(m.items).Round(2).InexactFloat64(),
		IsOpen:    m.isOpen,
	}
}

// Flush waits until every save scheduled before the call has been written
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	if !m.saving {
		m.mu.Unlock()
		return nil
	}
	drained := m.drained
	m.mu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// touch marks the cart as in use so Prune leaves it alone
func (m *Manager) touch() {
	m.mu.Lock()
	m.lastAccess = time.Now()
	m.mu.Unlock()
}

// idleSince returns the last time the cart was read or changed
func (m *Manager) idleSince() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAccess
}

func (m *Manager) activeLocked() error {
	if m.phase != phaseActive {
		return domain.ErrCartNotReady
	}
	m.lastAccess = time.Now()
	return nil
}

func (m *Manager) indexLocked(id int64) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) removeLocked(id int64) {
	if i := m.indexLocked(id); i >= 0 {
		m.items = append(m.items[:i], m.items[i+1:]...)
	}
	m.notify("Removed from cart", "Item has been removed from your cart")
	m.scheduleSaveLocked()
}

func (m *Manager) clamp(quantity int) int {
	if quantity > m.maxQuantity {
		return m.maxQuantity
	}
	return quantity
}

// scheduleSaveLocked records the current snapshot and starts a drainer if none is running
func (m *Manager) scheduleSaveLocked() {
	m.pending = cloneItems(m.items)
	if m.saving {
		return
	}

	m.saving = true
	m.drained = make(chan struct{})
	go m.drain(m.drained)
}

func (m *Manager) drain(done chan struct{}) {
	defer close(done)

	for {
		m.mu.Lock()
		next := m.pending
		m.pending = nil
		if next == nil {
			m.saving = false
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		m.store.Save(context.Background(), m.sessionID, next)
	}
}

// notify dispatches a notification without waiting for it
func (m *Manager) notify(title, description string) {
	if m.notifier == nil {
		return
	}

	n := domain.Notification{
		SessionID:   m.sessionID,
		Title:       title,
		Description: description,
		At:          time.Now(),
	}

	go func() {
		if err := m.notifier.Notify(context.Background(), n); err != nil {
			m.logger.Warnf("Failed to send cart notification %q: %v", title, err)
		}
	}()
}

func cloneItems(items []domain.CartLineItem) []domain.CartLineItem {
	out := make([]domain.CartLineItem, len(items))
	copy(out, items)
	return out
}

func itemCount(items []domain.CartLineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func subtotal(items []domain.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}
