package cart

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/repository/cache"
)

// recordingNotifier collects notifications sent from background goroutines
type recordingNotifier struct {
	mu    sync.Mutex
	sent  []domain.Notification
	fails bool
}

func (n *recordingNotifier) Notify(_ context.Context, notification domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	if n.fails {
		return assert.AnError
	}
	return nil
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	titles := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		titles = append(titles, s.Title)
	}
	return titles
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// countingStore wraps a Store and counts saves
type countingStore struct {
	*Store
	mu    sync.Mutex
	saves int
	gate  chan struct{}
}

func (s *countingStore) Save(ctx context.Context, sessionID string, items []domain.CartLineItem) {
	if s.gate != nil {
		<-s.gate
	}
	s.Store.Save(ctx, sessionID, items)
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
}

func (s *countingStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type fixture struct {
	manager  *Manager
	store    *Store
	blobs    *cache.MemoryBlobStore
	notifier *recordingNotifier
}

func setupManager(t *testing.T) fixture {
	t.Helper()

	log := logger.New("test")
	blobs := cache.NewMemoryBlobStore()
	store := NewStore(blobs, time.Second, time.Second, log)
	notifier := &recordingNotifier{}

	m := NewManager("session-1", store, notifier, DefaultMaxQuantity, log)
	m.Hydrate(context.Background())

	return fixture{manager: m, store: store, blobs: blobs, notifier: notifier}
}

func rose() domain.CartProduct {
	return domain.CartProduct{ID: 1, Name: "Rose Bouquet", Category: "flowers", Price: 45.00, Image: "/img/rose.jpg"}
}

func candle() domain.CartProduct {
	return domain.CartProduct{ID: 2, Name: "Yahrzeit Candle", Category: "candles", Price: 12.50, Image: "/img/candle.jpg"}
}

func tree() domain.CartProduct {
	return domain.CartProduct{ID: 3, Name: "Tree in Israel", Category: "tributes", Price: 18.00, Image: "/img/tree.jpg"}
}

func flushed(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Flush(ctx))
}

func TestManager_AddThenIncrement(t *testing.T) {
	f := setupManager(t)

	require.NoError(t, f.manager.AddItem(rose(), 2))
	require.NoError(t, f.manager.AddItem(rose(), 3))

	items := f.manager.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, decimal.NewFromInt(225).Equal(f.manager.Subtotal()))
	assert.Equal(t, 5, f.manager.ItemCount())

	assert.Eventually(t, func() bool { return f.notifier.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"Added to cart", "Cart updated"}, f.notifier.titles())
}

func TestManager_MergeKeepsSingleLinePerID(t *testing.T) {
	f := setupManager(t)

	quantities := []int{1, 4, 2, 7}
	for _, q := range quantities {
		require.NoError(t, f.manager.AddItem(candle(), q))
	}

	items := f.manager.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 14, items[0].Quantity)
}

func TestManager_AddOpensCart(t *testing.T) {
	f := setupManager(t)
	assert.False(t, f.manager.IsOpen())

	require.NoError(t, f.manager.AddItem(rose(), 1))

	assert.True(t, f.manager.IsOpen())
}

func TestManager_AddPreservesInsertionOrder(t *testing.T) {
	f := setupManager(t)

	require.NoError(t, f.manager.AddItem(tree(), 1))
	require.NoError(t, f.manager.AddItem(rose(), 1))
	require.NoError(t, f.manager.AddItem(candle(), 1))
	require.NoError(t, f.manager.AddItem(tree(), 1))

	items := f.manager.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{items[0].ID, items[1].ID, items[2].ID})
}

func TestManager_AddKeepsFirstDescriptiveFields(t *testing.T) {
	f := setupManager(t)

	first := rose()
	first.GiftMessage = "Thinking of you"
	second := rose()
	second.Name = "Renamed"
	second.Price = 1

	require.NoError(t, f.manager.AddItem(first, 1))
	require.NoError(t, f.manager.AddItem(second, 1))

	items := f.manager.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Rose Bouquet", items[0].Name)
	assert.Equal(t, 45.0, items[0].Price)
	assert.Equal(t, "Thinking of you", items[0].GiftMessage)
}

func TestManager_AddInvalidInput(t *testing.T) {
	f := setupManager(t)

	invalid := []struct {
		name     string
		product  domain.CartProduct
		quantity int
	}{
		{"missing id", domain.CartProduct{Name: "X", Price: 1}, 1},
		{"missing name", domain.CartProduct{ID: 5, Price: 1}, 1},
		{"negative price", domain.CartProduct{ID: 5, Name: "X", Price: -1}, 1},
		{"zero quantity", rose(), 0},
		{"negative quantity", rose(), -3},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			err := f.manager.AddItem(tc.product, tc.quantity)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	assert.Empty(t, f.manager.Items())
}

func TestManager_AddFreeItem(t *testing.T) {
	f := setupManager(t)

	free := domain.CartProduct{ID: 9, Name: "Digital Candle", Price: 0}
	require.NoError(t, f.manager.AddItem(free, 1))

	assert.True(t, f.manager.Subtotal().IsZero())
	assert.Equal(t, 1, f.manager.ItemCount())
}

func TestManager_QuantityCeiling(t *testing.T) {
	log := logger.New("test")
	store := NewStore(cache.NewMemoryBlobStore(), time.Second, time.Second, log)
	m := NewManager("s", store, nil, 10, log)
	m.Hydrate(context.Background())

	require.NoError(t, m.AddItem(rose(), 8))
	require.NoError(t, m.AddItem(rose(), 8))
	assert.Equal(t, 10, m.ItemCount())

	require.NoError(t, m.UpdateQuantity(rose().ID, 500))
	assert.Equal(t, 10, m.ItemCount())
}

func TestManager_AddHugeQuantitySaturates(t *testing.T) {
	f := setupManager(t)

	require.NoError(t, f.manager.AddItem(rose(), 1))
	require.NoError(t, f.manager.AddItem(rose(), math.MaxInt))
	require.NoError(t, f.manager.AddItem(candle(), math.MaxInt))

	items := f.manager.Items()
	require.Len(t, items, 2)
	assert.Equal(t, DefaultMaxQuantity, items[0].Quantity)
	assert.Equal(t, DefaultMaxQuantity, items[1].Quantity)
	assert.Equal(t, 2*DefaultMaxQuantity, f.manager.ItemCount())
	assert.True(t, f.manager.Subtotal().IsPositive())

	flushed(t, f.manager)
	assert.Equal(t, items, f.store.Load(context.Background(), "session-1"))
}

func TestManager_HydrateClampsOverflowingSnapshot(t *testing.T) {
	log := logger.New("test")
	blobs := cache.NewMemoryBlobStore()
	raw := `[
		{"id":1,"name":"Rose Bouquet","price":45,"quantity":9223372036854775807},
		{"id":1,"name":"Rose Bouquet","price":45,"quantity":5}
	]`
	require.NoError(t, blobs.Set(context.Background(), "memorial-cart:s1", raw))
	store := NewStore(blobs, time.Second, time.Second, log)

	m := NewManager("s1", store, nil, DefaultMaxQuantity, log)
	m.Hydrate(context.Background())

	assert.Equal(t, DefaultMaxQuantity, m.ItemCount())
	assert.True(t, m.Subtotal().IsPositive())
}

func TestManager_RemoveItem(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(rose(), 1))
	require.NoError(t, f.manager.AddItem(candle(), 1))

	require.NoError(t, f.manager.RemoveItem(rose().ID))

	items := f.manager.Items()
	require.Len(t, items, 1)
	assert.Equal(t, candle().ID, items[0].ID)
	assert.Eventually(t, func() bool { return f.notifier.count() == 3 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, f.notifier.titles(), "Removed from cart")
}

func TestManager_RemoveAbsentIsNoop(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(rose(), 2))

	require.NoError(t, f.manager.RemoveItem(404))

	assert.Equal(t, 2, f.manager.ItemCount())
}

func TestManager_UpdateQuantity(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(rose(), 1))

	require.NoError(t, f.manager.UpdateQuantity(rose().ID, 4))

	assert.Equal(t, 4, f.manager.ItemCount())
	assert.True(t, decimal.NewFromInt(180).Equal(f.manager.Subtotal()))
}

func TestManager_UpdateQuantityAbsentIsNoop(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(rose(), 1))

	require.NoError(t, f.manager.UpdateQuantity(404, 3))

	items := f.manager.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestManager_UpdateBelowOneRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -50} {
		withItem := setupManager(t)
		require.NoError(t, withItem.manager.AddItem(rose(), 3))
		require.NoError(t, withItem.manager.AddItem(candle(), 1))

		viaRemove := setupManager(t)
		require.NoError(t, viaRemove.manager.AddItem(rose(), 3))
		require.NoError(t, viaRemove.manager.AddItem(candle(), 1))

		require.NoError(t, withItem.manager.UpdateQuantity(rose().ID, q))
		require.NoError(t, viaRemove.manager.RemoveItem(rose().ID))

		assert.Equal(t, viaRemove.manager.Items(), withItem.manager.Items())

		// Also equivalent when the id is absent
		require.NoError(t, withItem.manager.UpdateQuantity(rose().ID, q))
		require.NoError(t, viaRemove.manager.RemoveItem(rose().ID))
		assert.Equal(t, viaRemove.manager.Items(), withItem.manager.Items())
	}
}

func TestManager_ClearCart(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(rose(), 1))
	require.NoError(t, f.manager.AddItem(candle(), 2))
	require.NoError(t, f.manager.AddItem(tree(), 3))
	require.Equal(t, 6, f.manager.ItemCount())

	require.NoError(t, f.manager.ClearCart())
	flushed(t, f.manager)

	assert.Empty(t, f.manager.Items())
	assert.Equal(t, 0, f.manager.ItemCount())
	assert.True(t, f.manager.Subtotal().IsZero())

	raw, err := f.blobs.Get(context.Background(), "memorial-cart:session-1")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestManager_TotalsRecomputedEachCall(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(rose(), 1))
	require.NoError(t, f.manager.AddItem(candle(), 3))

	assert.Equal(t, 4, f.manager.ItemCount())
	assert.True(t, decimal.RequireFromString("82.5").Equal(f.manager.Subtotal()))

	require.NoError(t, f.manager.UpdateQuantity(candle().ID, 1))

	assert.Equal(t, 2, f.manager.ItemCount())
	assert.True(t, decimal.RequireFromString("57.5").Equal(f.manager.Subtotal()))
}

func TestManager_SubtotalIsExact(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(domain.CartProduct{ID: 1, Name: "Card", Price: 0.1}, 3))

	assert.Equal(t, "0.3", f.manager.Subtotal().String())
	assert.Equal(t, 0.3, f.manager.View().Subtotal)
}

func TestManager_OpenCloseNotPersisted(t *testing.T) {
	f := setupManager(t)

	f.manager.OpenCart()
	assert.True(t, f.manager.IsOpen())
	f.manager.CloseCart()
	assert.False(t, f.manager.IsOpen())

	flushed(t, f.manager)
	_, err := f.blobs.Get(context.Background(), "memorial-cart:session-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManager_PersistsLatestSnapshot(t *testing.T) {
	f := setupManager(t)

	require.NoError(t, f.manager.AddItem(rose(), 1))
	require.NoError(t, f.manager.AddItem(candle(), 2))
	require.NoError(t, f.manager.UpdateQuantity(rose().ID, 5))
	require.NoError(t, f.manager.RemoveItem(candle().ID))
	flushed(t, f.manager)

	assert.Equal(t, f.manager.Items(), f.store.Load(context.Background(), "session-1"))
}

func TestManager_CoalescesSavesWhileWriting(t *testing.T) {
	log := logger.New("test")
	store := &countingStore{
		Store: NewStore(cache.NewMemoryBlobStore(), time.Second, time.Second, log),
		gate:  make(chan struct{}),
	}
	m := NewManager("s", store, nil, DefaultMaxQuantity, log)
	m.Hydrate(context.Background())

	// The first save blocks on the gate while more mutations arrive
	require.NoError(t, m.AddItem(rose(), 1))
	for i := 0; i < 10; i++ {
		require.NoError(t, m.AddItem(candle(), 1))
	}
	close(store.gate)
	flushed(t, m)

	assert.LessOrEqual(t, store.saveCount(), 2)
	loaded := store.Load(context.Background(), "s")
	require.Len(t, loaded, 2)
	assert.Equal(t, 10, loaded[1].Quantity)
}

func TestManager_RejectsMutationsBeforeHydration(t *testing.T) {
	log := logger.New("test")
	blobs := cache.NewMemoryBlobStore()
	store := NewStore(blobs, time.Second, time.Second, log)
	store.Save(context.Background(), "s", []domain.CartLineItem{{ID: 1, Name: "Rose Bouquet", Price: 45, Quantity: 2}})

	m := NewManager("s", store, nil, DefaultMaxQuantity, log)
	assert.False(t, m.Ready())

	assert.ErrorIs(t, m.AddItem(candle(), 1), domain.ErrCartNotReady)
	assert.ErrorIs(t, m.RemoveItem(1), domain.ErrCartNotReady)
	assert.ErrorIs(t, m.UpdateQuantity(1, 0), domain.ErrCartNotReady)
	assert.ErrorIs(t, m.ClearCart(), domain.ErrCartNotReady)

	// Nothing was written over the saved cart
	flushed(t, m)
	assert.Len(t, store.Load(context.Background(), "s"), 1)

	m.Hydrate(context.Background())
	assert.True(t, m.Ready())
	assert.Equal(t, 2, m.ItemCount())
}

func TestManager_HydrateOnlyOnce(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(rose(), 1))
	flushed(t, f.manager)

	f.store.Save(context.Background(), "session-1", nil)
	f.manager.Hydrate(context.Background())

	assert.Equal(t, 1, f.manager.ItemCount())
}

func TestManager_HydrateClampsQuantities(t *testing.T) {
	log := logger.New("test")
	store := NewStore(cache.NewMemoryBlobStore(), time.Second, time.Second, log)
	store.Save(context.Background(), "s", []domain.CartLineItem{{ID: 1, Name: "Rose Bouquet", Price: 45, Quantity: 1000}})

	m := NewManager("s", store, nil, 99, log)
	m.Hydrate(context.Background())

	assert.Equal(t, 99, m.ItemCount())
}

func TestManager_NotificationFailureIsIgnored(t *testing.T) {
	f := setupManager(t)
	f.notifier.fails = true

	require.NoError(t, f.manager.AddItem(rose(), 1))

	assert.Eventually(t, func() bool { return f.notifier.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.manager.ItemCount())
}

func TestManager_View(t *testing.T) {
	f := setupManager(t)
	require.NoError(t, f.manager.AddItem(rose(), 2))

	view := f.manager.View()

	assert.Equal(t, "session-1", view.SessionID)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, 90.0, view.Subtotal)
	assert.True(t, view.IsOpen)
	require.Len(t, view.Items, 1)

	// The view is a copy
	view.Items[0].Quantity = 50
	assert.Equal(t, 2, f.manager.ItemCount())
}

func TestManager_FlushHonorsContext(t *testing.T) {
	log := logger.New("test")
	store := &countingStore{
		Store: NewStore(cache.NewMemoryBlobStore(), time.Second, time.Second, log),
		gate:  make(chan struct{}),
	}
	defer close(store.gate)

	m := NewManager("s", store, nil, DefaultMaxQuantity, log)
	m.Hydrate(context.Background())
	require.NoError(t, m.AddItem(rose(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Flush(ctx), context.DeadlineExceeded)
}

func TestManager_ConcurrentMutations(t *testing.T) {
	f := setupManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.manager.AddItem(candle(), 1)
		}()
	}
	wg.Wait()
	flushed(t, f.manager)

	assert.Equal(t, 50, f.manager.ItemCount())
	loaded := f.store.Load(context.Background(), "session-1")
	require.Len(t, loaded, 1)
	assert.Equal(t, 50, loaded[0].Quantity)
}
