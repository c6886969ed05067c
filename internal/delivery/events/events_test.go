package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

type capturedBroadcast struct {
	subject string
	data    []byte
	err     error
}

func (c *capturedBroadcast) Broadcast(_ context.Context, subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return c.err
}

type fakeAcker struct {
	acks, naks int
}

func (a *fakeAcker) Ack(...nats.AckOpt) error {
	a.acks++
	return nil
}

func (a *fakeAcker) Nak(...nats.AckOpt) error {
	a.naks++
	return nil
}

func TestExponentialBackoff(t *testing.T) {
	assert.Nil(t, exponentialBackoff(1))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, exponentialBackoff(3))
	assert.Len(t, exponentialBackoff(5), 4)
}

func TestConsumerDefinition(t *testing.T) {
	def := consumerDefinition()

	assert.Equal(t, ConsumerName, def.Durable)
	assert.Equal(t, StreamSubjects, def.FilterSubject)
	assert.Equal(t, MaxDeliveryAttempts, def.MaxDeliver)
	assert.Len(t, def.BackOff, MaxDeliveryAttempts-1)
	assert.Equal(t, nats.AckExplicitPolicy, def.AckPolicy)
}

func TestStreamDefinition(t *testing.T) {
	def := streamDefinition()

	assert.Equal(t, StreamName, def.Name)
	assert.Equal(t, []string{StreamSubjects}, def.Subjects)
	assert.Equal(t, nats.WorkQueuePolicy, def.Retention)
	assert.NotContains(t, def.Subjects, NotificationsSubject)
}

func TestCartNotifier_Notify(t *testing.T) {
	b := &capturedBroadcast{}
	notifier := NewCartNotifier(b)
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	err := notifier.Notify(context.Background(), domain.Notification{
		SessionID:   "s1",
		Title:       "Added to cart",
		Description: "Rose Bouquet has been added to your cart.",
		At:          at,
	})

	require.NoError(t, err)
	assert.Equal(t, NotificationsSubject, b.subject)

	var decoded domain.Notification
	require.NoError(t, json.Unmarshal(b.data, &decoded))
	assert.Equal(t, "s1", decoded.SessionID)
	assert.Equal(t, "Added to cart", decoded.Title)
	assert.True(t, at.Equal(decoded.At))
}

func TestCartNotifier_BroadcastError(t *testing.T) {
	notifier := NewCartNotifier(&capturedBroadcast{err: nats.ErrConnectionClosed})

	err := notifier.Notify(context.Background(), domain.Notification{Title: "Cart cleared"})

	assert.ErrorIs(t, err, nats.ErrConnectionClosed)
}

func TestNotificationHandler(t *testing.T) {
	var buf bytes.Buffer
	handle := NotificationHandler(logger.NewWithWriter("production", &buf))

	data, _ := json.Marshal(domain.Notification{SessionID: "s1", Title: "Item removed", Description: "Yahrzeit Candle has been removed."})
	require.NoError(t, handle(data))

	assert.Contains(t, buf.String(), "Item removed")
	assert.Contains(t, buf.String(), `"session_id":"s1"`)
}

func TestNotificationHandler_InvalidPayload(t *testing.T) {
	handle := NotificationHandler(logger.New("test"))
	assert.Error(t, handle([]byte("not json")))
}

func TestLoggingHandler(t *testing.T) {
	var buf bytes.Buffer
	handle := LoggingHandler(logger.NewWithWriter("production", &buf))

	require.NoError(t, handle([]byte(`{"event_type":"condolence.created"}`)))
	assert.Contains(t, buf.String(), "condolence.created")

	assert.Error(t, handle([]byte("{")))
}

func TestSettle(t *testing.T) {
	log := logger.New("test")

	ok := &fakeAcker{}
	settle([]byte("{}"), ok, func([]byte) error { return nil }, log)
	assert.Equal(t, 1, ok.acks)
	assert.Equal(t, 0, ok.naks)

	failed := &fakeAcker{}
	settle([]byte("{}"), failed, func([]byte) error { return errors.New("db down") }, log)
	assert.Equal(t, 0, failed.acks)
	assert.Equal(t, 1, failed.naks)
}

type timeoutFetcher struct {
	calls  atomic.Int32
	cancel context.CancelFunc
}

func (f *timeoutFetcher) Fetch(int, ...nats.PullOpt) ([]*nats.Msg, error) {
	if f.calls.Add(1) == 3 {
		f.cancel()
	}
	return nil, nats.ErrTimeout
}

func TestRunPull_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &timeoutFetcher{cancel: cancel}

	done := make(chan struct{})
	go func() {
		RunPull(ctx, fetcher, func([]byte) error { return nil }, logger.New("test"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunPull did not return after cancellation")
	}
	assert.Equal(t, int32(3), fetcher.calls.Load())
}
