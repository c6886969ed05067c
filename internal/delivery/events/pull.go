package events

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

const (
	// FetchBatch is the number of messages pulled per request
	FetchBatch = 10

	fetchWait  = 5 * time.Second
	fetchPause = 5 * time.Second
)

// Fetcher pulls messages from a durable consumer
type Fetcher interface {
	Fetch(batch int, opts ...nats.PullOpt) ([]*nats.Msg, error)
}

// Acker settles a pulled message
type Acker interface {
	Ack(opts ...nats.AckOpt) error
	Nak(opts ...nats.AckOpt) error
}

// RunPull fetches batches until ctx ends. Messages the handler accepts are acked,
// the rest are nacked for redelivery.
func RunPull(ctx context.Context, fetcher Fetcher, handler Handler, log *logger.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}

		msgs, err := fetcher.Fetch(FetchBatch, nats.MaxWait(fetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			log.Error("Failed to fetch messages from JetStream", err)

			select {
			case <-time.After(fetchPause):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, msg := range msgs {
			settle(msg.Data, msg, handler, log)
		}
	}
}

func settle(data []byte, msg Acker, handler Handler, log *logger.Logger) {
	if err := handler(data); err != nil {
		log.Error("Failed to handle event", err)
		if nakErr := msg.Nak(); nakErr != nil {
			log.Error("Failed to NACK message", nakErr)
		}
		return
	}

	if err := msg.Ack(); err != nil {
		log.Error("Failed to ACK message", err)
	}
}
