package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/config"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

// Publisher sends durable events through JetStream and transient ones over core NATS
type Publisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewPublisher connects to NATS and opens a JetStream context
func NewPublisher(cfg *config.Config, log *logger.Logger) (*Publisher, error) {
	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("memorials-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	log.WithFields(map[string]any{
		"url": cfg.NATS.URL,
	}).Info("Connected to NATS JetStream")

	return &Publisher{
		nc:     nc,
		js:     js,
		logger: log,
	}, nil
}

// JetStream exposes the JetStream context for stream provisioning
func (p *Publisher) JetStream() nats.JetStreamContext {
	return p.js
}

// Publish stores a message in JetStream and waits for the acknowledgment
func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	ack, err := p.js.Publish(subject, data, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to publish to JetStream: %w", err)
	}

	p.logger.WithFields(map[string]any{
		"subject":  subject,
		"stream":   ack.Stream,
		"sequence": ack.Sequence,
	}).Debug("Published message to JetStream")

	return nil
}

// Broadcast fires a message over core NATS. Nothing is stored if nobody listens.
func (p *Publisher) Broadcast(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to broadcast on %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warnf("Failed to drain NATS connection: %v", err)
		p.nc.Close()
	}
	p.logger.Info("NATS publisher connection closed")
}
