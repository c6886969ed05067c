package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/config"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

// Handler processes one message payload
type Handler func(data []byte) error

// Consumer listens on core NATS subjects
type Consumer struct {
	nc     *nats.Conn
	logger *logger.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewConsumer connects to NATS
func NewConsumer(cfg *config.Config, log *logger.Logger) (*Consumer, error) {
	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("memorials-notifier"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Infof("Connected to NATS at %s", cfg.NATS.URL)

	return &Consumer{
		nc:     nc,
		logger: log,
	}, nil
}

// Subscribe registers handler for subject. It may be called once per subject.
func (c *Consumer) Subscribe(subject string, handler Handler) error {
	sub, err := c.nc.Subscribe(subject, func(msg *nats.Msg) {
		c.logger.Debugf("Received message on subject %s", subject)

		if err := handler(msg.Data); err != nil {
			c.logger.Errorf(err, "Failed to handle message on subject %s", subject)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	c.logger.Infof("Subscribed to NATS subject: %s", subject)
	return nil
}

// Close unsubscribes everything and closes the connection
func (c *Consumer) Close() {
	c.mu.Lock()
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warnf("Failed to unsubscribe from %s: %v", sub.Subject, err)
		}
	}
	c.subs = nil
	c.mu.Unlock()

	if c.nc != nil {
		c.nc.Close()
		c.logger.Info("NATS consumer connection closed")
	}
}

// LoggingHandler logs every guestbook event it receives
func LoggingHandler(log *logger.Logger) Handler {
	return func(data []byte) error {
		var event map[string]any
		if err := json.Unmarshal(data, &event); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		pretty, err := json.MarshalIndent(event, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format event: %w", err)
		}

		log.Infof("Received event:\n%s", string(pretty))
		return nil
	}
}

// NotificationHandler renders cart notifications as log entries
func NotificationHandler(log *logger.Logger) Handler {
	return func(data []byte) error {
		var n domain.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("failed to unmarshal notification: %w", err)
		}

		log.WithFields(map[string]any{
			"session_id":  n.SessionID,
			"description": n.Description,
			"at":          n.At,
		}).Info(n.Title)
		return nil
	}
}
