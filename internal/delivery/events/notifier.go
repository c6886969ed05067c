package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
)

// Broadcaster sends a message without delivery guarantees
type Broadcaster interface {
	Broadcast(ctx context.Context, subject string, data []byte) error
}

// CartNotifier delivers cart notifications to whoever renders them
type CartNotifier struct {
	broadcaster Broadcaster
	subject     string
}

// NewCartNotifier creates a notifier publishing on NotificationsSubject
func NewCartNotifier(b Broadcaster) *CartNotifier {
	return &CartNotifier{
		broadcaster: b,
		subject:     NotificationsSubject,
	}
}

// Notify encodes the notification as JSON and broadcasts it
func (n *CartNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	return n.broadcaster.Broadcast(ctx, n.subject, data)
}
