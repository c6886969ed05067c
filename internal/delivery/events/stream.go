package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

const (
	// StreamName is the JetStream stream holding guestbook events
	StreamName = "MEMORIALS"

	// StreamSubjects is the subject captured by the stream
	StreamSubjects = "memorials.events"

	// ConsumerName is the durable consumer of the condolence counter
	ConsumerName = "condolence-counter"

	// NotificationsSubject carries transient cart notifications over core NATS
	NotificationsSubject = "cart.notifications"

	// MaxDeliveryAttempts bounds redelivery. The counter recounts from the database,
	// so a dropped event is repaired by the next one for the same memorial.
	MaxDeliveryAttempts = 3

	// AckWait is how long to wait for acknowledgment before redelivery
	AckWait = 30 * time.Second

	// StreamMaxAge drops events nobody consumed within a day
	StreamMaxAge = 24 * time.Hour
)

// StreamConfig provisions the stream and the durable consumer
type StreamConfig struct {
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewStreamConfig creates a new stream configuration helper
func NewStreamConfig(js nats.JetStreamContext, log *logger.Logger) *StreamConfig {
	return &StreamConfig{
		js:     js,
		logger: log,
	}
}

// exponentialBackoff returns 1s, 2s, 4s... one entry per redelivery
func exponentialBackoff(maxDeliveryAttempts int) []time.Duration {
	if maxDeliveryAttempts <= 1 {
		return nil
	}

	backoff := make([]time.Duration, maxDeliveryAttempts-1)
	for i := range backoff {
		backoff[i] = time.Duration(1<<i) * time.Second
	}
	return backoff
}

func streamDefinition() *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{StreamSubjects},
		Retention:   nats.WorkQueuePolicy,
		Storage:     nats.FileStorage,
		Replicas:    1,
		MaxAge:      StreamMaxAge,
		Discard:     nats.DiscardOld,
		Description: "Guestbook events for condolence counting",
	}
}

func consumerDefinition() *nats.ConsumerConfig {
	return &nats.ConsumerConfig{
		Durable:       ConsumerName,
		AckPolicy:     nats.AckExplicitPolicy,
		AckWait:       AckWait,
		MaxDeliver:    MaxDeliveryAttempts,
		FilterSubject: StreamSubjects,
		BackOff:       exponentialBackoff(MaxDeliveryAttempts),
		Description:   "Condolence counter",
	}
}

// EnsureStream creates the guestbook stream when it does not exist yet
func (s *StreamConfig) EnsureStream() error {
	stream, err := s.js.StreamInfo(StreamName)

	if errors.Is(err, nats.ErrStreamNotFound) {
		s.logger.WithFields(map[string]any{
			"stream":   StreamName,
			"subjects": StreamSubjects,
		}).Info("Creating JetStream stream")

		if _, err := s.js.AddStream(streamDefinition()); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get stream info: %w", err)
	}

	s.logger.WithFields(map[string]any{
		"stream":   stream.Config.Name,
		"messages": stream.State.Msgs,
	}).Info("JetStream stream already exists")

	return nil
}

// EnsureConsumer creates the durable counter consumer when it does not exist yet
func (s *StreamConfig) EnsureConsumer() error {
	info, err := s.js.ConsumerInfo(StreamName, ConsumerName)

	if errors.Is(err, nats.ErrConsumerNotFound) {
		s.logger.WithFields(map[string]any{
			"stream":   StreamName,
			"consumer": ConsumerName,
		}).Info("Creating JetStream consumer")

		if _, err := s.js.AddConsumer(StreamName, consumerDefinition()); err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}

	s.logger.WithFields(map[string]any{
		"consumer":    info.Name,
		"pending":     info.NumPending,
		"ack_pending": info.NumAckPending,
	}).Info("JetStream consumer already exists")

	return nil
}
