package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/config"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/events"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting notifier service...")

	consumer, err := events.NewConsumer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS consumer", err)
	}
	defer consumer.Close()

	subscriptions := map[string]events.Handler{
		events.StreamSubjects:       events.LoggingHandler(appLogger.With("feed", "guestbook")),
		events.NotificationsSubject: events.NotificationHandler(appLogger.With("feed", "cart")),
	}
	for subject, handle := range subscriptions {
		if err := consumer.Subscribe(subject, handle); err != nil {
			appLogger.Fatal("Failed to subscribe", err)
		}
	}

	appLogger.Info("Notifier service started and listening for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down notifier service...")
}
