package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/config"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/events"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/database"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting condolence worker...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.WaitForDB(ctx, cfg, 10, 2*time.Second, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	condolenceWorker := worker.NewCondolenceWorker(worker.NewCounter(db, appLogger), worker.DefaultDebounce, appLogger)

	nc, err := nats.Connect(cfg.NATS.URL, nats.Name(events.ConsumerName))
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		appLogger.Fatal("Failed to create JetStream context", err)
	}

	streamConfig := events.NewStreamConfig(js, appLogger)
	if err := streamConfig.EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure stream", err)
	}
	if err := streamConfig.EnsureConsumer(); err != nil {
		appLogger.Fatal("Failed to ensure consumer", err)
	}

	sub, err := js.PullSubscribe(events.StreamSubjects, events.ConsumerName, nats.ManualAck())
	if err != nil {
		appLogger.Fatal("Failed to subscribe to JetStream consumer", err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			appLogger.Error("Failed to unsubscribe from JetStream", err)
		}
	}()

	appLogger.WithFields(map[string]any{
		"stream":   events.StreamName,
		"consumer": events.ConsumerName,
	}).Info("Subscribed to JetStream consumer")

	pulled := make(chan struct{})
	go func() {
		events.RunPull(ctx, sub, condolenceWorker.HandleEvent, appLogger)
		close(pulled)
	}()

	<-ctx.Done()
	appLogger.Info("Received shutdown signal")
	<-pulled

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := condolenceWorker.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Error during shutdown", err)
	}

	appLogger.Info("Condolence worker stopped")
}
