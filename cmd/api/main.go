package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/config"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/events"
	httpDelivery "github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/handler"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/cache"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/database"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	cacheRepo "github.com/owntheclimb/jewishobituarymigration-sub004/internal/repository/cache"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/repository/postgres"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/cart"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/condolence"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/memorial"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/stats"

	_ "github.com/owntheclimb/jewishobituarymigration-sub004/docs"
)

// @title Memorials API
// @version 1.0
// @description Memorial listings, guestbooks, a gift cart and platform statistics.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Memorials
// @tag.description Memorial listings

// @tag.name Condolences
// @tag.description Memorial guestbooks

// @tag.name Cart
// @tag.description Per-session gift cart

// @tag.name Stats
// @tag.description Platform statistics

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	logger.SetGlobalLogger(appLogger)
	appLogger.Info("Starting Memorials API...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.WaitForDB(ctx, cfg, 10, 2*time.Second, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			appLogger.Fatal("Failed to run migrations", err)
		}
		appLogger.Info("Database migrations applied")
	}

	redisClient, err := cache.WaitForRedis(ctx, cfg, 10, 2*time.Second, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis")

	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	if err := events.NewStreamConfig(publisher.JetStream(), appLogger).EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure JetStream stream", err)
	}

	redisCache := cacheRepo.NewRedisCache(redisClient, cfg.Cache.CondolencesListTTL, cfg.Stats.CacheTTL)

	var blobs domain.BlobStore = cacheRepo.NewRedisBlobStore(redisClient)
	if cfg.Cart.BlobStore == "memory" {
		blobs = cacheRepo.NewMemoryBlobStore()
	}
	cartStore := cart.NewStore(blobs, cfg.Cart.LoadTimeout, cfg.Cart.SaveTimeout, appLogger)
	registry := cart.NewRegistry(cartStore, events.NewCartNotifier(publisher), cfg.Cart.MaxQuantity, appLogger)

	statsReader := stats.NewCachedReader(
		stats.NewReader(postgres.NewStatsRepository(db), cfg.Stats.QueryTimeout, appLogger),
		redisCache,
		appLogger,
	)

	memorialService := memorial.NewService(postgres.NewMemorialRepository(db), redisCache, appLogger)
	condolenceService := condolence.NewService(postgres.NewCondolenceRepository(db), redisCache, publisher, appLogger)

	router := httpDelivery.NewRouter(httpDelivery.Handlers{
		Memorial:   handler.NewMemorialHandler(memorialService, appLogger),
		Condolence: handler.NewCondolenceHandler(condolenceService, appLogger),
		Cart:       handler.NewCartHandler(registry, appLogger),
		Stats:      handler.NewStatsHandler(statsReader),
	}, cfg, appLogger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go registry.PruneEvery(ctx, cfg.Cart.SessionIdleTTL, cfg.Cart.SessionIdleTTL)

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}

	if err := registry.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Cart sessions were not fully saved", err)
	}

	appLogger.Info("Server stopped gracefully")
}
