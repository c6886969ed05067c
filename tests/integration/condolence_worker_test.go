//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/config"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/events"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/cache"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/database"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	cacheRepo "github.com/owntheclimb/jewishobituarymigration-sub004/internal/repository/cache"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/repository/postgres"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/condolence"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/worker"
)

func TestCondolenceWorker_EndToEnd(t *testing.T) {
	ctx := context.Background()

	cfg, err := config.Load()
	require.NoError(t, err)
	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(ctx, cfg, 5, 2*time.Second, log)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.RunMigrations(db))

	redisClient, err := cache.WaitForRedis(ctx, cfg, 5, 2*time.Second, log)
	require.NoError(t, err)
	defer redisClient.Close()

	publisher, err := events.NewPublisher(cfg, log)
	require.NoError(t, err)
	defer publisher.Close()

	counter := worker.NewCounter(db, log)
	condolenceWorker := worker.NewCondolenceWorker(counter, 200*time.Millisecond, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = condolenceWorker.Shutdown(shutdownCtx)
	}()

	// A core subscription sees stream subjects without competing with the durable consumer
	nc, err := nats.Connect(cfg.NATS.URL)
	require.NoError(t, err)
	defer nc.Close()
	_, err = nc.Subscribe(events.StreamSubjects, func(msg *nats.Msg) {
		_ = condolenceWorker.HandleEvent(msg.Data)
	})
	require.NoError(t, err)
	require.NoError(t, nc.Flush())
	require.NoError(t, events.NewStreamConfig(publisher.JetStream(), log).EnsureStream())

	memorialRepo := postgres.NewMemorialRepository(db)
	m := &domain.Memorial{
		FullName:  "Samuel Levin",
		DeathDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		City:      "Skokie",
		Origin:    domain.OriginSubmitted,
	}
	require.NoError(t, memorialRepo.Create(ctx, m))
	defer func() { _ = memorialRepo.DeleteWithCondolences(ctx, m.ID) }()

	service := condolence.NewService(
		postgres.NewCondolenceRepository(db),
		cacheRepo.NewRedisCache(redisClient, cfg.Cache.CondolencesListTTL, cfg.Stats.CacheTTL),
		publisher,
		log,
	)
	for _, author := range []string{"Ruth", "Aaron", "Leah"} {
		require.NoError(t, service.Create(ctx, &domain.Condolence{
			MemorialID: m.ID,
			AuthorName: author,
			Message:    "Our thoughts are with the family.",
		}))
	}

	assert.Eventually(t, func() bool {
		count, err := counter.CurrentCount(ctx, m.ID)
		return err == nil && count == 3
	}, 10*time.Second, 200*time.Millisecond)
}
