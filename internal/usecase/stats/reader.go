package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/guard"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

const (
	// CommunitiesServed is the number of communities the platform covers. It is not queried.
	CommunitiesServed = 50

	// DefaultQueryTimeout bounds each query when no timeout is configured
	DefaultQueryTimeout = 5 * time.Second

	// SourceListLimit caps the source rows fetched for the type breakdown
	SourceListLimit = 1000
)

// Query names used in logs and failure hooks
const (
	QueryTotalMemorials     = "total_memorials"
	QueryScrapedMemorials   = "scraped_memorials"
	QuerySubmittedMemorials = "submitted_memorials"
	QueryActiveSources      = "active_sources"
	QuerySourcesByType      = "sources_by_type"
)

// FailureHook is called once for every query that resolved to its fallback.
// Queries run concurrently, so the hook must be safe for concurrent use.
type FailureHook func(query string, err error)

// Reader builds the site-wide summary from five bounded queries
type Reader struct {
	source       domain.StatsSource
	queryTimeout time.Duration
	onFailure    FailureHook
	logger       *logger.Logger
	now          func() time.Time
}

// Option configures a Reader
type Option func(*Reader)

// WithFailureHook registers a hook for per-query failures
func WithFailureHook(hook FailureHook) Option {
	return func(r *Reader) {
		r.onFailure = hook
	}
}

// WithClock overrides the time source of LastUpdated
func WithClock(now func() time.Time) Option {
	return func(r *Reader) {
		r.now = now
	}
}

// NewReader creates a stats reader. A non-positive queryTimeout uses DefaultQueryTimeout.
func NewReader(source domain.StatsSource, queryTimeout time.Duration, log *logger.Logger, opts ...Option) *Reader {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}

	r := &Reader{
		source:       source,
		queryTimeout: queryTimeout,
		logger:       log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fallback returns the summary served when the whole read fails
func Fallback() domain.AggregateStats {
	return domain.AggregateStats{
		CommunitiesServed: CommunitiesServed,
		LastUpdated:       time.Now().UTC(),
	}
}

// FetchSummary runs every query concurrently and merges the results once all have settled.
// It never fails: queries that error or stall contribute their zero value.
func (r *Reader) FetchSummary(ctx context.Context) (summary domain.AggregateStats) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Stats summary failed, serving fallback", fmt.Errorf("panic: %v", p))
			summary = Fallback()
		}
	}()

	if err := ctx.Err(); err != nil {
		r.logger.Warnf("Stats summary requested after context ended: %v", err)
		return Fallback()
	}

	var (
		total, scraped, submitted, active int
		sources                           []domain.Source
	)

	var g errgroup.Group

	g.Go(func() error {
		total = bounded(ctx, r, QueryTotalMemorials, r.source.CountMemorials, 0)
		return nil
	})
	g.Go(func() error {
		scraped = bounded(ctx, r, QueryScrapedMemorials, func(ctx context.Context) (int, error) {
			return r.source.CountMemorialsByOrigin(ctx, domain.OriginScraped)
		}, 0)
		return nil
	})
	g.Go(func() error {
		submitted = bounded(ctx, r, QuerySubmittedMemorials, func(ctx context.Context) (int, error) {
			return r.source.CountMemorialsByOrigin(ctx, domain.OriginSubmitted)
		}, 0)
		return nil
	})
	g.Go(func() error {
		active = bounded(ctx, r, QueryActiveSources, r.source.CountActiveSources, 0)
		return nil
	})
	g.Go(func() error {
		sources = bounded(ctx, r, QuerySourcesByType, func(ctx context.Context) ([]domain.Source, error) {
			return r.source.ListActiveSources(ctx, SourceListLimit)
		}, []domain.Source{})
		return nil
	})

	// Every query swallows its own failure so Wait only returns once all have settled
	_ = g.Wait()

	return domain.AggregateStats{
		TotalMemorials:     total,
		ScrapedMemorials:   scraped,
		SubmittedMemorials: submitted,
		ActiveSources:      active,
		SourcesByType:      breakdown(sources),
		CommunitiesServed:  CommunitiesServed,
		LastUpdated:        r.now().UTC(),
	}
}

// bounded runs one query under the timeout guard and reports its failure
func bounded[T any](ctx context.Context, r *Reader, name string, op guard.Operation[T], fallback T) T {
	start := time.Now()

	return guard.WithFallback(ctx, op, r.queryTimeout, fallback, guard.OnFallback(func(err error) {
		r.logger.WithFields(map[string]any{
			"query":    name,
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		}).Warn("Stats query failed, using fallback")

		if r.onFailure != nil {
			r.onFailure(name, err)
		}
	}))
}

// breakdown counts sources per known type; unknown types are ignored
func breakdown(sources []domain.Source) domain.SourceBreakdown {
	var b domain.SourceBreakdown
	for _, s := range sources {
		switch s.Type {
		case domain.SourceTypeFuneralHome:
			b.FuneralHomes++
		case domain.SourceTypeSynagogue:
			b.Synagogues++
		case domain.SourceTypeNewspaper:
			b.Newspapers++
		case domain.SourceTypeCommunity:
			b.Communities++
		}
	}
	return b
}
