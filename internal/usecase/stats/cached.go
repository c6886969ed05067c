package stats

import (
	"context"
	"errors"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

// SummaryReader produces the site-wide summary
type SummaryReader interface {
	FetchSummary(ctx context.Context) domain.AggregateStats
}

// SummaryCache stores the merged summary between reads
type SummaryCache interface {
	GetStats(ctx context.Context) (domain.AggregateStats, error)
	SetStats(ctx context.Context, stats domain.AggregateStats) error
}

// CachedReader serves the summary from cache and refreshes it from the wrapped reader on a miss
type CachedReader struct {
	next   SummaryReader
	cache  SummaryCache
	logger *logger.Logger
}

// NewCachedReader wraps next with cache. A nil cache passes every read through.
func NewCachedReader(next SummaryReader, cache SummaryCache, log *logger.Logger) *CachedReader {
	return &CachedReader{
		next:   next,
		cache:  cache,
		logger: log,
	}
}

// FetchSummary returns the cached summary when present, otherwise reads and caches a fresh one.
// A summary with every counter at zero is not cached, so an outage is not served for a whole TTL.
func (c *CachedReader) FetchSummary(ctx context.Context) domain.AggregateStats {
	if c.cache == nil {
		return c.next.FetchSummary(ctx)
	}

	cached, err := c.cache.GetStats(ctx)
	if err == nil {
		c.logger.Debug("Cache hit for stats summary")
		return cached
	}
	if !errors.Is(err, domain.ErrNotFound) {
		c.logger.Warnf("Failed to read cached stats summary: %v", err)
	}

	summary := c.next.FetchSummary(ctx)
	if isEmpty(summary) {
		return summary
	}

	if err := c.cache.SetStats(ctx, summary); err != nil {
		c.logger.Warnf("Failed to cache stats summary: %v", err)
	}

	return summary
}

func isEmpty(s domain.AggregateStats) bool {
	return s.TotalMemorials == 0 &&
		s.ScrapedMemorials == 0 &&
		s.SubmittedMemorials == 0 &&
		s.ActiveSources == 0 &&
		s.SourcesByType == (domain.SourceBreakdown{})
}
