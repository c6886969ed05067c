package domain

import (
	"context"
	"time"
)

// Memorial origins
const (
	OriginScraped   = "scraped"
	OriginSubmitted = "submitted"
)

// Source types counted in the stats breakdown
const (
	SourceTypeFuneralHome = "funeral_home"
	SourceTypeSynagogue   = "synagogue"
	SourceTypeNewspaper   = "newspaper"
	SourceTypeCommunity   = "community"
)

// Source is an external listing provider memorials are collected from
type Source struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Type   string `json:"type" db:"type"`
	Active bool   `json:"active" db:"active"`
}

// SourceBreakdown counts active sources per known type
type SourceBreakdown struct {
	FuneralHomes int `json:"funeral_homes"`
	Synagogues   int `json:"synagogues"`
	Newspapers   int `json:"newspapers"`
	Communities  int `json:"communities"`
}

// AggregateStats is the site-wide summary shown on landing pages.
// It is rebuilt from query results on every read.
type AggregateStats struct {
	TotalMemorials     int             `json:"total_memorials"`
	ScrapedMemorials   int             `json:"scraped_memorials"`
	SubmittedMemorials int             `json:"submitted_memorials"`
	ActiveSources      int             `json:"active_sources"`
	SourcesByType      SourceBreakdown `json:"sources_by_type"`
	CommunitiesServed  int             `json:"communities_served"`
	LastUpdated        time.Time       `json:"last_updated"`
}

// StatsSource is the remote data source the stats reader queries
type StatsSource interface {
	// CountMemorials returns the number of published memorials
	CountMemorials(ctx context.Context) (int, error)

	// CountMemorialsByOrigin returns the number of published memorials with the given origin
	CountMemorialsByOrigin(ctx context.Context, origin string) (int, error)

	// CountActiveSources returns the number of sources currently collected from
	CountActiveSources(ctx context.Context) (int, error)

	// ListActiveSources returns up to limit active sources
	ListActiveSources(ctx context.Context, limit int) ([]Source, error)
}
