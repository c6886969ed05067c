package handler

import (
	"net/http"
	"time"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/response"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/stats"
)

// StatsMaxAge is how long clients and proxies may reuse a stats response
const StatsMaxAge = 60 * time.Second

// StatsHandler serves the site-wide summary
type StatsHandler struct {
	reader stats.SummaryReader
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(reader stats.SummaryReader) *StatsHandler {
	return &StatsHandler{reader: reader}
}

// Get handles GET /api/v1/stats
// @Summary Get platform statistics
// @Description Memorial and source counts for landing pages. Always answers 200; counters that could not be read are 0.
// @Tags Stats
// @Produce json
// @Success 200 {object} map[string]interface{} "Aggregate statistics"
// @Router /stats [get]
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary := h.reader.FetchSummary(r.Context())

	response.PublicCache(w, StatsMaxAge)
	response.Success(w, summary)
}
