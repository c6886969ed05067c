package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/request"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/response"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/memorial"
)

const dateLayout = "2006-01-02"

// MemorialHandler handles HTTP requests for memorials
type MemorialHandler struct {
	service *memorial.Service
	logger  *logger.Logger
}

// NewMemorialHandler creates a new memorial handler
func NewMemorialHandler(service *memorial.Service, log *logger.Logger) *MemorialHandler {
	return &MemorialHandler{
		service: service,
		logger:  log,
	}
}

// SubmitMemorialRequest represents the family submission form
type SubmitMemorialRequest struct {
	FullName   string  `json:"full_name"`
	HebrewName *string `json:"hebrew_name,omitempty"`
	// BirthDate and DeathDate use the YYYY-MM-DD format
	BirthDate *string `json:"birth_date,omitempty"`
	DeathDate string  `json:"death_date"`
	City      string  `json:"city"`
	Community *string `json:"community,omitempty"`
	Biography *string `json:"biography,omitempty"`
}

// Submit handles POST /api/v1/memorials
// @Summary Submit a memorial
// @Description Publish a memorial sent in by a family.
// @Tags Memorials
// @Accept json
// @Produce json
// @Param memorial body SubmitMemorialRequest true "Memorial details"
// @Success 201 {object} map[string]interface{} "Memorial created successfully"
// @Failure 400 {object} response.ErrorBody "Invalid request body"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /memorials [post]
func (h *MemorialHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitMemorialRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deathDate, err := time.Parse(dateLayout, req.DeathDate)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid death date")
		return
	}

	m := &domain.Memorial{
		FullName:   req.FullName,
		HebrewName: req.HebrewName,
		DeathDate:  deathDate,
		City:       req.City,
		Community:  req.Community,
		Biography:  req.Biography,
	}

	if req.BirthDate != nil && *req.BirthDate != "" {
		birthDate, err := time.Parse(dateLayout, *req.BirthDate)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid birth date")
			return
		}
		m.BirthDate = &birthDate
	}

	if err := h.service.Submit(r.Context(), m); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, m)
}

// GetByID handles GET /api/v1/memorials/{id}
// @Summary Get a memorial
// @Tags Memorials
// @Produce json
// @Param id path string true "Memorial ID (UUID)"
// @Success 200 {object} map[string]interface{} "Memorial details"
// @Failure 400 {object} response.ErrorBody "Invalid memorial ID"
// @Failure 404 {object} response.ErrorBody "Memorial not found"
// @Router /memorials/{id} [get]
func (h *MemorialHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid memorial ID")
		return
	}

	m, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, m)
}

// List handles GET /api/v1/memorials
// @Summary List memorials
// @Description Paginated memorials, most recent death first.
// @Tags Memorials
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of memorials"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /memorials [get]
func (h *MemorialHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	memorials, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, memorials, total, limit, offset)
}

// Delete handles DELETE /api/v1/memorials/{id}
// @Summary Delete a memorial
// @Description Soft delete a memorial and its guestbook.
// @Tags Memorials
// @Param id path string true "Memorial ID (UUID)"
// @Success 204 "Memorial deleted successfully"
// @Failure 400 {object} response.ErrorBody "Invalid memorial ID"
// @Failure 404 {object} response.ErrorBody "Memorial not found"
// @Router /memorials/{id} [delete]
func (h *MemorialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid memorial ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps service errors to HTTP responses
func (h *MemorialHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Memorial not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in memorial handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
