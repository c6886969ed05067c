package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/request"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/response"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/condolence"
)

// CondolenceHandler handles HTTP requests for memorial guestbooks
type CondolenceHandler struct {
	service *condolence.Service
	logger  *logger.Logger
}

// NewCondolenceHandler creates a new condolence handler
func NewCondolenceHandler(service *condolence.Service, log *logger.Logger) *CondolenceHandler {
	return &CondolenceHandler{
		service: service,
		logger:  log,
	}
}

// CreateCondolenceRequest represents the request body for signing a guestbook
type CreateCondolenceRequest struct {
	MemorialID   string  `json:"memorial_id"`
	AuthorName   string  `json:"author_name"`
	Relationship *string `json:"relationship,omitempty"`
	Message      string  `json:"message"`
}

// Create handles POST /api/v1/condolences
// @Summary Sign a guestbook
// @Description Leave a condolence on a memorial. Publishes an event that updates the memorial's condolence count.
// @Tags Condolences
// @Accept json
// @Produce json
// @Param condolence body CreateCondolenceRequest true "Condolence details"
// @Success 201 {object} map[string]interface{} "Condolence created successfully"
// @Failure 400 {object} response.ErrorBody "Invalid request body"
// @Failure 404 {object} response.ErrorBody "Memorial not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /condolences [post]
func (h *CondolenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCondolenceRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	memorialID, err := uuid.Parse(req.MemorialID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid memorial ID")
		return
	}

	c := &domain.Condolence{
		MemorialID:   memorialID,
		AuthorName:   req.AuthorName,
		Relationship: req.Relationship,
		Message:      req.Message,
	}

	if err := h.service.Create(r.Context(), c); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, c)
}

// Delete handles DELETE /api/v1/condolences/{id}
// @Summary Delete a condolence
// @Tags Condolences
// @Param id path string true "Condolence ID (UUID)"
// @Success 204 "Condolence deleted successfully"
// @Failure 400 {object} response.ErrorBody "Invalid condolence ID"
// @Failure 404 {object} response.ErrorBody "Condolence not found"
// @Router /condolences/{id} [delete]
func (h *CondolenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid condolence ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// ListByMemorial handles GET /api/v1/memorials/{id}/condolences
// @Summary Get a memorial's guestbook
// @Description Paginated condolences for a memorial, newest first. Results are cached.
// @Tags Condolences
// @Produce json
// @Param id path string true "Memorial ID (UUID)"
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of condolences"
// @Failure 400 {object} response.ErrorBody "Invalid memorial ID"
// @Router /memorials/{id}/condolences [get]
func (h *CondolenceHandler) ListByMemorial(w http.ResponseWriter, r *http.Request) {
	memorialID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid memorial ID")
		return
	}

	limit, offset := request.GetPaginationParams(r)

	condolences, total, err := h.service.ListByMemorial(r.Context(), memorialID, limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, condolences, total, limit, offset)
}

// handleError maps service errors to HTTP responses
func (h *CondolenceHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Condolence or memorial not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in condolence handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
