package handler

import (
	"errors"
	"net/http"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/request"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/response"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/usecase/cart"
)

// CartHandler handles HTTP requests for the gift cart of the current session
type CartHandler struct {
	registry *cart.Registry
	logger   *logger.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(registry *cart.Registry, log *logger.Logger) *CartHandler {
	return &CartHandler{
		registry: registry,
		logger:   log,
	}
}

// AddItemRequest represents the request body for adding a gift to the cart
type AddItemRequest struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	DeliveryDate string  `json:"delivery_date,omitempty"`
	GiftMessage  string  `json:"gift_message,omitempty"`
	// Quantity defaults to 1 when omitted
	Quantity *int `json:"quantity,omitempty"`
}

// UpdateQuantityRequest represents the request body for changing a line item's quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/v1/cart
// @Summary Get the cart
// @Description Get the line items and totals of the current session's cart.
// @Tags Cart
// @Produce json
// @Param X-Cart-Session header string false "Cart session ID (UUID); falls back to the cart_session cookie"
// @Success 200 {object} domain.CartView "Cart view"
// @Router /cart [get]
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	h.respond(w, m)
}

// AddItem handles POST /api/v1/cart/items
// @Summary Add a gift to the cart
// @Description Add a product to the cart. Adding a product already in the cart increases its quantity.
// @Tags Cart
// @Accept json
// @Produce json
// @Param item body AddItemRequest true "Product and quantity"
// @Success 200 {object} domain.CartView "Updated cart"
// @Failure 400 {object} response.ErrorBody "Invalid product or quantity"
// @Router /cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product := domain.CartProduct{
		ID:           req.ID,
		Name:         req.Name,
		Category:     req.Category,
		Price:        req.Price,
		Image:        req.Image,
		DeliveryDate: req.DeliveryDate,
		GiftMessage:  req.GiftMessage,
	}

	if err := m.AddItem(product, quantity); err != nil {
		h.handleError(w, err)
		return
	}

	h.respond(w, m)
}

// UpdateQuantity handles PUT /api/v1/cart/items/{id}
// @Summary Change a line item's quantity
// @Description Set the quantity of a line item. A quantity below 1 removes it.
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param item body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} domain.CartView "Updated cart"
// @Failure 400 {object} response.ErrorBody "Invalid product ID or body"
// @Router /cart/items/{id} [put]
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req UpdateQuantityRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := m.UpdateQuantity(id, req.Quantity); err != nil {
		h.handleError(w, err)
		return
	}

	h.respond(w, m)
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
// @Summary Remove a line item
// @Tags Cart
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.CartView "Updated cart"
// @Failure 400 {object} response.ErrorBody "Invalid product ID"
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := m.RemoveItem(id); err != nil {
		h.handleError(w, err)
		return
	}

	h.respond(w, m)
}

// Clear handles DELETE /api/v1/cart
// @Summary Empty the cart
// @Tags Cart
// @Produce json
// @Success 200 {object} domain.CartView "Empty cart"
// @Router /cart [delete]
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	if err := m.ClearCart(); err != nil {
		h.handleError(w, err)
		return
	}

	h.respond(w, m)
}

// Open handles POST /api/v1/cart/open
// @Summary Show the cart panel
// @Tags Cart
// @Produce json
// @Success 200 {object} domain.CartView "Cart view"
// @Router /cart/open [post]
func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	m.OpenCart()
	h.respond(w, m)
}

// Close handles POST /api/v1/cart/close
// @Summary Hide the cart panel
// @Tags Cart
// @Produce json
// @Success 200 {object} domain.CartView "Cart view"
// @Router /cart/close [post]
func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	m.CloseCart()
	h.respond(w, m)
}

func (h *CartHandler) manager(w http.ResponseWriter, r *http.Request) (*cart.Manager, bool) {
	sessionID, ok := request.SessionID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "Missing cart session")
		return nil, false
	}
	return h.registry.Get(r.Context(), sessionID), true
}

func (h *CartHandler) respond(w http.ResponseWriter, m *cart.Manager) {
	response.NoStore(w)
	response.JSON(w, http.StatusOK, m.View())
}

// handleError maps cart errors to HTTP responses
func (h *CartHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid product or quantity")
	case errors.Is(err, domain.ErrCartNotReady):
		response.Error(w, http.StatusServiceUnavailable, "Cart is still loading")
	default:
		h.logger.Error("Internal error in cart handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
