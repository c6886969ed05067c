package domain

import (
	"context"
	"time"
)

// CartProduct is the product data a shopper adds to the cart
type CartProduct struct {
	ID           int64   `json:"id" validate:"required,gt=0"`
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Category     string  `json:"category" validate:"max=100"`
	Price        float64 `json:"price" validate:"gte=0"`
	Image        string  `json:"image" validate:"max=2048"`
	DeliveryDate string  `json:"delivery_date,omitempty" validate:"max=64"`
	GiftMessage  string  `json:"gift_message,omitempty" validate:"max=1000"`
}

// CartLineItem is one product entry in the cart, keyed by product ID
type CartLineItem struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Image        string  `json:"image"`
	DeliveryDate string  `json:"delivery_date,omitempty"`
	GiftMessage  string  `json:"gift_message,omitempty"`
}

// NewCartLineItem builds a line item from a product
func NewCartLineItem(p CartProduct, quantity int) CartLineItem {
	return CartLineItem{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Price:        p.Price,
		Quantity:     quantity,
		Image:        p.Image,
		DeliveryDate: p.DeliveryDate,
		GiftMessage:  p.GiftMessage,
	}
}

// CartView is the read model returned to cart consumers
type CartView struct {
	SessionID string         `json:"session_id"`
	Items     []CartLineItem `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  float64        `json:"subtotal"`
	IsOpen    bool           `json:"is_open"`
}

// Notification is a transient message shown to the shopper
type Notification struct {
	SessionID   string    `json:"session_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// BlobStore is a string key-value store holding serialized snapshots
type BlobStore interface {
	// Get returns ErrNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value stored under key
	Set(ctx context.Context, key, value string) error
}
