package events

import (
	"time"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductChanged  EventType = "product_changed"
	EventCategoryChanged EventType = "category_changed"
	EventOrderCreated    EventType = "order_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ProductChangedPayload payload.
type ProductChangedPayload struct {
	Action     string `json:"action"`
	CategoryID string `json:"category_id,omitempty"`
	IsFeatured bool   `json:"is_featured"`
}

// CategoryChangedPayload payload.
type CategoryChangedPayload struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	UserID     string             `json:"user_id"`
	TotalPrice float64            `json:"total_price"`
	Status     domain.OrderStatus `json:"status"`
	ItemCount  int                `json:"item_count"`
}
