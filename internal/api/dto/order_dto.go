package dto

import (
	"time"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// OrderItemRequest is one requested line. No price field: pricing is
// server-side.
type OrderItemRequest struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// OrderCreateRequest payload for order placement.
type OrderCreateRequest struct {
	Items            []OrderItemRequest `json:"orderItems"`
	ShippingAddress1 string             `json:"shippingAddress1"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city"`
	Zip              string             `json:"zip"`
	Country          string             `json:"country"`
	Phone            string             `json:"phone"`
}

// OrderStatusRequest payload for status transitions.
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse is the API representation of an order line.
type OrderItemResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderResponse is the API representation of an order.
type OrderResponse struct {
	ID               string              `json:"id"`
	UserID           string              `json:"user"`
	Items            []OrderItemResponse `json:"orderItems"`
	ShippingAddress1 string              `json:"shippingAddress1"`
	ShippingAddress2 string              `json:"shippingAddress2"`
	City             string              `json:"city"`
	Zip              string              `json:"zip"`
	Country          string              `json:"country"`
	Phone            string              `json:"phone"`
	Status           domain.OrderStatus  `json:"status"`
	TotalPrice       float64             `json:"totalPrice"`
	CreatedAt        time.Time           `json:"created_at"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return OrderResponse{
		ID:               order.ID,
		UserID:           order.UserID,
		Items:            items,
		ShippingAddress1: order.ShippingAddress1,
		ShippingAddress2: order.ShippingAddress2,
		City:             order.City,
		Zip:              order.Zip,
		Country:          order.Country,
		Phone:            order.Phone,
		Status:           order.Status,
		TotalPrice:       order.TotalPrice,
		CreatedAt:        order.CreatedAt,
	}
}
