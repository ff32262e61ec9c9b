package domain

import "time"

// OrderStatus enumerates fulfillment states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderItem is a product line within an order. Price is the unit price
// captured at order time, not the product's current price.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     float64
}

// Order is the purchase aggregate.
type Order struct {
	ID               string
	UserID           string
	Items            []OrderItem
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
	Status           OrderStatus
	TotalPrice       float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
