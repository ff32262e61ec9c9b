package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// OrderItemInput is one requested line. The unit price is never taken
// from the caller; it is read from the product at placement time.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// OrderCreateInput describes order placement.
type OrderCreateInput struct {
	Items            []OrderItemInput
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
}

// OrderService coordinates order workflows.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	Dispatcher  events.Dispatcher
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:     deps.OrderRepo,
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
	}
}

// PlaceOrder validates every product reference, prices the order from
// current product prices, and persists it atomically. A dangling
// product id rejects the whole order before any write.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, input OrderCreateInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("order items required", nil)
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	total := 0.0
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, apperrors.NewValidationError("item quantity must be positive",
				map[string]any{"product_id": line.ProductID})
		}
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewInvalidReference("invalid product",
					map[string]any{"product_id": line.ProductID})
			}
			return nil, apperrors.NewUpstreamFailure(err)
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(line.Quantity)
	}

	order := &domain.Order{
		UserID:           userID,
		Items:            items,
		ShippingAddress1: input.ShippingAddress1,
		ShippingAddress2: input.ShippingAddress2,
		City:             input.City,
		Zip:              input.Zip,
		Country:          input.Country,
		Phone:            input.Phone,
		Status:           domain.OrderStatusPending,
		TotalPrice:       total,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOrderCreated,
			EntityID:  order.ID,
			Timestamp: time.Now(),
			Payload: events.OrderCreatedPayload{
				UserID:     order.UserID,
				TotalPrice: order.TotalPrice,
				Status:     order.Status,
				ItemCount:  len(order.Items),
			},
		})
	}
	return order, nil
}

// GetOrder fetches one order; non-admin callers may only read their own.
func (s *OrderService) GetOrder(ctx context.Context, callerID string, callerIsAdmin bool, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", nil)
		}
		return nil, apperrors.NewUpstreamFailure(err)
	}
	if !callerIsAdmin && order.UserID != callerID {
		return nil, apperrors.NewForbidden("order belongs to another user")
	}
	return order, nil
}

// ListOrders returns all orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return orders, nil
}

// ListUserOrders returns one user's orders; non-admin callers may only
// list their own.
func (s *OrderService) ListUserOrders(ctx context.Context, callerID string, callerIsAdmin bool, userID string) ([]domain.Order, error) {
	if !callerIsAdmin && callerID != userID {
		return nil, apperrors.NewForbidden("orders belong to another user")
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return orders, nil
}

// UpdateOrderStatus transitions an order's fulfillment status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusShipped,
		domain.OrderStatusDelivered, domain.OrderStatusCancelled:
	default:
		return nil, apperrors.NewValidationError("unknown order status",
			map[string]any{"status": string(status)})
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", nil)
		}
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return order, nil
}

// DeleteOrder removes an order and its items.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	deleted, err := s.orders.DeleteByID(ctx, id)
	if err != nil {
		return apperrors.NewUpstreamFailure(err)
	}
	if !deleted {
		return apperrors.NewNotFound("order", nil)
	}
	return nil
}

// CountOrders returns the number of orders.
func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	count, err := s.orders.CountAll(ctx)
	if err != nil {
		return 0, apperrors.NewUpstreamFailure(err)
	}
	return count, nil
}

// TotalSales sums all order totals.
func (s *OrderService) TotalSales(ctx context.Context) (float64, error) {
	total, err := s.orders.TotalSales(ctx)
	if err != nil {
		return 0, apperrors.NewUpstreamFailure(err)
	}
	return total, nil
}
