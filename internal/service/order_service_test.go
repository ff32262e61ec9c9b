package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

type fakeOrders struct {
	byID        map[string]*domain.Order
	createCalls int
}

var _ repository.OrderRepository = (*fakeOrders)(nil)

func (f *fakeOrders) Create(_ context.Context, order *domain.Order) error {
	f.createCalls++
	if f.byID == nil {
		f.byID = map[string]*domain.Order{}
	}
	order.ID = "order-" + strconv.Itoa(len(f.byID)+1)
	cpy := *order
	f.byID[order.ID] = &cpy
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cpy := *order
	return &cpy, nil
}

func (f *fakeOrders) ListAll(_ context.Context) ([]domain.Order, error) {
	var result []domain.Order
	for _, order := range f.byID {
		result = append(result, *order)
	}
	return result, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var result []domain.Order
	for _, order := range f.byID {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	order.Status = status
	cpy := *order
	return &cpy, nil
}

func (f *fakeOrders) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeOrders) TotalSales(_ context.Context) (float64, error) {
	total := 0.0
	for _, order := range f.byID {
		total += order.TotalPrice
	}
	return total, nil
}

func (f *fakeOrders) DeleteByID(_ context.Context, id string) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func newOrderFixture(t *testing.T) (*OrderService, *fakeOrders, *fakeProducts) {
	t.Helper()
	orders := &fakeOrders{byID: map[string]*domain.Order{}}
	products := &fakeProducts{byID: map[string]*domain.Product{}}
	svc := NewOrderService(OrderDependencies{
		OrderRepo:   orders,
		ProductRepo: products,
	})
	return svc, orders, products
}

func seedProduct(t *testing.T, products *fakeProducts, name string, price float64) string {
	t.Helper()
	product := &domain.Product{Name: name, Price: price}
	require.NoError(t, products.Create(context.Background(), product))
	return product.ID
}

func TestPlaceOrder_PricesFromProducts(t *testing.T) {
	t.Parallel()

	svc, _, products := newOrderFixture(t)
	lampID := seedProduct(t, products, "Lamp", 19.99)
	chairID := seedProduct(t, products, "Chair", 45.00)

	order, err := svc.PlaceOrder(context.Background(), "user-1", OrderCreateInput{
		Items: []OrderItemInput{
			{ProductID: lampID, Quantity: 2},
			{ProductID: chairID, Quantity: 1},
		},
		ShippingAddress1: "1 Main St",
		City:             "Springfield",
		Country:          "US",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.InDelta(t, 2*19.99+45.00, order.TotalPrice, 1e-9)
	require.Len(t, order.Items, 2)
	require.InDelta(t, 19.99, order.Items[0].Price, 1e-9, "unit price captured at placement")
}

func TestPlaceOrder_DanglingProductRejectsWholeOrder(t *testing.T) {
	t.Parallel()

	svc, orders, products := newOrderFixture(t)
	lampID := seedProduct(t, products, "Lamp", 19.99)

	_, err := svc.PlaceOrder(context.Background(), "user-1", OrderCreateInput{
		Items: []OrderItemInput{
			{ProductID: lampID, Quantity: 1},
			{ProductID: "missing", Quantity: 1},
		},
	})
	require.Error(t, err)
	require.Equal(t, "INVALID_REFERENCE", apperrors.ToDomainError(err).Code)
	require.Zero(t, orders.createCalls, "nothing may be written for a partially valid order")
}

func TestPlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	svc, _, products := newOrderFixture(t)
	lampID := seedProduct(t, products, "Lamp", 19.99)

	_, err := svc.PlaceOrder(context.Background(), "user-1", OrderCreateInput{})
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.PlaceOrder(context.Background(), "user-1", OrderCreateInput{
		Items: []OrderItemInput{{ProductID: lampID, Quantity: 0}},
	})
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestGetOrder_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	svc, _, products := newOrderFixture(t)
	lampID := seedProduct(t, products, "Lamp", 19.99)

	order, err := svc.PlaceOrder(context.Background(), "user-1", OrderCreateInput{
		Items: []OrderItemInput{{ProductID: lampID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), "user-1", false, order.ID)
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), "user-2", false, order.ID)
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	_, err = svc.GetOrder(context.Background(), "admin-1", true, order.ID)
	require.NoError(t, err, "admins may read any order")

	_, err = svc.GetOrder(context.Background(), "user-1", false, "missing")
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestListUserOrders_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	svc, _, products := newOrderFixture(t)
	lampID := seedProduct(t, products, "Lamp", 19.99)

	_, err := svc.PlaceOrder(context.Background(), "user-1", OrderCreateInput{
		Items: []OrderItemInput{{ProductID: lampID, Quantity: 1}},
	})
	require.NoError(t, err)

	orders, err := svc.ListUserOrders(context.Background(), "user-1", false, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	_, err = svc.ListUserOrders(context.Background(), "user-2", false, "user-1")
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	orders, err = svc.ListUserOrders(context.Background(), "admin-1", true, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Parallel()

	svc, _, products := newOrderFixture(t)
	lampID := seedProduct(t, products, "Lamp", 19.99)

	order, err := svc.PlaceOrder(context.Background(), "user-1", OrderCreateInput{
		Items: []OrderItemInput{{ProductID: lampID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusShipped, updated.Status)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatus("TELEPORTED"))
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.UpdateOrderStatus(context.Background(), "missing", domain.OrderStatusShipped)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestOrderAggregates(t *testing.T) {
	t.Parallel()

	svc, _, products := newOrderFixture(t)
	lampID := seedProduct(t, products, "Lamp", 10.00)

	for i := 0; i < 3; i++ {
		_, err := svc.PlaceOrder(context.Background(), "user-1", OrderCreateInput{
			Items: []OrderItemInput{{ProductID: lampID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	count, err := svc.CountOrders(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	total, err := svc.TotalSales(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 30.00, total, 1e-9)
}
