package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/catalog-service/internal/api/dto"
	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/service"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// OrdersHandler exposes order endpoints. The gate has already enforced
// the route policy; ownership checks happen in the service.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	var req dto.OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.OrderCreateInput{
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
	}
	for _, item := range req.Items {
		if _, err := uuid.Parse(item.ProductID); err != nil {
			return apperrors.NewValidationError("invalid product id",
				map[string]any{"product": item.ProductID})
		}
		input.Items = append(input.Items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.PlaceOrder(c.Context(), claims.SubjectID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// List handles GET /orders (admin).
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// Get handles GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	id, err := entityID(c)
	if err != nil {
		return err
	}

	order, err := h.orders.GetOrder(c.Context(), claims.SubjectID, claims.IsAdmin, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// ListByUser handles GET /orders/user/:userid.
func (h *OrdersHandler) ListByUser(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	userID := c.Params("userid")
	if _, err := uuid.Parse(userID); err != nil {
		return apperrors.NewValidationError("invalid user id", map[string]any{"userid": userID})
	}

	orders, err := h.orders.ListUserOrders(c.Context(), claims.SubjectID, claims.IsAdmin, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// UpdateStatus handles PUT /orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}
	var req dto.OrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.orders.UpdateOrderStatus(c.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// Delete handles DELETE /orders/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}
	if err := h.orders.DeleteOrder(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Count handles GET /orders/count.
func (h *OrdersHandler) Count(c *fiber.Ctx) error {
	count, err := h.orders.CountOrders(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// TotalSales handles GET /orders/totalsales.
func (h *OrdersHandler) TotalSales(c *fiber.Ctx) error {
	total, err := h.orders.TotalSales(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"totalSales": total}})
}

func orderResponses(orders []domain.Order) []dto.OrderResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, dto.NewOrderResponse(&orders[i]))
	}
	return items
}
