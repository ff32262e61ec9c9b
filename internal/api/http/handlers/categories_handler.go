package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/dto"
	"github.com/spec-kit/catalog-service/internal/service"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// CategoriesHandler exposes category CRUD endpoints.
type CategoriesHandler struct {
	catalog *service.CatalogService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(catalogService *service.CatalogService) *CategoriesHandler {
	return &CategoriesHandler{catalog: catalogService}
}

// List handles GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}
	category, err := h.catalog.GetCategory(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Create handles POST /categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	req, err := parseCategoryRequest(c)
	if err != nil {
		return err
	}
	category, err := h.catalog.CreateCategory(c.Context(), service.CategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Update handles PUT /categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}
	req, err := parseCategoryRequest(c)
	if err != nil {
		return err
	}
	category, err := h.catalog.UpdateCategory(c.Context(), id, service.CategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Delete handles DELETE /categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteCategory(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func parseCategoryRequest(c *fiber.Ctx) (*dto.CategoryRequest, error) {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	return &req, nil
}
