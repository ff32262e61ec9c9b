package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/dto"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/service"
	"github.com/spec-kit/catalog-service/internal/storage"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// ProductsHandler exposes product endpoints. Create/update accept
// multipart bodies; stored image paths come exclusively from the file
// store, never from body fields.
type ProductsHandler struct {
	catalog    *service.CatalogService
	files      *storage.FileStore
	maxGallery int
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalogService *service.CatalogService, files *storage.FileStore, maxGallery int) *ProductsHandler {
	return &ProductsHandler{catalog: catalogService, files: files, maxGallery: maxGallery}
}

// List handles GET /products with optional ?categories=a,b filter.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	var categoryIDs []string
	if raw := c.Query("categories"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				categoryIDs = append(categoryIDs, id)
			}
		}
	}

	products, err := h.catalog.ListProducts(c.Context(), categoryIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponses(products)})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}
	product, err := h.catalog.GetProduct(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Count handles GET /products/count.
func (h *ProductsHandler) Count(c *fiber.Ctx) error {
	count, err := h.catalog.CountProducts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// Featured handles GET /products/featured/:count.
func (h *ProductsHandler) Featured(c *fiber.Ctx) error {
	limit, err := c.ParamsInt("count", 10)
	if err != nil || limit < 0 {
		return apperrors.NewValidationError("invalid count", nil)
	}
	products, err := h.catalog.FeaturedProducts(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponses(products)})
}

// Create handles POST /products (multipart, optional "image" file).
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}
	uploadedImage, err := h.storedImage(c)
	if err != nil {
		return err
	}

	product, err := h.catalog.CreateProduct(c.Context(), productInput(req), uploadedImage, nil)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Update handles PUT /products/:id (multipart, optional "image" file).
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}
	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}
	uploadedImage, err := h.storedImage(c)
	if err != nil {
		return err
	}

	product, err := h.catalog.UpdateProduct(c.Context(), id, productInput(req), uploadedImage, nil)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// UpdateGallery handles PUT /products/:id/gallery (multipart "images").
func (h *ProductsHandler) UpdateGallery(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}

	var uploaded []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		uploaded, err = h.files.SaveAll(form.File["images"], h.maxGallery)
		if err != nil {
			return err
		}
	}

	product, err := h.catalog.UpdateProductGallery(c.Context(), id, uploaded)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Delete handles DELETE /products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteProduct(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// storedImage stores the request's single "image" file if present and
// returns its public path, or "" when the request carried none.
func (h *ProductsHandler) storedImage(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return "", nil
	}
	return h.files.Save(file)
}

func parseProductRequest(c *fiber.Ctx) (*dto.ProductRequest, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.CategoryID == "" {
		return nil, apperrors.NewValidationError("name and category required", nil)
	}
	if req.Price < 0 || req.CountInStock < 0 {
		return nil, apperrors.NewValidationError("price and countInStock must be non-negative", nil)
	}
	return &req, nil
}

func productInput(req *dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Brand:           req.Brand,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	}
}

func productResponses(products []domain.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return items
}
