package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-service/internal/catalog"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// CategoryInput describes category create/update payloads.
type CategoryInput struct {
	Name  string
	Icon  string
	Color string
}

// ProductInput describes the body fields of a product create/update.
// Image references are deliberately absent: they are resolved from this
// request's uploads by the consistency guard.
type ProductInput struct {
	Name            string
	Description     string
	RichDescription string
	Brand           string
	Price           float64
	CategoryID      string
	CountInStock    int
	Rating          float64
	NumReviews      int
	IsFeatured      bool
}

// CatalogService coordinates category and product workflows behind the
// consistency guard.
type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	guard      *catalog.Guard
	cache      *CatalogCache
	dispatcher events.Dispatcher
}

// CatalogDependencies bundles collaborators for the catalog service.
type CatalogDependencies struct {
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	Cache        *CatalogCache
	Dispatcher   events.Dispatcher
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		categories: deps.CategoryRepo,
		products:   deps.ProductRepo,
		guard:      catalog.NewGuard(deps.CategoryRepo),
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// ---- categories ----

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return categories, nil
}

// GetCategory fetches one category.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", nil)
		}
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return category, nil
}

// CreateCategory stores a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	category := &domain.Category{Name: input.Name, Icon: input.Icon, Color: input.Color}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	s.publish(ctx, events.EventCategoryChanged, category.ID,
		events.CategoryChangedPayload{Action: "created", Name: category.Name})
	return category, nil
}

// UpdateCategory applies the declared update fields.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error) {
	category, err := s.categories.UpdateFields(ctx, id, repository.CategoryUpdate{
		Name:  input.Name,
		Icon:  input.Icon,
		Color: input.Color,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", nil)
		}
		return nil, apperrors.NewUpstreamFailure(err)
	}
	s.publish(ctx, events.EventCategoryChanged, category.ID,
		events.CategoryChangedPayload{Action: "updated", Name: category.Name})
	return category, nil
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	deleted, err := s.categories.DeleteByID(ctx, id)
	if err != nil {
		return apperrors.NewUpstreamFailure(err)
	}
	if !deleted {
		return apperrors.NewNotFound("category", nil)
	}
	s.publish(ctx, events.EventCategoryChanged, id,
		events.CategoryChangedPayload{Action: "deleted"})
	return nil
}

// ---- products ----

// ListProducts returns catalog products, optionally filtered by
// category ids.
func (s *CatalogService) ListProducts(ctx context.Context, categoryIDs []string) ([]domain.Product, error) {
	products, err := s.products.List(ctx, repository.ProductFilter{CategoryIDs: categoryIDs})
	if err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return products, nil
}

// GetProduct fetches one product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return product, nil
}

// FeaturedProducts lists up to limit featured products, read through the
// cache.
func (s *CatalogService) FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if products, ok := s.cache.GetFeatured(ctx, limit); ok {
		return products, nil
	}
	products, err := s.products.List(ctx, repository.ProductFilter{FeaturedOnly: true, Limit: limit})
	if err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	s.cache.SetFeatured(ctx, limit, products)
	return products, nil
}

// CountProducts returns the catalog size, read through the cache.
func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	if count, ok := s.cache.GetProductCount(ctx); ok {
		return count, nil
	}
	count, err := s.products.CountAll(ctx)
	if err != nil {
		return 0, apperrors.NewUpstreamFailure(err)
	}
	s.cache.SetProductCount(ctx, count)
	return count, nil
}

// CreateProduct stores a new product. The category reference is asserted
// before any write; image fields carry only paths produced by this
// request's uploads.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput, uploadedImage string, uploadedGallery []string) (*domain.Product, error) {
	if err := s.guard.AssertCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	image, images := catalog.ResolveImageFields(nil, uploadedImage, uploadedGallery)
	product := &domain.Product{
		Name:            input.Name,
		Description:     input.Description,
		RichDescription: input.RichDescription,
		Image:           image,
		Images:          images,
		Brand:           input.Brand,
		Price:           input.Price,
		CategoryID:      input.CategoryID,
		CountInStock:    input.CountInStock,
		Rating:          input.Rating,
		NumReviews:      input.NumReviews,
		IsFeatured:      input.IsFeatured,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}

	s.publish(ctx, events.EventProductChanged, product.ID, events.ProductChangedPayload{
		Action:     "created",
		CategoryID: product.CategoryID,
		IsFeatured: product.IsFeatured,
	})
	return product, nil
}

// UpdateProduct applies the declared update fields. When the request
// carried no new image, the stored one is retained verbatim.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput, uploadedImage string, uploadedGallery []string) (*domain.Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AssertCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	image, images := catalog.ResolveImageFields(existing, uploadedImage, uploadedGallery)
	product, err := s.products.UpdateFields(ctx, id, repository.ProductUpdate{
		Name:            input.Name,
		Description:     input.Description,
		RichDescription: input.RichDescription,
		Image:           image,
		Images:          images,
		Brand:           input.Brand,
		Price:           input.Price,
		CategoryID:      input.CategoryID,
		CountInStock:    input.CountInStock,
		Rating:          input.Rating,
		NumReviews:      input.NumReviews,
		IsFeatured:      input.IsFeatured,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.NewUpstreamFailure(err)
	}

	s.publish(ctx, events.EventProductChanged, product.ID, events.ProductChangedPayload{
		Action:     "updated",
		CategoryID: product.CategoryID,
		IsFeatured: product.IsFeatured,
	})
	return product, nil
}

// UpdateProductGallery replaces the gallery with this request's uploads,
// or keeps the stored gallery when none were provided.
func (s *CatalogService) UpdateProductGallery(ctx context.Context, id string, uploadedGallery []string) (*domain.Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	image, images := catalog.ResolveImageFields(existing, "", uploadedGallery)
	product, err := s.products.UpdateGallery(ctx, id, image, images)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.NewUpstreamFailure(err)
	}

	s.publish(ctx, events.EventProductChanged, product.ID, events.ProductChangedPayload{
		Action:     "gallery_updated",
		CategoryID: product.CategoryID,
		IsFeatured: product.IsFeatured,
	})
	return product, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.products.DeleteByID(ctx, id)
	if err != nil {
		return apperrors.NewUpstreamFailure(err)
	}
	if !deleted {
		return apperrors.NewNotFound("product", nil)
	}
	s.publish(ctx, events.EventProductChanged, id,
		events.ProductChangedPayload{Action: "deleted"})
	return nil
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, entityID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
