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

type fakeCategories struct {
	byID map[string]*domain.Category
}

var _ repository.CategoryRepository = (*fakeCategories)(nil)

func (f *fakeCategories) Create(_ context.Context, category *domain.Category) error {
	if f.byID == nil {
		f.byID = map[string]*domain.Category{}
	}
	category.ID = "cat-" + strconv.Itoa(len(f.byID)+1)
	cpy := *category
	f.byID[category.ID] = &cpy
	return nil
}

func (f *fakeCategories) UpdateFields(_ context.Context, id string, update repository.CategoryUpdate) (*domain.Category, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	category.Name, category.Icon, category.Color = update.Name, update.Icon, update.Color
	cpy := *category
	return &cpy, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cpy := *category
	return &cpy, nil
}

func (f *fakeCategories) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeCategories) List(_ context.Context) ([]domain.Category, error) {
	var result []domain.Category
	for _, category := range f.byID {
		result = append(result, *category)
	}
	return result, nil
}

func (f *fakeCategories) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeCategories) DeleteByID(_ context.Context, id string) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

type fakeProducts struct {
	byID        map[string]*domain.Product
	createCalls int
	updateCalls int
}

var _ repository.ProductRepository = (*fakeProducts)(nil)

func (f *fakeProducts) Create(_ context.Context, product *domain.Product) error {
	f.createCalls++
	if f.byID == nil {
		f.byID = map[string]*domain.Product{}
	}
	product.ID = "prod-" + strconv.Itoa(len(f.byID)+1)
	cpy := *product
	f.byID[product.ID] = &cpy
	return nil
}

func (f *fakeProducts) UpdateFields(_ context.Context, id string, update repository.ProductUpdate) (*domain.Product, error) {
	f.updateCalls++
	product, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	product.Name = update.Name
	product.Description = update.Description
	product.RichDescription = update.RichDescription
	product.Image = update.Image
	product.Images = update.Images
	product.Brand = update.Brand
	product.Price = update.Price
	product.CategoryID = update.CategoryID
	product.CountInStock = update.CountInStock
	product.Rating = update.Rating
	product.NumReviews = update.NumReviews
	product.IsFeatured = update.IsFeatured
	cpy := *product
	return &cpy, nil
}

func (f *fakeProducts) UpdateGallery(_ context.Context, id string, image string, images []string) (*domain.Product, error) {
	f.updateCalls++
	product, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	product.Image = image
	product.Images = images
	cpy := *product
	return &cpy, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	product, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cpy := *product
	return &cpy, nil
}

func (f *fakeProducts) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeProducts) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var result []domain.Product
	for _, product := range f.byID {
		if filter.FeaturedOnly && !product.IsFeatured {
			continue
		}
		result = append(result, *product)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (f *fakeProducts) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeProducts) DeleteByID(_ context.Context, id string) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func newCatalogFixture(t *testing.T) (*CatalogService, *fakeCategories, *fakeProducts) {
	t.Helper()
	categories := &fakeCategories{byID: map[string]*domain.Category{}}
	products := &fakeProducts{byID: map[string]*domain.Product{}}
	svc := NewCatalogService(CatalogDependencies{
		CategoryRepo: categories,
		ProductRepo:  products,
	})
	return svc, categories, products
}

func TestCreateProduct_RejectsDanglingCategory(t *testing.T) {
	t.Parallel()

	svc, _, products := newCatalogFixture(t)

	_, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:       "Lamp",
		CategoryID: "missing",
	}, "", nil)
	require.Error(t, err)
	require.Equal(t, "INVALID_REFERENCE", apperrors.ToDomainError(err).Code)
	require.Zero(t, products.createCalls, "no write may happen after a failed reference check")
}

func TestCreateProduct_UsesUploadedImagePath(t *testing.T) {
	t.Parallel()

	svc, categories, _ := newCatalogFixture(t)
	category := &domain.Category{Name: "Lighting"}
	require.NoError(t, categories.Create(context.Background(), category))

	product, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:       "Lamp",
		CategoryID: category.ID,
		Price:      19.99,
	}, "/public/uploads/lamp.png", nil)
	require.NoError(t, err)
	require.Equal(t, "/public/uploads/lamp.png", product.Image)
	require.Equal(t, category.ID, product.CategoryID)
}

func TestUpdateProduct_RejectsDanglingCategoryWithoutWrite(t *testing.T) {
	t.Parallel()

	svc, categories, products := newCatalogFixture(t)
	category := &domain.Category{Name: "Lighting"}
	require.NoError(t, categories.Create(context.Background(), category))

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		Name: "Lamp", CategoryID: category.ID,
	}, "", nil)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), created.ID, ProductInput{
		Name: "Lamp v2", CategoryID: "missing",
	}, "", nil)
	require.Error(t, err)
	require.Equal(t, "INVALID_REFERENCE", apperrors.ToDomainError(err).Code)
	require.Zero(t, products.updateCalls)

	stored, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Lamp", stored.Name, "failed update must not alter the product")
}

func TestUpdateProduct_RetainsStoredImageWhenNoUpload(t *testing.T) {
	t.Parallel()

	svc, categories, _ := newCatalogFixture(t)
	category := &domain.Category{Name: "Lighting"}
	require.NoError(t, categories.Create(context.Background(), category))

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		Name: "Lamp", CategoryID: category.ID,
	}, "/public/uploads/lamp.png", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), created.ID, ProductInput{
		Name: "Lamp v2", CategoryID: category.ID,
	}, "", nil)
	require.NoError(t, err)
	require.Equal(t, "/public/uploads/lamp.png", updated.Image, "stored image is retained verbatim")
	require.Equal(t, "Lamp v2", updated.Name)
}

func TestUpdateProductGallery_ReplaceAndCarryOver(t *testing.T) {
	t.Parallel()

	svc, categories, _ := newCatalogFixture(t)
	category := &domain.Category{Name: "Lighting"}
	require.NoError(t, categories.Create(context.Background(), category))

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		Name: "Lamp", CategoryID: category.ID,
	}, "", []string{"/public/uploads/a.png", "/public/uploads/b.png"})
	require.NoError(t, err)

	// No new files: existing gallery kept.
	updated, err := svc.UpdateProductGallery(context.Background(), created.ID, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"/public/uploads/a.png", "/public/uploads/b.png"}, updated.Images)

	// New files: full replace.
	updated, err = svc.UpdateProductGallery(context.Background(), created.ID,
		[]string{"/public/uploads/c.png", "/public/uploads/d.png"})
	require.NoError(t, err)
	require.Equal(t, []string{"/public/uploads/c.png", "/public/uploads/d.png"}, updated.Images)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newCatalogFixture(t)

	err := svc.DeleteProduct(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCategoryCRUD(t *testing.T) {
	t.Parallel()

	svc, _, _ := newCatalogFixture(t)

	created, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Garden", Color: "#0f0"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(context.Background(), created.ID, CategoryInput{Name: "Outdoors"})
	require.NoError(t, err)
	require.Equal(t, "Outdoors", updated.Name)

	_, err = svc.UpdateCategory(context.Background(), "missing", CategoryInput{Name: "x"})
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	require.NoError(t, svc.DeleteCategory(context.Background(), created.ID))
	err = svc.DeleteCategory(context.Background(), created.ID)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
