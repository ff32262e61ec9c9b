package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// ProductFilter captures catalog listing parameters.
type ProductFilter struct {
	CategoryIDs  []string
	FeaturedOnly bool
	Limit        int
}

// ProductUpdate is the statically declared set of mutable product
// fields. Image and Images are filled exclusively from the consistency
// guard's resolution, never from the request body.
type ProductUpdate struct {
	Name            string
	Description     string
	RichDescription string
	Image           string
	Images          []string
	Brand           string
	Price           float64
	CategoryID      string
	CountInStock    int
	Rating          float64
	NumReviews      int
	IsFeatured      bool
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	UpdateFields(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error)
	UpdateGallery(ctx context.Context, id string, image string, images []string) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	CountAll(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, name, description, rich_description, image, images, brand,
        price, category_id, count_in_stock, rating, num_reviews, is_featured,
        created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, description, rich_description, image, images, brand,
            price, category_id, count_in_stock, rating, num_reviews, is_featured)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.RichDescription,
		product.Image,
		product.Images,
		product.Brand,
		product.Price,
		product.CategoryID,
		product.CountInStock,
		product.Rating,
		product.NumReviews,
		product.IsFeatured,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) UpdateFields(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error) {
	query := `
        UPDATE products SET name=$1, description=$2, rich_description=$3, image=$4,
            images=$5, brand=$6, price=$7, category_id=$8, count_in_stock=$9,
            rating=$10, num_reviews=$11, is_featured=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query,
		update.Name,
		update.Description,
		update.RichDescription,
		update.Image,
		update.Images,
		update.Brand,
		update.Price,
		update.CategoryID,
		update.CountInStock,
		update.Rating,
		update.NumReviews,
		update.IsFeatured,
		id,
	)
	return scanProduct(row)
}

func (r *productRepository) UpdateGallery(ctx context.Context, id string, image string, images []string) (*domain.Product, error) {
	query := `
        UPDATE products SET image=$1, images=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING ` + productColumns

	return scanProduct(r.pool.QueryRow(ctx, query, image, images, id))
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *productRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM products WHERE id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.CategoryIDs) > 0 {
		placeholders := make([]string, len(filter.CategoryIDs))
		for i, categoryID := range filter.CategoryIDs {
			args = append(args, categoryID)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.FeaturedOnly {
		clauses = append(clauses, "is_featured = TRUE")
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY created_at DESC`,
		productColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *product)
	}
	return result, rows.Err()
}

func (r *productRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.RichDescription,
		&product.Image,
		&product.Images,
		&product.Brand,
		&product.Price,
		&product.CategoryID,
		&product.CountInStock,
		&product.Rating,
		&product.NumReviews,
		&product.IsFeatured,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}
