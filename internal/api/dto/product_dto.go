package dto

import (
	"time"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// ProductRequest carries the body fields of a multipart product
// create/update. There are no image fields: image references come only
// from the files uploaded with the request.
type ProductRequest struct {
	Name            string  `json:"name" form:"name"`
	Description     string  `json:"description" form:"description"`
	RichDescription string  `json:"richDescription" form:"richDescription"`
	Brand           string  `json:"brand" form:"brand"`
	Price           float64 `json:"price" form:"price"`
	CategoryID      string  `json:"category" form:"category"`
	CountInStock    int     `json:"countInStock" form:"countInStock"`
	Rating          float64 `json:"rating" form:"rating"`
	NumReviews      int     `json:"numReviews" form:"numReviews"`
	IsFeatured      bool    `json:"isFeatured" form:"isFeatured"`
}

// ProductResponse is the API representation of a product.
type ProductResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	RichDescription string    `json:"richDescription"`
	Image           string    `json:"image"`
	Images          []string  `json:"images"`
	Brand           string    `json:"brand"`
	Price           float64   `json:"price"`
	CategoryID      string    `json:"category"`
	CountInStock    int       `json:"countInStock"`
	Rating          float64   `json:"rating"`
	NumReviews      int       `json:"numReviews"`
	IsFeatured      bool      `json:"isFeatured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(product *domain.Product) ProductResponse {
	images := product.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:              product.ID,
		Name:            product.Name,
		Description:     product.Description,
		RichDescription: product.RichDescription,
		Image:           product.Image,
		Images:          images,
		Brand:           product.Brand,
		Price:           product.Price,
		CategoryID:      product.CategoryID,
		CountInStock:    product.CountInStock,
		Rating:          product.Rating,
		NumReviews:      product.NumReviews,
		IsFeatured:      product.IsFeatured,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
}
