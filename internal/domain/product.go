package domain

import "time"

// Product is the catalog aggregate. Image and Images hold public paths
// produced by the upload store; they are never written from request
// bodies directly.
type Product struct {
	ID              string
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
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
