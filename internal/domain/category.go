package domain

import "time"

// Category groups products for storefront navigation.
type Category struct {
	ID        string
	Name      string
	Icon      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
