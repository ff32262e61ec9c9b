package domain

import "time"

// User is the domain model for storefront accounts. PasswordHash is a
// salted one-way digest; it never appears in any API representation.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	IsAdmin      bool
	Street       string
	Apartment    string
	Zip          string
	City         string
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
