package dto

import (
	"time"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// UserRegisterRequest payload for new accounts. There is deliberately no
// isAdmin field on the public registration route.
type UserRegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// UserCreateRequest payload for admin-created accounts.
type UserCreateRequest struct {
	UserRegisterRequest
	IsAdmin bool `json:"isAdmin"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Identity  string    `json:"identity"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the API representation of an account. The password
// hash has no field here and can never serialize.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"isAdmin"`
	Street    string    `json:"street"`
	Apartment string    `json:"apartment"`
	Zip       string    `json:"zip"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		IsAdmin:   user.IsAdmin,
		Street:    user.Street,
		Apartment: user.Apartment,
		Zip:       user.Zip,
		City:      user.City,
		Country:   user.Country,
		CreatedAt: user.CreatedAt,
	}
}
