package identity

import (
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterRequest creates a new customer account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,phone10"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest authenticates a user
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest replaces the user's contact details
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,phone10"`
}

// ForgotPasswordRequest asks for a password reset link by email
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest sets a new password using a reset token
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ListUsersFilter carries pagination for the admin user listing
type ListUsersFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"limit"`
	Search   string `form:"search"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse carries the issued token alongside the user
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ToUserResponse converts a user aggregate to its API shape
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
