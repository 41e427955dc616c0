package identity

import (
	"context"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, user *User) error
}
