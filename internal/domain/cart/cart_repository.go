package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the persistence interface for carts
type CartRepository interface {
	// FindByUserID loads a user's cart, shared.ErrNotFound when none exists
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	// ClearByUserID empties a user's cart. A user without a cart is a no-op.
	ClearByUserID(ctx context.Context, userID uuid.UUID) error
}
