package order

import (
	"context"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save persists the order. A duplicate order number surfaces as
	// shared.ErrAlreadyExists so callers can regenerate and retry.
	Save(ctx context.Context, order *Order) error
}
