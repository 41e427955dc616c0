package catalog

import (
	"context"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically decrements a variant's stock quantity,
	// guarded so the quantity never goes below zero. The stock status is
	// recomputed in the same statement. Returns false when the guard did
	// not match (insufficient quantity or unknown variant).
	DecrementStock(ctx context.Context, productID uuid.UUID, variantIndex, quantity int) (bool, error)

	// CountVariantsByStatus returns the number of variants per stock status
	CountVariantsByStatus(ctx context.Context) (map[StockStatus]int64, error)
}

// ImageStore releases stored product images when they are no longer referenced
type ImageStore interface {
	Release(ctx context.Context, refs []string) error
}
