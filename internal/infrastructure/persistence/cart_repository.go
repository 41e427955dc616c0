package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/cart"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUserID loads a user's cart with its lines
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&c, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save persists the cart and its lines. Lines removed from the aggregate
// are deleted in the same transaction.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error; err != nil {
			return err
		}

		query := tx.Where("cart_id = ?", c.ID)
		if len(c.Items) > 0 {
			keep := make([]uuid.UUID, 0, len(c.Items))
			for i := range c.Items {
				keep = append(keep, c.Items[i].ID)
			}
			query = query.Where("id NOT IN ?", keep)
		}
		return query.Delete(&cart.CartItem{}).Error
	})
}

// ClearByUserID empties a user's cart. A user without a cart is a no-op.
func (r *GormCartRepository) ClearByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c cart.Cart
		if err := tx.First(&c, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&cart.Cart{}).
			Where("id = ?", c.ID).
			Updates(map[string]interface{}{
				"total_items": 0,
				"total_price": 0,
				"updated_at":  time.Now(),
				"version":     gorm.Expr("version + 1"),
			}).Error
	})
}

// Ensure GormCartRepository implements CartRepository
var _ cart.CartRepository = (*GormCartRepository)(nil)
