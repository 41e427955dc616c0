package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with its variants ordered by index
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", orderByVariantIndex).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applySearch(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Preload("Variants", orderByVariantIndex).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the product and its variant rows. Variant rows no longer
// present on the aggregate are removed in the same transaction.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(product.Variants))
		for i := range product.Variants {
			keep = append(keep, product.Variants[i].ID)
		}
		return tx.
			Where("product_id = ? AND id NOT IN ?", product.ID, keep).
			Delete(&catalog.Variant{}).Error
	})
}

// Delete removes a product. Variant rows go with it via the FK cascade.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementStock decrements a variant's quantity in a single guarded UPDATE.
// The guard keeps the quantity from going below zero and the status is
// recomputed from the post-decrement quantity in the same statement.
func (r *GormProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, variantIndex, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("product_id = ? AND variant_index = ? AND stock_quantity >= ?", productID, variantIndex, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"stock_status": gorm.Expr(
				"CASE WHEN stock_quantity - ? <= 0 THEN ? WHEN stock_quantity - ? <= stock_threshold THEN ? ELSE ? END",
				quantity, catalog.StockStatusOutOfStock.String(),
				quantity, catalog.StockStatusLowStock.String(),
				catalog.StockStatusInStock.String(),
			),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountVariantsByStatus returns the number of variants per stock status
func (r *GormProductRepository) CountVariantsByStatus(ctx context.Context) (map[catalog.StockStatus]int64, error) {
	var rows []struct {
		Status catalog.StockStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Select("stock_status AS status, COUNT(*) AS count").
		Group("stock_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[catalog.StockStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// applySearch applies the free-text search filter to the query
func (r *GormProductRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR body_color ILIKE ? OR material ILIKE ?", pattern, pattern, pattern)
	}
	return query
}

func orderByVariantIndex(db *gorm.DB) *gorm.DB {
	return db.Order("variant_index ASC")
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
