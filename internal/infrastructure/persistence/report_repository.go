package persistence

import (
	"context"
	"time"

	appreport "github.com/KirshnaLighting/Krishna-Lighting/internal/application/report"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/identity"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/order"
	"gorm.io/gorm"
)

// GormReportRepository implements the dashboard aggregate queries using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// SalesBetween sums revenue and counts orders placed in [from, to),
// excluding cancelled orders
func (r *GormReportRepository) SalesBetween(ctx context.Context, from, to time.Time) (appreport.PeriodStats, error) {
	var stats appreport.PeriodStats
	err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS order_count").
		Where("created_at >= ? AND created_at < ? AND status <> ?", from, to, order.OrderStatusCancelled).
		Scan(&stats).Error
	if err != nil {
		return appreport.PeriodStats{}, err
	}
	return stats, nil
}

// RecentOrders returns the newest orders with their customer names
func (r *GormReportRepository) RecentOrders(ctx context.Context, limit int) ([]appreport.RecentOrder, error) {
	var rows []appreport.RecentOrder
	err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select(`orders.id AS order_id,
			orders.order_number,
			users.name AS customer_name,
			orders.status,
			orders.total_amount,
			orders.created_at AS placed_at`).
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks products by units sold, excluding cancelled orders
func (r *GormReportRepository) TopProducts(ctx context.Context, limit int) ([]appreport.TopProduct, error) {
	var rows []appreport.TopProduct
	err := r.db.WithContext(ctx).
		Model(&order.OrderItem{}).
		Select(`order_items.product_id,
			order_items.product_name,
			COALESCE(SUM(order_items.quantity), 0) AS units_sold,
			COALESCE(SUM(order_items.amount), 0) AS revenue`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", order.OrderStatusCancelled).
		Group("order_items.product_id, order_items.product_name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountProducts counts catalog products
func (r *GormReportRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUsers counts registered users
func (r *GormReportRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormReportRepository implements ReportRepository
var _ appreport.ReportRepository = (*GormReportRepository)(nil)
