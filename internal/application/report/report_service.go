package report

import (
	"context"
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/analytics"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
)

// statsWindow is the dashboard comparison window
const statsWindow = 30 * 24 * time.Hour

// ReportRepository provides the aggregate queries behind the dashboard
type ReportRepository interface {
	// SalesBetween sums revenue and counts orders placed in [from, to),
	// excluding cancelled orders
	SalesBetween(ctx context.Context, from, to time.Time) (PeriodStats, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	CountProducts(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
}

// ReportService computes the admin dashboard widgets
type ReportService struct {
	reportRepo  ReportRepository
	productRepo catalog.ProductRepository
	views       analytics.ViewRepository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo ReportRepository, productRepo catalog.ProductRepository) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		productRepo: productRepo,
	}
}

// SetViewCounters wires the traffic counters behind the total views widget
func (s *ReportService) SetViewCounters(views analytics.ViewRepository) {
	s.views = views
}

// Dashboard builds the summary stats with 30-day deltas
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	currentFrom := now.Add(-statsWindow)
	previousFrom := now.Add(-2 * statsWindow)

	current, err := s.reportRepo.SalesBetween(ctx, currentFrom, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.reportRepo.SalesBetween(ctx, previousFrom, currentFrom)
	if err != nil {
		return nil, err
	}

	totalProducts, err := s.reportRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.reportRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	stockCounts, err := s.productRepo.CountVariantsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var totalViews int64
	if s.views != nil {
		totalViews, err = s.views.TotalSiteViews(ctx)
		if err != nil {
			return nil, err
		}
	}

	return &DashboardStats{
		Current:            current,
		Previous:           previous,
		RevenueDelta:       current.Revenue.Sub(previous.Revenue),
		OrderCountDelta:    current.OrderCount - previous.OrderCount,
		TotalProducts:      totalProducts,
		TotalUsers:         totalUsers,
		TotalViews:         totalViews,
		LowStockVariants:   stockCounts[catalog.StockStatusLowStock],
		OutOfStockVariants: stockCounts[catalog.StockStatusOutOfStock],
		GeneratedAt:        now,
	}, nil
}

// RecentOrders returns the newest orders for the dashboard widget
func (s *ReportService) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return s.reportRepo.RecentOrders(ctx, limit)
}

// TopProducts returns the best sellers by units sold
func (s *ReportService) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	return s.reportRepo.TopProducts(ctx, limit)
}
