package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodStats holds revenue and order counts for one window
type PeriodStats struct {
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// DashboardStats is the admin dashboard summary. Deltas compare the
// trailing 30 days against the 30 days before that.
type DashboardStats struct {
	Current            PeriodStats     `json:"current"`
	Previous           PeriodStats     `json:"previous"`
	RevenueDelta       decimal.Decimal `json:"revenue_delta"`
	OrderCountDelta    int64           `json:"order_count_delta"`
	TotalProducts      int64           `json:"total_products"`
	TotalUsers         int64           `json:"total_users"`
	TotalViews         int64           `json:"total_views"`
	LowStockVariants   int64           `json:"low_stock_variants"`
	OutOfStockVariants int64           `json:"out_of_stock_variants"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// RecentOrder is one row of the recent orders widget
type RecentOrder struct {
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PlacedAt     time.Time       `json:"placed_at"`
}

// TopProduct is one row of the top products widget, ranked by units sold
type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}
