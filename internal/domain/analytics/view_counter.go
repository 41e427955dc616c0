// Package analytics tracks storefront traffic counters.
package analytics

import (
	"context"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
)

// ViewScope distinguishes the site-wide counter from per-page counters
type ViewScope string

const (
	// ScopeSite is the single site-wide traffic counter
	ScopeSite ViewScope = "site"
	// ScopePage counts views of one page path
	ScopePage ViewScope = "page"
)

// ViewCounter is one traffic counter row. The site-wide counter uses the
// site scope with an empty page; per-page counters use the page scope.
type ViewCounter struct {
	shared.BaseEntity
	Scope ViewScope `gorm:"type:varchar(10);not null;uniqueIndex:idx_view_counter_identity"`
	Page  string    `gorm:"type:varchar(200);not null;default:'';uniqueIndex:idx_view_counter_identity"`
	Count int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ViewCounter) TableName() string {
	return "view_counters"
}

// ViewRepository records and reads traffic counters
type ViewRepository interface {
	// RecordView increments the site-wide counter and, for non-root
	// pages, the counter of the given page path
	RecordView(ctx context.Context, page string) error
	TotalSiteViews(ctx context.Context) (int64, error)
}
