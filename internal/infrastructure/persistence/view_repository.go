package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/analytics"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormViewRepository implements ViewRepository using GORM
type GormViewRepository struct {
	db *gorm.DB
}

// NewGormViewRepository creates a new GormViewRepository
func NewGormViewRepository(db *gorm.DB) *GormViewRepository {
	return &GormViewRepository{db: db}
}

// RecordView increments the site-wide counter and the per-page counter
func (r *GormViewRepository) RecordView(ctx context.Context, page string) error {
	if err := r.increment(ctx, analytics.ScopeSite, ""); err != nil {
		return err
	}
	if page == "" || page == "/" {
		return nil
	}
	return r.increment(ctx, analytics.ScopePage, page)
}

// increment upserts one counter row keyed by (scope, page)
func (r *GormViewRepository) increment(ctx context.Context, scope analytics.ViewScope, page string) error {
	counter := analytics.ViewCounter{
		BaseEntity: shared.NewBaseEntity(),
		Scope:      scope,
		Page:       page,
		Count:      1,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}, {Name: "page"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("view_counters.count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&counter).Error
}

// TotalSiteViews returns the site-wide view count, zero before any traffic
func (r *GormViewRepository) TotalSiteViews(ctx context.Context) (int64, error) {
	var counter analytics.ViewCounter
	err := r.db.WithContext(ctx).
		Where("scope = ? AND page = ''", analytics.ScopeSite).
		First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Count, nil
}

// Ensure GormViewRepository implements ViewRepository
var _ analytics.ViewRepository = (*GormViewRepository)(nil)
