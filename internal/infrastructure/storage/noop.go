package storage

import (
	"context"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"go.uber.org/zap"
)

// Ensure NoopImageStore implements ImageStore
var _ catalog.ImageStore = (*NoopImageStore)(nil)

// NoopImageStore is used when no storage backend is configured. Image
// references are kept as opaque strings and releases are logged only.
type NoopImageStore struct {
	logger *zap.Logger
}

// NewNoopImageStore creates a new NoopImageStore
func NewNoopImageStore(logger *zap.Logger) *NoopImageStore {
	return &NoopImageStore{logger: logger}
}

// Release logs the references that would have been deleted
func (s *NoopImageStore) Release(ctx context.Context, refs []string) error {
	if len(refs) > 0 {
		s.logger.Debug("image release skipped, storage disabled",
			zap.Int("count", len(refs)))
	}
	return nil
}
