package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ViewRecorder persists traffic counters
type ViewRecorder interface {
	RecordView(ctx context.Context, page string) error
}

// recordViewTimeout bounds the background write per request
const recordViewTimeout = 2 * time.Second

// TrackViews counts storefront traffic for the admin dashboard. Admin and
// infrastructure routes are not counted, and recording runs off the
// request path so a slow or failing write never delays a response.
func TrackViews(recorder ViewRecorder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := c.Request.URL.Path
		if skipTracking(page) {
			c.Next()
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), recordViewTimeout)
			defer cancel()
			if err := recorder.RecordView(ctx, page); err != nil {
				logger.Warn("view tracking failed",
					zap.String("page", page),
					zap.Error(err))
			}
		}()

		c.Next()
	}
}

func skipTracking(page string) bool {
	return strings.HasPrefix(page, "/api/v1/admin") ||
		strings.HasPrefix(page, "/swagger") ||
		page == "/health"
}
