package notification

import (
	"context"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/order"
)

// Mailer sends customer-facing email
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to, name string, o *order.Order) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}
