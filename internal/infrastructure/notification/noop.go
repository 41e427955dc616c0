package notification

import (
	"context"

	appnotification "github.com/KirshnaLighting/Krishna-Lighting/internal/application/notification"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/order"
	"go.uber.org/zap"
)

// Ensure NoopMailer implements Mailer
var _ appnotification.Mailer = (*NoopMailer)(nil)

// NoopMailer is used when email is disabled. Sends are logged only.
type NoopMailer struct {
	logger *zap.Logger
}

// NewNoopMailer creates a new NoopMailer
func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// SendOrderConfirmation logs the confirmation instead of sending it
func (m *NoopMailer) SendOrderConfirmation(ctx context.Context, to, name string, o *order.Order) error {
	m.logger.Info("order confirmation email skipped, email disabled",
		zap.String("order_number", o.OrderNumber),
		zap.String("to", to))
	return nil
}

// SendPasswordReset logs the reset link instead of sending it
func (m *NoopMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	m.logger.Info("password reset email skipped, email disabled",
		zap.String("to", to))
	return nil
}
