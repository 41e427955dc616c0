package notification

import (
	"context"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/identity"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/order"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderConfirmationHandler listens for placed orders and sends the
// confirmation email. Send failures are logged and swallowed so they can
// never surface on the placement path.
type OrderConfirmationHandler struct {
	mailer    Mailer
	orderRepo order.OrderRepository
	userRepo  identity.UserRepository
	logger    *zap.Logger
}

// NewOrderConfirmationHandler creates a new OrderConfirmationHandler
func NewOrderConfirmationHandler(mailer Mailer, orderRepo order.OrderRepository,
	userRepo identity.UserRepository, logger *zap.Logger) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{
		mailer:    mailer,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderConfirmationHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle sends the confirmation email for a placed order
func (h *OrderConfirmationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		return nil
	}

	o, err := h.orderRepo.FindByID(ctx, placed.OrderID)
	if err != nil {
		h.logger.Warn("order confirmation email skipped, order not loadable",
			zap.String("order_number", placed.OrderNumber),
			zap.Error(err))
		return nil
	}

	user, err := h.userRepo.FindByID(ctx, placed.UserID)
	if err != nil {
		h.logger.Warn("order confirmation email skipped, user not loadable",
			zap.String("order_number", placed.OrderNumber),
			zap.Error(err))
		return nil
	}

	if err := h.mailer.SendOrderConfirmation(ctx, user.Email, user.Name, o); err != nil {
		h.logger.Error("order confirmation email failed",
			zap.String("order_number", placed.OrderNumber),
			zap.String("to", user.Email),
			zap.Error(err))
	}
	return nil
}
