package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	cartdomain "github.com/KirshnaLighting/Krishna-Lighting/internal/domain/cart"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/order"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCacheInvalidator drops cached product entries whose stock changed.
// Satisfied by the Redis product cache.
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID)
}

// OrderService handles order placement and lifecycle operations
type OrderService struct {
	orderRepo      order.OrderRepository
	productRepo    catalog.ProductRepository
	cartRepo       cartdomain.CartRepository
	cache          ProductCacheInvalidator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository, productRepo catalog.ProductRepository,
	cartRepo cartdomain.CartRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCache sets the product cache to invalidate after stock decrements,
// so catalog reads pick up the new quantity before the TTL expires
func (s *OrderService) SetCache(cache ProductCacheInvalidator) {
	s.cache = cache
}

// Place runs the order placement pipeline: validate everything fail-fast,
// persist the order with server-computed totals, then decrement stock,
// clear the cart and notify. The validation pass does not reserve stock;
// a concurrent depletion between check and decrement is accepted and
// logged instead of failing the already-placed order.
func (s *OrderService) Place(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, userID.String(),
		"items_count", len(req.Items),
	)

	response, err := s.place(ctx, userID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, response.OrderNumber,
		telemetry.SpanAttrAmount, response.TotalAmount.String(),
	)
	return response, nil
}

func (s *OrderService) place(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	if order.PaymentMethod(req.PaymentMethod) != order.PaymentMethodCOD {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Only cash on delivery is supported")
	}

	address := order.ShippingAddress{
		FullName:     req.ShippingAddress.FullName,
		Phone:        req.ShippingAddress.Phone,
		AddressLine1: req.ShippingAddress.AddressLine1,
		AddressLine2: req.ShippingAddress.AddressLine2,
		City:         req.ShippingAddress.City,
		State:        req.ShippingAddress.State,
		ZipCode:      req.ShippingAddress.ZipCode,
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	items, err := s.validateAndSnapshotItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	calculatedTotal := subtotal.Add(order.ComputeShippingFee(subtotal))
	if !calculatedTotal.Equal(req.TotalAmount) {
		return nil, shared.NewDomainError("TOTAL_MISMATCH",
			fmt.Sprintf("Order total mismatch: expected %s, got %s", calculatedTotal, req.TotalAmount))
	}

	newOrder, err := order.NewOrder(userID, order.NewOrderNumber(time.Now()), items, address, order.PaymentMethodCOD)
	if err != nil {
		return nil, err
	}

	if err := s.saveWithUniqueNumber(ctx, newOrder); err != nil {
		return nil, err
	}

	s.decrementStock(ctx, newOrder)

	// The cart is cleared even for direct purchases that bypassed it
	if err := s.cartRepo.ClearByUserID(ctx, userID); err != nil {
		s.logger.Warn("failed to clear cart after order placement",
			zap.String("order_number", newOrder.OrderNumber),
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.publishEventsAsync(ctx, newOrder)

	response := ToOrderResponse(newOrder)
	return &response, nil
}

// validateAndSnapshotItems checks every requested line against the live
// catalog and builds the immutable order line snapshots
func (s *OrderService) validateAndSnapshotItems(ctx context.Context, inputs []PlaceOrderItemInput) ([]order.OrderItem, error) {
	items := make([]order.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		if in.ProductID == uuid.Nil || in.VariantIndex == nil || in.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_ITEM", "Each item needs a product, variant and quantity")
		}

		product, err := s.productRepo.FindByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Product not found: %s", in.ProductID))
			}
			return nil, err
		}

		variant, err := product.VariantAt(*in.VariantIndex)
		if err != nil {
			return nil, err
		}

		if variant.Stock.Quantity < in.Quantity {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for: %s (%s)", product.Name, variant.Wattage))
		}

		unitPrice, err := variant.Price.Resolve(catalog.PriceType(in.PriceType))
		if err != nil {
			return nil, err
		}

		image := ""
		if len(variant.Images) > 0 {
			image = variant.Images[0]
		}

		item, err := order.NewOrderItem(product.ID, product.Name, image, variant.Wattage,
			variant.Dimensions, product.BodyColor, in.ColorTemperature,
			*in.VariantIndex, catalog.PriceType(in.PriceType), in.Quantity, unitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// saveWithUniqueNumber persists the order, regenerating the order number
// when it collides with a concurrently placed order. One regular retry,
// then a wider random suffix as the last resort.
func (s *OrderService) saveWithUniqueNumber(ctx context.Context, o *order.Order) error {
	err := s.orderRepo.Save(ctx, o)
	if !errors.Is(err, shared.ErrAlreadyExists) {
		return err
	}

	if err := o.AssignOrderNumber(order.NewOrderNumber(time.Now())); err != nil {
		return err
	}
	err = s.orderRepo.Save(ctx, o)
	if !errors.Is(err, shared.ErrAlreadyExists) {
		return err
	}

	if err := o.AssignOrderNumber(order.NewWideOrderNumber(time.Now())); err != nil {
		return err
	}
	return s.orderRepo.Save(ctx, o)
}

// decrementStock applies the conditional decrement per line and drops the
// cached product so catalog reads see the new quantity. A line whose
// guard no longer matches was depleted between validation and now; the
// order stands and the inconsistency is logged for manual follow-up.
func (s *OrderService) decrementStock(ctx context.Context, o *order.Order) {
	span := telemetry.SpanFromContext(ctx)
	touched := make(map[uuid.UUID]struct{}, len(o.Items))
	for _, item := range o.Items {
		decremented, err := s.productRepo.DecrementStock(ctx, item.ProductID, item.VariantIndex, item.Quantity)
		if err != nil {
			s.logger.Error("stock decrement failed after order placement",
				zap.String("order_number", o.OrderNumber),
				zap.String("product_id", item.ProductID.String()),
				zap.Int("variant_index", item.VariantIndex),
				zap.Error(err))
			continue
		}
		if !decremented {
			telemetry.AddEvent(span, "stock_depleted",
				telemetry.SpanAttrProductID, item.ProductID.String(),
				telemetry.SpanAttrVariantIndex, item.VariantIndex,
				telemetry.SpanAttrQuantity, item.Quantity)
			s.logger.Warn("stock depleted between validation and decrement, order needs fulfillment review",
				zap.String("order_number", o.OrderNumber),
				zap.String("product_id", item.ProductID.String()),
				zap.String("product_name", item.ProductName),
				zap.Int("variant_index", item.VariantIndex),
				zap.Int("quantity", item.Quantity))
			continue
		}
		touched[item.ProductID] = struct{}{}
	}

	if s.cache != nil {
		for productID := range touched {
			s.cache.Invalidate(ctx, productID)
		}
	}
}

// publishEventsAsync dispatches the order events off the request path.
// Listener failures (such as a down mail provider) only get logged.
func (s *OrderService) publishEventsAsync(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	o.ClearDomainEvents()

	detached := context.WithoutCancel(ctx)
	go func() {
		for _, event := range events {
			if err := s.eventPublisher.Publish(detached, event); err != nil {
				s.logger.Error("failed to publish order event",
					zap.String("event_type", event.EventType()),
					zap.String("order_number", o.OrderNumber),
					zap.Error(err))
			}
		}
	}()
}

// Get retrieves an order. Customers only see their own orders; admins see
// any order.
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.BelongsTo(userID) {
		// Hide other users' orders entirely instead of revealing they exist
		return nil, shared.ErrNotFound
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// ListMine retrieves the user's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, filter ListOrdersFilter) ([]OrderResponse, int64, error) {
	domainFilter, err := buildFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	orders, err := s.orderRepo.FindByUserID(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	countFilter := domainFilter
	countFilter.Filters["user_id"] = userID
	total, err := s.orderRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}

	return toOrderResponses(orders), total, nil
}

// ListAll retrieves all orders for the admin view, optionally filtered by
// status, newest first
func (s *OrderService) ListAll(ctx context.Context, filter ListOrdersFilter) ([]OrderResponse, int64, error) {
	domainFilter, err := buildFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return toOrderResponses(orders), total, nil
}

// UpdateStatus drives the order state machine
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, orderID.String(),
		telemetry.SpanAttrOrderStatus, req.Status,
	)

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := o.TransitionTo(order.OrderStatus(req.Status)); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEventsAsync(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

func buildFilter(filter ListOrdersFilter) (shared.Filter, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize

	if filter.Status != "" {
		status := order.OrderStatus(filter.Status)
		if !status.IsValid() {
			return shared.Filter{}, shared.NewDomainError("INVALID_STATUS",
				fmt.Sprintf("Unknown order status: %s", filter.Status))
		}
		domainFilter.Filters["status"] = status
	}
	return domainFilter, nil
}

func toOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses
}
