package order

import (
	"context"
	"sync"
	"testing"
	"time"

	cartdomain "github.com/KirshnaLighting/Krishna-Lighting/internal/domain/cart"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/order"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

// MockOrderRepository implements order.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, variantIndex, quantity int) (bool, error) {
	args := m.Called(ctx, productID, variantIndex, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountVariantsByStatus(ctx context.Context) (map[catalog.StockStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[catalog.StockStatus]int64), args.Error(1)
}

// MockCartRepository implements cart.CartRepository for testing
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cartdomain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartdomain.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *cartdomain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) ClearByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// recordingPublisher captures published events across goroutines
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) published() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

func createTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("LED Spotlight", "White", "Aluminium", []catalog.Variant{{
		Wattage:    "12W",
		Dimensions: "90x90mm",
		Images:     catalog.StringList{"products/spot.jpg"},
		Price: catalog.VariantPrice{
			ThreeInOne: decimal.NewFromInt(1450),
			TAndD:      decimal.NewFromInt(1250),
		},
		Stock: catalog.VariantStock{Quantity: 10, Threshold: 5},
	}})
	require.NoError(t, err)
	return product
}

func intPtr(v int) *int { return &v }

func validPlaceRequest(productID uuid.UUID, quantity int, total int64) PlaceOrderRequest {
	return PlaceOrderRequest{
		Items: []PlaceOrderItemInput{{
			ProductID:        productID,
			VariantIndex:     intPtr(0),
			PriceType:        "threeInOne",
			ColorTemperature: "3000K",
			Quantity:         quantity,
		}},
		ShippingAddress: ShippingAddressInput{
			FullName:     "Asha Verma",
			Phone:        "9876543210",
			AddressLine1: "14 MG Road",
			City:         "Pune",
			State:        "Maharashtra",
			ZipCode:      "411001",
		},
		PaymentMethod: "cod",
		TotalAmount:   decimal.NewFromInt(total),
	}
}

func newTestService(orderRepo *MockOrderRepository, productRepo *MockProductRepository, cartRepo *MockCartRepository) (*OrderService, *recordingPublisher) {
	service := NewOrderService(orderRepo, productRepo, cartRepo, zap.NewNop())
	publisher := &recordingPublisher{}
	service.SetEventPublisher(publisher)
	return service, publisher
}

func TestOrderService_Place(t *testing.T) {
	t.Run("places order, decrements stock, clears cart, publishes event", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, publisher := newTestService(orderRepo, productRepo, cartRepo)

		userID := uuid.New()
		product := createTestProduct(t)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 2).Return(true, nil)
		cartRepo.On("ClearByUserID", mock.Anything, userID).Return(nil)

		// 2 x 1450 = 2900, free shipping at 2000
		resp, err := service.Place(context.Background(), userID, validPlaceRequest(product.ID, 2, 2900))
		require.NoError(t, err)

		assert.Equal(t, "processing", resp.Status)
		assert.Equal(t, "pending", resp.PaymentStatus)
		assert.True(t, decimal.NewFromInt(2900).Equal(resp.Subtotal))
		assert.True(t, resp.ShippingFee.IsZero())
		assert.Regexp(t, `^ORD-\d{8}-\d{4}$`, resp.OrderNumber)
		assert.Equal(t, "LED Spotlight", resp.Items[0].ProductName)

		productRepo.AssertCalled(t, "DecrementStock", mock.Anything, product.ID, 0, 2)
		cartRepo.AssertCalled(t, "ClearByUserID", mock.Anything, userID)

		assert.Eventually(t, func() bool {
			for _, event := range publisher.published() {
				if event.EventType() == order.EventTypeOrderPlaced {
					return true
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("applies shipping fee below threshold", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		userID := uuid.New()
		product := createTestProduct(t)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 1).Return(true, nil)
		cartRepo.On("ClearByUserID", mock.Anything, userID).Return(nil)

		// 1450 + 199 shipping
		resp, err := service.Place(context.Background(), userID, validPlaceRequest(product.ID, 1, 1649))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(199).Equal(resp.ShippingFee))
		assert.True(t, decimal.NewFromInt(1649).Equal(resp.TotalAmount))
	})

	t.Run("rejects tampered total without touching stock", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		product := createTestProduct(t)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := service.Place(context.Background(), uuid.New(), validPlaceRequest(product.ID, 2, 100))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOTAL_MISMATCH", domainErr.Code)

		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		cartRepo.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		productID := uuid.New()
		productRepo.On("FindByID", mock.Anything, productID).Return(nil, shared.ErrNotFound)

		_, err := service.Place(context.Background(), uuid.New(), validPlaceRequest(productID, 1, 1649))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("rejects variant index out of range", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		product := createTestProduct(t)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		req := validPlaceRequest(product.ID, 1, 1649)
		req.Items[0].VariantIndex = intPtr(5)

		_, err := service.Place(context.Background(), uuid.New(), req)
		assert.Error(t, err)
	})

	t.Run("rejects insufficient stock naming the product", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		product := createTestProduct(t)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := service.Place(context.Background(), uuid.New(), validPlaceRequest(product.ID, 11, 15950))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient stock for: LED Spotlight (12W)")
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-COD payment method", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		req := validPlaceRequest(uuid.New(), 1, 1649)
		req.PaymentMethod = "card"

		_, err := service.Place(context.Background(), uuid.New(), req)
		assert.Error(t, err)
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		req := validPlaceRequest(uuid.New(), 1, 1649)
		req.ShippingAddress.Phone = "12345"

		_, err := service.Place(context.Background(), uuid.New(), req)
		assert.Error(t, err)
	})

	t.Run("regenerates order number on collision", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		userID := uuid.New()
		product := createTestProduct(t)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(shared.ErrAlreadyExists).Once()
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
		productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 1).Return(true, nil)
		cartRepo.On("ClearByUserID", mock.Anything, userID).Return(nil)

		resp, err := service.Place(context.Background(), userID, validPlaceRequest(product.ID, 1, 1649))
		require.NoError(t, err)
		assert.Regexp(t, `^ORD-\d{8}-\d{4}$`, resp.OrderNumber)
		orderRepo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("order stands when decrement guard fails", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		userID := uuid.New()
		product := createTestProduct(t)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		// Concurrent depletion between validation and decrement
		productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 2).Return(false, nil)
		cartRepo.On("ClearByUserID", mock.Anything, userID).Return(nil)

		resp, err := service.Place(context.Background(), userID, validPlaceRequest(product.ID, 2, 2900))
		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
	})

	t.Run("cart clear failure does not fail the order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		userID := uuid.New()
		product := createTestProduct(t)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 1).Return(true, nil)
		cartRepo.On("ClearByUserID", mock.Anything, userID).Return(assert.AnError)

		_, err := service.Place(context.Background(), userID, validPlaceRequest(product.ID, 1, 1649))
		assert.NoError(t, err)
	})
}

// uniqueIndexOrderRepo emulates the order number unique index so the
// placement retry path can be exercised under real concurrency
type uniqueIndexOrderRepo struct {
	MockOrderRepository
	mu      sync.Mutex
	numbers map[string]struct{}
}

func (r *uniqueIndexOrderRepo) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.numbers[o.OrderNumber]; exists {
		return shared.ErrAlreadyExists
	}
	r.numbers[o.OrderNumber] = struct{}{}
	return nil
}

func TestOrderService_ConcurrentPlacementNumbersUnique(t *testing.T) {
	orderRepo := &uniqueIndexOrderRepo{numbers: make(map[string]struct{})}
	productRepo := new(MockProductRepository)
	cartRepo := new(MockCartRepository)
	service := NewOrderService(orderRepo, productRepo, cartRepo, zap.NewNop())

	product := createTestProduct(t)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 1).Return(true, nil)
	cartRepo.On("ClearByUserID", mock.Anything, mock.Anything).Return(nil)

	const placements = 20
	var wg sync.WaitGroup
	numbers := make(chan string, placements)
	for i := 0; i < placements; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := service.Place(context.Background(), uuid.New(), validPlaceRequest(product.ID, 1, 1649))
			if assert.NoError(t, err) {
				numbers <- resp.OrderNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]struct{})
	for number := range numbers {
		_, dup := seen[number]
		assert.False(t, dup, "duplicate order number %s", number)
		seen[number] = struct{}{}
	}
	assert.Len(t, seen, placements)
}

func TestOrderService_Get(t *testing.T) {
	t.Run("owner reads own order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service, _ := newTestService(orderRepo, new(MockProductRepository), new(MockCartRepository))

		userID := uuid.New()
		o := createPlacedOrder(t, userID)
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		resp, err := service.Get(context.Background(), userID, o.ID, false)
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, resp.OrderNumber)
	})

	t.Run("other user's order is hidden", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service, _ := newTestService(orderRepo, new(MockProductRepository), new(MockCartRepository))

		o := createPlacedOrder(t, uuid.New())
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := service.Get(context.Background(), uuid.New(), o.ID, false)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service, _ := newTestService(orderRepo, new(MockProductRepository), new(MockCartRepository))

		o := createPlacedOrder(t, uuid.New())
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := service.Get(context.Background(), uuid.New(), o.ID, true)
		assert.NoError(t, err)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	t.Run("valid transition is saved", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service, _ := newTestService(orderRepo, new(MockProductRepository), new(MockCartRepository))

		o := createPlacedOrder(t, uuid.New())
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("Save", mock.Anything, o).Return(nil)

		resp, err := service.UpdateStatus(context.Background(), o.ID, UpdateOrderStatusRequest{Status: "shipped"})
		require.NoError(t, err)
		assert.Equal(t, "shipped", resp.Status)
	})

	t.Run("invalid transition is rejected", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service, _ := newTestService(orderRepo, new(MockProductRepository), new(MockCartRepository))

		o := createPlacedOrder(t, uuid.New())
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := service.UpdateStatus(context.Background(), o.ID, UpdateOrderStatusRequest{Status: "delivered"})
		require.Error(t, err)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid status filter on listing", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service, _ := newTestService(orderRepo, new(MockProductRepository), new(MockCartRepository))

		_, _, err := service.ListAll(context.Background(), ListOrdersFilter{Status: "returned"})
		assert.Error(t, err)
	})
}

func createPlacedOrder(t *testing.T, userID uuid.UUID) *order.Order {
	t.Helper()
	item, err := order.NewOrderItem(uuid.New(), "LED Spotlight", "", "12W", "", "White", "3000K",
		0, catalog.PriceTypeThreeInOne, 1, decimal.NewFromInt(1450))
	require.NoError(t, err)

	o, err := order.NewOrder(userID, order.NewOrderNumber(time.Now()), []order.OrderItem{*item}, order.ShippingAddress{
		FullName:     "Asha Verma",
		Phone:        "9876543210",
		AddressLine1: "14 MG Road",
		City:         "Pune",
		State:        "Maharashtra",
		ZipCode:      "411001",
	}, order.PaymentMethodCOD)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

// recordingInvalidator captures product cache invalidations
type recordingInvalidator struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recordingInvalidator) invalidated() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.ids...)
}

func TestOrderService_Place_InvalidatesProductCache(t *testing.T) {
	t.Run("decremented products are dropped from the cache", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		invalidator := &recordingInvalidator{}
		service.SetCache(invalidator)

		userID := uuid.New()
		product := createTestProduct(t)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 2).Return(true, nil)
		cartRepo.On("ClearByUserID", mock.Anything, userID).Return(nil)

		_, err := service.Place(context.Background(), userID, validPlaceRequest(product.ID, 2, 2900))
		require.NoError(t, err)

		assert.Equal(t, []uuid.UUID{product.ID}, invalidator.invalidated())
	})

	t.Run("refused decrement leaves the cache alone", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		cartRepo := new(MockCartRepository)
		service, _ := newTestService(orderRepo, productRepo, cartRepo)

		invalidator := &recordingInvalidator{}
		service.SetCache(invalidator)

		userID := uuid.New()
		product := createTestProduct(t)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 2).Return(false, nil)
		cartRepo.On("ClearByUserID", mock.Anything, userID).Return(nil)

		_, err := service.Place(context.Background(), userID, validPlaceRequest(product.ID, 2, 2900))
		require.NoError(t, err)

		assert.Empty(t, invalidator.invalidated())
	})
}

func TestOrderService_Place_RecordsServiceSpan(t *testing.T) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(originalProvider)
		_ = tp.Shutdown(context.Background())
	})

	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	cartRepo := new(MockCartRepository)
	service, _ := newTestService(orderRepo, productRepo, cartRepo)

	userID := uuid.New()
	product := createTestProduct(t)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	productRepo.On("DecrementStock", mock.Anything, product.ID, 0, 2).Return(true, nil)
	cartRepo.On("ClearByUserID", mock.Anything, userID).Return(nil)

	resp, err := service.Place(context.Background(), userID, validPlaceRequest(product.ID, 2, 2900))
	require.NoError(t, err)

	names := make([]string, 0)
	for _, span := range spanRecorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Contains(t, names, "order.place")

	for _, span := range spanRecorder.Ended() {
		if span.Name() != "order.place" {
			continue
		}
		attrs := span.Attributes()
		found := false
		for _, attr := range attrs {
			if string(attr.Key) == "order_number" {
				assert.Equal(t, resp.OrderNumber, attr.Value.AsString())
				found = true
			}
		}
		assert.True(t, found, "order.place span should carry the order number")
	}
}
