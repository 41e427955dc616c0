package integration

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	cartapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/cart"
	orderapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/order"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/persistence"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-\d{4}$`)

func intPtr(v int) *int { return &v }

func shippingAddress() orderapp.ShippingAddressInput {
	return orderapp.ShippingAddressInput{
		FullName:     "Asha Verma",
		Phone:        "9876543210",
		AddressLine1: "14 MG Road",
		City:         "Pune",
		State:        "Maharashtra",
		ZipCode:      "411001",
	}
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestOrderFlow_PlaceOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	cartService := cartapp.NewCartService(cartRepo, productRepo)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, cartRepo, zaptest.NewLogger(t))

	product := seedProduct(t, productRepo, 10, 2)
	userID := uuid.New()

	_, err := cartService.AddItem(ctx, userID, cartapp.AddCartItemRequest{
		ProductID:        product.ID,
		VariantIndex:     intPtr(0),
		PriceType:        "tAndD",
		ColorTemperature: "4000K",
		Quantity:         2,
	})
	require.NoError(t, err)

	// 2 x 999 = 1998, below the free shipping threshold
	resp, err := orderService.Place(ctx, userID, orderapp.PlaceOrderRequest{
		Items: []orderapp.PlaceOrderItemInput{
			{
				ProductID:        product.ID,
				VariantIndex:     intPtr(0),
				PriceType:        "tAndD",
				ColorTemperature: "4000K",
				Quantity:         2,
			},
		},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "cod",
		TotalAmount:     decimal.NewFromInt(2197),
	})
	require.NoError(t, err)

	assert.Regexp(t, orderNumberPattern, resp.OrderNumber)
	assert.Equal(t, "processing", resp.Status)
	assert.Equal(t, "pending", resp.PaymentStatus)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(1998)))
	assert.True(t, resp.ShippingFee.Equal(decimal.NewFromInt(199)))
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(2197)))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "LED Panel 18W", resp.Items[0].ProductName)

	// Stock was decremented
	found, err := productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, found.Variants[0].Stock.Quantity)

	// Cart was cleared
	cart, err := cartService.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.TotalItems)
	assert.Empty(t, cart.Items)

	// Order is readable back by its owner
	fetched, err := orderService.Get(ctx, userID, resp.ID, false)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderNumber, fetched.OrderNumber)

	// Other users cannot see it
	_, err = orderService.Get(ctx, uuid.New(), resp.ID, false)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderFlow_FreeShippingThreshold(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, cartRepo, zaptest.NewLogger(t))

	product := seedProduct(t, productRepo, 10, 2)

	// 2 x 1200 = 2400, at or above the threshold ships free
	resp, err := orderService.Place(ctx, uuid.New(), orderapp.PlaceOrderRequest{
		Items: []orderapp.PlaceOrderItemInput{
			{ProductID: product.ID, VariantIndex: intPtr(0), PriceType: "threeInOne", Quantity: 2},
		},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "cod",
		TotalAmount:     decimal.NewFromInt(2400),
	})
	require.NoError(t, err)
	assert.True(t, resp.ShippingFee.IsZero())
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(2400)))
}

func TestOrderFlow_TotalMismatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, cartRepo, zaptest.NewLogger(t))

	product := seedProduct(t, productRepo, 10, 2)

	_, err := orderService.Place(ctx, uuid.New(), orderapp.PlaceOrderRequest{
		Items: []orderapp.PlaceOrderItemInput{
			{ProductID: product.ID, VariantIndex: intPtr(0), PriceType: "tAndD", Quantity: 1},
		},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "cod",
		TotalAmount:     decimal.NewFromInt(1),
	})
	requireDomainCode(t, err, "TOTAL_MISMATCH")

	// Nothing was persisted and stock is untouched
	count, err := orderRepo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	found, err := productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, found.Variants[0].Stock.Quantity)
}

func TestOrderFlow_InsufficientStock(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, cartRepo, zaptest.NewLogger(t))

	product := seedProduct(t, productRepo, 1, 2)

	_, err := orderService.Place(ctx, uuid.New(), orderapp.PlaceOrderRequest{
		Items: []orderapp.PlaceOrderItemInput{
			{ProductID: product.ID, VariantIndex: intPtr(0), PriceType: "tAndD", Quantity: 5},
		},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "cod",
		TotalAmount:     decimal.NewFromInt(5194),
	})
	requireDomainCode(t, err, "INSUFFICIENT_STOCK")
}

func TestOrderFlow_StatusTransitions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, cartRepo, zaptest.NewLogger(t))

	product := seedProduct(t, productRepo, 10, 2)

	placed, err := orderService.Place(ctx, uuid.New(), orderapp.PlaceOrderRequest{
		Items: []orderapp.PlaceOrderItemInput{
			{ProductID: product.ID, VariantIndex: intPtr(0), PriceType: "tAndD", Quantity: 1},
		},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "cod",
		TotalAmount:     decimal.NewFromInt(1198),
	})
	require.NoError(t, err)

	// Delivery must pass through shipped first
	_, err = orderService.UpdateStatus(ctx, placed.ID, orderapp.UpdateOrderStatusRequest{Status: "delivered"})
	requireDomainCode(t, err, "INVALID_STATUS_TRANSITION")

	shipped, err := orderService.UpdateStatus(ctx, placed.ID, orderapp.UpdateOrderStatusRequest{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, "shipped", shipped.Status)

	delivered, err := orderService.UpdateStatus(ctx, placed.ID, orderapp.UpdateOrderStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, "delivered", delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	// Delivered orders cannot be cancelled
	_, err = orderService.UpdateStatus(ctx, placed.ID, orderapp.UpdateOrderStatusRequest{Status: "cancelled"})
	requireDomainCode(t, err, "INVALID_STATUS_TRANSITION")
}

func TestOrderFlow_ListByStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, cartRepo, zaptest.NewLogger(t))

	product := seedProduct(t, productRepo, 10, 2)
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := orderService.Place(ctx, userID, orderapp.PlaceOrderRequest{
			Items: []orderapp.PlaceOrderItemInput{
				{ProductID: product.ID, VariantIndex: intPtr(0), PriceType: "tAndD", Quantity: 1},
			},
			ShippingAddress: shippingAddress(),
			PaymentMethod:   "cod",
			TotalAmount:     decimal.NewFromInt(1198),
		})
		require.NoError(t, err)
	}

	mine, total, err := orderService.ListMine(ctx, userID, orderapp.ListOrdersFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, mine, 2)

	all, total, err := orderService.ListAll(ctx, orderapp.ListOrdersFilter{Page: 1, PageSize: 10, Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	_, total, err = orderService.ListAll(ctx, orderapp.ListOrdersFilter{Page: 1, PageSize: 10, Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	_, _, err = orderService.ListAll(ctx, orderapp.ListOrdersFilter{Page: 1, PageSize: 10, Status: "returned"})
	requireDomainCode(t, err, "INVALID_STATUS")
}
