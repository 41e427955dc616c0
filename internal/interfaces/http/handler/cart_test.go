package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	cartapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/cart"
	cartdomain "github.com/KirshnaLighting/Krishna-Lighting/internal/domain/cart"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of cart.CartRepository
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

func newCartTestRouter(cartRepo *MockCartRepository, productRepo *MockProductRepository, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	service := cartapp.NewCartService(cartRepo, productRepo)
	h := NewCartHandler(service)

	router := gin.New()
	api := router.Group("/api/v1")
	if userID != uuid.Nil {
		api.Use(authAs(userID, "user"))
	}
	api.GET("/cart", h.Get)
	api.POST("/cart/items", h.AddItem)
	api.PUT("/cart/items", h.UpdateItem)
	api.DELETE("/cart/items", h.RemoveItem)
	api.DELETE("/cart", h.Clear)
	return router
}

func TestCartHandler_Get(t *testing.T) {
	t.Run("user without a cart reads an empty cart", func(t *testing.T) {
		userID := uuid.New()
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		router := newCartTestRouter(cartRepo, productRepo, userID)

		cartRepo.On("FindByUserID", mock.Anything, userID).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/cart", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"items":[]`)
		assert.Contains(t, w.Body.String(), `"totalItems":0`)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		router := newCartTestRouter(cartRepo, productRepo, uuid.Nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/cart", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("adds line with resolved price", func(t *testing.T) {
		userID := uuid.New()
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		router := newCartTestRouter(cartRepo, productRepo, userID)

		product := newLEDPanel(t)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", mock.Anything, userID).Return(nil, shared.ErrNotFound)
		cartRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		body := `{"productId":"` + product.ID.String() + `","variantIndex":0,"priceType":"tAndD","colorTemperature":"4000K","quantity":2}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"totalItems":2`)
		assert.Contains(t, w.Body.String(), `"priceType":"tAndD"`)
		// 2 x 999
		assert.Contains(t, w.Body.String(), `"totalPrice":"1998"`)
	})

	t.Run("rejects unknown price type", func(t *testing.T) {
		userID := uuid.New()
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		router := newCartTestRouter(cartRepo, productRepo, userID)

		body := `{"productId":"` + uuid.New().String() + `","variantIndex":0,"priceType":"wholesale","quantity":1}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("rejects a zero price point", func(t *testing.T) {
		userID := uuid.New()
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		router := newCartTestRouter(cartRepo, productRepo, userID)

		product := newLEDPanel(t)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		// The fixture has no custom price configured
		body := `{"productId":"` + product.ID.String() + `","variantIndex":0,"priceType":"custom","quantity":1}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "PRICE_UNAVAILABLE")
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	t.Run("missing cart maps to cart item not found", func(t *testing.T) {
		userID := uuid.New()
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		router := newCartTestRouter(cartRepo, productRepo, userID)

		cartRepo.On("FindByUserID", mock.Anything, userID).Return(nil, shared.ErrNotFound)

		body := `{"productId":"` + uuid.New().String() + `","variantIndex":0,"priceType":"threeInOne","quantity":3}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/v1/cart/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "CART_ITEM_NOT_FOUND")
	})
}

func TestCartHandler_Clear(t *testing.T) {
	userID := uuid.New()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	router := newCartTestRouter(cartRepo, productRepo, userID)

	cartRepo.On("ClearByUserID", mock.Anything, userID).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/v1/cart", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	cartRepo.AssertCalled(t, "ClearByUserID", mock.Anything, userID)
}
