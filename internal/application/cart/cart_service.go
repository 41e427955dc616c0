package cart

import (
	"context"
	"errors"

	cartdomain "github.com/KirshnaLighting/Krishna-Lighting/internal/domain/cart"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// CartService handles cart business operations
type CartService struct {
	cartRepo    cartdomain.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cartdomain.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the user's cart with enriched lines. A user without a cart
// reads as an empty cart.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			response := EmptyCartResponse()
			return &response, nil
		}
		return nil, err
	}

	response := toCartResponse(cart, s.loadProducts(ctx, cart))
	return &response, nil
}

// AddItem upserts a line in the user's cart, resolving the unit price from
// the live product
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrProductID, req.ProductID.String(),
		telemetry.SpanAttrQuantity, req.Quantity,
	)

	response, err := s.addItem(ctx, userID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return response, nil
}

func (s *CartService) addItem(ctx context.Context, userID uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	variant, err := product.VariantAt(*req.VariantIndex)
	if err != nil {
		return nil, err
	}

	priceType := catalog.PriceType(req.PriceType)
	unitPrice, err := variant.Price.Resolve(priceType)
	if err != nil {
		return nil, err
	}
	if !unitPrice.IsPositive() {
		return nil, shared.NewDomainError("PRICE_UNAVAILABLE", "Selected price is not available for this variant")
	}

	cart, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddItem(req.ProductID, *req.VariantIndex, priceType,
		req.ColorTemperature, product.BodyColor, req.Quantity, unitPrice); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := toCartResponse(cart, s.loadProducts(ctx, cart))
	return &response, nil
}

// UpdateItem sets the absolute quantity of an existing line
func (s *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Item not found in cart")
		}
		return nil, err
	}

	if err := cart.UpdateItemQuantity(req.ProductID, *req.VariantIndex, catalog.PriceType(req.PriceType), req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := toCartResponse(cart, s.loadProducts(ctx, cart))
	return &response, nil
}

// RemoveItem drops a line from the cart. Removing an absent line succeeds.
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, req RemoveCartItemRequest) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			response := EmptyCartResponse()
			return &response, nil
		}
		return nil, err
	}

	cart.RemoveItem(req.ProductID, *req.VariantIndex, catalog.PriceType(req.PriceType))

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := toCartResponse(cart, s.loadProducts(ctx, cart))
	return &response, nil
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.ClearByUserID(ctx, userID)
}

func (s *CartService) loadOrCreateCart(ctx context.Context, userID uuid.UUID) (*cartdomain.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return cartdomain.NewCart(userID)
}

// loadProducts fetches the products referenced by the cart for enrichment.
// Lookup failures leave the line un-enriched instead of failing the read.
func (s *CartService) loadProducts(ctx context.Context, cart *cartdomain.Cart) map[uuid.UUID]*catalog.Product {
	products := make(map[uuid.UUID]*catalog.Product)
	for _, line := range cart.Items {
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			continue
		}
		products[line.ProductID] = product
	}
	return products
}
