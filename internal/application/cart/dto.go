package cart

import (
	"time"

	cartdomain "github.com/KirshnaLighting/Krishna-Lighting/internal/domain/cart"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest adds a line to the cart. VariantIndex is a pointer so
// index zero survives required-field binding.
type AddCartItemRequest struct {
	ProductID        uuid.UUID `json:"productId" binding:"required"`
	VariantIndex     *int      `json:"variantIndex" binding:"required,min=0"`
	PriceType        string    `json:"priceType" binding:"required,pricetype"`
	ColorTemperature string    `json:"colorTemperature" binding:"max=50"`
	Quantity         int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest sets the absolute quantity of an existing line
type UpdateCartItemRequest struct {
	ProductID    uuid.UUID `json:"productId" binding:"required"`
	VariantIndex *int      `json:"variantIndex" binding:"required,min=0"`
	PriceType    string    `json:"priceType" binding:"required,pricetype"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
}

// RemoveCartItemRequest removes a line by its identity triple
type RemoveCartItemRequest struct {
	ProductID    uuid.UUID `json:"productId" binding:"required"`
	VariantIndex *int      `json:"variantIndex" binding:"required,min=0"`
	PriceType    string    `json:"priceType" binding:"required,pricetype"`
}

// CartItemProduct is the enrichment block of a cart line
type CartItemProduct struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Image      string    `json:"image,omitempty"`
	Wattage    string    `json:"wattage,omitempty"`
	Dimensions string    `json:"dimensions,omitempty"`
	Available  bool      `json:"available"`
}

// CartItemResponse represents one enriched cart line
type CartItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	Product          CartItemProduct `json:"product"`
	VariantIndex     int             `json:"variantIndex"`
	PriceType        string          `json:"priceType"`
	ColorTemperature string          `json:"colorTemperature,omitempty"`
	BodyColor        string          `json:"bodyColor,omitempty"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	LineTotal        decimal.Decimal `json:"lineTotal"`
}

// CartResponse represents a user's cart
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// EmptyCartResponse is what a user without a cart row reads as
func EmptyCartResponse() CartResponse {
	return CartResponse{
		Items:      make([]CartItemResponse, 0),
		TotalItems: 0,
		TotalPrice: decimal.Zero,
	}
}

// toCartResponse converts a cart to its API shape, enriching each line
// from the product lookup. Lines whose product is gone stay un-enriched.
func toCartResponse(c *cartdomain.Cart, products map[uuid.UUID]*catalog.Product) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, line := range c.Items {
		item := CartItemResponse{
			ID:               line.ID,
			Product:          CartItemProduct{ID: line.ProductID},
			VariantIndex:     line.VariantIndex,
			PriceType:        line.PriceType.String(),
			ColorTemperature: line.ColorTemperature,
			BodyColor:        line.BodyColor,
			Quantity:         line.Quantity,
			Price:            line.UnitPrice,
			LineTotal:        line.LineTotal(),
		}
		if product, ok := products[line.ProductID]; ok && product != nil {
			item.Product.Name = product.Name
			item.Product.Available = true
			if variant, err := product.VariantAt(line.VariantIndex); err == nil {
				if len(variant.Images) > 0 {
					item.Product.Image = variant.Images[0]
				}
				item.Product.Wattage = variant.Wattage
				item.Product.Dimensions = variant.Dimensions
			}
		}
		items = append(items, item)
	}
	return CartResponse{
		Items:      items,
		TotalItems: c.TotalItems,
		TotalPrice: c.TotalPrice,
		UpdatedAt:  c.UpdatedAt,
	}
}
