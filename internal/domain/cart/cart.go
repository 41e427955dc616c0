package cart

import (
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a line in a user's cart. Lines are identified by the
// (ProductID, VariantIndex, PriceType) triple; adding the same triple again
// increments the existing line instead of creating a duplicate.
type CartItem struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	CartID           uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_identity,priority:1" json:"cart_id"`
	ProductID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_identity,priority:2" json:"product_id"`
	VariantIndex     int               `gorm:"not null;uniqueIndex:idx_cart_item_identity,priority:3" json:"variant_index"`
	PriceType        catalog.PriceType `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_item_identity,priority:4" json:"price_type"`
	ColorTemperature string            `gorm:"type:varchar(50)" json:"color_temperature"`
	BodyColor        string            `gorm:"type:varchar(100)" json:"body_color"`
	Quantity         int               `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CreatedAt        time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal returns quantity times unit price
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// matches reports whether the line has the given identity triple
func (i CartItem) matches(productID uuid.UUID, variantIndex int, priceType catalog.PriceType) bool {
	return i.ProductID == productID && i.VariantIndex == variantIndex && i.PriceType == priceType
}

// Cart is the aggregate root for a user's shopping cart. Each user has at
// most one cart; the denormalized totals are recomputed on every mutation
// and never accepted from callers.
type Cart struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items      []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	TotalItems int             `gorm:"not null;default:0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Cart requires a user")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
		TotalPrice:        decimal.Zero,
	}, nil
}

// AddItem upserts a line by its identity triple. An existing line has its
// quantity incremented and its price refreshed to the resolved unit price.
func (c *Cart) AddItem(productID uuid.UUID, variantIndex int, priceType catalog.PriceType,
	colorTemperature, bodyColor string, quantity int, unitPrice decimal.Decimal) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if !priceType.IsValid() {
		return shared.NewDomainError("INVALID_PRICE_TYPE", "Unknown price type")
	}

	now := time.Now()
	for idx := range c.Items {
		if c.Items[idx].matches(productID, variantIndex, priceType) {
			c.Items[idx].Quantity += quantity
			c.Items[idx].UnitPrice = unitPrice
			c.Items[idx].UpdatedAt = now
			c.recalculateTotals()
			c.touch()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:               uuid.New(),
		CartID:           c.ID,
		ProductID:        productID,
		VariantIndex:     variantIndex,
		PriceType:        priceType,
		ColorTemperature: colorTemperature,
		BodyColor:        bodyColor,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	c.recalculateTotals()
	c.touch()
	return nil
}

// UpdateItemQuantity sets the absolute quantity of an existing line
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, variantIndex int, priceType catalog.PriceType, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for idx := range c.Items {
		if c.Items[idx].matches(productID, variantIndex, priceType) {
			c.Items[idx].Quantity = quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.recalculateTotals()
			c.touch()
			return nil
		}
	}
	return shared.NewDomainError("CART_ITEM_NOT_FOUND", "Item not found in cart")
}

// RemoveItem removes a line by its identity triple. Removing a line that is
// not present is not an error.
func (c *Cart) RemoveItem(productID uuid.UUID, variantIndex int, priceType catalog.PriceType) {
	filtered := c.Items[:0]
	for _, item := range c.Items {
		if !item.matches(productID, variantIndex, priceType) {
			filtered = append(filtered, item)
		}
	}
	c.Items = filtered
	c.recalculateTotals()
	c.touch()
}

// Clear empties the cart and zeroes the totals
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.recalculateTotals()
	c.touch()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// recalculateTotals rebuilds the denormalized totals from the lines
func (c *Cart) recalculateTotals() {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, item := range c.Items {
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(item.LineTotal())
	}
	c.TotalItems = totalItems
	c.TotalPrice = totalPrice
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
