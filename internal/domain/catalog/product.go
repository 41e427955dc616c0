package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is used when a variant does not specify its own threshold.
const DefaultLowStockThreshold = 5

// StockStatus is derived from quantity and threshold, never set directly
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in-stock"
	StockStatusLowStock   StockStatus = "low-stock"
	StockStatusOutOfStock StockStatus = "out-of-stock"
)

// String returns the string representation of the stock status
func (s StockStatus) String() string {
	return string(s)
}

// DeriveStockStatus computes the stock status for a quantity/threshold pair.
// Zero or negative quantity is out-of-stock; quantity at or below the
// threshold is low-stock; anything above is in-stock.
func DeriveStockStatus(quantity, threshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= threshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// PriceType selects which of a variant's price points applies to a line
type PriceType string

const (
	PriceTypeThreeInOne PriceType = "threeInOne"
	PriceTypeTAndD      PriceType = "tAndD"
	PriceTypeCustom     PriceType = "custom"
)

// IsValid checks if the price type is a known value
func (p PriceType) IsValid() bool {
	switch p {
	case PriceTypeThreeInOne, PriceTypeTAndD, PriceTypeCustom:
		return true
	}
	return false
}

// String returns the string representation of the price type
func (p PriceType) String() string {
	return string(p)
}

// StringList stores a slice of strings as a JSON column
type StringList []string

// Value implements driver.Valuer for database storage
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// VariantPrice holds the price points of a variant in INR
type VariantPrice struct {
	ThreeInOne decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"threeInOne"`
	TAndD      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tAndD"`
	Custom     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"custom"`
}

// Resolve returns the price point for the given price type
func (p VariantPrice) Resolve(priceType PriceType) (decimal.Decimal, error) {
	switch priceType {
	case PriceTypeThreeInOne:
		return p.ThreeInOne, nil
	case PriceTypeTAndD:
		return p.TAndD, nil
	case PriceTypeCustom:
		return p.Custom, nil
	default:
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE_TYPE", fmt.Sprintf("Unknown price type: %s", priceType))
	}
}

// VariantStock holds the stock state of a variant
type VariantStock struct {
	Quantity  int         `gorm:"not null;default:0" json:"quantity"`
	Threshold int         `gorm:"not null;default:5" json:"threshold"`
	Status    StockStatus `gorm:"type:varchar(20);not null;default:'out-of-stock'" json:"status"`
}

// Variant is a purchasable configuration of a product.
// Variants are identified by their position (VariantIndex) within the product.
type Variant struct {
	ID                uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID         uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_variant_product_index,priority:1" json:"product_id"`
	VariantIndex      int          `gorm:"not null;uniqueIndex:idx_variant_product_index,priority:2" json:"variant_index"`
	Wattage           string       `gorm:"type:varchar(50);not null" json:"wattage"`
	Dimensions        string       `gorm:"type:varchar(100)" json:"dimensions"`
	Cutout            string       `gorm:"type:varchar(100)" json:"cutout"`
	BeamAngle         string       `gorm:"type:varchar(50)" json:"beamAngle"`
	ColorTemperatures StringList   `gorm:"type:jsonb" json:"colorTemperature"`
	CRI               string       `gorm:"type:varchar(20)" json:"cri"`
	Images            StringList   `gorm:"type:jsonb" json:"images"`
	Price             VariantPrice `gorm:"embedded;embeddedPrefix:price_" json:"price"`
	Stock             VariantStock `gorm:"embedded;embeddedPrefix:stock_" json:"stock"`
	CreatedAt         time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// Product is the aggregate root for the lighting catalog.
// A product owns an ordered list of variants; the variant index is the
// stable identity clients use to reference a configuration.
type Product struct {
	shared.BaseAggregateRoot
	Name      string    `gorm:"type:varchar(200);not null"`
	BodyColor string    `gorm:"type:varchar(100)"`
	Material  string    `gorm:"type:varchar(100)"`
	Variants  []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with its variants
func NewProduct(name, bodyColor, material string, variants []Variant) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, shared.NewDomainError("INVALID_VARIANTS", "Product must have at least one variant")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		BodyColor:         strings.TrimSpace(bodyColor),
		Material:          strings.TrimSpace(material),
	}

	if err := product.setVariants(variants); err != nil {
		return nil, err
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces the product's basic information and variants
func (p *Product) Update(name, bodyColor, material string, variants []Variant) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(variants) == 0 {
		return shared.NewDomainError("INVALID_VARIANTS", "Product must have at least one variant")
	}

	p.Name = name
	p.BodyColor = strings.TrimSpace(bodyColor)
	p.Material = strings.TrimSpace(material)
	if err := p.setVariants(variants); err != nil {
		return err
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// setVariants validates and renumbers the variant list.
// Indexes are assigned densely from 0 so the API-facing identity is stable.
func (p *Product) setVariants(variants []Variant) error {
	for i := range variants {
		v := &variants[i]
		if err := validateVariant(v, i); err != nil {
			return err
		}
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		v.ProductID = p.ID
		v.VariantIndex = i
		if v.Stock.Threshold <= 0 {
			v.Stock.Threshold = DefaultLowStockThreshold
		}
		v.Stock.Status = DeriveStockStatus(v.Stock.Quantity, v.Stock.Threshold)
		now := time.Now()
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		v.UpdatedAt = now
	}
	p.Variants = variants
	return nil
}

// VariantAt returns the variant at the given index
func (p *Product) VariantAt(index int) (*Variant, error) {
	if index < 0 || index >= len(p.Variants) {
		return nil, shared.NewDomainError("INVALID_VARIANT",
			fmt.Sprintf("Invalid variant selected for product: %s", p.Name))
	}
	return &p.Variants[index], nil
}

// SetVariantStock sets the quantity (and optionally the threshold) of one
// variant and re-derives its status
func (p *Product) SetVariantStock(index, quantity int, threshold *int) error {
	variant, err := p.VariantAt(index)
	if err != nil {
		return err
	}
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	if threshold != nil {
		if *threshold < 0 {
			return shared.NewDomainError("INVALID_THRESHOLD", "Stock threshold cannot be negative")
		}
		variant.Stock.Threshold = *threshold
	}
	variant.Stock.Quantity = quantity
	variant.Stock.Status = DeriveStockStatus(variant.Stock.Quantity, variant.Stock.Threshold)
	variant.UpdatedAt = time.Now()

	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockUpdatedEvent(p, index, variant.Stock))

	return nil
}

// HasStock reports whether the variant at index can satisfy the quantity
func (p *Product) HasStock(index, quantity int) (bool, error) {
	variant, err := p.VariantAt(index)
	if err != nil {
		return false, err
	}
	return variant.Stock.Quantity >= quantity, nil
}

// AllImages returns every stored image reference across all variants
func (p *Product) AllImages() []string {
	var images []string
	for i := range p.Variants {
		images = append(images, p.Variants[i].Images...)
	}
	return images
}

// MarkDeleted records the deletion event carrying the images to release
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateVariant(v *Variant, index int) error {
	if strings.TrimSpace(v.Wattage) == "" {
		return shared.NewDomainError("INVALID_VARIANT",
			fmt.Sprintf("Variant %d must have a wattage", index))
	}
	if v.Price.ThreeInOne.IsNegative() || v.Price.TAndD.IsNegative() || v.Price.Custom.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE",
			fmt.Sprintf("Variant %d prices cannot be negative", index))
	}
	if !v.Price.ThreeInOne.IsPositive() && !v.Price.TAndD.IsPositive() && !v.Price.Custom.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE",
			fmt.Sprintf("Variant %d must have at least one price", index))
	}
	if v.Stock.Quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Variant %d stock quantity cannot be negative", index))
	}
	return nil
}
