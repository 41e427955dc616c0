package catalog

import (
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantPriceInput carries the price points of a variant
type VariantPriceInput struct {
	ThreeInOne decimal.Decimal `json:"threeInOne"`
	TAndD      decimal.Decimal `json:"tAndD"`
	Custom     decimal.Decimal `json:"custom"`
}

// VariantStockInput carries the stock fields of a variant
type VariantStockInput struct {
	Quantity  int `json:"quantity" binding:"min=0"`
	Threshold int `json:"threshold" binding:"min=0"`
}

// VariantInput represents one variant in a create/update request
type VariantInput struct {
	Wattage           string            `json:"wattage" binding:"required,min=1,max=50"`
	Dimensions        string            `json:"dimensions" binding:"max=100"`
	Cutout            string            `json:"cutout" binding:"max=100"`
	BeamAngle         string            `json:"beamAngle" binding:"max=50"`
	ColorTemperatures []string          `json:"colorTemperature"`
	CRI               string            `json:"cri" binding:"max=20"`
	Images            []string          `json:"images"`
	Price             VariantPriceInput `json:"price"`
	Stock             VariantStockInput `json:"stock"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name      string         `json:"name" binding:"required,min=1,max=200"`
	BodyColor string         `json:"bodyColor" binding:"max=100"`
	Material  string         `json:"material" binding:"max=100"`
	Variants  []VariantInput `json:"variants" binding:"required,min=1,dive"`
}

// UpdateProductRequest represents a request to replace a product's content
type UpdateProductRequest struct {
	Name      string         `json:"name" binding:"required,min=1,max=200"`
	BodyColor string         `json:"bodyColor" binding:"max=100"`
	Material  string         `json:"material" binding:"max=100"`
	Variants  []VariantInput `json:"variants" binding:"required,min=1,dive"`
}

// UpdateVariantStockRequest sets a variant's stock level
type UpdateVariantStockRequest struct {
	Quantity  int  `json:"quantity" binding:"min=0"`
	Threshold *int `json:"threshold" binding:"omitempty,min=0"`
}

// ListProductsFilter carries pagination options for product listings
type ListProductsFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"limit"`
	Search   string `form:"search"`
}

// VariantResponse represents a variant in API responses
type VariantResponse struct {
	VariantIndex      int                  `json:"variantIndex"`
	Wattage           string               `json:"wattage"`
	Dimensions        string               `json:"dimensions"`
	Cutout            string               `json:"cutout"`
	BeamAngle         string               `json:"beamAngle"`
	ColorTemperatures []string             `json:"colorTemperature"`
	CRI               string               `json:"cri"`
	Images            []string             `json:"images"`
	Price             catalog.VariantPrice `json:"price"`
	Stock             catalog.VariantStock `json:"stock"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	BodyColor string            `json:"bodyColor"`
	Material  string            `json:"material"`
	Variants  []VariantResponse `json:"variants"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Version   int               `json:"version"`
}

// ToProductResponse converts a product aggregate to its API shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantResponse{
			VariantIndex:      v.VariantIndex,
			Wattage:           v.Wattage,
			Dimensions:        v.Dimensions,
			Cutout:            v.Cutout,
			BeamAngle:         v.BeamAngle,
			ColorTemperatures: v.ColorTemperatures,
			CRI:               v.CRI,
			Images:            v.Images,
			Price:             v.Price,
			Stock:             v.Stock,
		})
	}
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		BodyColor: p.BodyColor,
		Material:  p.Material,
		Variants:  variants,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
}

// toDomainVariants converts variant inputs into domain variants
func toDomainVariants(inputs []VariantInput) []catalog.Variant {
	variants := make([]catalog.Variant, 0, len(inputs))
	for _, in := range inputs {
		variants = append(variants, catalog.Variant{
			Wattage:           in.Wattage,
			Dimensions:        in.Dimensions,
			Cutout:            in.Cutout,
			BeamAngle:         in.BeamAngle,
			ColorTemperatures: catalog.StringList(in.ColorTemperatures),
			CRI:               in.CRI,
			Images:            catalog.StringList(in.Images),
			Price: catalog.VariantPrice{
				ThreeInOne: in.Price.ThreeInOne,
				TAndD:      in.Price.TAndD,
				Custom:     in.Price.Custom,
			},
			Stock: catalog.VariantStock{
				Quantity:  in.Stock.Quantity,
				Threshold: in.Stock.Threshold,
			},
		})
	}
	return variants
}
