package catalog

import (
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductUpdated      = "ProductUpdated"
	EventTypeProductDeleted      = "ProductDeleted"
	EventTypeProductStockUpdated = "ProductStockUpdated"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	VariantCount int       `json:"variant_count"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		VariantCount:    len(product.Variants),
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
	}
}

// ProductDeletedEvent is published when a product is deleted.
// It carries the stored image references so listeners can release them.
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Images    []string  `json:"images,omitempty"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(product *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Images:          product.AllImages(),
	}
}

// ProductStockUpdatedEvent is published when a variant's stock is set
type ProductStockUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID   `json:"product_id"`
	VariantIndex int         `json:"variant_index"`
	Quantity     int         `json:"quantity"`
	Threshold    int         `json:"threshold"`
	Status       StockStatus `json:"status"`
}

// NewProductStockUpdatedEvent creates a new ProductStockUpdatedEvent
func NewProductStockUpdatedEvent(product *Product, variantIndex int, stock VariantStock) *ProductStockUpdatedEvent {
	return &ProductStockUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		VariantIndex:    variantIndex,
		Quantity:        stock.Quantity,
		Threshold:       stock.Threshold,
		Status:          stock.Status,
	}
}
