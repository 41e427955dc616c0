package order

import (
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingAddressInput carries the delivery address of a new order
type ShippingAddressInput struct {
	FullName     string `json:"fullName" binding:"required,min=1,max=100"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required,min=1,max=200"`
	AddressLine2 string `json:"addressLine2" binding:"max=200"`
	City         string `json:"city" binding:"required,min=1,max=100"`
	State        string `json:"state" binding:"required,min=1,max=100"`
	ZipCode      string `json:"zipCode" binding:"required"`
}

// PlaceOrderItemInput is one requested line. VariantIndex is a pointer so
// index zero survives required-field binding.
type PlaceOrderItemInput struct {
	ProductID        uuid.UUID `json:"productId" binding:"required"`
	VariantIndex     *int      `json:"variantIndex" binding:"required,min=0"`
	PriceType        string    `json:"priceType" binding:"required,pricetype"`
	ColorTemperature string    `json:"colorTemperature" binding:"max=50"`
	Quantity         int       `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest places a new order. TotalAmount is the client's declared
// total; the server recomputes and rejects mismatches.
type PlaceOrderRequest struct {
	Items           []PlaceOrderItemInput `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressInput  `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                `json:"paymentMethod" binding:"required"`
	TotalAmount     decimal.Decimal       `json:"totalAmount" binding:"required"`
}

// UpdateOrderStatusRequest drives the order state machine
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

// ListOrdersFilter carries pagination and status filtering for admin listings
type ListOrdersFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"limit"`
	Status   string `form:"status"`
}

// OrderItemResponse represents one order line snapshot
type OrderItemResponse struct {
	ProductID        uuid.UUID       `json:"productId"`
	ProductName      string          `json:"productName"`
	Image            string          `json:"image,omitempty"`
	Wattage          string          `json:"wattage,omitempty"`
	Dimensions       string          `json:"dimensions,omitempty"`
	BodyColor        string          `json:"bodyColor,omitempty"`
	ColorTemperature string          `json:"colorTemperature,omitempty"`
	VariantIndex     int             `json:"variantIndex"`
	PriceType        string          `json:"priceType"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	Amount           decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     string                `json:"orderNumber"`
	UserID          uuid.UUID             `json:"userId"`
	Items           []OrderItemResponse   `json:"items"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	PaymentStatus   string                `json:"paymentStatus"`
	Status          string                `json:"status"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	ShippingFee     decimal.Decimal       `json:"shippingFee"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	DeliveredAt     *time.Time            `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time            `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ToOrderResponse converts an order aggregate to its API shape
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			Image:            item.Image,
			Wattage:          item.Wattage,
			Dimensions:       item.Dimensions,
			BodyColor:        item.BodyColor,
			ColorTemperature: item.ColorTemperature,
			VariantIndex:     item.VariantIndex,
			PriceType:        item.PriceType.String(),
			Quantity:         item.Quantity,
			Price:            item.UnitPrice,
			Amount:           item.Amount,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		Status:          o.Status.String(),
		Subtotal:        o.Subtotal,
		ShippingFee:     o.ShippingFee,
		TotalAmount:     o.TotalAmount,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
