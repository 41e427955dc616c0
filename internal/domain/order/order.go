package order

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shipping charges in INR. Orders at or above the free shipping threshold
// ship for free, everything below pays the flat fee.
var (
	FreeShippingThreshold = decimal.NewFromInt(2000)
	StandardShippingFee   = decimal.NewFromInt(199)
)

// ComputeShippingFee returns the shipping fee for a subtotal
func ComputeShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return StandardShippingFee
}

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Delivered and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// PaymentMethod represents how an order is paid
type PaymentMethod string

// PaymentMethodCOD is cash on delivery, the only supported method
const PaymentMethodCOD PaymentMethod = "cod"

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	zipPattern   = regexp.MustCompile(`^\d{5,6}$`)
)

// ShippingAddress is the delivery address snapshot stored on an order
type ShippingAddress struct {
	FullName     string `gorm:"type:varchar(100);not null" json:"fullName"`
	Phone        string `gorm:"type:varchar(15);not null" json:"phone"`
	AddressLine1 string `gorm:"type:varchar(200);not null" json:"addressLine1"`
	AddressLine2 string `gorm:"type:varchar(200)" json:"addressLine2,omitempty"`
	City         string `gorm:"type:varchar(100);not null" json:"city"`
	State        string `gorm:"type:varchar(100);not null" json:"state"`
	ZipCode      string `gorm:"type:varchar(10);not null" json:"zipCode"`
}

// Validate checks address completeness and format
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.FullName) == "" ||
		strings.TrimSpace(a.Phone) == "" ||
		strings.TrimSpace(a.AddressLine1) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.State) == "" ||
		strings.TrimSpace(a.ZipCode) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Incomplete shipping address")
	}
	if !phonePattern.MatchString(a.Phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone number must be 10 digits")
	}
	if !zipPattern.MatchString(a.ZipCode) {
		return shared.NewDomainError("INVALID_ZIPCODE", "Zip code must be 5 or 6 digits")
	}
	return nil
}

// OrderItem is an immutable snapshot of a purchased variant. Prices and
// product details are copied at placement time so later catalog edits do
// not rewrite order history.
type OrderItem struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID        uuid.UUID         `gorm:"type:uuid;not null" json:"product_id"`
	ProductName      string            `gorm:"type:varchar(200);not null" json:"product_name"`
	Image            string            `gorm:"type:varchar(500)" json:"image"`
	Wattage          string            `gorm:"type:varchar(50)" json:"wattage"`
	Dimensions       string            `gorm:"type:varchar(100)" json:"dimensions"`
	BodyColor        string            `gorm:"type:varchar(100)" json:"body_color"`
	ColorTemperature string            `gorm:"type:varchar(50)" json:"color_temperature"`
	VariantIndex     int               `gorm:"not null" json:"variant_index"`
	PriceType        catalog.PriceType `gorm:"type:varchar(20);not null" json:"price_type"`
	Quantity         int               `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Amount           decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt        time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line snapshot
func NewOrderItem(productID uuid.UUID, productName, image, wattage, dimensions, bodyColor, colorTemperature string,
	variantIndex int, priceType catalog.PriceType, quantity int, unitPrice decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if !priceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRICE_TYPE", "Unknown price type")
	}

	now := time.Now()
	return &OrderItem{
		ID:               uuid.New(),
		ProductID:        productID,
		ProductName:      productName,
		Image:            image,
		Wattage:          wattage,
		Dimensions:       dimensions,
		BodyColor:        bodyColor,
		ColorTemperature: colorTemperature,
		VariantIndex:     variantIndex,
		PriceType:        priceType,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		Amount:           unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Order is the aggregate root for a customer order. Totals are computed
// from the line snapshots at construction and never accepted from callers.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'processing';index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveredAt     *time.Time      `gorm:""`
	CancelledAt     *time.Time      `gorm:""`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in the processing state
func NewOrder(userID uuid.UUID, orderNumber string, items []OrderItem, address ShippingAddress, paymentMethod PaymentMethod) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Order requires a user")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Only cash on delivery is supported")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		ShippingAddress:   address,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     PaymentStatusPending,
		Status:            OrderStatusProcessing,
	}

	for i := range items {
		items[i].OrderID = o.ID
	}
	o.Items = items
	o.recalculateTotals()

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// recalculateTotals rebuilds subtotal, shipping fee and total from the lines
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	o.Subtotal = subtotal
	o.ShippingFee = ComputeShippingFee(subtotal)
	o.TotalAmount = subtotal.Add(o.ShippingFee)
}

// AssignOrderNumber replaces the order number before the first save.
// Used when the generated number collides with a concurrent order.
func (o *Order) AssignOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	o.OrderNumber = orderNumber
	return nil
}

// TransitionTo moves the order to the target status, stamping the terminal
// timestamps. Invalid transitions are a conflict.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	now := time.Now()

	switch target {
	case OrderStatusDelivered:
		o.DeliveredAt = &now
		// COD is collected at the door, delivery settles the payment
		if o.PaymentMethod == PaymentMethodCOD {
			o.PaymentStatus = PaymentStatusCompleted
		}
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}

	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// BelongsTo reports whether the order is owned by the given user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}
