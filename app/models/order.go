package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled,
}

type ShippingStatus string

const (
	ShippingPending    ShippingStatus = "pending"
	ShippingProcessing ShippingStatus = "processing"
	ShippingShipped    ShippingStatus = "shipped"
	ShippingDelivered  ShippingStatus = "delivered"
	ShippingCancelled  ShippingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderItem is the priced snapshot of a painting at checkout time.
type OrderItem struct {
	PaintingID string `bson:"paintingId" json:"paintingId"`
	Title      string `bson:"title" json:"title"`
	ImageURL   string `bson:"imageUrl" json:"imageUrl"`
	UnitPrice  int64  `bson:"unitPrice" json:"unitPrice"`
	Quantity   int    `bson:"quantity" json:"quantity"`
	LineTotal  int64  `bson:"lineTotal" json:"lineTotal"`
}

type ShippingInfo struct {
	FullName   string `bson:"fullName" json:"fullName" validate:"required,max=120"`
	Email      string `bson:"email" json:"email" validate:"required,email"`
	Phone      string `bson:"phone" json:"phone" validate:"required,phone"`
	Address    string `bson:"address" json:"address" validate:"required,max=255"`
	City       string `bson:"city" json:"city" validate:"required,max=100"`
	Region     string `bson:"region" json:"region" validate:"required,max=100"`
	PostalCode string `bson:"postalCode" json:"postalCode" validate:"nullable,max=20"`
	Notes      string `bson:"notes" json:"notes" validate:"nullable,max=500"`
}

type PaymentInfo struct {
	Method        string        `bson:"method" json:"method" validate:"required,in=transfer,card,cash"`
	Status        PaymentStatus `bson:"status" json:"status"`
	TransactionID string        `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}

type Order struct {
	Base           `bson:",inline"`
	OrderNumber    string         `gorm:"size:32;uniqueIndex;not null" bson:"orderNumber" json:"orderNumber"`
	CustomerID     string         `gorm:"size:36;index" bson:"customerId,omitempty" json:"customerId,omitempty"`
	Items          []OrderItem    `gorm:"serializer:json" bson:"items" json:"items"`
	Subtotal       int64          `bson:"subtotal" json:"subtotal"`
	ShippingCost   int64          `bson:"shippingCost" json:"shippingCost"`
	Discount       int64          `bson:"discount" json:"discount"`
	Total          int64          `bson:"total" json:"total"`
	CouponCode     string         `gorm:"size:64" bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	CouponID       string         `gorm:"size:36" bson:"couponId,omitempty" json:"couponId,omitempty"`
	ShippingInfo   ShippingInfo   `gorm:"serializer:json" bson:"shippingInfo" json:"shippingInfo"`
	PaymentInfo    PaymentInfo    `gorm:"serializer:json" bson:"paymentInfo" json:"paymentInfo"`
	Status         OrderStatus    `gorm:"size:20;index" bson:"status" json:"status"`
	ShippingStatus ShippingStatus `gorm:"size:20" bson:"shippingStatus" json:"shippingStatus"`
	TrackingNumber string         `gorm:"size:100" bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
}

func ValidOrderStatus(s OrderStatus) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ValidShippingStatus(s ShippingStatus) bool {
	switch s {
	case ShippingPending, ShippingProcessing, ShippingShipped, ShippingDelivered, ShippingCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status        OrderStatus
	CustomerID    string
	CreatedBefore time.Time
	Page          Page
}

// OrderStats backs the admin dashboard.
type OrderStats struct {
	ByStatus            map[OrderStatus]int64 `json:"byStatus"`
	Revenue             int64                 `json:"revenue"`
	PendingCustomOrders int64                 `json:"pendingCustomOrders"`
	LowStockPaintings   int64                 `json:"lowStockPaintings"`
}
