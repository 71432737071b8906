package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfillment lifecycle of a purchase.
type OrderStatus string

const (
	OrderStatusPending             OrderStatus = "pending"
	OrderStatusPendingVerification OrderStatus = "pending_verification"
	OrderStatusConfirmed           OrderStatus = "confirmed"
	OrderStatusShipped             OrderStatus = "shipped"
	OrderStatusArrivedTH           OrderStatus = "arrived_th"
	OrderStatusDelivered           OrderStatus = "delivered"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

// PaymentOption selects what a remainder payment covers.
type PaymentOption string

const (
	PaymentOptionFull         PaymentOption = "full"
	PaymentOptionShippingOnly PaymentOption = "shipping_only"
)

// Valid reports whether the option is supported.
func (o PaymentOption) Valid() bool {
	return o == PaymentOptionFull || o == PaymentOptionShippingOnly
}

// Order describes a purchase placed from a cart.
type Order struct {
	ID                 string
	UserID             int64
	Status             OrderStatus
	Lines              []CartLine
	Subtotal           decimal.Decimal
	ShippingFee        decimal.Decimal
	PaymentSurcharge   decimal.Decimal
	TotalAmount        decimal.Decimal
	PaymentMethod      PaymentMethod
	Shipping           ShippingInfo
	Carrier            string
	TrackingNumber     string
	PaymentSlipRef     string
	IsRemainingPayment bool
	PaymentOption      PaymentOption
	ParentOrderID      string
	CustomRequestID    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Clone returns a copy safe to mutate without touching the receiver.
func (o Order) Clone() Order {
	o.Lines = slices.Clone(o.Lines)
	return o
}

// ProductIDs lists product identifiers of order lines in order of appearance.
func (o Order) ProductIDs() []string {
	ids := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		if line.ProductID == "" || slices.Contains(ids, line.ProductID) {
			continue
		}
		ids = append(ids, line.ProductID)
	}
	return ids
}
