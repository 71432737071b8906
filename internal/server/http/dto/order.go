package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// CheckoutRequest places an order. Without lines the current cart is checked out.
type CheckoutRequest struct {
	Shipping      model.ShippingInfo `json:"shipping"`
	PaymentMethod string             `json:"payment_method"`
	Lines         []CartLineRequest  `json:"lines,omitempty"`
}

// SlipRequest carries the payment slip reference of an order.
type SlipRequest struct {
	SlipRef string `json:"slip_ref"`
}

// ShipRequest hands an order to a carrier.
type ShipRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// RemainderRequest selects how the remaining payment is computed.
type RemainderRequest struct {
	Option string `json:"option"`
}

// TrackingResponse describes where an order is on the progress bar.
type TrackingResponse struct {
	Stage   int    `json:"stage"`
	Visible bool   `json:"visible"`
	Link    string `json:"link,omitempty"`
}

// OrderResponse represents an order.
type OrderResponse struct {
	ID                 string             `json:"id"`
	Status             string             `json:"status"`
	Lines              []model.CartLine   `json:"lines"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	ShippingFee        decimal.Decimal    `json:"shipping_fee"`
	PaymentSurcharge   decimal.Decimal    `json:"payment_surcharge"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	PaymentMethod      string             `json:"payment_method"`
	Shipping           model.ShippingInfo `json:"shipping"`
	Carrier            string             `json:"carrier,omitempty"`
	TrackingNumber     string             `json:"tracking_number,omitempty"`
	PaymentSlipRef     string             `json:"payment_slip_ref,omitempty"`
	IsRemainingPayment bool               `json:"is_remaining_payment"`
	PaymentOption      string             `json:"payment_option,omitempty"`
	ParentOrderID      string             `json:"parent_order_id,omitempty"`
	CustomRequestID    string             `json:"custom_request_id,omitempty"`
	Tracking           TrackingResponse   `json:"tracking"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
