package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomRequestCreate is the payload of a new custom request.
type CustomRequestCreate struct {
	ProductName      string          `json:"product_name"`
	SourceURL        string          `json:"source_url"`
	Details          string          `json:"details"`
	Region           string          `json:"region"`
	ForeignUnitPrice decimal.Decimal `json:"foreign_unit_price"`
	Quantity         int             `json:"quantity"`
}

// RequestPayment carries payment evidence for an approved request.
type RequestPayment struct {
	SlipRef string `json:"slip_ref"`
	Date    string `json:"payment_date"`
	Time    string `json:"payment_time"`
	Address string `json:"shipping_address"`
}

// ApproveRequest quotes the shipping cost of a request.
type ApproveRequest struct {
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

// VerifyPaymentRequest accepts or rejects request payment evidence.
type VerifyPaymentRequest struct {
	Accept bool   `json:"accept"`
	Note   string `json:"note"`
}

// TrackingNumberRequest sets the domestic tracking number.
type TrackingNumberRequest struct {
	TrackingNumber string `json:"tracking_number"`
}

// NoteRequest replaces admin notes.
type NoteRequest struct {
	Note string `json:"note"`
}

// CustomRequestResponse represents a custom request.
type CustomRequestResponse struct {
	ID               string              `json:"id"`
	UserID           int64               `json:"user_id"`
	ProductName      string              `json:"product_name"`
	SourceURL        string              `json:"source_url"`
	Details          string              `json:"details,omitempty"`
	Region           string              `json:"region"`
	ForeignUnitPrice decimal.Decimal     `json:"foreign_unit_price"`
	Quantity         int                 `json:"quantity"`
	ShippingCost     decimal.NullDecimal `json:"shipping_cost"`
	EstimatedTotal   decimal.Decimal     `json:"estimated_total"`
	Status           string              `json:"status"`
	AdminNotes       string              `json:"admin_notes,omitempty"`
	PaymentSlipRef   string              `json:"payment_slip_ref,omitempty"`
	PaymentDate      string              `json:"payment_date,omitempty"`
	PaymentTime      string              `json:"payment_time,omitempty"`
	ShippingAddress  string              `json:"shipping_address,omitempty"`
	TrackingNumber   string              `json:"tracking_number,omitempty"`
	OrderID          string              `json:"order_id,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// EstimateRequest previews the THB price of a custom request.
type EstimateRequest struct {
	Region           string          `json:"region"`
	ForeignUnitPrice decimal.Decimal `json:"foreign_unit_price"`
	Quantity         int             `json:"quantity"`
}

// EstimateResponse is the previewed THB estimate.
type EstimateResponse struct {
	Region         string          `json:"region"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
}
