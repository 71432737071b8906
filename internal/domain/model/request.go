package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Region is the sourcing market of a custom request; it selects the FX rate.
type Region string

const (
	RegionUS Region = "US"
	RegionJP Region = "JP"
	RegionCN Region = "CN"
	RegionKR Region = "KR"
)

// RequestStatus describes the sourcing pipeline of a custom request.
type RequestStatus string

const (
	RequestStatusPending             RequestStatus = "pending"
	RequestStatusRejected            RequestStatus = "rejected"
	RequestStatusPaymentPending      RequestStatus = "payment_pending"
	RequestStatusPaymentVerification RequestStatus = "payment_verification"
	RequestStatusOrdered             RequestStatus = "ordered"
	RequestStatusArrivedTH           RequestStatus = "arrived_th"
	RequestStatusShipping            RequestStatus = "shipping"
	RequestStatusCompleted           RequestStatus = "completed"
)

// CustomRequest is a user request to source and import an item from abroad.
type CustomRequest struct {
	ID               string
	UserID           int64
	ProductName      string
	SourceURL        string
	Details          string
	Region           Region
	ForeignUnitPrice decimal.Decimal
	Quantity         int
	ShippingCost     decimal.NullDecimal
	EstimatedTotal   decimal.Decimal
	Status           RequestStatus
	AdminNotes       string
	PaymentSlipRef   string
	PaymentDate      string
	PaymentTime      string
	ShippingAddress  string
	TrackingNumber   string
	OrderID          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
