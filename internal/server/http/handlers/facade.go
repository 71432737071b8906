package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/pricing"
	"github.com/polkiloo/storefront/internal/usecase"
)

// SessionFacade resolves tokens issued by the auth service.
type SessionFacade interface {
	ParseToken(token string) (model.Actor, error)
}

// CartFacade encapsulates cart operations exposed via HTTP.
type CartFacade interface {
	CartLines(ctx context.Context, userID int64) ([]model.CartLine, error)
	AddToCart(ctx context.Context, userID int64, line model.CartLine) ([]model.CartLine, error)
	RemoveFromCart(ctx context.Context, userID int64, productID string) ([]model.CartLine, error)
	ClearCart(ctx context.Context, userID int64) error
	CartQuote(ctx context.Context, userID int64, method model.PaymentMethod) (pricing.Quote, error)
	PurchasedProducts(ctx context.Context, userID int64) ([]string, error)
	Points(ctx context.Context, userID int64) (int64, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, actor model.Actor, shipping model.ShippingInfo, method model.PaymentMethod) (*model.Order, error)
	PlaceOrder(ctx context.Context, actor model.Actor, lines []model.CartLine, shipping model.ShippingInfo, method model.PaymentMethod) (*model.Order, error)
	Order(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	CancelOrder(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	ConfirmDelivery(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	SubmitPaymentSlip(ctx context.Context, actor model.Actor, id, slipRef string) (*model.Order, error)
	RejectPaymentSlip(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	ConfirmPayment(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	ShipOrder(ctx context.Context, actor model.Actor, id, carrier, trackingNumber string) (*model.Order, error)
	MarkOrderArrived(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	RequestRemainderPayment(ctx context.Context, actor model.Actor, id string, option model.PaymentOption) (*model.Order, error)
}

// RequestFacade encapsulates custom request operations exposed via HTTP.
type RequestFacade interface {
	SubmitRequest(ctx context.Context, actor model.Actor, in usecase.RequestInput) (*model.CustomRequest, error)
	Request(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error)
	Requests(ctx context.Context, userID int64) ([]model.CustomRequest, error)
	RequestsByStatus(ctx context.Context, actor model.Actor, status model.RequestStatus) ([]model.CustomRequest, error)
	ApproveRequest(ctx context.Context, actor model.Actor, id string, shippingCost decimal.Decimal) (*model.CustomRequest, error)
	RejectRequest(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error)
	SubmitRequestPayment(ctx context.Context, actor model.Actor, id string, payment usecase.PaymentSubmission) (*model.CustomRequest, error)
	VerifyRequestPayment(ctx context.Context, actor model.Actor, id string, accept bool, note string) (*model.CustomRequest, error)
	MarkRequestArrived(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error)
	MarkRequestShipping(ctx context.Context, actor model.Actor, id, trackingNumber string) (*model.CustomRequest, error)
	CompleteRequest(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error)
	AnnotateRequest(ctx context.Context, actor model.Actor, id, note string) (*model.CustomRequest, error)
	SpawnRequestOrder(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	EstimateRequest(region model.Region, foreignUnitPrice decimal.Decimal, quantity int) (decimal.Decimal, error)
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	SessionFacade
	CartFacade
	OrderFacade
	RequestFacade
}
