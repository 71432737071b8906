package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/adapter/notify"
	"github.com/polkiloo/storefront/internal/config"
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
	"github.com/polkiloo/storefront/internal/pricing"
	"github.com/polkiloo/storefront/internal/usecase"
)

// FacadeDeps lists the collaborators of StoreFacade.
type FacadeDeps struct {
	fx.In

	Carts    *usecase.CartUseCase
	Orders   *usecase.OrderUseCase
	Requests *usecase.RequestUseCase
	Ledger   *usecase.PointsLedger
	Rates    *pricing.RateTable
	Tokens   pkgAuth.Strategy
	Outbox   repository.NotificationRepository
	Notifier notify.Notifier
	Config   *config.Config
}

// StoreFacade exposes storefront use cases to transports and background workers.
type StoreFacade struct {
	carts       *usecase.CartUseCase
	orders      *usecase.OrderUseCase
	requests    *usecase.RequestUseCase
	ledger      *usecase.PointsLedger
	rates       *pricing.RateTable
	tokens      pkgAuth.Strategy
	outbox      repository.NotificationRepository
	notifier    notify.Notifier
	maxAttempts int
}

func NewStoreFacade(d FacadeDeps) *StoreFacade {
	maxAttempts := 1
	if d.Config != nil && d.Config.NotifyMaxAttempts > 0 {
		maxAttempts = d.Config.NotifyMaxAttempts
	}
	return &StoreFacade{
		carts:       d.Carts,
		orders:      d.Orders,
		requests:    d.Requests,
		ledger:      d.Ledger,
		rates:       d.Rates,
		tokens:      d.Tokens,
		outbox:      d.Outbox,
		notifier:    d.Notifier,
		maxAttempts: maxAttempts,
	}
}

func (f *StoreFacade) ParseToken(token string) (model.Actor, error) {
	return f.tokens.ParseToken(token)
}

func (f *StoreFacade) CartLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return f.carts.Lines(ctx, userID)
}

func (f *StoreFacade) AddToCart(ctx context.Context, userID int64, line model.CartLine) ([]model.CartLine, error) {
	return f.carts.Add(ctx, userID, line)
}

func (f *StoreFacade) RemoveFromCart(ctx context.Context, userID int64, productID string) ([]model.CartLine, error) {
	return f.carts.Remove(ctx, userID, productID)
}

func (f *StoreFacade) ClearCart(ctx context.Context, userID int64) error {
	return f.carts.Clear(ctx, userID)
}

func (f *StoreFacade) CartQuote(ctx context.Context, userID int64, method model.PaymentMethod) (pricing.Quote, error) {
	return f.carts.Quote(ctx, userID, method)
}

func (f *StoreFacade) PurchasedProducts(ctx context.Context, userID int64) ([]string, error) {
	return f.carts.PurchasedProducts(ctx, userID)
}

func (f *StoreFacade) Checkout(ctx context.Context, actor model.Actor, shipping model.ShippingInfo, method model.PaymentMethod) (*model.Order, error) {
	return f.orders.Checkout(ctx, actor, shipping, method)
}

func (f *StoreFacade) PlaceOrder(ctx context.Context, actor model.Actor, lines []model.CartLine, shipping model.ShippingInfo, method model.PaymentMethod) (*model.Order, error) {
	return f.orders.Create(ctx, actor, lines, shipping, method)
}

func (f *StoreFacade) Order(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.orders.Get(ctx, actor, id)
}

func (f *StoreFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *StoreFacade) CancelOrder(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.orders.Cancel(ctx, actor, id)
}

func (f *StoreFacade) ConfirmDelivery(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.orders.ConfirmDelivery(ctx, actor, id)
}

func (f *StoreFacade) SubmitPaymentSlip(ctx context.Context, actor model.Actor, id, slipRef string) (*model.Order, error) {
	return f.orders.SubmitPaymentSlip(ctx, actor, id, slipRef)
}

func (f *StoreFacade) RejectPaymentSlip(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.orders.RejectPaymentSlip(ctx, actor, id)
}

func (f *StoreFacade) ConfirmPayment(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.orders.ConfirmPayment(ctx, actor, id)
}

func (f *StoreFacade) ShipOrder(ctx context.Context, actor model.Actor, id, carrier, trackingNumber string) (*model.Order, error) {
	return f.orders.Ship(ctx, actor, id, carrier, trackingNumber)
}

func (f *StoreFacade) MarkOrderArrived(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.orders.MarkArrived(ctx, actor, id)
}

func (f *StoreFacade) RequestRemainderPayment(ctx context.Context, actor model.Actor, id string, option model.PaymentOption) (*model.Order, error) {
	return f.orders.RequestRemainderPayment(ctx, actor, id, option)
}

func (f *StoreFacade) Points(ctx context.Context, userID int64) (int64, error) {
	return f.ledger.Balance(ctx, userID)
}

func (f *StoreFacade) SubmitRequest(ctx context.Context, actor model.Actor, in usecase.RequestInput) (*model.CustomRequest, error) {
	return f.requests.Submit(ctx, actor, in)
}

func (f *StoreFacade) Request(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error) {
	return f.requests.Get(ctx, actor, id)
}

func (f *StoreFacade) Requests(ctx context.Context, userID int64) ([]model.CustomRequest, error) {
	return f.requests.ListByUser(ctx, userID)
}

func (f *StoreFacade) RequestsByStatus(ctx context.Context, actor model.Actor, status model.RequestStatus) ([]model.CustomRequest, error) {
	return f.requests.ListByStatus(ctx, actor, status)
}

func (f *StoreFacade) ApproveRequest(ctx context.Context, actor model.Actor, id string, shippingCost decimal.Decimal) (*model.CustomRequest, error) {
	return f.requests.Approve(ctx, actor, id, shippingCost)
}

func (f *StoreFacade) RejectRequest(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error) {
	return f.requests.Reject(ctx, actor, id)
}

func (f *StoreFacade) SubmitRequestPayment(ctx context.Context, actor model.Actor, id string, payment usecase.PaymentSubmission) (*model.CustomRequest, error) {
	return f.requests.SubmitPayment(ctx, actor, id, payment)
}

func (f *StoreFacade) VerifyRequestPayment(ctx context.Context, actor model.Actor, id string, accept bool, note string) (*model.CustomRequest, error) {
	return f.requests.VerifyPayment(ctx, actor, id, accept, note)
}

func (f *StoreFacade) MarkRequestArrived(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error) {
	return f.requests.MarkArrived(ctx, actor, id)
}

func (f *StoreFacade) MarkRequestShipping(ctx context.Context, actor model.Actor, id, trackingNumber string) (*model.CustomRequest, error) {
	return f.requests.MarkShipping(ctx, actor, id, trackingNumber)
}

func (f *StoreFacade) CompleteRequest(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error) {
	return f.requests.Complete(ctx, actor, id)
}

func (f *StoreFacade) AnnotateRequest(ctx context.Context, actor model.Actor, id, note string) (*model.CustomRequest, error) {
	return f.requests.Annotate(ctx, actor, id, note)
}

func (f *StoreFacade) SpawnRequestOrder(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.requests.SpawnOrder(ctx, actor, id)
}

// EstimateRequest previews the THB estimate of a custom request before it is submitted.
func (f *StoreFacade) EstimateRequest(region model.Region, foreignUnitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	foreignUnitPrice = pricing.Money(foreignUnitPrice)
	if !foreignUnitPrice.IsPositive() {
		return decimal.Zero, domainErrors.NewValidationError("foreign_unit_price", "must be positive")
	}
	if quantity <= 0 {
		return decimal.Zero, domainErrors.NewValidationError("quantity", "must be positive")
	}
	return f.rates.Estimate(model.Region(strings.ToUpper(string(region))), foreignUnitPrice, quantity)
}

func (f *StoreFacade) PendingNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	return f.outbox.SelectBatchForDelivery(ctx, limit)
}

func (f *StoreFacade) DeliverNotification(ctx context.Context, n model.Notification) error {
	return f.notifier.Deliver(ctx, n)
}

func (f *StoreFacade) MarkNotificationDelivered(ctx context.Context, id string) error {
	return f.outbox.MarkDelivered(ctx, id)
}

func (f *StoreFacade) MarkNotificationFailed(ctx context.Context, id string) error {
	return f.outbox.MarkFailed(ctx, id, f.maxAttempts)
}
