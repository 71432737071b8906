package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/pricing"
)

const (
	requestIDPrefix = "req_"

	paymentDateLayout = "2006-01-02"
	paymentTimeLayout = "15:04"
)

// RequestInput carries a new custom request as submitted by a customer.
type RequestInput struct {
	ProductName      string
	SourceURL        string
	Details          string
	Region           model.Region
	ForeignUnitPrice decimal.Decimal
	Quantity         int
}

// PaymentSubmission is the payment evidence sent for an approved request.
type PaymentSubmission struct {
	SlipRef string
	Date    string
	Time    string
	Address string
}

// RequestUseCase drives custom requests through quoting, payment and import.
type RequestUseCase struct {
	requests repository.RequestRepository
	orders   *OrderUseCase
	rates    *pricing.RateTable
	uow      repository.UnitOfWork
	events   eventPublisher

	now   func() time.Time
	newID func() string
}

// NewRequestUseCase constructs RequestUseCase.
func NewRequestUseCase(
	factory repository.Factory,
	uow repository.UnitOfWork,
	rates *pricing.RateTable,
	orders *OrderUseCase,
	logger *slog.Logger,
) *RequestUseCase {
	return &RequestUseCase{
		requests: factory.Requests(),
		orders:   orders,
		rates:    rates,
		uow:      uow,
		events:   newEventPublisher(factory.Notifications(), logger),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return requestIDPrefix + ulid.Make().String() },
	}
}

// Submit validates and stores a new request with its estimated total.
func (u *RequestUseCase) Submit(ctx context.Context, actor model.Actor, in RequestInput) (*model.CustomRequest, error) {
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return nil, domainErrors.NewValidationError("product_name", "must not be empty")
	}
	if err := validateSourceURL(in.SourceURL); err != nil {
		return nil, err
	}
	price := pricing.Money(in.ForeignUnitPrice)
	if !price.IsPositive() {
		return nil, domainErrors.NewValidationError("foreign_unit_price", "must be positive")
	}
	if in.Quantity <= 0 {
		return nil, domainErrors.NewValidationError("quantity", "must be positive")
	}

	region := model.Region(strings.ToUpper(strings.TrimSpace(string(in.Region))))
	estimate, err := u.rates.Estimate(region, price, in.Quantity)
	if err != nil {
		return nil, err
	}

	now := u.now()
	req := &model.CustomRequest{
		ID:               u.newID(),
		UserID:           actor.UserID,
		ProductName:      name,
		SourceURL:        strings.TrimSpace(in.SourceURL),
		Details:          strings.TrimSpace(in.Details),
		Region:           region,
		ForeignUnitPrice: price,
		Quantity:         in.Quantity,
		EstimatedTotal:   estimate,
		Status:           model.RequestStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := u.requests.Create(ctx, req); err != nil {
		return nil, domainErrors.Persistence("create custom request", err)
	}

	u.events.publish(ctx, TopicRequestCreated, req.ID, req.UserID, map[string]any{
		"status":          string(req.Status),
		"estimated_total": req.EstimatedTotal.StringFixed(2),
	}, now)
	return req, nil
}

// Approve quotes the shipping cost and asks the customer to pay.
func (u *RequestUseCase) Approve(ctx context.Context, actor model.Actor, id string, shippingCost decimal.Decimal) (*model.CustomRequest, error) {
	shippingCost = pricing.Money(shippingCost)
	if shippingCost.IsNegative() {
		return nil, domainErrors.NewValidationError("shipping_cost", "must not be negative")
	}
	return u.transition(ctx, actor, id, model.RequestActionApprove, accessAdmin, func(r *model.CustomRequest) {
		r.ShippingCost = decimal.NewNullDecimal(shippingCost)
	})
}

// Reject declines a pending request.
func (u *RequestUseCase) Reject(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error) {
	return u.transition(ctx, actor, id, model.RequestActionReject, accessAdmin, nil)
}

// SubmitPayment attaches payment evidence for verification. Without a slip the request is left as is.
func (u *RequestUseCase) SubmitPayment(ctx context.Context, actor model.Actor, id string, payment PaymentSubmission) (*model.CustomRequest, error) {
	payment.SlipRef = strings.TrimSpace(payment.SlipRef)
	if payment.SlipRef == "" {
		return nil, domainErrors.ErrMissingEvidence
	}
	if _, err := time.Parse(paymentDateLayout, payment.Date); err != nil {
		return nil, domainErrors.NewValidationError("payment_date", "must be YYYY-MM-DD")
	}
	if _, err := time.Parse(paymentTimeLayout, payment.Time); err != nil {
		return nil, domainErrors.NewValidationError("payment_time", "must be HH:MM")
	}
	address := strings.TrimSpace(payment.Address)
	if address == "" {
		return nil, domainErrors.NewValidationError("shipping_address", "must not be empty")
	}

	return u.transition(ctx, actor, id, model.RequestActionSubmitPayment, accessOwner, func(r *model.CustomRequest) {
		r.PaymentSlipRef = payment.SlipRef
		r.PaymentDate = payment.Date
		r.PaymentTime = payment.Time
		r.ShippingAddress = address
	})
}

// VerifyPayment accepts or rejects submitted payment evidence. A rejection note replaces admin notes.
func (u *RequestUseCase) VerifyPayment(ctx context.Context, actor model.Actor, id string, accept bool, note string) (*model.CustomRequest, error) {
	note = strings.TrimSpace(note)
	if accept {
		return u.transition(ctx, actor, id, model.RequestActionAcceptPayment, accessAdmin, func(r *model.CustomRequest) {
			if note != "" {
				r.AdminNotes = note
			}
		})
	}
	return u.transition(ctx, actor, id, model.RequestActionRejectPayment, accessAdmin, func(r *model.CustomRequest) {
		r.AdminNotes = note
	})
}

// MarkArrived records that the item reached Thailand.
func (u *RequestUseCase) MarkArrived(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error) {
	return u.transition(ctx, actor, id, model.RequestActionMarkArrived, accessAdmin, nil)
}

// MarkShipping moves the request to domestic shipping. Repeating it only updates the tracking number.
func (u *RequestUseCase) MarkShipping(ctx context.Context, actor model.Actor, id, trackingNumber string) (*model.CustomRequest, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	return u.transition(ctx, actor, id, model.RequestActionMarkShipping, accessAdmin, func(r *model.CustomRequest) {
		if trackingNumber != "" {
			r.TrackingNumber = trackingNumber
		}
	})
}

// Complete closes a delivered request.
func (u *RequestUseCase) Complete(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error) {
	return u.transition(ctx, actor, id, model.RequestActionComplete, accessAdmin, nil)
}

// Annotate overwrites admin notes of a request that is still in progress.
func (u *RequestUseCase) Annotate(ctx context.Context, actor model.Actor, id, note string) (*model.CustomRequest, error) {
	if !actor.IsAdmin() {
		return nil, domainErrors.ErrUnauthorized
	}

	var updated model.CustomRequest
	err := u.uow.RunInTx(ctx, func(ctx context.Context) error {
		current, err := u.load(ctx, id)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return &domainErrors.InvalidTransitionError{Entity: "custom request", Action: "annotate", From: string(current.Status)}
		}
		updated = *current
		updated.AdminNotes = strings.TrimSpace(note)
		updated.UpdatedAt = u.now()
		if err := u.requests.Update(ctx, &updated); err != nil {
			return domainErrors.Persistence("update custom request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.publish(ctx, TopicRequestUpdated, updated.ID, updated.UserID, map[string]any{
		"status": string(updated.Status),
	}, updated.UpdatedAt)
	return &updated, nil
}

// SpawnOrder turns a procured request into a pending store order. Each request spawns at most one order.
func (u *RequestUseCase) SpawnOrder(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	if !actor.IsAdmin() {
		return nil, domainErrors.ErrUnauthorized
	}

	var order *model.Order
	err := u.uow.RunInTx(ctx, func(ctx context.Context) error {
		req, err := u.load(ctx, id)
		if err != nil {
			return err
		}
		if !req.Status.Procured() {
			return &domainErrors.InvalidTransitionError{Entity: "custom request", Action: "spawn order", From: string(req.Status)}
		}
		if req.OrderID != "" {
			return fmt.Errorf("custom request %s already has order %s: %w", req.ID, req.OrderID, domainErrors.ErrAlreadyExists)
		}

		order, err = u.orderFromRequest(req)
		if err != nil {
			return err
		}
		if err := u.orders.createSpawned(ctx, order); err != nil {
			return err
		}

		req.OrderID = order.ID
		req.UpdatedAt = order.CreatedAt
		if err := u.requests.Update(ctx, req); err != nil {
			return domainErrors.Persistence("update custom request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.publish(ctx, TopicRequestOrderGenerated, id, order.UserID, map[string]any{
		"order_id": order.ID,
	}, order.CreatedAt)
	return order, u.orders.afterCreate(ctx, order, false)
}

// Get returns request visible to actor.
func (u *RequestUseCase) Get(ctx context.Context, actor model.Actor, id string) (*model.CustomRequest, error) {
	req, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, req.UserID, accessOwnerOrAdmin); err != nil {
		return nil, err
	}
	return req, nil
}

// ListByUser returns requests of user, newest first.
func (u *RequestUseCase) ListByUser(ctx context.Context, userID int64) ([]model.CustomRequest, error) {
	requests, err := u.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, domainErrors.Persistence("list custom requests", err)
	}
	return requests, nil
}

// ListByStatus returns requests in status for the admin queue; empty status lists every request.
func (u *RequestUseCase) ListByStatus(ctx context.Context, actor model.Actor, status model.RequestStatus) ([]model.CustomRequest, error) {
	if !actor.IsAdmin() {
		return nil, domainErrors.ErrUnauthorized
	}
	if status != "" && !status.Valid() {
		return nil, domainErrors.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	requests, err := u.requests.ListByStatus(ctx, status)
	if err != nil {
		return nil, domainErrors.Persistence("list custom requests", err)
	}
	return requests, nil
}

func (u *RequestUseCase) transition(
	ctx context.Context,
	actor model.Actor,
	id string,
	action model.RequestAction,
	rule access,
	mutate func(*model.CustomRequest),
) (*model.CustomRequest, error) {
	if rule == accessAdmin && !actor.IsAdmin() {
		return nil, domainErrors.ErrUnauthorized
	}

	var (
		updated  model.CustomRequest
		previous model.RequestStatus
	)
	err := u.uow.RunInTx(ctx, func(ctx context.Context) error {
		current, err := u.load(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, current.UserID, rule); err != nil {
			return err
		}
		next, err := current.Status.Next(action)
		if err != nil {
			return err
		}

		previous = current.Status
		updated = *current
		if mutate != nil {
			mutate(&updated)
		}
		updated.Status = next
		updated.UpdatedAt = u.now()

		if err := u.requests.Update(ctx, &updated); err != nil {
			return domainErrors.Persistence("update custom request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.publish(ctx, TopicRequestStatusChanged, updated.ID, updated.UserID, map[string]any{
		"action":          string(action),
		"previous_status": string(previous),
		"status":          string(updated.Status),
	}, updated.UpdatedAt)
	return &updated, nil
}

func (u *RequestUseCase) load(ctx context.Context, id string) (*model.CustomRequest, error) {
	req, err := u.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		return nil, domainErrors.Persistence("get custom request", err)
	}
	return req, nil
}

// orderFromRequest prices the spawned order in THB at the current rate of the request region.
func (u *RequestUseCase) orderFromRequest(req *model.CustomRequest) (*model.Order, error) {
	unitPrice, err := u.rates.Convert(req.Region, req.ForeignUnitPrice)
	if err != nil {
		return nil, err
	}
	line := model.CartLine{
		Name:       req.ProductName,
		UnitPrice:  unitPrice,
		Quantity:   req.Quantity,
		IsPreorder: true,
	}
	shippingFee := decimal.Zero
	if req.ShippingCost.Valid {
		shippingFee = req.ShippingCost.Decimal
	}
	subtotal := line.LineTotal()

	return &model.Order{
		UserID:           req.UserID,
		Status:           model.OrderStatusPending,
		Lines:            []model.CartLine{line},
		Subtotal:         subtotal,
		ShippingFee:      shippingFee,
		PaymentSurcharge: decimal.Zero,
		TotalAmount:      subtotal.Add(shippingFee),
		PaymentMethod:    model.PaymentMethodBank,
		Shipping:         model.ShippingInfo{Address: req.ShippingAddress},
		CustomRequestID:  req.ID,
	}, nil
}

func validateSourceURL(raw string) error {
	raw = strings.TrimSpace(raw)
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return domainErrors.NewValidationError("source_url", "must be an absolute http or https URL")
	}
	return nil
}
