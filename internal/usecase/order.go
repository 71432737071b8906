package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/pricing"
)

const orderIDPrefix = "ord_"

type access int

const (
	accessOwner access = iota
	accessOwnerOrAdmin
	accessAdmin
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders  repository.OrderRepository
	carts   repository.CartRepository
	history repository.PurchaseHistoryRepository
	ledger  *PointsLedger
	uow     repository.UnitOfWork
	events  eventPublisher
	logger  *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	factory repository.Factory,
	uow repository.UnitOfWork,
	ledger *PointsLedger,
	logger *slog.Logger,
) *OrderUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OrderUseCase{
		orders:  factory.Orders(),
		carts:   factory.Carts(),
		history: factory.PurchaseHistory(),
		ledger:  ledger,
		uow:     uow,
		events:  newEventPublisher(factory.Notifications(), logger),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return orderIDPrefix + ulid.Make().String() },
	}
}

// Create places a pending order built from lines and awards loyalty points once it is stored.
// The cart of the user is cleared afterwards. When a post-persist step fails the stored order is
// returned together with an error matching ErrSideEffectFailed.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Actor, lines []model.CartLine, shipping model.ShippingInfo, method model.PaymentMethod) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, domainErrors.EmptyCartError()
	}
	if field := shipping.MissingField(); field != "" {
		return nil, domainErrors.IncompleteShippingInfoError(field)
	}
	if !method.Valid() {
		return nil, domainErrors.NewValidationError("payment_method", fmt.Sprintf("unsupported method %q", method))
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	quote := pricing.Calculate(lines, method)
	now := u.now()
	order := &model.Order{
		ID:               u.newID(),
		UserID:           actor.UserID,
		Status:           model.OrderStatusPending,
		Lines:            append([]model.CartLine(nil), lines...),
		Subtotal:         quote.Subtotal,
		ShippingFee:      quote.ShippingFee,
		PaymentSurcharge: quote.PaymentSurcharge,
		TotalAmount:      quote.Total,
		PaymentMethod:    method,
		Shipping:         shipping,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, domainErrors.Persistence("create order", err)
	}

	return order, u.afterCreate(ctx, order, true)
}

// Checkout places an order from the current cart of the actor.
func (u *OrderUseCase) Checkout(ctx context.Context, actor model.Actor, shipping model.ShippingInfo, method model.PaymentMethod) (*model.Order, error) {
	lines, err := u.carts.Lines(ctx, actor.UserID)
	if err != nil {
		return nil, domainErrors.Persistence("load cart", err)
	}
	return u.Create(ctx, actor, lines, shipping, method)
}

// Get returns order visible to actor.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	order, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, order.UserID, accessOwnerOrAdmin); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByUser returns orders of user, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, domainErrors.Persistence("list orders", err)
	}
	return orders, nil
}

// Cancel cancels an unpaid order, takes back its points and forgets its purchased products.
func (u *OrderUseCase) Cancel(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	order, err := u.transition(ctx, actor, id, model.OrderEventCancel, accessOwnerOrAdmin, nil, nil)
	if err != nil {
		return nil, err
	}

	var failures []error
	if _, err := u.ledger.Reverse(ctx, order.UserID, pricing.PointsFor(order.TotalAmount)); err != nil {
		failures = append(failures, fmt.Errorf("reverse points: %w", err))
	}
	if ids := order.ProductIDs(); len(ids) > 0 {
		if err := u.history.Remove(ctx, order.UserID, ids); err != nil {
			failures = append(failures, fmt.Errorf("remove purchase history: %w", err))
		}
	}

	return order, u.sideEffectError("cancel order", order, failures)
}

// ConfirmDelivery records that the customer received a shipped order.
func (u *OrderUseCase) ConfirmDelivery(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return u.transition(ctx, actor, id, model.OrderEventDeliver, accessOwner, nil, nil)
}

// SubmitPaymentSlip attaches payment evidence and queues the order for verification.
func (u *OrderUseCase) SubmitPaymentSlip(ctx context.Context, actor model.Actor, id, slipRef string) (*model.Order, error) {
	slipRef = strings.TrimSpace(slipRef)
	if slipRef == "" {
		return nil, domainErrors.ErrMissingEvidence
	}
	return u.transition(ctx, actor, id, model.OrderEventSubmitSlip, accessOwner, func(o *model.Order) error {
		o.PaymentSlipRef = slipRef
		return nil
	}, nil)
}

// RejectPaymentSlip sends an order back to pending payment.
func (u *OrderUseCase) RejectPaymentSlip(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return u.transition(ctx, actor, id, model.OrderEventRejectSlip, accessAdmin, func(o *model.Order) error {
		o.PaymentSlipRef = ""
		return nil
	}, nil)
}

// ConfirmPayment marks an order paid. Paying a remainder order settles its parent in the same transaction.
func (u *OrderUseCase) ConfirmPayment(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return u.transition(ctx, actor, id, model.OrderEventConfirmPayment, accessAdmin, nil, u.settleParent)
}

// Ship hands an order to a domestic carrier.
func (u *OrderUseCase) Ship(ctx context.Context, actor model.Actor, id, carrier, trackingNumber string) (*model.Order, error) {
	carrier = strings.TrimSpace(carrier)
	trackingNumber = strings.TrimSpace(trackingNumber)
	if carrier == "" {
		return nil, domainErrors.NewValidationError("carrier", "must not be empty")
	}
	if trackingNumber == "" {
		return nil, domainErrors.NewValidationError("tracking_number", "must not be empty")
	}
	return u.transition(ctx, actor, id, model.OrderEventShip, accessAdmin, func(o *model.Order) error {
		o.Carrier = carrier
		o.TrackingNumber = trackingNumber
		return nil
	}, nil)
}

// MarkArrived records that an imported order reached Thailand and awaits the remainder payment.
func (u *OrderUseCase) MarkArrived(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return u.transition(ctx, actor, id, model.OrderEventMarkArrived, accessAdmin, nil, nil)
}

// RequestRemainderPayment creates the derived order paying what is left for an arrived order.
// The parent order stays untouched until the derived order is confirmed.
func (u *OrderUseCase) RequestRemainderPayment(ctx context.Context, actor model.Actor, id string, option model.PaymentOption) (*model.Order, error) {
	parent, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, parent.UserID, accessOwner); err != nil {
		return nil, err
	}
	if _, err := parent.Status.Next(model.OrderEventSettleRemainder); err != nil {
		var transitionErr *domainErrors.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			transitionErr.Action = "request remaining payment"
		}
		return nil, err
	}

	amount, err := pricing.RemainderAmount(*parent, option)
	if err != nil {
		return nil, err
	}

	now := u.now()
	derived := &model.Order{
		ID:     u.newID(),
		UserID: parent.UserID,
		Status: model.OrderStatusPending,
		Lines: []model.CartLine{{
			Name:      "Remaining payment for " + parent.ID,
			UnitPrice: amount,
			Quantity:  1,
		}},
		Subtotal:           amount,
		ShippingFee:        decimal.Zero,
		PaymentSurcharge:   decimal.Zero,
		TotalAmount:        amount,
		PaymentMethod:      parent.PaymentMethod,
		Shipping:           parent.Shipping,
		IsRemainingPayment: true,
		PaymentOption:      option,
		ParentOrderID:      parent.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = u.uow.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := u.orders.FindRemainder(ctx, parent.ID)
		switch {
		case err == nil && existing != nil:
			return domainErrors.ErrRemainderPending
		case err != nil && !errors.Is(err, domainErrors.ErrNotFound):
			return domainErrors.Persistence("find remainder order", err)
		}
		if err := u.orders.Create(ctx, derived); err != nil {
			if errors.Is(err, domainErrors.ErrAlreadyExists) {
				return domainErrors.ErrRemainderPending
			}
			return domainErrors.Persistence("create remainder order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return derived, u.afterCreate(ctx, derived, false)
}

// createSpawned stores an order built by another workflow, assigning its id and timestamps.
func (u *OrderUseCase) createSpawned(ctx context.Context, order *model.Order) error {
	now := u.now()
	order.ID = u.newID()
	order.CreatedAt = now
	order.UpdatedAt = now
	if err := u.orders.Create(ctx, order); err != nil {
		return domainErrors.Persistence("create order", err)
	}
	return nil
}

// TrackingStage reports the progress bar index of order status.
func (u *OrderUseCase) TrackingStage(status model.OrderStatus) (int, bool) {
	return model.TrackingStage(status)
}

func (u *OrderUseCase) settleParent(ctx context.Context, order *model.Order) (*orderChange, error) {
	if !order.IsRemainingPayment || order.ParentOrderID == "" {
		return nil, nil
	}
	parent, err := u.load(ctx, order.ParentOrderID)
	if err != nil {
		return nil, err
	}
	next, err := parent.Status.Next(model.OrderEventSettleRemainder)
	if err != nil {
		return nil, err
	}
	change := &orderChange{previous: parent.Status, event: model.OrderEventSettleRemainder}
	parent.Status = next
	parent.UpdatedAt = order.UpdatedAt
	if err := u.orders.Update(ctx, parent); err != nil {
		return nil, domainErrors.Persistence("settle parent order", err)
	}
	change.order = *parent
	return change, nil
}

// orderChange is a committed status change waiting to be published.
type orderChange struct {
	order    model.Order
	previous model.OrderStatus
	event    model.OrderEvent
}

// transition loads the order, checks access and the transition table, then saves a mutated copy.
// then runs inside the same transaction after the update. Events are published once the
// transaction has committed.
func (u *OrderUseCase) transition(
	ctx context.Context,
	actor model.Actor,
	id string,
	event model.OrderEvent,
	rule access,
	mutate func(*model.Order) error,
	then func(context.Context, *model.Order) (*orderChange, error),
) (*model.Order, error) {
	if rule == accessAdmin && !actor.IsAdmin() {
		return nil, domainErrors.ErrUnauthorized
	}

	var (
		updated model.Order
		changes []orderChange
	)
	err := u.uow.RunInTx(ctx, func(ctx context.Context) error {
		current, err := u.load(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, current.UserID, rule); err != nil {
			return err
		}
		next, err := current.Status.Next(event)
		if err != nil {
			return err
		}

		updated = current.Clone()
		if mutate != nil {
			if err := mutate(&updated); err != nil {
				return err
			}
		}
		updated.Status = next
		updated.UpdatedAt = u.now()

		if err := u.orders.Update(ctx, &updated); err != nil {
			return domainErrors.Persistence("update order", err)
		}
		changes = append(changes[:0], orderChange{order: updated, previous: current.Status, event: event})
		if then != nil {
			extra, err := then(ctx, &updated)
			if err != nil {
				return err
			}
			if extra != nil {
				changes = append(changes, *extra)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, change := range changes {
		u.publishStatus(ctx, change)
	}
	return &updated, nil
}

func (u *OrderUseCase) load(ctx context.Context, id string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		return nil, domainErrors.Persistence("get order", err)
	}
	return order, nil
}

// afterCreate applies the post-persist effects of a new order.
func (u *OrderUseCase) afterCreate(ctx context.Context, order *model.Order, clearCart bool) error {
	var failures []error
	if _, err := u.ledger.Earn(ctx, order.UserID, pricing.PointsFor(order.TotalAmount)); err != nil {
		failures = append(failures, fmt.Errorf("award points: %w", err))
	}
	if ids := order.ProductIDs(); len(ids) > 0 {
		if err := u.history.Add(ctx, order.UserID, ids); err != nil {
			failures = append(failures, fmt.Errorf("record purchase history: %w", err))
		}
	}
	if clearCart {
		if err := u.carts.Clear(ctx, order.UserID); err != nil {
			failures = append(failures, fmt.Errorf("clear cart: %w", err))
		}
	}

	u.events.publish(ctx, TopicOrderCreated, order.ID, order.UserID, map[string]any{
		"status":       string(order.Status),
		"total_amount": order.TotalAmount.StringFixed(2),
		"remainder":    order.IsRemainingPayment,
	}, order.CreatedAt)

	return u.sideEffectError("create order", order, failures)
}

func (u *OrderUseCase) publishStatus(ctx context.Context, change orderChange) {
	u.events.publish(ctx, TopicOrderStatusChanged, change.order.ID, change.order.UserID, map[string]any{
		"event":           string(change.event),
		"previous_status": string(change.previous),
		"status":          string(change.order.Status),
	}, change.order.UpdatedAt)
}

func (u *OrderUseCase) sideEffectError(op string, order *model.Order, failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	joined := errors.Join(failures...)
	u.logger.Error("order side effects failed",
		slog.String("op", op),
		slog.String("order", order.ID),
		slog.Int64("user", order.UserID),
		slog.String("error", joined.Error()),
	)
	return fmt.Errorf("%s %s: %w: %w", op, order.ID, domainErrors.ErrSideEffectFailed, joined)
}

func validateLines(lines []model.CartLine) error {
	for i, line := range lines {
		if line.Quantity <= 0 {
			return domainErrors.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return domainErrors.NewValidationError(fmt.Sprintf("lines[%d].unit_price", i), "must not be negative")
		}
	}
	return nil
}

func authorize(actor model.Actor, ownerID int64, rule access) error {
	switch rule {
	case accessAdmin:
		if actor.IsAdmin() {
			return nil
		}
	case accessOwnerOrAdmin:
		if actor.IsAdmin() || actor.Owns(ownerID) {
			return nil
		}
	default:
		if actor.Owns(ownerID) {
			return nil
		}
	}
	return domainErrors.ErrUnauthorized
}
