package model

import (
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

// OrderEvent names an action applied to an order.
type OrderEvent string

const (
	OrderEventSubmitSlip      OrderEvent = "submit_slip"
	OrderEventRejectSlip      OrderEvent = "reject_slip"
	OrderEventConfirmPayment  OrderEvent = "confirm_payment"
	OrderEventCancel          OrderEvent = "cancel"
	OrderEventShip            OrderEvent = "ship"
	OrderEventMarkArrived     OrderEvent = "mark_arrived"
	OrderEventDeliver         OrderEvent = "deliver"
	OrderEventSettleRemainder OrderEvent = "settle_remainder"
)

var orderTransitions = map[OrderStatus]map[OrderEvent]OrderStatus{
	OrderStatusPending: {
		OrderEventSubmitSlip:     OrderStatusPendingVerification,
		OrderEventConfirmPayment: OrderStatusConfirmed,
		OrderEventCancel:         OrderStatusCancelled,
	},
	OrderStatusPendingVerification: {
		OrderEventRejectSlip:     OrderStatusPending,
		OrderEventConfirmPayment: OrderStatusConfirmed,
		OrderEventCancel:         OrderStatusCancelled,
	},
	OrderStatusConfirmed: {
		OrderEventShip: OrderStatusShipped,
	},
	OrderStatusShipped: {
		OrderEventMarkArrived: OrderStatusArrivedTH,
		OrderEventDeliver:     OrderStatusDelivered,
	},
	OrderStatusArrivedTH: {
		OrderEventSettleRemainder: OrderStatusConfirmed,
	},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// OrderStatuses lists every order status.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusPendingVerification,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusArrivedTH,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// Next resolves the status reached by applying event from s.
func (s OrderStatus) Next(event OrderEvent) (OrderStatus, error) {
	if next, ok := orderTransitions[s][event]; ok {
		return next, nil
	}
	return "", &domainErrors.InvalidTransitionError{Entity: "order", Action: string(event), From: string(s)}
}

// IsTerminal reports whether no event leaves s.
func (s OrderStatus) IsTerminal() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

// AwaitingPayment reports whether an order in s has not been paid yet.
func (s OrderStatus) AwaitingPayment() bool {
	return s == OrderStatusPending || s == OrderStatusPendingVerification
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// trackingStages is the progress bar order shown to customers.
var trackingStages = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// TrackingStage maps status to its progress bar index. Cancelled orders have no stage.
func TrackingStage(s OrderStatus) (int, bool) {
	switch s {
	case OrderStatusPendingVerification:
		s = OrderStatusPending
	case OrderStatusArrivedTH:
		s = OrderStatusShipped
	}
	for i, stage := range trackingStages {
		if stage == s {
			return i, true
		}
	}
	return 0, false
}
