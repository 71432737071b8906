package model

import (
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

// RequestAction names an action applied to a custom request.
type RequestAction string

const (
	RequestActionApprove       RequestAction = "approve"
	RequestActionReject        RequestAction = "reject"
	RequestActionSubmitPayment RequestAction = "submit_payment"
	RequestActionAcceptPayment RequestAction = "accept_payment"
	RequestActionRejectPayment RequestAction = "reject_payment"
	RequestActionMarkArrived   RequestAction = "mark_arrived"
	RequestActionMarkShipping  RequestAction = "mark_shipping"
	RequestActionComplete      RequestAction = "complete"
)

// requestActionTargets is the status each action aims for, used in error reports.
var requestActionTargets = map[RequestAction]RequestStatus{
	RequestActionApprove:       RequestStatusPaymentPending,
	RequestActionReject:        RequestStatusRejected,
	RequestActionSubmitPayment: RequestStatusPaymentVerification,
	RequestActionAcceptPayment: RequestStatusOrdered,
	RequestActionRejectPayment: RequestStatusPaymentPending,
	RequestActionMarkArrived:   RequestStatusArrivedTH,
	RequestActionMarkShipping:  RequestStatusShipping,
	RequestActionComplete:      RequestStatusCompleted,
}

var requestTransitions = map[RequestStatus]map[RequestAction]RequestStatus{
	RequestStatusPending: {
		RequestActionApprove: RequestStatusPaymentPending,
		RequestActionReject:  RequestStatusRejected,
	},
	RequestStatusPaymentPending: {
		RequestActionSubmitPayment: RequestStatusPaymentVerification,
	},
	RequestStatusPaymentVerification: {
		RequestActionAcceptPayment: RequestStatusOrdered,
		RequestActionRejectPayment: RequestStatusPaymentPending,
	},
	RequestStatusOrdered: {
		RequestActionMarkArrived:  RequestStatusArrivedTH,
		RequestActionMarkShipping: RequestStatusShipping,
	},
	RequestStatusArrivedTH: {
		RequestActionMarkShipping: RequestStatusShipping,
	},
	// shipping -> shipping is the tracking number update.
	RequestStatusShipping: {
		RequestActionMarkShipping: RequestStatusShipping,
		RequestActionComplete:     RequestStatusCompleted,
	},
	RequestStatusRejected:  {},
	RequestStatusCompleted: {},
}

// RequestStatuses lists every custom request status.
func RequestStatuses() []RequestStatus {
	return []RequestStatus{
		RequestStatusPending,
		RequestStatusRejected,
		RequestStatusPaymentPending,
		RequestStatusPaymentVerification,
		RequestStatusOrdered,
		RequestStatusArrivedTH,
		RequestStatusShipping,
		RequestStatusCompleted,
	}
}

// RequestActions lists every status-changing action.
func RequestActions() []RequestAction {
	return []RequestAction{
		RequestActionApprove,
		RequestActionReject,
		RequestActionSubmitPayment,
		RequestActionAcceptPayment,
		RequestActionRejectPayment,
		RequestActionMarkArrived,
		RequestActionMarkShipping,
		RequestActionComplete,
	}
}

// Next resolves the status reached by applying action from s.
func (s RequestStatus) Next(action RequestAction) (RequestStatus, error) {
	if next, ok := requestTransitions[s][action]; ok {
		return next, nil
	}
	return "", &domainErrors.InvalidTransitionError{
		Entity: "custom request",
		Action: string(action),
		From:   string(s),
		To:     string(requestActionTargets[action]),
	}
}

// IsTerminal reports whether no action leaves s.
func (s RequestStatus) IsTerminal() bool {
	next, ok := requestTransitions[s]
	return ok && len(next) == 0
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	_, ok := requestTransitions[s]
	return ok
}

// Procured reports whether payment was verified and the item is being sourced or delivered.
func (s RequestStatus) Procured() bool {
	switch s {
	case RequestStatusOrdered, RequestStatusArrivedTH, RequestStatusShipping, RequestStatusCompleted:
		return true
	}
	return false
}
