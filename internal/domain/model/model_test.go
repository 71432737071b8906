package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"pending", OrderStatusPending, "pending"},
		{"pending verification", OrderStatusPendingVerification, "pending_verification"},
		{"confirmed", OrderStatusConfirmed, "confirmed"},
		{"shipped", OrderStatusShipped, "shipped"},
		{"arrived", OrderStatusArrivedTH, "arrived_th"},
		{"delivered", OrderStatusDelivered, "delivered"},
		{"cancelled", OrderStatusCancelled, "cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			if !tc.got.Valid() {
				t.Fatalf("expected %s to be valid", tc.got)
			}
		})
	}
	if OrderStatus("lost").Valid() {
		t.Fatal("unexpected valid status")
	}
}

func TestOrderTransitionTable(t *testing.T) {
	allowed := map[OrderStatus]map[OrderEvent]OrderStatus{
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
		OrderStatusConfirmed: {OrderEventShip: OrderStatusShipped},
		OrderStatusShipped: {
			OrderEventMarkArrived: OrderStatusArrivedTH,
			OrderEventDeliver:     OrderStatusDelivered,
		},
		OrderStatusArrivedTH: {OrderEventSettleRemainder: OrderStatusConfirmed},
	}
	events := []OrderEvent{
		OrderEventSubmitSlip, OrderEventRejectSlip, OrderEventConfirmPayment, OrderEventCancel,
		OrderEventShip, OrderEventMarkArrived, OrderEventDeliver, OrderEventSettleRemainder,
	}

	for _, status := range OrderStatuses() {
		for _, event := range events {
			next, err := status.Next(event)
			want, ok := allowed[status][event]
			if ok {
				if err != nil || next != want {
					t.Fatalf("%s --%s--> expected %s, got %s (err %v)", status, event, want, next, err)
				}
				continue
			}
			if !errors.Is(err, domainErrors.ErrInvalidTransition) {
				t.Fatalf("%s --%s--> expected invalid transition, got %s (err %v)", status, event, next, err)
			}
		}
	}

	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("expected delivered and cancelled to be terminal")
	}
	if OrderStatusShipped.IsTerminal() {
		t.Fatal("shipped must not be terminal")
	}
}

func TestOrderStatusAwaitingPayment(t *testing.T) {
	for _, status := range OrderStatuses() {
		want := status == OrderStatusPending || status == OrderStatusPendingVerification
		if status.AwaitingPayment() != want {
			t.Fatalf("unexpected awaiting payment flag for %s", status)
		}
	}
}

func TestTrackingStage(t *testing.T) {
	cases := []struct {
		status OrderStatus
		index  int
		ok     bool
	}{
		{OrderStatusPending, 0, true},
		{OrderStatusPendingVerification, 0, true},
		{OrderStatusConfirmed, 1, true},
		{OrderStatusShipped, 2, true},
		{OrderStatusArrivedTH, 2, true},
		{OrderStatusDelivered, 3, true},
		{OrderStatusCancelled, 0, false},
	}
	for _, tc := range cases {
		index, ok := TrackingStage(tc.status)
		if index != tc.index || ok != tc.ok {
			t.Fatalf("%s: expected (%d,%v), got (%d,%v)", tc.status, tc.index, tc.ok, index, ok)
		}
	}
}

func TestRequestTransitionsOnlyReachListedSuccessors(t *testing.T) {
	successors := map[RequestStatus]map[RequestAction]RequestStatus{
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
		RequestStatusShipping: {
			RequestActionMarkShipping: RequestStatusShipping,
			RequestActionComplete:     RequestStatusCompleted,
		},
	}

	for _, status := range RequestStatuses() {
		for _, action := range RequestActions() {
			next, err := status.Next(action)
			want, ok := successors[status][action]
			if ok {
				if err != nil || next != want {
					t.Fatalf("%s --%s--> expected %s, got %s (err %v)", status, action, want, next, err)
				}
				continue
			}
			var transitionErr *domainErrors.InvalidTransitionError
			if !errors.As(err, &transitionErr) {
				t.Fatalf("%s --%s--> expected InvalidTransitionError, got %v", status, action, err)
			}
			if transitionErr.From != string(status) || transitionErr.To == "" {
				t.Fatalf("expected error to name attempted and actual states, got %+v", transitionErr)
			}
		}
	}

	if !RequestStatusRejected.IsTerminal() || !RequestStatusCompleted.IsTerminal() {
		t.Fatal("expected rejected and completed to be terminal")
	}
}

func TestRequestStatusProcured(t *testing.T) {
	procured := map[RequestStatus]bool{
		RequestStatusOrdered:   true,
		RequestStatusArrivedTH: true,
		RequestStatusShipping:  true,
		RequestStatusCompleted: true,
	}
	for _, status := range RequestStatuses() {
		if status.Procured() != procured[status] {
			t.Fatalf("unexpected procured flag for %s", status)
		}
	}
}

func TestShippingInfoMissingField(t *testing.T) {
	cases := []struct {
		info ShippingInfo
		want string
	}{
		{ShippingInfo{Name: "A", Phone: "1", Address: "X"}, ""},
		{ShippingInfo{Phone: "1", Address: "X"}, "name"},
		{ShippingInfo{Name: "A", Phone: "  ", Address: "X"}, "phone"},
		{ShippingInfo{Name: "A", Phone: "1"}, "address"},
	}
	for _, tc := range cases {
		if got := tc.info.MissingField(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestOrderCloneAndProductIDs(t *testing.T) {
	order := Order{Lines: []CartLine{
		{ProductID: "p1", UnitPrice: decimal.NewFromInt(600), Quantity: 1},
		{ProductID: "p2", UnitPrice: decimal.NewFromInt(500), Quantity: 2},
		{ProductID: "p1", UnitPrice: decimal.NewFromInt(600), Quantity: 1},
	}}
	clone := order.Clone()
	clone.Lines[0].Name = "changed"
	if order.Lines[0].Name != "" {
		t.Fatal("clone must not share lines")
	}
	ids := order.ProductIDs()
	if len(ids) != 2 || ids[0] != "p1" || ids[1] != "p2" {
		t.Fatalf("unexpected ids %v", ids)
	}
	if !order.Lines[1].LineTotal().Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected line total %s", order.Lines[1].LineTotal())
	}
}

func TestActor(t *testing.T) {
	admin := Actor{UserID: 1, Role: RoleAdmin}
	customer := Actor{UserID: 2, Role: RoleCustomer}
	if !admin.IsAdmin() || customer.IsAdmin() {
		t.Fatal("unexpected admin flags")
	}
	if !customer.Owns(2) || customer.Owns(1) || (Actor{}).Owns(0) {
		t.Fatal("unexpected ownership")
	}
}
