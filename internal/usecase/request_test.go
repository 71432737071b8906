package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

func validPayment() PaymentSubmission {
	return PaymentSubmission{SlipRef: "slips/req.jpg", Date: "2026-03-14", Time: "10:15", Address: "99 Sukhumvit, Bangkok"}
}

func TestRequestUseCaseSubmit(t *testing.T) {
	f := newFixture(t)

	req, err := f.requests.Submit(t.Context(), customer, RequestInput{
		ProductName:      "Nendoroid",
		SourceURL:        "https://shop.example.jp/item/42",
		Region:           "jp",
		ForeignUnitPrice: decimal.NewFromInt(3333),
		Quantity:         1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ID != "req_1" || req.Status != model.RequestStatusPending || req.Region != model.RegionJP {
		t.Fatalf("unexpected request %+v", req)
	}
	if !req.EstimatedTotal.Equal(decimal.RequireFromString("933.25")) {
		t.Fatalf("expected estimate 933.25, got %s", req.EstimatedTotal)
	}
	if req.ShippingCost.Valid {
		t.Fatal("shipping cost must be unset before approval")
	}
	if f.repos.RequestRepo.Get("req_1") == nil {
		t.Fatal("expected request to be stored")
	}
}

func TestRequestUseCaseStoresAmountsAtMoneyPrecision(t *testing.T) {
	f := newFixture(t)

	req, err := f.requests.Submit(t.Context(), customer, RequestInput{
		ProductName:      "Art book",
		SourceURL:        "https://shop.example.com/p/9",
		Region:           model.RegionUS,
		ForeignUnitPrice: decimal.RequireFromString("19.999"),
		Quantity:         1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.ForeignUnitPrice.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected price rounded to 20.00, got %s", req.ForeignUnitPrice)
	}
	if !req.EstimatedTotal.Equal(decimal.NewFromInt(830)) {
		t.Fatalf("expected estimate from the stored price 830, got %s", req.EstimatedTotal)
	}

	approved, err := f.requests.Approve(t.Context(), admin, req.ID, decimal.RequireFromString("80.567"))
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.ShippingCost.Decimal.Equal(decimal.RequireFromString("80.57")) {
		t.Fatalf("expected shipping cost 80.57, got %s", approved.ShippingCost.Decimal)
	}

	_, err = f.requests.Submit(t.Context(), customer, RequestInput{
		ProductName:      "Sticker",
		SourceURL:        "https://shop.example.com/p/10",
		Region:           model.RegionUS,
		ForeignUnitPrice: decimal.RequireFromString("0.004"),
		Quantity:         1,
	})
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected sub-cent price to be rejected, got %v", err)
	}
}

func TestRequestUseCaseSubmitValidation(t *testing.T) {
	valid := RequestInput{
		ProductName:      "Figure",
		SourceURL:        "https://shop.example.com/p/1",
		Region:           model.RegionUS,
		ForeignUnitPrice: decimal.NewFromInt(20),
		Quantity:         2,
	}
	cases := []struct {
		name   string
		mutate func(*RequestInput)
		target error
	}{
		{"relative url", func(in *RequestInput) { in.SourceURL = "/item/1" }, domainErrors.ErrValidation},
		{"not a url", func(in *RequestInput) { in.SourceURL = "shop example" }, domainErrors.ErrValidation},
		{"ftp url", func(in *RequestInput) { in.SourceURL = "ftp://shop.example.com/p/1" }, domainErrors.ErrValidation},
		{"zero price", func(in *RequestInput) { in.ForeignUnitPrice = decimal.Zero }, domainErrors.ErrValidation},
		{"negative price", func(in *RequestInput) { in.ForeignUnitPrice = decimal.NewFromInt(-3) }, domainErrors.ErrValidation},
		{"zero quantity", func(in *RequestInput) { in.Quantity = 0 }, domainErrors.ErrValidation},
		{"blank name", func(in *RequestInput) { in.ProductName = "  " }, domainErrors.ErrValidation},
		{"unknown region", func(in *RequestInput) { in.Region = "DE" }, domainErrors.ErrUnknownRegion},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := valid
			tc.mutate(&in)
			if _, err := f.requests.Submit(t.Context(), customer, in); !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
			if len(f.repos.RequestRepo.Requests) != 0 {
				t.Fatal("nothing must be stored")
			}
		})
	}
}

func TestRequestUseCaseAdminActionsRequireAdmin(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPending)
	ctx := t.Context()

	calls := map[string]func() error{
		"approve": func() error {
			_, err := f.requests.Approve(ctx, customer, "req_a", decimal.NewFromInt(80))
			return err
		},
		"reject": func() error { _, err := f.requests.Reject(ctx, customer, "req_a"); return err },
		"verify": func() error { _, err := f.requests.VerifyPayment(ctx, customer, "req_a", true, ""); return err },
		"arrive": func() error { _, err := f.requests.MarkArrived(ctx, customer, "req_a"); return err },
		"ship":   func() error { _, err := f.requests.MarkShipping(ctx, customer, "req_a", "TH1"); return err },
		"done":   func() error { _, err := f.requests.Complete(ctx, customer, "req_a"); return err },
		"note":   func() error { _, err := f.requests.Annotate(ctx, customer, "req_a", "x"); return err },
		"spawn":  func() error { _, err := f.requests.SpawnOrder(ctx, customer, "req_a"); return err },
		"queue": func() error {
			_, err := f.requests.ListByStatus(ctx, customer, model.RequestStatusPending)
			return err
		},
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, domainErrors.ErrUnauthorized) {
			t.Fatalf("%s: expected unauthorized, got %v", name, err)
		}
	}
	if f.repos.RequestRepo.Updates != 0 {
		t.Fatal("no update expected")
	}
}

func TestRequestUseCaseRejectedPaymentRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPending)
	ctx := t.Context()

	if _, err := f.requests.Approve(ctx, admin, "req_a", decimal.NewFromInt(80)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.requests.SubmitPayment(ctx, customer, "req_a", validPayment()); err != nil {
		t.Fatalf("submit payment: %v", err)
	}
	req, err := f.requests.VerifyPayment(ctx, admin, "req_a", false, "bad slip")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if req.Status != model.RequestStatusPaymentPending {
		t.Fatalf("expected payment_pending, got %s", req.Status)
	}
	if !req.ShippingCost.Valid || !req.ShippingCost.Decimal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected shipping cost 80, got %v", req.ShippingCost)
	}
	if req.AdminNotes != "bad slip" {
		t.Fatalf("expected admin notes, got %q", req.AdminNotes)
	}
	stored := f.repos.RequestRepo.Get("req_a")
	if stored.Status != req.Status || stored.AdminNotes != req.AdminNotes {
		t.Fatalf("stored request differs: %+v", stored)
	}
}

func TestRequestUseCaseSubmitPaymentWithoutSlip(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPaymentPending)

	payment := validPayment()
	payment.SlipRef = ""
	if _, err := f.requests.SubmitPayment(t.Context(), customer, "req_a", payment); !errors.Is(err, domainErrors.ErrMissingEvidence) {
		t.Fatalf("expected missing evidence, got %v", err)
	}
	if got := f.repos.RequestRepo.Get("req_a").Status; got != model.RequestStatusPaymentPending {
		t.Fatalf("expected payment_pending, got %s", got)
	}
}

func TestRequestUseCaseSubmitPaymentValidation(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPaymentPending)

	cases := map[string]func(*PaymentSubmission){
		"date":    func(p *PaymentSubmission) { p.Date = "14/03/2026" },
		"time":    func(p *PaymentSubmission) { p.Time = "25:00" },
		"address": func(p *PaymentSubmission) { p.Address = "" },
	}
	for name, mutate := range cases {
		payment := validPayment()
		mutate(&payment)
		if _, err := f.requests.SubmitPayment(t.Context(), customer, "req_a", payment); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}

	if _, err := f.requests.SubmitPayment(t.Context(), otherCustomer, "req_a", validPayment()); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for stranger, got %v", err)
	}

	req, err := f.requests.SubmitPayment(t.Context(), customer, "req_a", validPayment())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req.Status != model.RequestStatusPaymentVerification || req.PaymentDate != "2026-03-14" || req.PaymentTime != "10:15" || req.ShippingAddress == "" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestRequestUseCaseAcceptPaymentKeepsNote(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPaymentVerification)

	req, err := f.requests.VerifyPayment(t.Context(), admin, "req_a", true, "ordered from seller")
	if err != nil || req.Status != model.RequestStatusOrdered || req.AdminNotes != "ordered from seller" {
		t.Fatalf("unexpected accept result %+v (err %v)", req, err)
	}
}

func TestRequestUseCaseMarkShippingIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusOrdered)

	first, err := f.requests.MarkShipping(t.Context(), admin, "req_a", "TH123")
	if err != nil {
		t.Fatalf("first mark shipping: %v", err)
	}
	second, err := f.requests.MarkShipping(t.Context(), admin, "req_a", "TH123")
	if err != nil {
		t.Fatalf("second mark shipping: %v", err)
	}
	if first.Status != second.Status || second.Status != model.RequestStatusShipping || second.TrackingNumber != "TH123" {
		t.Fatalf("expected (shipping, TH123), got (%s, %s)", second.Status, second.TrackingNumber)
	}

	third, err := f.requests.MarkShipping(t.Context(), admin, "req_a", "")
	if err != nil || third.TrackingNumber != "TH123" {
		t.Fatalf("blank tracking must keep the number, got %+v (err %v)", third, err)
	}
}

func TestRequestUseCaseFulfilmentPath(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusOrdered)
	ctx := t.Context()

	if _, err := f.requests.Complete(ctx, admin, "req_a"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := f.requests.MarkArrived(ctx, admin, "req_a"); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if _, err := f.requests.MarkShipping(ctx, admin, "req_a", "TH9"); err != nil {
		t.Fatalf("ship: %v", err)
	}
	req, err := f.requests.Complete(ctx, admin, "req_a")
	if err != nil || req.Status != model.RequestStatusCompleted {
		t.Fatalf("unexpected complete result %+v (err %v)", req, err)
	}

	_, err = f.requests.MarkShipping(ctx, admin, "req_a", "TH10")
	var transitionErr *domainErrors.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if transitionErr.From != string(model.RequestStatusCompleted) || transitionErr.To != string(model.RequestStatusShipping) {
		t.Fatalf("expected error to name states, got %+v", transitionErr)
	}
}

func TestRequestUseCaseAnnotate(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPaymentPending)
	f.seedRequest(t, "req_b", model.RequestStatusRejected)

	if _, err := f.requests.Annotate(t.Context(), admin, "req_a", "first"); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	req, err := f.requests.Annotate(t.Context(), admin, "req_a", "second")
	if err != nil || req.AdminNotes != "second" || req.Status != model.RequestStatusPaymentPending {
		t.Fatalf("expected overwrite without status change, got %+v (err %v)", req, err)
	}

	if _, err := f.requests.Annotate(t.Context(), admin, "req_b", "late"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on terminal request, got %v", err)
	}
}

func TestRequestUseCaseSpawnOrder(t *testing.T) {
	f := newFixture(t)
	req := f.seedRequest(t, "req_a", model.RequestStatusOrdered)
	req.ShippingCost = decimal.NewNullDecimal(decimal.NewFromInt(80))
	req.ShippingAddress = "99 Sukhumvit, Bangkok"
	if err := f.repos.RequestRepo.Update(t.Context(), req); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	order, err := f.requests.SpawnOrder(t.Context(), admin, "req_a")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	// 12000 JPY at 0.25 plus the quoted 80 THB shipping.
	if !order.Subtotal.Equal(decimal.NewFromInt(3000)) || !order.TotalAmount.Equal(decimal.NewFromInt(3080)) {
		t.Fatalf("unexpected totals %s / %s", order.Subtotal, order.TotalAmount)
	}
	if order.CustomRequestID != "req_a" || order.UserID != customer.UserID || !order.Lines[0].IsPreorder {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.ID != "ord_1" || !order.CreatedAt.Equal(fixedNow) || f.repos.OrderRepo.Get("ord_1") == nil {
		t.Fatalf("expected stored order ord_1 stamped at %v, got %s at %v", fixedNow, order.ID, order.CreatedAt)
	}
	if got := f.repos.RequestRepo.Get("req_a").OrderID; got != order.ID {
		t.Fatalf("expected request to link %s, got %q", order.ID, got)
	}
	if got := f.repos.PointsRepo.Balance(customer.UserID); got != 30 {
		t.Fatalf("expected 30 points, got %d", got)
	}

	if _, err := f.requests.SpawnOrder(t.Context(), admin, "req_a"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestRequestUseCaseSpawnOrderRequiresProcurement(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPaymentVerification)

	if _, err := f.requests.SpawnOrder(t.Context(), admin, "req_a"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if len(f.repos.OrderRepo.Orders) != 0 {
		t.Fatal("no order must be created")
	}
}

func TestRequestUseCaseSpawnOrderPersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusArrivedTH)
	f.repos.OrderRepo.CreateErr = errors.New("connection refused")

	if _, err := f.requests.SpawnOrder(t.Context(), admin, "req_a"); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if got := f.repos.RequestRepo.Get("req_a").OrderID; got != "" {
		t.Fatalf("request must not link an unsaved order, got %q", got)
	}
	if got := f.repos.PointsRepo.Balance(customer.UserID); got != 0 {
		t.Fatalf("expected no points, got %d", got)
	}
}

func TestRequestUseCaseQueries(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPending)
	f.seedRequest(t, "req_b", model.RequestStatusOrdered)

	if _, err := f.requests.Get(t.Context(), otherCustomer, "req_a"); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := f.requests.Get(t.Context(), customer, "req_x"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mine, err := f.requests.ListByUser(t.Context(), customer.UserID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected two requests, got %d (err %v)", len(mine), err)
	}

	queue, err := f.requests.ListByStatus(t.Context(), admin, model.RequestStatusOrdered)
	if err != nil || len(queue) != 1 || queue[0].ID != "req_b" {
		t.Fatalf("unexpected queue %+v (err %v)", queue, err)
	}
	all, err := f.requests.ListByStatus(t.Context(), admin, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected all requests, got %d (err %v)", len(all), err)
	}
	if _, err := f.requests.ListByStatus(t.Context(), admin, "lost"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRequestUseCasePersistenceFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, "req_a", model.RequestStatusPending)
	f.repos.RequestRepo.UpdateErr = errors.New("deadlock detected")

	if _, err := f.requests.Approve(t.Context(), admin, "req_a", decimal.NewFromInt(10)); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	stored := f.repos.RequestRepo.Get("req_a")
	if stored.Status != model.RequestStatusPending || stored.ShippingCost.Valid {
		t.Fatalf("stored request must be untouched, got %+v", stored)
	}
}
