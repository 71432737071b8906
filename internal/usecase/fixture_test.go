package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/pricing"
	"github.com/polkiloo/storefront/internal/test"
)

var (
	customer      = model.Actor{UserID: 7, Role: model.RoleCustomer}
	otherCustomer = model.Actor{UserID: 8, Role: model.RoleCustomer}
	admin         = model.Actor{UserID: 1, Role: model.RoleAdmin}

	fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

type fixture struct {
	repos    *test.RepositoryFactoryStub
	uow      *test.UnitOfWorkStub
	ledger   *PointsLedger
	orders   *OrderUseCase
	requests *RequestUseCase
	carts    *CartUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := test.NewRepositoryFactoryStub()
	uow := &test.UnitOfWorkStub{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	rates, err := pricing.NewRateTable(nil)
	if err != nil {
		t.Fatalf("rate table: %v", err)
	}

	ledger := NewPointsLedger(repos.Points(), uow)
	orders := NewOrderUseCase(repos, uow, ledger, logger)
	requests := NewRequestUseCase(repos, uow, rates, orders, logger)

	var orderSeq, requestSeq int
	orders.now = func() time.Time { return fixedNow }
	orders.newID = func() string {
		orderSeq++
		return fmt.Sprintf("ord_%d", orderSeq)
	}
	requests.now = func() time.Time { return fixedNow }
	requests.newID = func() string {
		requestSeq++
		return fmt.Sprintf("req_%d", requestSeq)
	}

	return &fixture{
		repos:    repos,
		uow:      uow,
		ledger:   ledger,
		orders:   orders,
		requests: requests,
		carts:    NewCartUseCase(repos),
	}
}

func referenceLines() []model.CartLine {
	return []model.CartLine{
		{ProductID: "figure-1", Name: "Figure", UnitPrice: decimal.NewFromInt(600), Quantity: 1},
		{ProductID: "card-2", Name: "Card box", UnitPrice: decimal.NewFromInt(500), Quantity: 2},
	}
}

func referenceShipping() model.ShippingInfo {
	return model.ShippingInfo{Name: "Somchai", Phone: "0812345678", Address: "99 Sukhumvit, Bangkok"}
}

// seedOrder stores order in status for customer.
func (f *fixture) seedOrder(t *testing.T, id string, status model.OrderStatus, total int64) *model.Order {
	t.Helper()
	order := model.Order{
		ID:            id,
		UserID:        customer.UserID,
		Status:        status,
		Lines:         referenceLines(),
		Subtotal:      decimal.NewFromInt(total),
		ShippingFee:   decimal.Zero,
		TotalAmount:   decimal.NewFromInt(total),
		PaymentMethod: model.PaymentMethodBank,
		Shipping:      referenceShipping(),
		CreatedAt:     fixedNow.Add(-time.Hour),
		UpdatedAt:     fixedNow.Add(-time.Hour),
	}
	if err := f.repos.OrderRepo.Create(t.Context(), &order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return &order
}

// seedRequest stores custom request in status for customer.
func (f *fixture) seedRequest(t *testing.T, id string, status model.RequestStatus) *model.CustomRequest {
	t.Helper()
	req := model.CustomRequest{
		ID:               id,
		UserID:           customer.UserID,
		ProductName:      "Limited figure",
		SourceURL:        "https://shop.example.jp/item/1",
		Region:           model.RegionJP,
		ForeignUnitPrice: decimal.NewFromInt(12000),
		Quantity:         1,
		EstimatedTotal:   decimal.NewFromInt(3100),
		Status:           status,
		CreatedAt:        fixedNow.Add(-time.Hour),
		UpdatedAt:        fixedNow.Add(-time.Hour),
	}
	if err := f.repos.RequestRepo.Create(t.Context(), &req); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return &req
}
