package test

import (
	"context"
	"slices"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// OrderRepositoryStub stores orders in-memory. Err fields force failures of single methods.
type OrderRepositoryStub struct {
	mu        sync.Mutex
	Orders    map[string]*model.Order
	CreateErr error
	GetErr    error
	UpdateErr error
	ListErr   error
	UpdateFn  func(context.Context, *model.Order) error
	Updates   int
}

// NewOrderRepositoryStub constructs stub repository holding orders.
func NewOrderRepositoryStub(orders ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
	for _, o := range orders {
		stored := o.Clone()
		s.Orders[o.ID] = &stored
	}
	return s
}

// Create stores copy of order unless the id is taken.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	stored := order.Clone()
	s.Orders[order.ID] = &stored
	return nil
}

// GetByID returns copy of stored order or not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := order.Clone()
	return &clone, nil
}

// Update replaces stored order.
func (s *OrderRepositoryStub) Update(ctx context.Context, order *model.Order) error {
	if s.UpdateFn != nil {
		if err := s.UpdateFn(ctx, order); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	if _, ok := s.Orders[order.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	stored := order.Clone()
	s.Orders[order.ID] = &stored
	s.Updates++
	return nil
}

// ListByUser returns orders of user, newest first.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var result []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			result = append(result, o.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// FindRemainder returns the unpaid remainder order of parent.
func (s *OrderRepositoryStub) FindRemainder(ctx context.Context, parentID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	for _, o := range s.Orders {
		if o.IsRemainingPayment && o.ParentOrderID == parentID && o.Status.AwaitingPayment() {
			clone := o.Clone()
			return &clone, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Get returns stored order without copying, for assertions.
func (s *OrderRepositoryStub) Get(id string) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Orders[id]
}

// RequestRepositoryStub stores custom requests in-memory.
type RequestRepositoryStub struct {
	mu        sync.Mutex
	Requests  map[string]*model.CustomRequest
	CreateErr error
	UpdateErr error
	ListErr   error
	Updates   int
}

// NewRequestRepositoryStub constructs stub repository holding requests.
func NewRequestRepositoryStub(requests ...model.CustomRequest) *RequestRepositoryStub {
	s := &RequestRepositoryStub{Requests: make(map[string]*model.CustomRequest)}
	for _, r := range requests {
		stored := r
		s.Requests[r.ID] = &stored
	}
	return s
}

// Create stores copy of request.
func (s *RequestRepositoryStub) Create(ctx context.Context, req *model.CustomRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if s.Requests == nil {
		s.Requests = make(map[string]*model.CustomRequest)
	}
	if _, exists := s.Requests[req.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	stored := *req
	s.Requests[req.ID] = &stored
	return nil
}

// GetByID returns copy of stored request or not found.
func (s *RequestRepositoryStub) GetByID(ctx context.Context, id string) (*model.CustomRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.Requests[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

// Update replaces stored request.
func (s *RequestRepositoryStub) Update(ctx context.Context, req *model.CustomRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	if _, ok := s.Requests[req.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	stored := *req
	s.Requests[req.ID] = &stored
	s.Updates++
	return nil
}

// ListByUser returns requests of user.
func (s *RequestRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.CustomRequest, error) {
	return s.list(func(r *model.CustomRequest) bool { return r.UserID == userID })
}

// ListByStatus returns requests in status, or all requests for empty status.
func (s *RequestRepositoryStub) ListByStatus(ctx context.Context, status model.RequestStatus) ([]model.CustomRequest, error) {
	return s.list(func(r *model.CustomRequest) bool { return status == "" || r.Status == status })
}

func (s *RequestRepositoryStub) list(keep func(*model.CustomRequest) bool) ([]model.CustomRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var result []model.CustomRequest
	for _, r := range s.Requests {
		if keep(r) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Get returns stored request without copying, for assertions.
func (s *RequestRepositoryStub) Get(id string) *model.CustomRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Requests[id]
}

// PointsRepositoryStub keeps balances in a map.
type PointsRepositoryStub struct {
	mu       sync.Mutex
	Balances map[int64]int64
	GetErr   error
	SetErr   error
	Sets     int
}

// NewPointsRepositoryStub constructs stub with empty balances.
func NewPointsRepositoryStub() *PointsRepositoryStub {
	return &PointsRepositoryStub{Balances: make(map[int64]int64)}
}

// GetBalance returns stored balance, zero for unknown users.
func (s *PointsRepositoryStub) GetBalance(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return 0, s.GetErr
	}
	return s.Balances[userID], nil
}

// SetBalance stores balance.
func (s *PointsRepositoryStub) SetBalance(ctx context.Context, userID int64, balance int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	if s.Balances == nil {
		s.Balances = make(map[int64]int64)
	}
	s.Balances[userID] = balance
	s.Sets++
	return nil
}

// Balance reads balance for assertions.
func (s *PointsRepositoryStub) Balance(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Balances[userID]
}

// CartRepositoryStub keeps carts in a map.
type CartRepositoryStub struct {
	mu       sync.Mutex
	Carts    map[int64][]model.CartLine
	ClearErr error
	Cleared  []int64
}

// NewCartRepositoryStub constructs stub with empty carts.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Carts: make(map[int64][]model.CartLine)}
}

// Lines returns cart of user.
func (s *CartRepositoryStub) Lines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.Carts[userID]), nil
}

// Put replaces the line of the same product or appends line.
func (s *CartRepositoryStub) Put(ctx context.Context, userID int64, line model.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Carts == nil {
		s.Carts = make(map[int64][]model.CartLine)
	}
	lines := s.Carts[userID]
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i] = line
			return nil
		}
	}
	s.Carts[userID] = append(lines, line)
	return nil
}

// Remove drops product from cart.
func (s *CartRepositoryStub) Remove(ctx context.Context, userID int64, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Carts[userID] = slices.DeleteFunc(s.Carts[userID], func(l model.CartLine) bool { return l.ProductID == productID })
	return nil
}

// Clear empties cart.
func (s *CartRepositoryStub) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClearErr != nil {
		return s.ClearErr
	}
	delete(s.Carts, userID)
	s.Cleared = append(s.Cleared, userID)
	return nil
}

// PurchaseHistoryStub keeps purchased product ids per user.
type PurchaseHistoryStub struct {
	mu        sync.Mutex
	Items     map[int64][]string
	AddErr    error
	RemoveErr error
}

// NewPurchaseHistoryStub constructs empty history.
func NewPurchaseHistoryStub() *PurchaseHistoryStub {
	return &PurchaseHistoryStub{Items: make(map[int64][]string)}
}

// Add records product ids.
func (s *PurchaseHistoryStub) Add(ctx context.Context, userID int64, productIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AddErr != nil {
		return s.AddErr
	}
	if s.Items == nil {
		s.Items = make(map[int64][]string)
	}
	for _, id := range productIDs {
		if !slices.Contains(s.Items[userID], id) {
			s.Items[userID] = append(s.Items[userID], id)
		}
	}
	return nil
}

// Remove forgets product ids.
func (s *PurchaseHistoryStub) Remove(ctx context.Context, userID int64, productIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	s.Items[userID] = slices.DeleteFunc(s.Items[userID], func(id string) bool { return slices.Contains(productIDs, id) })
	return nil
}

// List returns product ids of user.
func (s *PurchaseHistoryStub) List(ctx context.Context, userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.Items[userID]), nil
}

// NotificationRepositoryStub records enqueued notifications and delivery outcomes.
type NotificationRepositoryStub struct {
	mu          sync.Mutex
	Enqueued    []model.Notification
	EnqueueErr  error
	SelectFn    func(context.Context, int) ([]model.Notification, error)
	DeliveredFn func(context.Context, string) error
	FailedFn    func(context.Context, string, int) error
	Delivered   []string
	Failed      []string
}

// Enqueue stores notification.
func (s *NotificationRepositoryStub) Enqueue(ctx context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EnqueueErr != nil {
		return s.EnqueueErr
	}
	s.Enqueued = append(s.Enqueued, n)
	return nil
}

// SelectBatchForDelivery delegates to SelectFn or returns nothing.
func (s *NotificationRepositoryStub) SelectBatchForDelivery(ctx context.Context, limit int) ([]model.Notification, error) {
	if s.SelectFn != nil {
		return s.SelectFn(ctx, limit)
	}
	return nil, nil
}

// MarkDelivered records delivered id.
func (s *NotificationRepositoryStub) MarkDelivered(ctx context.Context, id string) error {
	if s.DeliveredFn != nil {
		return s.DeliveredFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delivered = append(s.Delivered, id)
	return nil
}

// MarkFailed records failed id.
func (s *NotificationRepositoryStub) MarkFailed(ctx context.Context, id string, maxAttempts int) error {
	if s.FailedFn != nil {
		return s.FailedFn(ctx, id, maxAttempts)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed = append(s.Failed, id)
	return nil
}

// Topics lists topics of enqueued notifications in order.
func (s *NotificationRepositoryStub) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	topics := make([]string, 0, len(s.Enqueued))
	for _, n := range s.Enqueued {
		topics = append(topics, n.Topic)
	}
	return topics
}

// RepositoryFactoryStub exposes stub repositories through repository.Factory.
type RepositoryFactoryStub struct {
	OrderRepo        *OrderRepositoryStub
	RequestRepo      *RequestRepositoryStub
	PointsRepo       *PointsRepositoryStub
	CartRepo         *CartRepositoryStub
	HistoryRepo      *PurchaseHistoryStub
	NotificationRepo *NotificationRepositoryStub
}

// NewRepositoryFactoryStub wires empty stubs.
func NewRepositoryFactoryStub() *RepositoryFactoryStub {
	return &RepositoryFactoryStub{
		OrderRepo:        NewOrderRepositoryStub(),
		RequestRepo:      NewRequestRepositoryStub(),
		PointsRepo:       NewPointsRepositoryStub(),
		CartRepo:         NewCartRepositoryStub(),
		HistoryRepo:      NewPurchaseHistoryStub(),
		NotificationRepo: &NotificationRepositoryStub{},
	}
}

func (f *RepositoryFactoryStub) Orders() repository.OrderRepository                    { return f.OrderRepo }
func (f *RepositoryFactoryStub) Requests() repository.RequestRepository                { return f.RequestRepo }
func (f *RepositoryFactoryStub) Points() repository.PointsRepository                   { return f.PointsRepo }
func (f *RepositoryFactoryStub) Carts() repository.CartRepository                      { return f.CartRepo }
func (f *RepositoryFactoryStub) PurchaseHistory() repository.PurchaseHistoryRepository { return f.HistoryRepo }
func (f *RepositoryFactoryStub) Notifications() repository.NotificationRepository      { return f.NotificationRepo }

// UnitOfWorkStub runs callbacks directly and counts calls.
type UnitOfWorkStub struct {
	Err error

	mu    sync.Mutex
	calls int
}

// RunInTx invokes fn unless Err is set.
func (u *UnitOfWorkStub) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	return fn(ctx)
}

// Calls reports how many transactions were started.
func (u *UnitOfWorkStub) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

var (
	_ repository.Factory    = (*RepositoryFactoryStub)(nil)
	_ repository.UnitOfWork = (*UnitOfWorkStub)(nil)
)
