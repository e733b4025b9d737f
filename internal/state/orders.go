package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/example/roombook/internal/api"
	"github.com/example/roombook/internal/logging"
)

// OrdersClient is the slice of the API client the orders store depends on.
type OrdersClient interface {
	MyOrders(ctx context.Context) ([]api.Order, error)
	AllOrders(ctx context.Context) ([]api.Order, error)
	CreateOrder(ctx context.Context, payload api.CreateOrderPayload) (api.Order, error)
	CancelOrder(ctx context.Context, id int) error
	ApproveOrder(ctx context.Context, id int) error
	UpdateOrderStatus(ctx context.Context, id int, status api.OrderStatus) (api.Order, error)
}

// OrderScope selects which listing endpoint backs the store.
type OrderScope int

const (
	// ScopeMine lists only the current user's reservations.
	ScopeMine OrderScope = iota
	// ScopeAll lists every reservation; the server enforces the privilege.
	ScopeAll
)

// Partition is the status based split of one order snapshot. Final holds
// every terminal status: rejected, completed, and cancelled.
type Partition struct {
	Pending  []api.Order
	Approved []api.Order
	Final    []api.Order
}

// PartitionOrders splits a snapshot by status. It is a pure derivation: every
// order lands in exactly one bucket and the result is recomputed from the
// collection on demand, never stored alongside it.
func PartitionOrders(orders []api.Order) Partition {
	var p Partition
	for _, order := range orders {
		switch order.Status {
		case api.OrderPending:
			p.Pending = append(p.Pending, order)
		case api.OrderApproved:
			p.Approved = append(p.Approved, order)
		default:
			p.Final = append(p.Final, order)
		}
	}
	return p
}

// OrdersStore caches one order collection snapshot, scoped either to the
// current user or to the full queue.
type OrdersStore struct {
	client OrdersClient
	scope  OrderScope
	notify Notifier
	logger *slog.Logger

	mu      sync.RWMutex
	orders  []api.Order
	loading bool
	errMsg  string
}

// NewOrdersStore constructs an empty orders store for the given scope.
func NewOrdersStore(client OrdersClient, scope OrderScope, notify Notifier) *OrdersStore {
	return NewOrdersStoreWithLogger(client, scope, notify, nil)
}

// NewOrdersStoreWithLogger constructs an orders store with a specified logger.
func NewOrdersStoreWithLogger(client OrdersClient, scope OrderScope, notify Notifier, logger *slog.Logger) *OrdersStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrdersStore{client: client, scope: scope, notify: notify, logger: logger}
}

func (s *OrdersStore) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.Scope(ctx, s.logger, "OrdersStore", operation, attrs...)
}

// Orders returns a copy of the current snapshot.
func (s *OrdersStore) Orders() []api.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Order(nil), s.orders...)
}

// Categorized partitions the current snapshot by status.
func (s *OrdersStore) Categorized() Partition {
	return PartitionOrders(s.Orders())
}

// Loading reports whether a fetch is in flight.
func (s *OrdersStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failed fetch, or the empty string.
func (s *OrdersStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Fetch replaces the entire snapshot from the scoped listing endpoint. A
// failed fetch discards the previous snapshot and records the error message.
func (s *OrdersStore) Fetch(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("orders store is nil")
	}

	logger := s.loggerWith(ctx, "Fetch", "scope", s.scopeLabel())
	s.beginFetch()
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to fetch orders", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		logger.With("count", len(s.Orders())).InfoContext(ctx, "orders fetched")
	}()

	var orders []api.Order
	if s.scope == ScopeAll {
		orders, err = s.client.AllOrders(ctx)
	} else {
		orders, err = s.client.MyOrders(ctx)
	}
	if err != nil {
		s.finishFetch(nil, api.Message(err))
		return err
	}
	s.finishFetch(orders, "")
	return nil
}

// Create places a reservation and refetches the collection.
func (s *OrdersStore) Create(ctx context.Context, payload api.CreateOrderPayload) (api.Order, error) {
	return s.mutate(ctx, "Create",
		"Захиалга үүсгэж байна...", "Захиалга амжилттай үүслээ.",
		func() (api.Order, error) { return s.client.CreateOrder(ctx, payload) })
}

// Cancel requests cancellation and refetches the collection; the server, not
// this client, decides whether the current status permits the transition.
func (s *OrdersStore) Cancel(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, "Cancel",
		fmt.Sprintf("Захиалга №%d-г цуцалж байна...", id), "Захиалга цуцлагдлаа.",
		func() (api.Order, error) { return api.Order{}, s.client.CancelOrder(ctx, id) })
	return err
}

// Approve requests approval and refetches the collection.
func (s *OrdersStore) Approve(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, "Approve",
		fmt.Sprintf("Захиалга №%d-г баталгаажуулж байна...", id), "Захиалга баталгаажлаа.",
		func() (api.Order, error) { return api.Order{}, s.client.ApproveOrder(ctx, id) })
	return err
}

// UpdateStatus moves a reservation to the given status and refetches the
// collection.
func (s *OrdersStore) UpdateStatus(ctx context.Context, id int, status api.OrderStatus) (api.Order, error) {
	return s.mutate(ctx, "UpdateStatus",
		fmt.Sprintf("Захиалга №%d-ийн төлөвийг шинэчилж байна...", id),
		fmt.Sprintf("Захиалга №%d шинэ төлөвт шилжлээ.", id),
		func() (api.Order, error) { return s.client.UpdateOrderStatus(ctx, id, status) })
}

// mutate runs one mutating call with action scoped progress indication,
// followed unconditionally by a full refetch.
func (s *OrdersStore) mutate(ctx context.Context, operation, pending, done string, call func() (api.Order, error)) (order api.Order, err error) {
	logger := s.loggerWith(ctx, operation)
	actionID := uuid.NewString()
	s.notifyBegin(actionID, pending)
	defer func() {
		if err != nil {
			s.notifyFail(actionID, api.Message(err))
			logger.ErrorContext(ctx, "order mutation failed", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		s.notifySucceed(actionID, done)
		logger.InfoContext(ctx, "order mutation applied")
	}()

	order, err = call()

	if fetchErr := s.Fetch(ctx); fetchErr != nil && err == nil {
		err = fetchErr
	}
	return order, err
}

func (s *OrdersStore) scopeLabel() string {
	if s.scope == ScopeAll {
		return "all"
	}
	return "mine"
}

func (s *OrdersStore) beginFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.errMsg = ""
}

func (s *OrdersStore) finishFetch(orders []api.Order, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.orders = orders
	s.errMsg = errMsg
}

func (s *OrdersStore) notifyBegin(id, message string) {
	if s.notify != nil {
		s.notify.Begin(id, message)
	}
}

func (s *OrdersStore) notifySucceed(id, message string) {
	if s.notify != nil {
		s.notify.Succeed(id, message)
	}
}

func (s *OrdersStore) notifyFail(id, message string) {
	if s.notify != nil {
		s.notify.Fail(id, message)
	}
}
