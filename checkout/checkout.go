// Package checkout turns carts into orders and records their payment.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"spicymarket/cart"
	"spicymarket/models"
	"spicymarket/storage"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoIdentity        = errors.New("no signed-in user")
	ErrIncompletePayment = errors.New("payment method and transaction reference are required")
	ErrAlreadyPaid       = errors.New("order already paid")
	ErrOrderNotFound     = storage.ErrOrderNotFound
)

// OrderStore is the part of storage.Store checkout writes to.
type OrderStore interface {
	AppendOrder(ctx context.Context, o models.Order) error
	UpdateOrder(ctx context.Context, id int64, fn func(*models.Order) error) (models.Order, error)
}

type Service struct {
	store  OrderStore
	logger *zap.Logger
	now    func() time.Time
	notify chan<- int64

	mu     sync.Mutex
	lastID int64
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotify makes PlaceOrder offer each new order id on ch. A full channel
// drops the notification rather than blocking the request.
func WithNotify(ch chan<- int64) Option {
	return func(s *Service) { s.notify = ch }
}

func NewService(store OrderStore, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextID derives an id from the clock in milliseconds, bumped so ids stay
// strictly increasing within the process.
func (s *Service) nextID(at time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := at.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// PlaceOrder records the cart as an unpaid order for username and empties
// the cart. On error neither the cart nor the stores change.
func (s *Service) PlaceOrder(ctx context.Context, username string, c *cart.Cart) (models.Order, error) {
	if c == nil || c.Len() == 0 {
		return models.Order{}, ErrEmptyCart
	}
	if strings.TrimSpace(username) == "" {
		return models.Order{}, ErrNoIdentity
	}

	snap := c.Snapshot()
	at := s.now().UTC()
	order := models.Order{
		ID:            s.nextID(at),
		Items:         snap.Lines(),
		Total:         snap.Total(),
		CreatedAt:     at,
		Username:      username,
		PaymentStatus: models.PaymentUnpaid,
	}
	if err := s.store.AppendOrder(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}
	c.Clear()

	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("username", username),
		zap.String("total", order.Total.String()),
	)
	if s.notify != nil {
		select {
		case s.notify <- order.ID:
		default:
			s.logger.Warn("order notification queue full", zap.Int64("order_id", order.ID))
		}
	}
	return order, nil
}

type Payment struct {
	OrderID int64
	// Username restricts the update to that user's orders; empty means any order.
	Username      string
	Method        string
	TransactionID string
}

// ConfirmPayment marks one unpaid order as paid. No other order is touched.
func (s *Service) ConfirmPayment(ctx context.Context, p Payment) (models.Order, error) {
	method := strings.TrimSpace(p.Method)
	txn := strings.TrimSpace(p.TransactionID)
	if p.OrderID == 0 || method == "" || txn == "" {
		return models.Order{}, ErrIncompletePayment
	}

	order, err := s.store.UpdateOrder(ctx, p.OrderID, func(o *models.Order) error {
		if p.Username != "" && o.Username != p.Username {
			return ErrOrderNotFound
		}
		if o.PaymentStatus == models.PaymentPaid {
			return ErrAlreadyPaid
		}
		o.PaymentStatus = models.PaymentPaid
		o.PaymentMethod = &method
		o.TransactionID = &txn
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	s.logger.Info("payment confirmed",
		zap.Int64("order_id", order.ID),
		zap.String("method", method),
	)
	return order, nil
}
