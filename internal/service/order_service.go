package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one line")
	ErrInconsistentLine  = errors.New("line subtotal must equal unit price times quantity")
	ErrTotalMismatch     = errors.New("order total does not match its lines")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrForbidden         = errors.New("order belongs to another user")
)

// CreateOrderInput carries the client's line snapshots and total. A zero
// total is replaced by the sum of the lines.
type CreateOrderInput struct {
	Lines []domain.OrderLine
	Total decimal.Decimal
}

// OrderService places orders and manages their lifecycle
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*domain.Order, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	Stats(ctx context.Context, period string) (*domain.OrderStats, error)
}

type orderService struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &orderService{
		orders:    orders,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a pending order for the authenticated user. The total may
// be the plain sum of the lines or that sum plus its rounded tax.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for i, line := range in.Lines {
		if line.ProductID == uuid.Nil || line.Quantity < 1 || !line.Consistent() {
			return nil, fmt.Errorf("line %d: %w", i, ErrInconsistentLine)
		}
	}

	linesTotal := domain.LinesTotal(in.Lines)
	total := in.Total
	switch {
	case total.IsZero():
		total = linesTotal
	case total.Equal(linesTotal):
	case total.Equal(linesTotal.Add(domain.RoundTax(linesTotal))):
		s.logger.Info("Order total includes tax", zap.String("lines_total", linesTotal.String()), zap.String("total", total.String()))
	default:
		return nil, ErrTotalMismatch
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		ID:        uuid.New(),
		User:      user.Ref(),
		OrderedAt: now,
		Lines:     in.Lines,
		Total:     total,
		Status:    domain.OrderStatusPending,
		UpdatedAt: now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.Total.String()),
	)

	if ev, err := events.OrderPlaced(order); err != nil {
		s.logger.Error("Failed to build order event", zap.Error(err))
	} else {
		s.publisher.Publish(ctx, ev)
	}

	return order, nil
}

func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// Get returns an order to its owner or to an administrator
func (s *orderService) Get(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.User.ID != requesterID {
		return nil, ErrForbidden
	}
	return order, nil
}

// UpdateStatus moves a pending order to completed or cancelled
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !domain.CanTransition(from, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, status)
	}

	now := s.now()
	if err := s.orders.UpdateStatus(ctx, id, from, status, now); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		return nil, err
	}
	order.Status = status
	order.UpdatedAt = now

	if ev, err := events.OrderStatusChanged(id, from, status); err != nil {
		s.logger.Error("Failed to build status event", zap.Error(err))
	} else {
		s.publisher.Publish(ctx, ev)
	}

	return order, nil
}

// Stats aggregates the orders of the current week, month or year
func (s *orderService) Stats(ctx context.Context, period string) (*domain.OrderStats, error) {
	period, err := domain.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := domain.PeriodStart(period, now)

	orders, err := s.orders.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeOrderStats(orders, period, from, now)
	return &stats, nil
}
