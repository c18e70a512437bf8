// Package order implements checkout: it composes cart items into an order
// group with a shared identifier, prices each line from the catalog and
// manages the per-line status lifecycle.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grizztep/Karinderya/internal/apperrors"
	"github.com/grizztep/Karinderya/internal/logger"
	"github.com/grizztep/Karinderya/internal/middleware"
	"github.com/grizztep/Karinderya/internal/models"
)

// Store is the persistence boundary for orders.
type Store interface {
	// BeginPlace opens the all-or-nothing transaction a checkout runs in.
	BeginPlace(ctx context.Context) (PlaceTx, error)
	GetLine(ctx context.Context, id int64) (models.OrderLine, error)
	GroupLines(ctx context.Context, groupID string) ([]models.OrderLine, error)
	UserLines(ctx context.Context, userID string) ([]models.OrderLine, error)
	LinesByStatus(ctx context.Context, status models.OrderStatus) ([]models.OrderLine, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	CancelOwn(ctx context.Context, id int64, userID string) (bool, error)
}

// PlaceTx is one checkout transaction. Dish reads and line inserts share
// the transaction so a sold-out dish rolls back every prior insert.
type PlaceTx interface {
	GetDish(ctx context.Context, id int64) (models.Dish, error)
	InsertLine(ctx context.Context, line *models.OrderLine) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// FeeAllocation decides how the one-time delivery fee is distributed over
// the lines of a group. Implementations return one share per line; the
// shares must sum to the fee.
type FeeAllocation func(lineCount int, feeCents int64) []int64

// FeeOnFirstLine charges the whole delivery fee on the first submitted
// line, the house policy.
func FeeOnFirstLine(lineCount int, feeCents int64) []int64 {
	shares := make([]int64, lineCount)
	if lineCount > 0 {
		shares[0] = feeCents
	}
	return shares
}

// Service is the order engine.
type Service struct {
	store           Store
	logger          *logger.Logger
	defaultFeeCents int64
	allocateFee     FeeAllocation
	now             func() time.Time
}

// NewService creates an order service with the first-line fee policy.
func NewService(store Store, log *logger.Logger, defaultFeeCents int64) *Service {
	return &Service{
		store:           store,
		logger:          log,
		defaultFeeCents: defaultFeeCents,
		allocateFee:     FeeOnFirstLine,
		now:             time.Now,
	}
}

// PlaceOrder runs one checkout. All lines share a fresh group id and are
// inserted in a single transaction; an unavailable dish aborts the whole
// group with an error naming the dish. Unit prices are snapshotted from
// the catalog at this moment and never re-read.
func (s *Service) PlaceOrder(ctx context.Context, buyer middleware.Identity, req *models.PlaceOrderRequest) (*models.OrderGroup, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payment, _ := models.ParsePaymentMethod(req.Payment)

	feeCents := s.defaultFeeCents
	if req.DeliveryFeeCents != nil {
		feeCents = *req.DeliveryFeeCents
	}
	feeShares := s.allocateFee(len(req.Items), feeCents)

	tx, err := s.store.BeginPlace(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	groupID := "order_" + uuid.NewString()
	lines := make([]models.OrderLine, 0, len(req.Items))

	for i, item := range req.Items {
		dish, err := tx.GetDish(ctx, item.DishID)
		if err != nil {
			return nil, err
		}
		if !dish.Available {
			return nil, apperrors.State("dish '%s' is sold out", dish.Name)
		}

		line := models.OrderLine{
			OrderCode:        models.GenerateOrderCode(s.now()),
			UserID:           buyer.UserID,
			DishID:           dish.ID,
			DishName:         dish.Name,
			GroupID:          groupID,
			CustomerName:     req.CustomerName,
			CustomerAddress:  req.CustomerAddress,
			Quantity:         item.Quantity,
			UnitPriceCents:   dish.PriceCents,
			DeliveryFeeCents: feeShares[i],
			Payment:          payment,
			Notes:            req.Notes,
			Status:           models.OrderPending,
		}
		line.TotalCents = line.ItemSubtotalCents() + line.DeliveryFeeCents

		if err := tx.InsertLine(ctx, &line); err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	group := models.BuildOrderGroup(groupID, lines)

	s.logger.Info("order_placed", "Order group placed", "", map[string]interface{}{
		"group_id":          groupID,
		"lines":             len(lines),
		"grand_total_cents": group.GrandTotalCents,
	})
	return &group, nil
}

// GetGroup reconstructs the derived group view from its persisted lines.
// The figures always match the ones PlaceOrder returned because both go
// through models.BuildOrderGroup.
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.OrderGroup, error) {
	lines, err := s.store.GroupLines(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperrors.NotFound("order group")
	}
	group := models.BuildOrderGroup(groupID, lines)
	return &group, nil
}

// GetLine returns one order line.
func (s *Service) GetLine(ctx context.Context, id int64) (*models.OrderLine, error) {
	line, err := s.store.GetLine(ctx, id)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// UserOrders returns a customer's order lines, newest first.
func (s *Service) UserOrders(ctx context.Context, userID string) ([]models.OrderLine, error) {
	return s.store.UserLines(ctx, userID)
}

// OrdersByStatus returns all lines currently in the given status.
func (s *Service) OrdersByStatus(ctx context.Context, rawStatus string) ([]models.OrderLine, error) {
	status, ok := models.ParseOrderStatus(rawStatus)
	if !ok {
		return nil, apperrors.Validation("status", "status must be one of: Pending, Processing, Completed, Cancelled")
	}
	return s.store.LinesByStatus(ctx, status)
}

// UpdateStatus applies a staff status change to one line. Lines are
// independent: no temporal or group-wide restriction applies.
func (s *Service) UpdateStatus(ctx context.Context, id int64, rawStatus string) (*models.OrderLine, error) {
	status, ok := models.ParseOrderStatus(rawStatus)
	if !ok {
		return nil, apperrors.Validation("status", "status must be one of: Pending, Processing, Completed, Cancelled")
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	line, err := s.store.GetLine(ctx, id)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CancelOwn cancels the buyer's own pending line. Every other case
// reports not-found, deliberately indistinguishable from a missing id so
// other users' orders are not revealed.
func (s *Service) CancelOwn(ctx context.Context, id int64, userID string) (*models.OrderLine, error) {
	cancelled, err := s.store.CancelOwn(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	if !cancelled {
		return nil, apperrors.NotFound("order")
	}

	line, err := s.store.GetLine(ctx, id)
	if err != nil {
		return nil, err
	}
	return &line, nil
}
