package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/grizztep/Karinderya/internal/apperrors"
	"github.com/grizztep/Karinderya/internal/logger"
	"github.com/grizztep/Karinderya/internal/middleware"
	"github.com/grizztep/Karinderya/internal/models"
)

// fakeTx records one checkout transaction in memory.
type fakeTx struct {
	dishes     map[int64]models.Dish
	inserted   []models.OrderLine
	committed  bool
	rolledBack bool
}

func (t *fakeTx) GetDish(ctx context.Context, id int64) (models.Dish, error) {
	dish, ok := t.dishes[id]
	if !ok {
		return models.Dish{}, apperrors.NotFound("dish")
	}
	return dish, nil
}

func (t *fakeTx) InsertLine(ctx context.Context, line *models.OrderLine) error {
	line.ID = int64(len(t.inserted) + 1)
	t.inserted = append(t.inserted, *line)
	return nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeOrderStore implements Store in memory.
type fakeOrderStore struct {
	tx        *fakeTx
	lines     map[int64]models.OrderLine
	updatedTo models.OrderStatus
	cancelOK  bool
}

func (f *fakeOrderStore) BeginPlace(ctx context.Context) (PlaceTx, error) {
	return f.tx, nil
}

func (f *fakeOrderStore) GetLine(ctx context.Context, id int64) (models.OrderLine, error) {
	line, ok := f.lines[id]
	if !ok {
		return models.OrderLine{}, apperrors.NotFound("order")
	}
	return line, nil
}

func (f *fakeOrderStore) GroupLines(ctx context.Context, groupID string) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	for _, line := range f.tx.inserted {
		if line.GroupID == groupID {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (f *fakeOrderStore) UserLines(ctx context.Context, userID string) ([]models.OrderLine, error) {
	return nil, nil
}

func (f *fakeOrderStore) LinesByStatus(ctx context.Context, status models.OrderStatus) ([]models.OrderLine, error) {
	return nil, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	line, ok := f.lines[id]
	if !ok {
		return apperrors.NotFound("order")
	}
	line.Status = status
	f.lines[id] = line
	f.updatedTo = status
	return nil
}

func (f *fakeOrderStore) CancelOwn(ctx context.Context, id int64, userID string) (bool, error) {
	return f.cancelOK, nil
}

func menu() map[int64]models.Dish {
	return map[int64]models.Dish{
		1: {ID: 1, Name: "Adobong Manok", PriceCents: 5000, Available: true},
		2: {ID: 2, Name: "Rice", PriceCents: 1500, Available: true},
		3: {ID: 3, Name: "Dinuguan", PriceCents: 5000, Available: false},
	}
}

var buyer = middleware.Identity{UserID: "user_1", Name: "Maria", Email: "maria@example.com"}

func newTestOrderService(store *fakeOrderStore) *Service {
	return NewService(store, logger.New("order-test"), 2000)
}

func checkoutRequest(items ...models.OrderItemRequest) *models.PlaceOrderRequest {
	return &models.PlaceOrderRequest{
		Items:           items,
		Payment:         "COD",
		CustomerName:    "Maria Clara",
		CustomerAddress: "456 Luna St, Iloilo City",
	}
}

func TestFeeOnFirstLine(t *testing.T) {
	shares := FeeOnFirstLine(3, 2000)
	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}
	if shares[0] != 2000 || shares[1] != 0 || shares[2] != 0 {
		t.Errorf("expected fee entirely on the first line, got %v", shares)
	}

	if shares := FeeOnFirstLine(0, 2000); len(shares) != 0 {
		t.Errorf("expected no shares for an empty cart, got %v", shares)
	}
}

func TestPlaceOrder(t *testing.T) {
	tx := &fakeTx{dishes: menu()}
	store := &fakeOrderStore{tx: tx}
	svc := newTestOrderService(store)

	group, err := svc.PlaceOrder(context.Background(), buyer, checkoutRequest(
		models.OrderItemRequest{DishID: 1, Quantity: 2},
		models.OrderItemRequest{DishID: 2, Quantity: 1},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tx.committed {
		t.Error("expected the transaction to be committed")
	}
	if !strings.HasPrefix(group.GroupID, "order_") {
		t.Errorf("expected order_ group id prefix, got %s", group.GroupID)
	}
	if len(group.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(group.Lines))
	}
	for _, line := range group.Lines {
		if line.GroupID != group.GroupID {
			t.Errorf("expected all lines to share the group id, got %s", line.GroupID)
		}
		if line.Status != models.OrderPending {
			t.Errorf("expected pending line, got %s", line.Status)
		}
	}

	first, second := group.Lines[0], group.Lines[1]
	if first.DeliveryFeeCents != 2000 || second.DeliveryFeeCents != 0 {
		t.Errorf("expected fee on the first line only, got %d and %d",
			first.DeliveryFeeCents, second.DeliveryFeeCents)
	}
	if first.TotalCents != 12000 {
		t.Errorf("expected first line total 12000, got %d", first.TotalCents)
	}
	if second.TotalCents != 1500 {
		t.Errorf("expected second line total 1500, got %d", second.TotalCents)
	}
	if group.SubtotalCents != 11500 {
		t.Errorf("expected subtotal 11500, got %d", group.SubtotalCents)
	}
	if group.DeliveryFeeCents != 2000 {
		t.Errorf("expected delivery fee 2000, got %d", group.DeliveryFeeCents)
	}
	if group.GrandTotalCents != 13500 {
		t.Errorf("expected grand total 13500, got %d", group.GrandTotalCents)
	}
}

func TestPlaceOrderSoldOutDishAbortsGroup(t *testing.T) {
	tx := &fakeTx{dishes: menu()}
	store := &fakeOrderStore{tx: tx}
	svc := newTestOrderService(store)

	_, err := svc.PlaceOrder(context.Background(), buyer, checkoutRequest(
		models.OrderItemRequest{DishID: 1, Quantity: 1},
		models.OrderItemRequest{DishID: 3, Quantity: 1},
	))

	var state apperrors.StateError
	if !errors.As(err, &state) {
		t.Fatalf("expected state error, got %v", err)
	}
	if !strings.Contains(state.Reason, "Dinuguan") {
		t.Errorf("expected the error to name the dish, got %q", state.Reason)
	}
	if tx.committed {
		t.Error("sold-out dish must not commit")
	}
	if !tx.rolledBack {
		t.Error("expected the transaction to be rolled back")
	}
}

func TestPlaceOrderUnknownDish(t *testing.T) {
	tx := &fakeTx{dishes: menu()}
	svc := newTestOrderService(&fakeOrderStore{tx: tx})

	_, err := svc.PlaceOrder(context.Background(), buyer, checkoutRequest(
		models.OrderItemRequest{DishID: 99, Quantity: 1},
	))

	var notFound apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if tx.committed {
		t.Error("unknown dish must not commit")
	}
}

func TestPlaceOrderFeeOverride(t *testing.T) {
	tx := &fakeTx{dishes: menu()}
	svc := newTestOrderService(&fakeOrderStore{tx: tx})

	req := checkoutRequest(models.OrderItemRequest{DishID: 2, Quantity: 2})
	fee := int64(0)
	req.DeliveryFeeCents = &fee

	group, err := svc.PlaceOrder(context.Background(), buyer, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.DeliveryFeeCents != 0 {
		t.Errorf("expected overridden fee 0, got %d", group.DeliveryFeeCents)
	}
	if group.GrandTotalCents != 3000 {
		t.Errorf("expected grand total 3000, got %d", group.GrandTotalCents)
	}
}

func TestGetGroupMatchesPlacedTotals(t *testing.T) {
	tx := &fakeTx{dishes: menu()}
	store := &fakeOrderStore{tx: tx}
	svc := newTestOrderService(store)

	placed, err := svc.PlaceOrder(context.Background(), buyer, checkoutRequest(
		models.OrderItemRequest{DishID: 1, Quantity: 2},
		models.OrderItemRequest{DishID: 2, Quantity: 3},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetched, err := svc.GetGroup(context.Background(), placed.GroupID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetched.SubtotalCents != placed.SubtotalCents {
		t.Errorf("subtotal drifted: placed %d, fetched %d", placed.SubtotalCents, fetched.SubtotalCents)
	}
	if fetched.DeliveryFeeCents != placed.DeliveryFeeCents {
		t.Errorf("fee drifted: placed %d, fetched %d", placed.DeliveryFeeCents, fetched.DeliveryFeeCents)
	}
	if fetched.GrandTotalCents != placed.GrandTotalCents {
		t.Errorf("grand total drifted: placed %d, fetched %d", placed.GrandTotalCents, fetched.GrandTotalCents)
	}
	if len(fetched.Lines) != len(placed.Lines) {
		t.Errorf("line count drifted: placed %d, fetched %d", len(placed.Lines), len(fetched.Lines))
	}
}

func TestGetGroupUnknown(t *testing.T) {
	svc := newTestOrderService(&fakeOrderStore{tx: &fakeTx{dishes: menu()}})

	_, err := svc.GetGroup(context.Background(), "order_missing")
	var notFound apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	store := &fakeOrderStore{
		tx: &fakeTx{dishes: menu()},
		lines: map[int64]models.OrderLine{
			1: {ID: 1, DishName: "Rice", Status: models.OrderPending},
		},
	}
	svc := newTestOrderService(store)

	line, err := svc.UpdateStatus(context.Background(), 1, "processing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.Status != models.OrderProcessing {
		t.Errorf("expected Processing, got %s", line.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), 1, "shipped"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestOrdersByStatusUnknownValue(t *testing.T) {
	svc := newTestOrderService(&fakeOrderStore{tx: &fakeTx{dishes: menu()}})

	_, err := svc.OrdersByStatus(context.Background(), "shipped")
	var validation apperrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancelOwnOrder(t *testing.T) {
	store := &fakeOrderStore{
		tx:       &fakeTx{dishes: menu()},
		cancelOK: true,
		lines: map[int64]models.OrderLine{
			4: {ID: 4, UserID: "user_1", DishName: "Rice", Status: models.OrderCancelled},
		},
	}
	svc := newTestOrderService(store)

	line, err := svc.CancelOwn(context.Background(), 4, "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.Status != models.OrderCancelled {
		t.Errorf("expected Cancelled, got %s", line.Status)
	}
}

// A missing id, another customer's line and a non-pending line all answer
// the same way.
func TestCancelOwnOrderNotCancellable(t *testing.T) {
	svc := newTestOrderService(&fakeOrderStore{tx: &fakeTx{dishes: menu()}, cancelOK: false})

	_, err := svc.CancelOwn(context.Background(), 42, "user_1")
	var notFound apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
