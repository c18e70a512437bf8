package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/grizztep/Karinderya/internal/apperrors"
	"github.com/grizztep/Karinderya/internal/database"
	"github.com/grizztep/Karinderya/internal/models"
)

// Repository implements Store on PostgreSQL.
type Repository struct {
	db *database.DB
}

// NewRepository creates an order repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// placeTx wraps one pgx transaction for a checkout.
type placeTx struct {
	tx pgx.Tx
}

func (r *Repository) BeginPlace(ctx context.Context) (PlaceTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &placeTx{tx: tx}, nil
}

func (t *placeTx) GetDish(ctx context.Context, id int64) (models.Dish, error) {
	var dish models.Dish
	err := t.tx.QueryRow(ctx, database.GetDishSQL, id).
		Scan(&dish.ID, &dish.Name, &dish.PriceCents, &dish.Available, &dish.CreatedAt, &dish.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Dish{}, apperrors.NotFound("dish")
	}
	if err != nil {
		return models.Dish{}, fmt.Errorf("failed to get dish: %w", err)
	}
	return dish, nil
}

func (t *placeTx) InsertLine(ctx context.Context, line *models.OrderLine) error {
	return t.tx.QueryRow(ctx, database.InsertOrderLineSQL,
		line.OrderCode, line.UserID, line.DishID, line.GroupID,
		line.CustomerName, line.CustomerAddress,
		line.Quantity, line.UnitPriceCents, line.DeliveryFeeCents, line.TotalCents,
		line.Payment, nullable(line.Notes), line.Status).
		Scan(&line.ID, &line.CreatedAt)
}

func (t *placeTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *placeTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (r *Repository) GetLine(ctx context.Context, id int64) (models.OrderLine, error) {
	line, err := scanLine(r.db.QueryRow(ctx, database.GetOrderLineSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OrderLine{}, apperrors.NotFound("order")
	}
	if err != nil {
		return models.OrderLine{}, fmt.Errorf("failed to get order line: %w", err)
	}
	return line, nil
}

func (r *Repository) GroupLines(ctx context.Context, groupID string) ([]models.OrderLine, error) {
	return r.queryLines(ctx, database.ListGroupLinesSQL, groupID)
}

func (r *Repository) UserLines(ctx context.Context, userID string) ([]models.OrderLine, error) {
	return r.queryLines(ctx, database.ListUserLinesSQL, userID)
}

func (r *Repository) LinesByStatus(ctx context.Context, status models.OrderStatus) ([]models.OrderLine, error) {
	return r.queryLines(ctx, database.ListLinesByStatusSQL, status)
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateOrderLineStatusSQL, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order")
	}
	return nil
}

func (r *Repository) CancelOwn(ctx context.Context, id int64, userID string) (bool, error) {
	var cancelledID int64
	err := r.db.QueryRow(ctx, database.CancelOwnOrderLineSQL, id, userID).Scan(&cancelledID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to cancel order line: %w", err)
	}
	return true, nil
}

func (r *Repository) queryLines(ctx context.Context, sql string, arg interface{}) ([]models.OrderLine, error) {
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanLine(row pgx.Row) (models.OrderLine, error) {
	var line models.OrderLine
	err := row.Scan(
		&line.ID, &line.OrderCode, &line.UserID, &line.DishID, &line.DishName, &line.GroupID,
		&line.CustomerName, &line.CustomerAddress, &line.Quantity, &line.UnitPriceCents,
		&line.DeliveryFeeCents, &line.TotalCents, &line.Payment, &line.Notes,
		&line.Status, &line.CreatedAt)
	return line, err
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// parseID converts a path parameter to an order line id.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("id", "must be a positive integer")
	}
	return id, nil
}
