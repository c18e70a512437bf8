package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grizztep/Karinderya/internal/apperrors"
	"github.com/grizztep/Karinderya/internal/database"
	"github.com/grizztep/Karinderya/internal/models"
)

// Repository implements Store on PostgreSQL.
type Repository struct {
	db *database.DB
}

// NewRepository creates a catalog repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListDishes(ctx context.Context) ([]models.Dish, error) {
	rows, err := r.db.Query(ctx, database.ListDishesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var dish models.Dish
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.PriceCents, &dish.Available, &dish.CreatedAt, &dish.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *Repository) GetDish(ctx context.Context, id int64) (models.Dish, error) {
	var dish models.Dish
	err := r.db.QueryRow(ctx, database.GetDishSQL, id).
		Scan(&dish.ID, &dish.Name, &dish.PriceCents, &dish.Available, &dish.CreatedAt, &dish.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Dish{}, apperrors.NotFound("dish")
	}
	if err != nil {
		return models.Dish{}, fmt.Errorf("failed to get dish: %w", err)
	}
	return dish, nil
}

func (r *Repository) ListTables(ctx context.Context) ([]models.Table, error) {
	return r.scanTables(ctx, database.ListTablesSQL)
}

func (r *Repository) GetTable(ctx context.Context, id int64) (models.Table, error) {
	var table models.Table
	err := r.db.QueryRow(ctx, database.GetTableSQL, id).
		Scan(&table.ID, &table.Name, &table.Seats, &table.IsActive, &table.CreatedAt, &table.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Table{}, apperrors.NotFound("table")
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (r *Repository) scanTables(ctx context.Context, sql string) ([]models.Table, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var table models.Table
		if err := rows.Scan(&table.ID, &table.Name, &table.Seats, &table.IsActive, &table.CreatedAt, &table.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}
