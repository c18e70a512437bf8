// Package catalog serves the read-only dish menu and table registry. Both
// are administrative data; this service never mutates them.
package catalog

import (
	"context"

	"github.com/grizztep/Karinderya/internal/models"
)

// Store is the persistence boundary for catalog reads.
type Store interface {
	ListDishes(ctx context.Context) ([]models.Dish, error)
	GetDish(ctx context.Context, id int64) (models.Dish, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	GetTable(ctx context.Context, id int64) (models.Table, error)
}

// Service exposes catalog reads.
type Service struct {
	store Store
}

// NewService creates a catalog service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListDishes returns the full menu, including sold-out dishes so the menu
// can render them as unavailable.
func (s *Service) ListDishes(ctx context.Context) ([]models.Dish, error) {
	return s.store.ListDishes(ctx)
}

// GetDish returns one menu item.
func (s *Service) GetDish(ctx context.Context, id int64) (models.Dish, error) {
	return s.store.GetDish(ctx, id)
}

// ListTables returns all seating resources.
func (s *Service) ListTables(ctx context.Context) ([]models.Table, error) {
	return s.store.ListTables(ctx)
}

// GetTable returns one table.
func (s *Service) GetTable(ctx context.Context, id int64) (models.Table, error) {
	return s.store.GetTable(ctx, id)
}
