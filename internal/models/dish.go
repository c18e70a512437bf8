package models

import "time"

// Dish represents an orderable menu item. Price is stored in centavos so
// totals stay exact. A dish referenced by an order is never mutated; the
// order keeps its own price snapshot.
type Dish struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	Available  bool      `json:"available" db:"available"`
	CreatedAt  time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
