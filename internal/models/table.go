package models

import "time"

// Table represents a seating resource. Seats is the upper bound for the
// guest count of any reservation placed on it.
type Table struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Seats     int       `json:"seats" db:"seats"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
