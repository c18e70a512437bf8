package models

import (
	"strings"
	"time"

	"github.com/grizztep/Karinderya/internal/apperrors"
)

// ReservationStatus represents the status of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// ParseReservationStatus normalizes a raw status value.
func ParseReservationStatus(raw string) (ReservationStatus, bool) {
	switch ReservationStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ReservationPending:
		return ReservationPending, true
	case ReservationConfirmed:
		return ReservationConfirmed, true
	case ReservationCancelled:
		return ReservationCancelled, true
	case ReservationCompleted:
		return ReservationCompleted, true
	default:
		return "", false
	}
}

// ValidNext returns the statuses reachable from s under normal staff flow.
// The update endpoint itself only enforces the past-slot lock; this
// machine backs the delete guard and documents the intended lifecycle.
func (s ReservationStatus) ValidNext() []ReservationStatus {
	switch s {
	case ReservationPending:
		return []ReservationStatus{ReservationConfirmed, ReservationCancelled}
	case ReservationConfirmed:
		return []ReservationStatus{ReservationCompleted, ReservationCancelled}
	default:
		return nil
	}
}

// CanDelete reports whether a reservation in this status may be removed.
// Confirmed and completed reservations are part of the service record.
func (s ReservationStatus) CanDelete() bool {
	return s == ReservationPending || s == ReservationCancelled
}

const (
	slotDateLayout = "2006-01-02"
	slotTimeLayout = "15:04"
)

// Slot identifies one bookable unit: a table-independent date plus
// time-of-day pair, stored as distinct unambiguous fields.
type Slot struct {
	Date string `json:"reservation_date"`
	Time string `json:"reservation_time"`
}

// ParseSlot validates the wire representation of a slot.
func ParseSlot(date, timeOfDay string) (Slot, error) {
	if _, err := time.Parse(slotDateLayout, date); err != nil {
		return Slot{}, apperrors.Validation("reservation_date", "must be a valid date in YYYY-MM-DD format")
	}
	if _, err := time.Parse(slotTimeLayout, timeOfDay); err != nil {
		return Slot{}, apperrors.Validation("reservation_time", "must be a valid time in HH:MM format")
	}
	return Slot{Date: date, Time: timeOfDay}, nil
}

// Instant composes the slot into a point in time in now's location.
func (s Slot) Instant(loc *time.Location) time.Time {
	t, _ := time.ParseInLocation(slotDateLayout+" "+slotTimeLayout, s.Date+" "+s.Time, loc)
	return t
}

// Elapsed reports whether the slot's instant is already in the past.
func (s Slot) Elapsed(now time.Time) bool {
	return s.Instant(now.Location()).Before(now)
}

// Hour returns the slot's hour of day.
func (s Slot) Hour() int {
	t, _ := time.Parse(slotTimeLayout, s.Time)
	return t.Hour()
}

// DateBefore reports whether the slot's date is before now's date.
func (s Slot) DateBefore(now time.Time) bool {
	return s.Date < now.Format(slotDateLayout)
}

// SameDate reports whether the slot falls on now's date.
func (s Slot) SameDate(now time.Time) bool {
	return s.Date == now.Format(slotDateLayout)
}

// Reservation represents one booking of a table for a slot.
type Reservation struct {
	ID         int64             `json:"id" db:"id"`
	UserID     string            `json:"user_id" db:"user_id"`
	UserName   string            `json:"user_name" db:"user_name"`
	UserEmail  string            `json:"user_email" db:"user_email"`
	TableID    int64             `json:"table_id" db:"table_id"`
	Table      *Table            `json:"table,omitempty"`
	GuestCount int               `json:"guest_count" db:"guest_count"`
	Slot       Slot              `json:"slot"`
	Status     ReservationStatus `json:"status" db:"status"`
	ReservedAt time.Time         `json:"reserved_at" db:"reserved_at"`
}

// CreateReservationRequest is the payload for placing a reservation. The
// requester identity comes from the authenticated context, not the body.
type CreateReservationRequest struct {
	TableID         int64  `json:"table_id"`
	GuestCount      int    `json:"guest_count"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
}

// Validate checks the request shape. Slot semantics (operating window,
// future time) are the reservation engine's responsibility.
func (r *CreateReservationRequest) Validate() (Slot, error) {
	if r.TableID <= 0 {
		return Slot{}, apperrors.Validation("table_id", "table id is required")
	}
	if r.GuestCount < 1 {
		return Slot{}, apperrors.Validation("guest_count", "guest count must be at least 1")
	}
	return ParseSlot(r.ReservationDate, r.ReservationTime)
}

// UpdateReservationStatusRequest is the staff payload for status changes.
type UpdateReservationStatusRequest struct {
	Status string `json:"status"`
}

// AvailabilityRequest asks which tables are free for a slot.
type AvailabilityRequest struct {
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
}

// Validate checks the availability request shape.
func (r *AvailabilityRequest) Validate() (Slot, error) {
	return ParseSlot(r.ReservationDate, r.ReservationTime)
}

// AvailabilityResponse maps each active table id to whether it is free.
type AvailabilityResponse struct {
	Availability map[int64]bool `json:"availability"`
	BookedTables []int64        `json:"booked_tables"`
	TotalTables  int            `json:"total_tables"`
}

// ReservationStatistics summarizes reservations for the staff dashboard.
type ReservationStatistics struct {
	Total     int `json:"total_reservations"`
	Today     int `json:"today_reservations"`
	Pending   int `json:"pending_reservations"`
	Confirmed int `json:"confirmed_reservations"`
	Cancelled int `json:"cancelled_reservations"`
	Completed int `json:"completed_reservations"`
	Upcoming  int `json:"upcoming_reservations"`
}
