// Package reservation implements table availability checks and the booking
// engine: slot validation, double-booking protection and the reservation
// status lifecycle.
package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/grizztep/Karinderya/internal/apperrors"
	"github.com/grizztep/Karinderya/internal/config"
	"github.com/grizztep/Karinderya/internal/logger"
	"github.com/grizztep/Karinderya/internal/middleware"
	"github.com/grizztep/Karinderya/internal/models"
)

// ListFilter narrows staff reservation listings.
type ListFilter struct {
	Status string
	Date   string
}

// Store is the persistence boundary for the reservation engine. Insert
// must report a slot collision as apperrors.ConflictError; the unique
// index on (table, date, time) is the authoritative guard.
type Store interface {
	GetTable(ctx context.Context, id int64) (models.Table, error)
	ListActiveTables(ctx context.Context) ([]models.Table, error)
	BookedTableIDs(ctx context.Context, slot models.Slot) ([]int64, error)
	SlotTaken(ctx context.Context, tableID int64, slot models.Slot) (bool, error)
	Insert(ctx context.Context, reservation *models.Reservation) error
	Get(ctx context.Context, id int64) (models.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error
	Delete(ctx context.Context, id int64) error
	CancelOwn(ctx context.Context, id int64, userID string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]models.Reservation, error)
	Statistics(ctx context.Context) (models.ReservationStatistics, error)
}

// Service is the reservation engine.
type Service struct {
	store       Store
	logger      *logger.Logger
	openingHour int
	closingHour int
	now         func() time.Time
}

// NewService creates a reservation service. The operating window comes
// from configuration; the clock defaults to time.Now and is injectable
// for tests.
func NewService(store Store, log *logger.Logger, app config.AppConfig) *Service {
	return &Service{
		store:       store,
		logger:      log,
		openingHour: app.OpeningHour,
		closingHour: app.ClosingHour,
		now:         time.Now,
	}
}

// CheckAvailability reports, for every active table, whether the slot is
// free. Busy means a pending or confirmed reservation holds the exact
// (date, time) pair. Read-only and safe without authentication.
func (s *Service) CheckAvailability(ctx context.Context, req *models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
	slot, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if slot.DateBefore(s.now()) {
		return nil, apperrors.Validation("reservation_date", "date must be today or a future date")
	}

	tables, err := s.store.ListActiveTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	bookedIDs, err := s.store.BookedTableIDs(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked tables: %w", err)
	}

	booked := make(map[int64]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	resp := &models.AvailabilityResponse{
		Availability: make(map[int64]bool, len(tables)),
		BookedTables: bookedIDs,
		TotalTables:  len(tables),
	}
	for _, table := range tables {
		resp.Availability[table.ID] = !booked[table.ID]
	}
	return resp, nil
}

// Create validates and persists one reservation. Checks run in order:
// table exists and is active, time within the operating window, slot not
// in the past, guest count within capacity, slot free. The pre-check for
// a free slot is advisory; a concurrent insert still fails on the unique
// index and surfaces as the same Conflict.
func (s *Service) Create(ctx context.Context, requester middleware.Identity, req *models.CreateReservationRequest) (*models.Reservation, error) {
	slot, err := req.Validate()
	if err != nil {
		return nil, err
	}

	table, err := s.store.GetTable(ctx, req.TableID)
	if err != nil {
		return nil, err
	}
	if !table.IsActive {
		return nil, apperrors.NotFound("table")
	}

	if hour := slot.Hour(); hour < s.openingHour || hour > s.closingHour {
		return nil, apperrors.Validation("reservation_time",
			"invalid time: the restaurant is open from %d:00 to %d:00 only", s.openingHour, s.closingHour)
	}

	now := s.now()
	if slot.DateBefore(now) {
		return nil, apperrors.Validation("reservation_date", "date must be today or a future date")
	}
	if slot.SameDate(now) && slot.Elapsed(now) {
		return nil, apperrors.Validation("reservation_time",
			"cannot make a reservation for a past time, please select a future time")
	}

	if req.GuestCount > table.Seats {
		return nil, apperrors.Validation("guest_count",
			"guest count (%d) exceeds table capacity (%d seats)", req.GuestCount, table.Seats)
	}

	taken, err := s.store.SlotTaken(ctx, table.ID, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, apperrors.Conflict("table unavailable at that time")
	}

	reservation := &models.Reservation{
		UserID:     requester.UserID,
		UserName:   requester.Name,
		UserEmail:  requester.Email,
		TableID:    table.ID,
		GuestCount: req.GuestCount,
		Slot:       slot,
		Status:     models.ReservationPending,
	}
	if err := s.store.Insert(ctx, reservation); err != nil {
		return nil, err
	}
	reservation.Table = &table

	s.logger.Info("reservation_created", "Reservation created", "", map[string]interface{}{
		"reservation_id": reservation.ID,
		"table_id":       table.ID,
		"date":           slot.Date,
		"time":           slot.Time,
	})
	return reservation, nil
}

// UpdateStatus applies a staff status change. Once the slot has elapsed
// the only permitted target status is completed.
func (s *Service) UpdateStatus(ctx context.Context, id int64, rawStatus string) (*models.Reservation, error) {
	status, ok := models.ParseReservationStatus(rawStatus)
	if !ok {
		return nil, apperrors.Validation("status", "status must be one of: pending, confirmed, cancelled, completed")
	}

	reservation, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.Slot.Elapsed(s.now()) && status != models.ReservationCompleted {
		return nil, apperrors.State("cannot change status for past reservations except to completed")
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	reservation.Status = status

	if table, err := s.store.GetTable(ctx, reservation.TableID); err == nil {
		reservation.Table = &table
	}
	return &reservation, nil
}

// Delete removes a reservation. Confirmed and completed reservations are
// part of the service record and may not be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	reservation, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !reservation.Status.CanDelete() {
		return apperrors.State("cannot delete confirmed or completed reservations")
	}
	return s.store.Delete(ctx, id)
}

// CancelOwn cancels the requester's own pending reservation. Any other
// case reports not-found, deliberately indistinguishable from a missing
// id so other users' reservations are not revealed.
func (s *Service) CancelOwn(ctx context.Context, id int64, userID string) (*models.Reservation, error) {
	cancelled, err := s.store.CancelOwn(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if !cancelled {
		return nil, apperrors.NotFound("reservation")
	}

	reservation, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Get returns one reservation with its table.
func (s *Service) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if table, err := s.store.GetTable(ctx, reservation.TableID); err == nil {
		reservation.Table = &table
	}
	return &reservation, nil
}

// List returns reservations for staff, optionally filtered.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Reservation, error) {
	if filter.Status != "" {
		status, ok := models.ParseReservationStatus(filter.Status)
		if !ok {
			return nil, apperrors.Validation("status", "unknown status filter")
		}
		filter.Status = string(status)
	}
	if filter.Date != "" {
		if _, err := models.ParseSlot(filter.Date, "00:00"); err != nil {
			return nil, apperrors.Validation("date", "must be a valid date in YYYY-MM-DD format")
		}
	}
	return s.store.List(ctx, filter)
}

// Statistics summarizes reservations for the staff dashboard.
func (s *Service) Statistics(ctx context.Context) (models.ReservationStatistics, error) {
	return s.store.Statistics(ctx)
}
