package reservation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/grizztep/Karinderya/internal/apperrors"
	"github.com/grizztep/Karinderya/internal/database"
	"github.com/grizztep/Karinderya/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// Repository implements Store on PostgreSQL.
type Repository struct {
	db *database.DB
}

// NewRepository creates a reservation repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
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

func (r *Repository) ListActiveTables(ctx context.Context) ([]models.Table, error) {
	rows, err := r.db.Query(ctx, database.ListActiveTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tables: %w", err)
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

func (r *Repository) BookedTableIDs(ctx context.Context, slot models.Slot) ([]int64, error) {
	rows, err := r.db.Query(ctx, database.GetBookedTableIDsSQL, slot.Date, slot.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked tables: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan table id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) SlotTaken(ctx context.Context, tableID int64, slot models.Slot) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, database.SlotTakenSQL, tableID, slot.Date, slot.Time).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}

// Insert persists a reservation. A unique index violation on the slot is
// returned as the authoritative Conflict.
func (r *Repository) Insert(ctx context.Context, reservation *models.Reservation) error {
	err := r.db.QueryRow(ctx, database.InsertReservationSQL,
		reservation.UserID, reservation.UserName, reservation.UserEmail,
		reservation.TableID, reservation.GuestCount,
		reservation.Slot.Date, reservation.Slot.Time, reservation.Status).
		Scan(&reservation.ID, &reservation.ReservedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.Conflict("table unavailable at that time")
	}
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.QueryRow(ctx, database.GetReservationSQL, id).Scan(
		&reservation.ID, &reservation.UserID, &reservation.UserName, &reservation.UserEmail,
		&reservation.TableID, &reservation.GuestCount,
		&reservation.Slot.Date, &reservation.Slot.Time,
		&reservation.Status, &reservation.ReservedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Reservation{}, apperrors.NotFound("reservation")
	}
	if err != nil {
		return models.Reservation{}, fmt.Errorf("failed to get reservation: %w", err)
	}
	return reservation, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateReservationStatusSQL, status, id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("reservation")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteReservationSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("reservation")
	}
	return nil
}

func (r *Repository) CancelOwn(ctx context.Context, id int64, userID string) (bool, error) {
	var cancelledID int64
	err := r.db.QueryRow(ctx, database.CancelOwnReservationSQL, id, userID).Scan(&cancelledID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}
	return true, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Reservation, error) {
	sql := database.ListReservationsSQL
	var args []interface{}

	switch {
	case filter.Status != "" && filter.Date != "":
		sql += " WHERE status = $1 AND reservation_date = $2::date"
		args = append(args, filter.Status, filter.Date)
	case filter.Status != "":
		sql += " WHERE status = $1"
		args = append(args, filter.Status)
	case filter.Date != "":
		sql += " WHERE reservation_date = $1::date"
		args = append(args, filter.Date)
	}
	sql += " ORDER BY reservation_date DESC, reservation_time DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		var reservation models.Reservation
		if err := rows.Scan(
			&reservation.ID, &reservation.UserID, &reservation.UserName, &reservation.UserEmail,
			&reservation.TableID, &reservation.GuestCount,
			&reservation.Slot.Date, &reservation.Slot.Time,
			&reservation.Status, &reservation.ReservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}
	return reservations, rows.Err()
}

func (r *Repository) Statistics(ctx context.Context) (models.ReservationStatistics, error) {
	var stats models.ReservationStatistics
	err := r.db.QueryRow(ctx, database.ReservationStatisticsSQL).Scan(
		&stats.Total, &stats.Today, &stats.Pending, &stats.Confirmed,
		&stats.Cancelled, &stats.Completed, &stats.Upcoming)
	if err != nil {
		return models.ReservationStatistics{}, fmt.Errorf("failed to load statistics: %w", err)
	}
	return stats, nil
}

// parseID converts a path parameter to a reservation id.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("id", "must be a positive integer")
	}
	return id, nil
}
