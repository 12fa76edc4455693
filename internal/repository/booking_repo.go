package repository

import (
	"context"
	"errors"
	"fmt"

	"kaamsetu/internal/model"

	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, user_id, service_name, price, image, status, date, address, provider_id, created_at`

// BookingRepository defines operations for booking data
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
	ListPending(ctx context.Context) ([]model.Booking, error)
	ListByProvider(ctx context.Context, providerID int64) ([]model.Booking, error)
	// Accept moves a Pending booking to On The Way for providerID. It returns
	// nil without error when the booking is missing or no longer Pending.
	Accept(ctx context.Context, bookingID, providerID int64) (*model.Booking, error)
}

type bookingRepository struct {
	db DBTX
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DBTX) BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row scanner, b *model.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.ServiceName, &b.Price, &b.Image,
		&b.Status, &b.Date, &b.Address, &b.ProviderID, &b.CreatedAt)
}

// Create inserts a new booking; status and provider come from the model as given
func (r *bookingRepository) Create(ctx context.Context, b *model.Booking) error {
	sql := `INSERT INTO bookings (user_id, service_name, price, image, status, date, address, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRow(ctx, sql, b.UserID, b.ServiceName, b.Price, b.Image, b.Status, b.Date, b.Address, b.CreatedAt).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w: %w", ErrPersistence, err)
	}
	return nil
}

// FindByID retrieves a booking by id, nil when absent
func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	b := &model.Booking{}
	sql := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := scanBooking(r.db.QueryRow(ctx, sql, id), b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w: %w", ErrPersistence, err)
	}
	return b, nil
}

// ListByUser returns the user's bookings, newest first
func (r *bookingRepository) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	sql := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY id DESC`
	return r.list(ctx, sql, userID)
}

// ListPending returns every booking still waiting for a provider
func (r *bookingRepository) ListPending(ctx context.Context) ([]model.Booking, error) {
	sql := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY id`
	return r.list(ctx, sql, model.BookingStatusPending)
}

// ListByProvider returns the bookings assigned to a provider, newest first
func (r *bookingRepository) ListByProvider(ctx context.Context, providerID int64) ([]model.Booking, error) {
	sql := `SELECT ` + bookingColumns + ` FROM bookings WHERE provider_id = $1 ORDER BY id DESC`
	return r.list(ctx, sql, providerID)
}

// Accept is a single conditional update, so of two concurrent accepts only
// one can match status = 'Pending'
func (r *bookingRepository) Accept(ctx context.Context, bookingID, providerID int64) (*model.Booking, error) {
	sql := `UPDATE bookings SET status = $1, provider_id = $2
            WHERE id = $3 AND status = $4
            RETURNING ` + bookingColumns
	b := &model.Booking{}
	err := scanBooking(r.db.QueryRow(ctx, sql, model.BookingStatusOnTheWay, providerID, bookingID, model.BookingStatusPending), b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to accept booking: %w: %w", ErrPersistence, err)
	}
	return b, nil
}

func (r *bookingRepository) list(ctx context.Context, sql string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w: %w", ErrPersistence, err)
	}
	defer rows.Close()

	bookings := []model.Booking{}
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w: %w", ErrPersistence, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w: %w", ErrPersistence, err)
	}
	return bookings, nil
}
