package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/crucial707/staybook/internal/db"
	"github.com/crucial707/staybook/internal/models"
)

const bookingColumns = `id, place_id, user_id, check_in, check_out, guests, name, phone, price, created_at`

// BookingRepo persists bookings. Bookings are immutable once written.
type BookingRepo struct {
	DB db.DBTX
}

// NewBookingRepo returns a new BookingRepo.
func NewBookingRepo(dbtx db.DBTX) *BookingRepo {
	return &BookingRepo{DB: dbtx}
}

// Create inserts b and fills in its id and created_at.
func (r *BookingRepo) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO bookings (place_id, user_id, check_in, check_out, guests, name, phone, price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		b.PlaceID, b.UserID, b.CheckIn, b.CheckOut, b.Guests, b.Name, b.Phone, b.Price,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

// GetByID returns one booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id int) (*models.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select booking: %w", err)
	}
	return b, nil
}

// ListByUser returns the bookings made by userID in insertion order.
func (r *BookingRepo) ListByUser(ctx context.Context, userID int) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// HasOverlap reports whether any booking of placeID intersects [checkIn, checkOut).
// A stay that starts on another stay's check-out day does not overlap it.
func (r *BookingRepo) HasOverlap(ctx context.Context, placeID int, checkIn, checkOut time.Time) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM bookings
		     WHERE place_id = $1 AND check_in < $3 AND check_out > $2
		 )`,
		placeID, checkIn, checkOut,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return exists, nil
}

// ExistsForPlace reports whether placeID has any booking.
func (r *BookingRepo) ExistsForPlace(ctx context.Context, placeID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE place_id = $1)`, placeID).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check place bookings: %w", err)
	}
	return exists, nil
}

func scanBooking(s rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	err := s.Scan(&b.ID, &b.PlaceID, &b.UserID, &b.CheckIn, &b.CheckOut, &b.Guests, &b.Name, &b.Phone, &b.Price, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}
