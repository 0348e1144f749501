package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/staybook/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stay(checkIn, checkOut string, guests int) BookingInput {
	return BookingInput{PlaceID: 7, CheckIn: checkIn, CheckOut: checkOut, Guests: guests, Name: "Bob", Phone: "555-0100"}
}

func TestCreateBooking_PriceFromPlace(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	in, out := date("2024-06-01"), date("2024-06-04")
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM places WHERE id = \$1 FOR UPDATE`).WithArgs(7).
		WillReturnRows(placeRows(7, "alice@example.com", 4, 100))
	mock.ExpectQuery(`SELECT EXISTS \(\s*SELECT 1 FROM bookings`).WithArgs(7, in, out).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(7, 2, in, out, 2, "Bob", "555-0100", 300).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(2, "create", "booking", 11, "place 7 2024-06-01..2024-06-04").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking, err := svc.CreateBooking(context.Background(), bob, stay("2024-06-01", "2024-06-04", 2))
	require.NoError(t, err)
	assert.Equal(t, 11, booking.ID)
	assert.Equal(t, 300, booking.Price)
	assert.Equal(t, 3, booking.Nights())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_InvalidDateRange(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 100))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-06-01", "2024-05-30", 2))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet(), "no booking row may be written")
}

func TestCreateBooking_StayTooLong(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 1_000_000))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-01-01", "2099-01-01", 2))
	assert.ErrorIs(t, err, ErrStayTooLong)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet(), "no booking row may be written")
}

func TestCreateBooking_TotalOutOfRange(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	// a nightly price stored before the cap was enforced
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 10_000_000))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-01-01", "2024-10-27", 2))
	assert.ErrorIs(t, err, ErrBookingTotalRange)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_LongestStayAtCapFits(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, false)

	in, out := date("2024-01-01"), date("2024-12-31")
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 1_000_000))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(7, 2, in, out, 2, "Bob", "555-0100", 365_000_000).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking, err := svc.CreateBooking(context.Background(), bob, stay("2024-01-01", "2024-12-31", 2))
	require.NoError(t, err)
	assert.Equal(t, 365_000_000, booking.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_SameDayRejected(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 100))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-06-01", "2024-06-01", 1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateBooking_GuestCountExceeded(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 100))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-06-01", "2024-06-03", 10))
	assert.ErrorIs(t, err, ErrGuestCountExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_PlaceNotFound(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-06-01", "2024-06-03", 1))
	assert.ErrorIs(t, err, ErrPlaceNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateBooking_Overlap(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 100))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(7, date("2024-06-02"), date("2024-06-05")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-06-02", "2024-06-05", 1))
	assert.ErrorIs(t, err, ErrBookingOverlap)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_OverlapCheckDisabled(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, false)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 80))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(7, 2, date("2024-06-02"), date("2024-06-03"), 1, "Bob", "555-0100", 80).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, time.Now()))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-06-02", "2024-06-03", 1))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_InsertFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 100))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO bookings`).WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(13, time.Now()))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), bob, stay("2024-06-01", "2024-06-02", 1))
	assert.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_Validation(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	_, err := svc.CreateBooking(context.Background(), bob, BookingInput{PlaceID: 7, CheckIn: "06/01/2024", CheckOut: "2024-06-03", Guests: 0})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "check_in")
	assert.Contains(t, e.Fields, "guests")
	assert.Contains(t, e.Fields, "name")
	assert.Contains(t, e.Fields, "phone")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsForUser(t *testing.T) {
	db, mock := newMock(t)
	svc := NewBookingService(db, true)

	mock.ExpectQuery(`FROM bookings WHERE user_id = \$1 ORDER BY id`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "place_id", "user_id", "check_in", "check_out", "guests", "name", "phone", "price", "created_at"}).
			AddRow(1, 7, 2, date("2024-06-01"), date("2024-06-02"), 1, "Bob", "555", 100, time.Now()))

	bookings, err := svc.ListBookingsForUser(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, 2, bookings[0].UserID)
}

func TestGetBooking(t *testing.T) {
	bookingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "place_id", "user_id", "check_in", "check_out", "guests", "name", "phone", "price", "created_at"}).
			AddRow(5, 7, 2, date("2024-06-01"), date("2024-06-02"), 1, "Bob", "555", 100, time.Now())
	}

	t.Run("guest", func(t *testing.T) {
		db, mock := newMock(t)
		svc := NewBookingService(db, true)
		mock.ExpectQuery(`FROM bookings WHERE id = \$1`).WithArgs(5).WillReturnRows(bookingRow())

		b, err := svc.GetBooking(context.Background(), bob, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, b.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("place owner", func(t *testing.T) {
		db, mock := newMock(t)
		svc := NewBookingService(db, true)
		mock.ExpectQuery(`FROM bookings WHERE id = \$1`).WithArgs(5).WillReturnRows(bookingRow())
		mock.ExpectQuery(`FROM places WHERE id = \$1`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 100))

		_, err := svc.GetBooking(context.Background(), alice, 5)
		require.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		db, mock := newMock(t)
		svc := NewBookingService(db, true)
		mock.ExpectQuery(`FROM bookings WHERE id = \$1`).WithArgs(5).WillReturnRows(bookingRow())
		mock.ExpectQuery(`FROM places WHERE id = \$1`).WithArgs(7).WillReturnRows(placeRows(7, "alice@example.com", 4, 100))

		carol := alice
		carol.UserID, carol.Email = 3, "carol@example.com"
		_, err := svc.GetBooking(context.Background(), carol, 5)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		svc := NewBookingService(db, true)
		mock.ExpectQuery(`FROM bookings WHERE id = \$1`).WithArgs(5).WillReturnError(sql.ErrNoRows)

		_, err := svc.GetBooking(context.Background(), bob, 5)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}
