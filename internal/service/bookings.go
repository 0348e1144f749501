package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/staybook/internal/apperr"
	"github.com/crucial707/staybook/internal/authz"
	"github.com/crucial707/staybook/internal/db"
	"github.com/crucial707/staybook/internal/metrics"
	"github.com/crucial707/staybook/internal/models"
	"github.com/crucial707/staybook/internal/repo"
)

// BookingInput is a booking request. Dates use models.DateLayout. Any price sent by the client is
// not part of the input: the total is computed from the place's nightly price.
type BookingInput struct {
	PlaceID  int    `json:"place" validate:"gt=0"`
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests   int    `json:"guests" validate:"gte=1"`
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"required,max=50"`
}

// BookingService creates and reads bookings.
type BookingService struct {
	db                   *sql.DB
	preventDoubleBooking bool
}

// NewBookingService returns a BookingService. When preventDoubleBooking is set, a booking that
// overlaps an existing booking of the same place is rejected.
func NewBookingService(db *sql.DB, preventDoubleBooking bool) *BookingService {
	return &BookingService{db: db, preventDoubleBooking: preventDoubleBooking}
}

// CreateBooking books a place for the caller. The place row stays locked from the capacity and
// overlap checks until the booking is committed, so concurrent requests for the same place are
// serialized.
func (s *BookingService) CreateBooking(ctx context.Context, identity models.Identity, in BookingInput) (*models.Booking, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(in); err != nil {
		metrics.IncBookings("rejected")
		return nil, err
	}
	checkIn, checkOut, err := parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		metrics.IncBookings("rejected")
		return nil, err
	}

	var booking *models.Booking
	err = db.WithTx(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		place, err := repo.NewPlaceRepo(tx).GetByIDForUpdate(ctx, in.PlaceID)
		if err != nil {
			return placeErr(err)
		}
		if !checkIn.Before(checkOut) {
			return ErrInvalidDateRange
		}
		nights := models.Nights(checkIn, checkOut)
		if nights > models.MaxStayNights {
			return ErrStayTooLong
		}
		// places priced before the nightly cap existed can still overflow the column
		total := int64(nights) * int64(place.Price)
		if total > models.MaxBookingTotal {
			return ErrBookingTotalRange
		}
		if in.Guests > place.MaxGuests {
			return ErrGuestCountExceeded
		}

		bookings := repo.NewBookingRepo(tx)
		if s.preventDoubleBooking {
			overlap, err := bookings.HasOverlap(ctx, place.ID, checkIn, checkOut)
			if err != nil {
				return err
			}
			if overlap {
				return ErrBookingOverlap
			}
		}

		booking, err = bookings.Create(ctx, &models.Booking{
			PlaceID:  place.ID,
			UserID:   identity.UserID,
			CheckIn:  checkIn,
			CheckOut: checkOut,
			Guests:   in.Guests,
			Name:     in.Name,
			Phone:    in.Phone,
			Price:    int(total),
		})
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrPlaceNotFound
			}
			return err
		}
		return repo.NewAuditRepo(tx).Log(ctx, identity.UserID, models.AuditCreate, models.ResourceBooking, booking.ID,
			"place "+strconv.Itoa(place.ID)+" "+in.CheckIn+".."+in.CheckOut)
	})
	if err != nil {
		if errors.Is(err, ErrBookingOverlap) {
			metrics.IncBookings("overlap")
		} else {
			metrics.IncBookings("rejected")
		}
		return nil, err
	}
	metrics.IncBookings("created")
	return booking, nil
}

// ListBookingsForUser returns the caller's bookings in the order they were made.
func (s *BookingService) ListBookingsForUser(ctx context.Context, identity models.Identity) ([]models.Booking, error) {
	return repo.NewBookingRepo(s.db).ListByUser(ctx, identity.UserID)
}

// GetBooking returns one booking to its guest or to the owner of the booked place.
func (s *BookingService) GetBooking(ctx context.Context, identity models.Identity, bookingID int) (*models.Booking, error) {
	booking, err := repo.NewBookingRepo(s.db).GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	ownerEmail := ""
	if booking.UserID != identity.UserID {
		place, err := repo.NewPlaceRepo(s.db).GetByID(ctx, booking.PlaceID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		if place != nil {
			ownerEmail = place.OwnerEmail
		}
	}
	if err := authz.AuthorizeBookingRead(identity, booking, ownerEmail); err != nil {
		return nil, err
	}
	return booking, nil
}

func parseStay(in, out string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(models.DateLayout, in)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation(map[string]string{"check_in": "must be a date in YYYY-MM-DD format"})
	}
	checkOut, err := time.Parse(models.DateLayout, out)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation(map[string]string{"check_out": "must be a date in YYYY-MM-DD format"})
	}
	return checkIn, checkOut, nil
}
