package service

import "github.com/crucial707/staybook/internal/apperr"

// Domain errors returned by the services. Each carries its apperr.Kind so the transport layer can
// pick a status code without knowing the individual cases.
var (
	ErrEmailTaken         = apperr.New(apperr.KindConflict, "email already registered")
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "invalid credentials")
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "user not found")

	ErrPlaceNotFound    = apperr.New(apperr.KindNotFound, "place not found")
	ErrPlaceHasBookings = apperr.New(apperr.KindConflict, "place has bookings")

	ErrBookingNotFound    = apperr.New(apperr.KindNotFound, "booking not found")
	ErrInvalidDateRange   = apperr.New(apperr.KindValidation, "check-out must be after check-in")
	ErrGuestCountExceeded = apperr.New(apperr.KindValidation, "guest count exceeds the place maximum")
	ErrStayTooLong        = apperr.New(apperr.KindValidation, "stay may not exceed 365 nights")
	ErrBookingTotalRange  = apperr.New(apperr.KindValidation, "booking total exceeds the maximum price")
	ErrBookingOverlap     = apperr.New(apperr.KindConflict, "place is already booked for these dates")
)
