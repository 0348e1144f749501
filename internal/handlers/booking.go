package handlers

import (
	"net/http"

	"github.com/crucial707/staybook/internal/service"
)

// BookingHandler serves booking endpoints. All of them require an identity.
type BookingHandler struct {
	Bookings *service.BookingService
}

// CreateBooking books a place for the caller. A "price" field in the body is ignored.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var input service.BookingInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.Bookings.CreateBooking(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// ListBookings returns the caller's own bookings.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	bookings, err := h.Bookings.ListBookingsForUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.Bookings.GetBooking(r.Context(), id, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}
