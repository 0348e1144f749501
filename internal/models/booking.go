package models

import "time"

// DateLayout is the wire and storage format of booking dates.
const DateLayout = "2006-01-02"

// MaxStayNights is the longest stay a single booking may cover.
const MaxStayNights = 365

// MaxBookingTotal is the largest total the bookings.price column can hold.
const MaxBookingTotal = 1<<31 - 1

// Booking is a stay at a Place. Price is the total captured when the booking was made and does not
// follow later changes to the place's nightly price.
type Booking struct {
	ID        int       `json:"id"`
	PlaceID   int       `json:"place_id"`
	UserID    int       `json:"user_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Guests    int       `json:"guests"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// Nights is the number of nights between check-in and check-out.
func (b Booking) Nights() int {
	return Nights(b.CheckIn, b.CheckOut)
}

// Nights counts calendar nights between two dates, ignoring time of day.
func Nights(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}
