package models

import "time"

// Place is a rentable listing. OwnerEmail is the ownership key and is set once, at creation,
// from the verified identity of the creator.
type Place struct {
	ID          int       `json:"id"`
	OwnerEmail  string    `json:"owner_email"`
	Title       string    `json:"title"`
	Address     string    `json:"address"`
	Photos      []string  `json:"photos"`
	Description string    `json:"description"`
	Perks       []string  `json:"perks"`
	ExtraInfo   string    `json:"extra_info"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	MaxGuests   int       `json:"max_guests"`
	Price       int       `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaxNightlyPrice caps the nightly price so a booking total always fits the INTEGER price column.
const MaxNightlyPrice = 1_000_000

// PlaceFields are the caller-editable attributes of a Place.
type PlaceFields struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Address     string   `json:"address" validate:"required,max=500"`
	Photos      []string `json:"photos" validate:"max=50,dive,required,max=2048"`
	Description string   `json:"description" validate:"max=10000"`
	Perks       []string `json:"perks" validate:"max=50,dive,required,max=100"`
	ExtraInfo   string   `json:"extra_info" validate:"max=10000"`
	CheckIn     string   `json:"check_in" validate:"max=20"`
	CheckOut    string   `json:"check_out" validate:"max=20"`
	MaxGuests   int      `json:"max_guests" validate:"gte=1,lte=1000"`
	Price       int      `json:"price" validate:"gte=0,lte=1000000"`
}
