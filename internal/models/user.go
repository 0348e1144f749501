package models

import "time"

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the verified caller, as carried in a session token.
type Identity struct {
	UserID int    `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
