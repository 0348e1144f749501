package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/staybook/internal/models"
)

var (
	alice = models.Identity{UserID: 1, Email: "alice@example.com", Name: "Alice"}
	bob   = models.Identity{UserID: 2, Email: "bob@example.com", Name: "Bob"}
)

var placeCols = []string{
	"id", "owner_email", "title", "address", "photos", "description", "perks", "extra_info",
	"check_in", "check_out", "max_guests", "price", "created_at", "updated_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func placeRows(id int, owner string, maxGuests, price int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(placeCols).
		AddRow(id, owner, "Cabin", "1 Lake Rd", "{}", "", "{}", "", "14:00", "11:00", maxGuests, price, now, now)
}

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
