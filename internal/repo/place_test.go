package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/staybook/internal/models"
	"github.com/lib/pq"
)

var placeRowColumns = []string{
	"id", "owner_email", "title", "address", "photos", "description", "perks", "extra_info",
	"check_in", "check_out", "max_guests", "price", "created_at", "updated_at",
}

func placeRow(id int, owner string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(placeRowColumns).
		AddRow(id, owner, "Cabin", "1 Lake Rd", "{a.jpg,b.jpg}", "cozy", "{wifi}", "", "14:00", "11:00", 4, 100, now, now)
}

func TestPlaceRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO places \(owner_email, title, address, photos`).
		WithArgs("alice@example.com", "Cabin", "1 Lake Rd", sqlmock.AnyArg(), "cozy", sqlmock.AnyArg(), "",
			"14:00", "11:00", 4, 100).
		WillReturnRows(placeRow(7, "alice@example.com"))

	repo := NewPlaceRepo(db)
	p, err := repo.Create(context.Background(), "alice@example.com", models.PlaceFields{
		Title: "Cabin", Address: "1 Lake Rd", Photos: []string{"a.jpg", "b.jpg"}, Description: "cozy",
		Perks: []string{"wifi"}, CheckIn: "14:00", CheckOut: "11:00", MaxGuests: 4, Price: 100,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != 7 || p.OwnerEmail != "alice@example.com" {
		t.Errorf("unexpected place: %+v", p)
	}
	if len(p.Photos) != 2 || p.Photos[1] != "b.jpg" {
		t.Errorf("unexpected photos: %v", p.Photos)
	}
	if len(p.Perks) != 1 || p.Perks[0] != "wifi" {
		t.Errorf("unexpected perks: %v", p.Perks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPlaceRepo_GetByIDForUpdate_Locks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM places WHERE id = \$1 FOR UPDATE`).
		WithArgs(7).
		WillReturnRows(placeRow(7, "alice@example.com"))

	repo := NewPlaceRepo(db)
	p, err := repo.GetByIDForUpdate(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if p.ID != 7 {
		t.Errorf("unexpected place: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPlaceRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM places WHERE id = \$1`).
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	repo := NewPlaceRepo(db)
	if _, err := repo.GetByID(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestPlaceRepo_UpdateOwned_ScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE places\s+SET .+\s+WHERE id = \$11 AND owner_email = \$12`).
		WithArgs("Cabin", "1 Lake Rd", sqlmock.AnyArg(), "", sqlmock.AnyArg(), "", "", "", 2, 90,
			7, "mallory@example.com").
		WillReturnError(sql.ErrNoRows)

	repo := NewPlaceRepo(db)
	_, err = repo.UpdateOwned(context.Background(), 7, "mallory@example.com", models.PlaceFields{
		Title: "Cabin", Address: "1 Lake Rd", MaxGuests: 2, Price: 90,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPlaceRepo_DeleteOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM places WHERE id = \$1 AND owner_email = \$2`).
		WithArgs(7, "alice@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM places WHERE id = \$1 AND owner_email = \$2`).
		WithArgs(8, "alice@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM places`).
		WithArgs(9, "alice@example.com").
		WillReturnError(&pq.Error{Code: "23503"})

	repo := NewPlaceRepo(db)
	if err := repo.DeleteOwned(context.Background(), 7, "alice@example.com"); err != nil {
		t.Errorf("DeleteOwned: %v", err)
	}
	if err := repo.DeleteOwned(context.Background(), 8, "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.DeleteOwned(context.Background(), 9, "alice@example.com"); !errors.Is(err, ErrReferenced) {
		t.Errorf("expected ErrReferenced, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPlaceRepo_ListByOwner_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM places WHERE owner_email = \$1 ORDER BY id`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(placeRowColumns))

	repo := NewPlaceRepo(db)
	places, err := repo.ListByOwner(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if places == nil || len(places) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", places)
	}
}

func TestPlaceRepo_ListPaginated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(placeRowColumns).
		AddRow(1, "a@example.com", "One", "x", "{}", "", "{}", "", "", "", 1, 10, now, now).
		AddRow(2, "b@example.com", "Two", "y", "{}", "", "{}", "", "", "", 2, 20, now, now)
	mock.ExpectQuery(`FROM places ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 0).
		WillReturnRows(rows)

	repo := NewPlaceRepo(db)
	places, err := repo.ListPaginated(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("ListPaginated: %v", err)
	}
	if len(places) != 2 || places[0].ID != 1 || places[1].ID != 2 {
		t.Errorf("unexpected places: %+v", places)
	}
	if places[0].Photos == nil || places[0].Perks == nil {
		t.Error("empty arrays should decode to non-nil slices")
	}
}

func TestPlaceRepo_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM places`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := NewPlaceRepo(db).Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 42 {
		t.Errorf("Count: got %d, want 42", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
