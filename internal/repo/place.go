package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/staybook/internal/db"
	"github.com/crucial707/staybook/internal/models"
	"github.com/lib/pq"
)

const placeColumns = `id, owner_email, title, address, photos, description, perks, extra_info,
		check_in, check_out, max_guests, price, created_at, updated_at`

// ========================
// REPOSITORY STRUCT
// ========================

type PlaceRepo struct {
	DB db.DBTX
}

func NewPlaceRepo(dbtx db.DBTX) *PlaceRepo {
	return &PlaceRepo{DB: dbtx}
}

// ========================
// CREATE PLACE
// ========================

func (r *PlaceRepo) Create(ctx context.Context, ownerEmail string, f models.PlaceFields) (*models.Place, error) {
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO places (owner_email, title, address, photos, description, perks, extra_info,
		     check_in, check_out, max_guests, price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+placeColumns,
		ownerEmail, f.Title, f.Address, pq.Array(nonNil(f.Photos)), f.Description, pq.Array(nonNil(f.Perks)),
		f.ExtraInfo, f.CheckIn, f.CheckOut, f.MaxGuests, f.Price,
	)
	p, err := scanPlace(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("insert place: %w", err)
	}
	return p, nil
}

// ========================
// GET PLACE BY ID
// ========================

func (r *PlaceRepo) GetByID(ctx context.Context, id int) (*models.Place, error) {
	return r.getOne(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id)
}

// GetByIDForUpdate reads the place and locks its row until the surrounding transaction ends.
// Callers must pass a transaction handle.
func (r *PlaceRepo) GetByIDForUpdate(ctx context.Context, id int) (*models.Place, error) {
	return r.getOne(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1 FOR UPDATE`, id)
}

// ========================
// UPDATE PLACE (OWNER-SCOPED)
// ========================

// UpdateOwned rewrites the editable fields of the place matching both id and ownerEmail.
// A place owned by someone else is indistinguishable from a missing one: both yield ErrNotFound.
func (r *PlaceRepo) UpdateOwned(ctx context.Context, id int, ownerEmail string, f models.PlaceFields) (*models.Place, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE places
		 SET title = $1, address = $2, photos = $3, description = $4, perks = $5, extra_info = $6,
		     check_in = $7, check_out = $8, max_guests = $9, price = $10, updated_at = now()
		 WHERE id = $11 AND owner_email = $12
		 RETURNING `+placeColumns,
		f.Title, f.Address, pq.Array(nonNil(f.Photos)), f.Description, pq.Array(nonNil(f.Perks)), f.ExtraInfo,
		f.CheckIn, f.CheckOut, f.MaxGuests, f.Price,
		id, ownerEmail,
	)
	p, err := scanPlace(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update place: %w", err)
	}
	return p, nil
}

// ========================
// DELETE PLACE (OWNER-SCOPED)
// ========================

func (r *PlaceRepo) DeleteOwned(ctx context.Context, id int, ownerEmail string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM places WHERE id = $1 AND owner_email = $2`, id, ownerEmail)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenced
		}
		return fmt.Errorf("delete place: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ========================
// LIST PLACES
// ========================

func (r *PlaceRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]models.Place, error) {
	return r.list(ctx, `SELECT `+placeColumns+` FROM places WHERE owner_email = $1 ORDER BY id`, ownerEmail)
}

func (r *PlaceRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Place, error) {
	return r.list(ctx, `SELECT `+placeColumns+` FROM places ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PlaceRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM places`).Scan(&n)
	return n, err
}

func (r *PlaceRepo) getOne(ctx context.Context, query string, id int) (*models.Place, error) {
	p, err := scanPlace(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select place: %w", err)
	}
	return p, nil
}

func (r *PlaceRepo) list(ctx context.Context, query string, args ...any) ([]models.Place, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()

	places := []models.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

func scanPlace(s rowScanner) (*models.Place, error) {
	p := &models.Place{}
	var photos, perks pq.StringArray
	err := s.Scan(
		&p.ID, &p.OwnerEmail, &p.Title, &p.Address, &photos, &p.Description, &perks, &p.ExtraInfo,
		&p.CheckIn, &p.CheckOut, &p.MaxGuests, &p.Price, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Photos = nonNil(photos)
	p.Perks = nonNil(perks)
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
