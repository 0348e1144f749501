package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/staybook/internal/authz"
	"github.com/crucial707/staybook/internal/db"
	"github.com/crucial707/staybook/internal/models"
	"github.com/crucial707/staybook/internal/repo"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PlaceService manages listings. Only the owner may change or remove a place.
type PlaceService struct {
	db *sql.DB
}

func NewPlaceService(db *sql.DB) *PlaceService {
	return &PlaceService{db: db}
}

// CreatePlace stores a new place owned by the caller. Any owner supplied by the client is ignored.
func (s *PlaceService) CreatePlace(ctx context.Context, identity models.Identity, fields models.PlaceFields) (*models.Place, error) {
	fields = normalizePlaceFields(fields)
	if err := validateStruct(fields); err != nil {
		return nil, err
	}

	var place *models.Place
	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		var err error
		place, err = repo.NewPlaceRepo(tx).Create(ctx, identity.Email, fields)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return repo.NewAuditRepo(tx).Log(ctx, identity.UserID, models.AuditCreate, models.ResourcePlace, place.ID, place.Title)
	})
	if err != nil {
		return nil, err
	}
	return place, nil
}

// UpdatePlace replaces the editable fields of a place owned by the caller.
func (s *PlaceService) UpdatePlace(ctx context.Context, identity models.Identity, placeID int, fields models.PlaceFields) (*models.Place, error) {
	fields = normalizePlaceFields(fields)
	if err := validateStruct(fields); err != nil {
		return nil, err
	}

	var place *models.Place
	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		places := repo.NewPlaceRepo(tx)
		current, err := places.GetByIDForUpdate(ctx, placeID)
		if err != nil {
			return placeErr(err)
		}
		if err := authz.AuthorizeOwner(identity, current.OwnerEmail); err != nil {
			return err
		}

		place, err = places.UpdateOwned(ctx, placeID, identity.Email, fields)
		if err != nil {
			return placeErr(err)
		}
		return repo.NewAuditRepo(tx).Log(ctx, identity.UserID, models.AuditUpdate, models.ResourcePlace, place.ID, place.Title)
	})
	if err != nil {
		return nil, err
	}
	return place, nil
}

// DeletePlace removes a place owned by the caller. A place with bookings cannot be removed.
func (s *PlaceService) DeletePlace(ctx context.Context, identity models.Identity, placeID int) error {
	return db.WithTx(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		places := repo.NewPlaceRepo(tx)
		current, err := places.GetByIDForUpdate(ctx, placeID)
		if err != nil {
			return placeErr(err)
		}
		if err := authz.AuthorizeOwner(identity, current.OwnerEmail); err != nil {
			return err
		}

		booked, err := repo.NewBookingRepo(tx).ExistsForPlace(ctx, placeID)
		if err != nil {
			return err
		}
		if booked {
			return ErrPlaceHasBookings
		}

		if err := places.DeleteOwned(ctx, placeID, identity.Email); err != nil {
			return placeErr(err)
		}
		return repo.NewAuditRepo(tx).Log(ctx, identity.UserID, models.AuditDelete, models.ResourcePlace, placeID, current.Title)
	})
}

// ListPlacesByOwner returns the caller's places.
func (s *PlaceService) ListPlacesByOwner(ctx context.Context, identity models.Identity) ([]models.Place, error) {
	return repo.NewPlaceRepo(s.db).ListByOwner(ctx, identity.Email)
}

// ListPlaces returns one page of all places and the total number of places. limit is clamped to
// [1, MaxPageSize].
func (s *PlaceService) ListPlaces(ctx context.Context, limit, offset int) ([]models.Place, int, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	places := repo.NewPlaceRepo(s.db)
	page, err := places.ListPaginated(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := places.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// GetPlace returns one place. Places are public.
func (s *PlaceService) GetPlace(ctx context.Context, placeID int) (*models.Place, error) {
	place, err := repo.NewPlaceRepo(s.db).GetByID(ctx, placeID)
	if err != nil {
		return nil, placeErr(err)
	}
	return place, nil
}

func normalizePlaceFields(f models.PlaceFields) models.PlaceFields {
	if f.Photos == nil {
		f.Photos = []string{}
	}
	f.Perks = dedupe(f.Perks)
	return f
}

func placeErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrPlaceNotFound
	case errors.Is(err, repo.ErrReferenced):
		return ErrPlaceHasBookings
	}
	return err
}
