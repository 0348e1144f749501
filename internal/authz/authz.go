// Package authz decides whether a verified identity may act on a resource. Decisions are pure
// functions of their arguments and are re-evaluated on every request.
package authz

import (
	"github.com/crucial707/staybook/internal/apperr"
	"github.com/crucial707/staybook/internal/models"
)

// AuthorizeOwner allows the caller whose email exactly matches ownerEmail.
func AuthorizeOwner(identity models.Identity, ownerEmail string) error {
	if identity.Email == "" || identity.Email != ownerEmail {
		return apperr.ErrForbidden
	}
	return nil
}

// AuthorizeSelf allows the caller to act only on their own account.
func AuthorizeSelf(identity models.Identity, targetUserID int) error {
	if identity.UserID == 0 || identity.UserID != targetUserID {
		return apperr.ErrForbidden
	}
	return nil
}

// AuthorizeBookingRead allows the guest who made the booking and the owner of the booked place.
func AuthorizeBookingRead(identity models.Identity, booking *models.Booking, placeOwnerEmail string) error {
	if booking != nil && identity.UserID != 0 && booking.UserID == identity.UserID {
		return nil
	}
	return AuthorizeOwner(identity, placeOwnerEmail)
}
