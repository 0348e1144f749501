package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/staybook/internal/models"
	"github.com/crucial707/staybook/internal/service"
)

// PlaceHandler serves place endpoints. Reads are public; writes require an identity.
type PlaceHandler struct {
	Places *service.PlaceService
}

// ==========================
// Create Place
// ==========================
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var fields models.PlaceFields
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, r, err)
		return
	}

	place, err := h.Places.CreatePlace(r.Context(), id, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, place)
}

// ==========================
// Update Place
// ==========================
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	placeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var fields models.PlaceFields
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, r, err)
		return
	}

	place, err := h.Places.UpdatePlace(r.Context(), id, placeID, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, place)
}

// ==========================
// Delete Place
// ==========================
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	placeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Places.DeletePlace(r.Context(), id, placeID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// List Caller's Places
// ==========================
func (h *PlaceHandler) ListMyPlaces(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	places, err := h.Places.ListPlacesByOwner(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, places)
}

// ==========================
// List Places (public, paginated)
// ==========================
// ListPlaces returns one page of places. Query: limit (default 20, max 100), offset (default 0).
// The total number of places is sent in the X-Total-Count header.
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", service.DefaultPageSize)
	offset := queryInt(r, "offset", 0)

	places, total, err := h.Places.ListPlaces(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, places)
}

// ==========================
// Get Place (public)
// ==========================
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	place, err := h.Places.GetPlace(r.Context(), placeID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, place)
}
