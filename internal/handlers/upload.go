package handlers

import (
	"context"
	"net/http"

	"github.com/crucial707/staybook/internal/storage"
)

// PhotoPresigner issues upload URLs for place photos.
type PhotoPresigner interface {
	PresignPhotoUpload(ctx context.Context, contentType string) (*storage.PhotoUpload, error)
}

// UploadHandler serves presigned photo uploads.
type UploadHandler struct {
	Presigner PhotoPresigner
}

// PresignPhoto returns a URL the client can PUT one image to, and the URL to store on the place
// once the upload succeeded. Body: {"content_type": "image/jpeg"}.
func (h *UploadHandler) PresignPhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r); !ok {
		return
	}

	var input struct {
		ContentType string `json:"content_type"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	upload, err := h.Presigner.PresignPhotoUpload(r.Context(), input.ContentType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, upload)
}
