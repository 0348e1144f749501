package handlers

import (
	"net/http"

	"github.com/crucial707/staybook/internal/service"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Audit *service.AuditService
}

// ListAudit returns the caller's own audit entries, newest first. Query: limit (default 20, max 100), offset.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	entries, err := h.Audit.ListForUser(r.Context(), id, queryInt(r, "limit", service.DefaultPageSize), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
