package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/crucial707/staybook/internal/models"
	"github.com/crucial707/staybook/internal/repo"
)

// AuditService reads and prunes the audit log.
type AuditService struct {
	db *sql.DB
}

func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{db: db}
}

// ListForUser returns the entries recorded for the caller's own actions, newest first.
func (s *AuditService) ListForUser(ctx context.Context, identity models.Identity, limit, offset int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return repo.NewAuditRepo(s.db).ListByUser(ctx, identity.UserID, limit, offset)
}

// Prune removes entries older than retention.
func (s *AuditService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return repo.NewAuditRepo(s.db).PruneBefore(ctx, time.Now().Add(-retention))
}
