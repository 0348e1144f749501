package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_ListForUser_ClampsPage(t *testing.T) {
	db, mock := newMock(t)
	svc := NewAuditService(db)

	cols := []string{"id", "user_id", "action", "resource_type", "resource_id", "details", "created_at"}
	mock.ExpectQuery(`FROM audit_log WHERE user_id = \$1`).WithArgs(1, MaxPageSize, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(5, 1, "create", "place", 9, "Cabin", time.Now()))

	entries, err := svc.ListForUser(context.Background(), alice, 5000, -3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "place", entries[0].ResourceType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_Prune(t *testing.T) {
	db, mock := newMock(t)
	svc := NewAuditService(db)

	mock.ExpectExec(`DELETE FROM audit_log WHERE created_at < \$1`).WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := svc.Prune(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
