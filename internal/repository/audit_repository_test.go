package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/contractguard-api/internal/models"
)

func newAuditMock(t *testing.T) (*AuditRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuditRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestAuditRepositoryCreate(t *testing.T) {
	repo, mock := newAuditMock(t)

	userID := "u-1"
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), &userID, models.AuditActionContractUpload, "contract",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "10.0.0.9", "go-test", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	contractID := "c-1"
	err := repo.Create(context.Background(), &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionContractUpload,
		Resource:   "contract",
		ResourceID: &contractID,
		IPAddress:  "10.0.0.9",
		UserAgent:  "go-test",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListByUser(t *testing.T) {
	repo, mock := newAuditMock(t)

	userID := "u-1"
	created := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "action", "resource", "resource_id", "new_values", "ip_address", "user_agent", "created_at"}).
		AddRow("log-1", userID, models.AuditActionLogin, "session", nil, nil, "10.0.0.9", "go-test", created)

	mock.ExpectQuery("SELECT (.+) FROM audit_logs WHERE user_id").
		WithArgs(userID, 50).
		WillReturnRows(rows)

	logs, err := repo.ListByUser(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionLogin, logs[0].Action)
	require.NoError(t, mock.ExpectationsWereMet())
}
