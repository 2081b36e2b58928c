package repository

import (
	"testing"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockAuditRepo(t *testing.T) (AuditRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewAuditRepository(gdb), mock
}

func TestAuditCreateBindsResourceID(t *testing.T) {
	repo, mock := newMockAuditRepo(t)

	userID := uuid.New().String()
	resourceID := uuid.New().String()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WithArgs(sqlmock.AnyArg(), &userID, model.AuditActionCommentCreate, "comment", &resourceID, "{}", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	entry := &model.AuditLog{
		UserID:     &userID,
		Action:     model.AuditActionCommentCreate,
		Resource:   "comment",
		ResourceID: &resourceID,
		Detail:     "{}",
	}
	require.NoError(t, repo.Create(entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditCreateBatchEntryBindsNullResourceID(t *testing.T) {
	repo, mock := newMockAuditRepo(t)

	userID := uuid.New().String()

	// Batch moderation entries cover many comments at once; the uuid column
	// must receive NULL, never an empty string
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WithArgs(sqlmock.AnyArg(), &userID, model.AuditActionCommentApprove, "comment", nil, `{"ids":["a","b"]}`, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	entry := &model.AuditLog{
		UserID:   &userID,
		Action:   model.AuditActionCommentApprove,
		Resource: "comment",
		Detail:   `{"ids":["a","b"]}`,
	}
	require.NoError(t, repo.Create(entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditFindByResourceIDScopesQuery(t *testing.T) {
	repo, mock := newMockAuditRepo(t)

	resourceID := uuid.New().String()

	mock.ExpectQuery(`SELECT \* FROM "audit_logs"`).
		WithArgs("comment", resourceID, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action", "resource", "resource_id"}).
			AddRow(uuid.New().String(), model.AuditActionCommentApprove, "comment", resourceID).
			AddRow(uuid.New().String(), model.AuditActionCommentCreate, "comment", resourceID))

	entries, err := repo.FindByResourceID("comment", resourceID, 20, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.AuditActionCommentApprove, entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
