package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// Deleting a token is scoped to the caller: a token string learned from
// another account must not unbind that account's device.
func TestDeleteByTokenScopedToUser(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewPushTokenRepository()

	owner := uuid.New()
	caller := uuid.New()
	token := "ExponentPushToken[abc123]"

	// Soft delete: the query must filter on both user_id and token.
	deleteQuery := `UPDATE "push_tokens" SET "deleted_at"=\$1 WHERE user_id = \$2 AND token = \$3`

	t.Run("owner removes their own binding", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deleteQuery).
			WithArgs(sqlmock.AnyArg(), owner, token).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteByToken(context.Background(), gormDB, owner, token))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("another caller matches no rows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deleteQuery).
			WithArgs(sqlmock.AnyArg(), caller, token).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteByToken(context.Background(), gormDB, caller, token))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
