package payroll_test

import (
	"context"
	"testing"

	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newRepoWithMock(t *testing.T) (payroll.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return payroll.NewRepository(db), mock
}

func TestRepository_AttachToRun(t *testing.T) {
	runID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	update := `UPDATE "payrolls" SET .+ WHERE .*id IN \(\$\d+,\$\d+\).*payroll_run_id IS NULL`

	t.Run("claims every payroll", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.AttachToRun(context.Background(), "org-1", runID, ids, payroll.StatusDraft)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("payroll already in another run", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.AttachToRun(context.Background(), "org-1", runID, ids, payroll.StatusDraft)

		assert.ErrorIs(t, err, payrollerrors.ErrAlreadyInRun)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no ids", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)

		err := repo.AttachToRun(context.Background(), "org-1", runID, nil, payroll.StatusDraft)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
