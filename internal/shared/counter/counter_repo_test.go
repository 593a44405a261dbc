package counter_test

import (
	"context"
	"regexp"
	"testing"

	"go-payroll/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestGetNextValue(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO organisation_counters")).
		WithArgs("org-1", counter.TypePayrollRun).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(7))

	next, err := counter.NewRepository(db).GetNextValue(context.Background(), "org-1", counter.TypePayrollRun)

	require.NoError(t, err)
	assert.Equal(t, int64(7), next)
	assert.NoError(t, mock.ExpectationsWereMet())
}
