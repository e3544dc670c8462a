package attendance

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

var upsertSQL = `INSERT INTO "attendances" .* ON CONFLICT \("employee_id","date"\) DO UPDATE SET "status"="excluded"."status","updated_at"="excluded"."updated_at" RETURNING \*`

func TestRepository_Upsert(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewRepository(gdb)

	existingID := uuid.New()
	created := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	cols := []string{"id", "employee_id", "employee_name", "date", "status", "created_at", "updated_at"}

	mock.ExpectQuery(upsertSQL).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(existingID.String(), "E1", "Ann", "2024-03-04", "absent", created, time.Now()))

	stored, err := repo.Upsert(context.Background(), &Attendance{
		ID:           uuid.New(),
		EmployeeID:   "E1",
		EmployeeName: "Other",
		Date:         "2024-03-04",
		Status:       "absent",
	})

	require.NoError(t, err)
	assert.Equal(t, existingID, stored.ID)
	assert.Equal(t, "Ann", stored.EmployeeName)
	assert.Equal(t, "absent", stored.Status)
	assert.Equal(t, created, stored.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpsertJoinsTransaction(t *testing.T) {
	gdb, mock := newGormMock(t)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(upsertSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "date", "status"}).
			AddRow(uuid.NewString(), "E1", "2024-03-04", "present"))
	mock.ExpectCommit()

	tx, err := sqlDB.Begin()
	require.NoError(t, err)

	_, err = NewRepository(gdb).WithTx(tx).Upsert(context.Background(), &Attendance{
		ID:         uuid.New(),
		EmployeeID: "E1",
		Date:       "2024-03-04",
		Status:     "present",
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByDate(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "attendances" WHERE date = $1 ORDER BY created_at ASC`)).
		WithArgs("2024-03-04").
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "date", "status"}).
			AddRow(uuid.NewString(), "E1", "2024-03-04", "present").
			AddRow(uuid.NewString(), "E2", "2024-03-04", "absent"))

	rows, err := repo.FindByDate(context.Background(), "2024-03-04")

	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "E2", rows[1].EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
