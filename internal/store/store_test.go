package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_GetRepair_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		checkKind func(error) bool
	}{
		{
			name: "missing row is not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "repairs" WHERE "repairs"."id" = $1`)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			checkKind: apperr.IsNotFound,
		},
		{
			name: "driver failure is a storage error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "repairs"`)).
					WillReturnError(errors.New("connection reset"))
			},
			checkKind: func(err error) bool {
				var se *apperr.StorageError
				return errors.As(err, &se)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			s := NewGormStore(db)
			tc.setup(mock)

			r, err := s.GetRepair(context.Background(), 7)
			assert.Nil(t, r)
			require.Error(t, err)
			assert.True(t, tc.checkKind(err), "unexpected error kind: %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_CreateInvoice_DuplicateIsConflict(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "invoices"`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := s.CreateInvoice(context.Background(), &model.Invoice{RepairID: 4, Number: "F-2026-000004"})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Contains(t, err.Error(), "repair 4")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteRepair(t *testing.T) {
	testCases := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		checkKind func(error) bool
	}{
		{
			name: "deleted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscription_repair_mapping WHERE repair_id = $1`)).
					WithArgs(9).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "repairs" WHERE "repairs"."id" = $1`)).
					WithArgs(9).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unknown repair",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscription_repair_mapping`)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "repairs"`)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			checkKind: apperr.IsNotFound,
		},
		{
			name: "invoice still references the repair",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscription_repair_mapping`)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "repairs"`)).
					WillReturnError(&pgconn.PgError{Code: "23503"})
				mock.ExpectRollback()
			},
			checkKind: apperr.IsConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			s := NewGormStore(db)
			tc.setup(mock)

			err := s.DeleteRepair(context.Background(), 9)
			if tc.checkKind == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, tc.checkKind(err), "unexpected error kind: %v", err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_ListRepairs_Filters(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "repairs" WHERE status = $1 AND client_id = $2 ORDER BY created_at DESC, id DESC`)).
		WithArgs("En cours", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repairs, err := s.ListRepairs(context.Background(), RepairFilter{Status: model.StatusInProgress, ClientID: 3})
	require.NoError(t, err)
	assert.NotNil(t, repairs)
	assert.Empty(t, repairs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriod_Since(t *testing.T) {
	now := mustTime(t, "2026-03-18T15:30:00Z")

	assert.Nil(t, PeriodAll.Since(now))
	assert.Equal(t, mustTime(t, "2026-03-18T00:00:00Z"), *PeriodToday.Since(now))
	assert.Equal(t, mustTime(t, "2026-03-11T15:30:00Z"), *PeriodWeek.Since(now))
	assert.Equal(t, mustTime(t, "2026-02-16T15:30:00Z"), *PeriodMonth.Since(now))
	assert.False(t, Period("year").Valid())
}
