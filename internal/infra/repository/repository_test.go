package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	return newMockDBMatching(t, sqlmock.QueryMatcherRegexp)
}

func newMockDBMatching(t *testing.T, m sqlmock.QueryMatcher) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(m))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCreateWithinCapacity_RejectsFullSlotInsideTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("slot:2026-03-10|10:00").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "blocked_slots"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "appointments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.CreateWithinCapacity(context.Background(), &models.Appointment{
		ID: "ap-1", Date: "2026-03-10", TimeSlot: "10:00", Status: "pending",
	}, domain.SlotGuard{Capacity: 2})

	assert.True(t, httperr.IsBusiness(err, "slot_full"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithinCapacity_RejectsBlockedSlot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "blocked_slots"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.CreateWithinCapacity(context.Background(), &models.Appointment{
		ID: "ap-1", Date: "2026-03-10", TimeSlot: "10:00", Status: "pending",
	}, domain.SlotGuard{Capacity: 2})

	assert.True(t, httperr.IsBusiness(err, "slot_blocked"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppointment_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "appointments" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetAppointment(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBlockedSlot_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "blocked_slots"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteBlockedSlot(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// withoutColumns matches like the regexp matcher but fails any statement that
// mentions one of the given columns.
func withoutColumns(columns ...string) sqlmock.QueryMatcher {
	return sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		if err := sqlmock.QueryMatcherRegexp.Match(expected, actual); err != nil {
			return err
		}
		for _, c := range columns {
			if strings.Contains(actual, c) {
				return fmt.Errorf("statement writes %s: %s", c, actual)
			}
		}
		return nil
	})
}

func TestUpdateAppointment_LeavesReminderFlagsAlone(t *testing.T) {
	db, mock := newMockDBMatching(t, withoutColumns("reminder_24h_sent", "reminder_2h_sent", "reminder_sent", "follow_up_sent"))
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateAppointment(context.Background(), &models.Appointment{
		ID: "ap-1", Status: "confirmed", Reminder24hSent: false,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointment_CancelClearsTimedFlags(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET "status"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET "reminder_24h_sent"=$1,"reminder_2h_sent"=$2 WHERE id = $3`)).
		WithArgs(false, false, "ap-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateAppointment(context.Background(), &models.Appointment{
		ID: "ap-1", Status: "cancelled", CancelledBy: "client",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateAppointment(context.Background(), &models.Appointment{ID: "missing", Status: "confirmed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimFlag_ConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderGormRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET "reminder_24h_sent"=$1 WHERE id = $2 AND reminder_24h_sent = $3`)).
		WithArgs(true, "ap-1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET "reminder_24h_sent"=$1 WHERE id = $2 AND reminder_24h_sent = $3`)).
		WithArgs(true, "ap-1", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.ClaimFlag(context.Background(), "ap-1", domain.FlagReminder24h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ClaimFlag(context.Background(), "ap-1", domain.FlagReminder24h)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimFlag_RejectsUnknownColumn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderGormRepository(db)

	_, err := repo.ClaimFlag(context.Background(), "ap-1", domain.ReminderFlag("status = true; --"))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearTimedFlagsBefore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderGormRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ClearTimedFlagsBefore(context.Background(), "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRead_UnknownNotification(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationGormRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetRead(context.Background(), "n-1", true)
	assert.ErrorIs(t, err, notify.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCalendarOwner_None(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserGormRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	owner, err := repo.FindCalendarOwner(context.Background())
	require.NoError(t, err)
	assert.Nil(t, owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
