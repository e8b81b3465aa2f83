package repository

import (
	"context"
	"errors"
	"testing"

	"society-console/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *PostgresSource) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return sqlxDB, mock, NewPostgresSource(sqlxDB, zap.NewNop())
}

func TestPostgresSource_ListOwners(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"owner_id", "flat_id", "wing_id", "owner_name", "flat_no", "is_deleted"}).
		AddRow(int64(7), int64(101), int64(2), "Asha", "B-101", false).
		AddRow(int64(8), int64(201), nil, "Ravi", "", true)

	mock.ExpectQuery(`SELECT owner_id, flat_id, wing_id`).WillReturnRows(rows)

	owners, err := src.ListOwners(context.Background())

	require.NoError(t, err)
	require.Len(t, owners, 2)
	assert.Equal(t, models.NewID(2), owners[0].WingID)
	assert.Equal(t, "B-101", owners[0].FlatNo)
	assert.False(t, owners[1].WingID.Valid())
	assert.True(t, owners[1].IsDeleted.Bool())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_ListMaintenance_NumericColumns(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"maintain_id", "owner_id", "period", "total_amount", "paid_amount", "is_deleted"}).
		AddRow(int64(1), int64(7), "2026-01", []byte("1000.00"), []byte("600.00"), false).
		AddRow(int64(2), int64(7), "2026-02", nil, "250", false)

	mock.ExpectQuery(`FROM maintenance_details`).WillReturnRows(rows)

	list, err := src.ListMaintenance(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "400.00", list[0].Pending().String())
	assert.True(t, list[1].TotalAmount.IsZero())
	assert.Equal(t, "250.00", list[1].PaidAmount.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM expenses`).WillReturnError(errors.New("connection reset"))

	_, err := src.ListExpenses(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expenses")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_ListNotifications(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"notification_id", "type", "title", "message", "notification_date",
		"target_audience", "wing_id", "attachment_urls", "is_deleted", "is_read_by_user",
	}).
		AddRow(int64(5), "cutoff", "Water cutoff", "Tank cleaning", "2026-03-01", "wing", int64(2), []byte(`{a.pdf,b.png}`), false, true).
		AddRow(int64(4), "announcement", "AGM", "", "2026-02-01", "all", nil, nil, false, false)

	mock.ExpectQuery(`LEFT JOIN notification_reads`).
		WithArgs("u-7").
		WillReturnRows(rows)

	list, err := src.ListNotifications(context.Background(), "u-7")

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"a.pdf", "b.png"}, list[0].AttachmentURLs)
	assert.True(t, list[0].IsReadByUser.Bool())
	assert.Equal(t, models.NotificationType("announcement"), list[1].Type)
	assert.Empty(t, list[1].AttachmentURLs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_MarkRead(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO notification_reads`).
		WithArgs(int64(5), "u-7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UNNEST`).
		WithArgs("u-7", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, src.MarkNotificationRead(context.Background(), "u-7", 5))
	require.NoError(t, src.MarkNotificationsRead(context.Background(), "u-7", []int64{1, 2}))
	// nothing to mark: no statement
	require.NoError(t, src.MarkNotificationsRead(context.Background(), "u-7", nil))

	assert.NoError(t, mock.ExpectationsWereMet())
}
