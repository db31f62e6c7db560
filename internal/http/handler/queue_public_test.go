package handler

import (
	"testing"
	"time"

	"backend-campus-queue/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryColumnNames = []string{
	"id", "number", "customer_name", "role", "service_id", "department", "status",
	"window_id", "id_number", "transaction_no", "called_at", "created_at", "updated_at",
}

// withMockDB swaps the shared handle for a sqlmock and restores it.
func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	previous := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = previous
		db.Close()
	})
	return mock
}

func TestFetchSnapshotDepartmentWide(t *testing.T) {
	mock := withMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`FROM queue_entries\s+WHERE department = \? AND status = 'serving'`).
		WithArgs("registrar").
		WillReturnRows(sqlmock.NewRows(entryColumnNames).
			AddRow(10, 3, "Ana Reyes", "student", 1, "registrar", "serving",
				1, "2021-00123", nil, now, now, now))

	mock.ExpectQuery(`FROM queue_entries\s+WHERE department = \? AND status = 'waiting'`).
		WithArgs("registrar").
		WillReturnRows(sqlmock.NewRows(entryColumnNames).
			AddRow(12, 6, "Leo Tan", "priority", 1, "registrar", "waiting",
				nil, nil, nil, nil, now, now).
			AddRow(11, 4, "Mia Cruz", "visitor", 1, "registrar", "waiting",
				nil, nil, nil, nil, now, now))

	mock.ExpectQuery(`SELECT number FROM queue_entries\s+WHERE department = \? AND status = 'skipped'`).
		WithArgs("registrar").
		WillReturnRows(sqlmock.NewRows([]string{"number"}).AddRow(2).AddRow(5))

	snapshot, err := fetchSnapshot("registrar", nil)
	require.NoError(t, err)

	require.NotNil(t, snapshot.CurrentlyServing)
	assert.Equal(t, 3, snapshot.CurrentlyServing.Number)
	assert.Equal(t, "Ana Reyes", snapshot.CurrentlyServing.CustomerName)
	require.NotNil(t, snapshot.CurrentlyServing.IDNumber)
	assert.Equal(t, "2021-00123", *snapshot.CurrentlyServing.IDNumber)
	assert.Nil(t, snapshot.CurrentlyServing.TransactionNo)

	// Priority entry ahead of the earlier visitor number.
	require.Len(t, snapshot.WaitingQueue, 2)
	assert.Equal(t, 6, snapshot.WaitingQueue[0].Number)
	assert.Equal(t, "priority", snapshot.WaitingQueue[0].Role)
	assert.Equal(t, 4, snapshot.WaitingQueue[1].Number)

	assert.Equal(t, []int{2, 5}, snapshot.SkippedQueue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchSnapshotEmptyDay(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectQuery(`status = 'serving'`).
		WithArgs("admissions").
		WillReturnRows(sqlmock.NewRows(entryColumnNames))

	mock.ExpectQuery(`status = 'waiting'`).
		WithArgs("admissions").
		WillReturnRows(sqlmock.NewRows(entryColumnNames))

	mock.ExpectQuery(`status = 'skipped'`).
		WithArgs("admissions").
		WillReturnRows(sqlmock.NewRows([]string{"number"}))

	snapshot, err := fetchSnapshot("admissions", nil)
	require.NoError(t, err)

	assert.Nil(t, snapshot.CurrentlyServing)
	assert.Empty(t, snapshot.WaitingQueue)
	assert.Empty(t, snapshot.SkippedQueue)
	assert.NotNil(t, snapshot.WaitingQueue, "empty queue must serialize as [], not null")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitingOrderRestoresRequeuedNumbers(t *testing.T) {
	mock := withMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`status = 'serving'`).
		WithArgs("registrar").
		WillReturnRows(sqlmock.NewRows(entryColumnNames))

	// The waiting order is fixed at priority first, then number. A
	// requeued entry (window cleared, low number) re-enters at its
	// original number position, ahead of later arrivals.
	mock.ExpectQuery(`status = 'waiting'\s+AND DATE\(created_at\) = CURDATE\(\)\s+ORDER BY \(role = 'priority'\) DESC, number ASC`).
		WithArgs("registrar").
		WillReturnRows(sqlmock.NewRows(entryColumnNames).
			AddRow(30, 2, "Requeued Early", "visitor", 1, "registrar", "waiting",
				nil, nil, nil, nil, now, now).
			AddRow(31, 8, "Later Arrival", "visitor", 1, "registrar", "waiting",
				nil, nil, nil, nil, now, now))

	mock.ExpectQuery(`status = 'skipped'`).
		WithArgs("registrar").
		WillReturnRows(sqlmock.NewRows([]string{"number"}))

	snapshot, err := fetchSnapshot("registrar", nil)
	require.NoError(t, err)

	require.Len(t, snapshot.WaitingQueue, 2)
	assert.Equal(t, 2, snapshot.WaitingQueue[0].Number)
	assert.Equal(t, 8, snapshot.WaitingQueue[1].Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchSnapshotWindowScoped(t *testing.T) {
	mock := withMockDB(t)
	now := time.Now()
	windowID := int64(2)

	mock.ExpectQuery(`FROM windows WHERE id = \?`).
		WithArgs(windowID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "code", "name", "department", "service_id", "admin_id",
			"is_open", "is_serving", "created_at", "updated_at",
		}).AddRow(2, "W2", "Window 2", "registrar", 7, nil, "y", "y", now, now))

	mock.ExpectQuery(`window_id = \? AND status = 'serving'`).
		WithArgs(windowID).
		WillReturnRows(sqlmock.NewRows(entryColumnNames))

	// Waiting list narrowed to the window's service.
	mock.ExpectQuery(`status = 'waiting'`).
		WithArgs("registrar", int64(7)).
		WillReturnRows(sqlmock.NewRows(entryColumnNames).
			AddRow(20, 9, "Ben Ong", "student", 7, "registrar", "waiting",
				nil, nil, nil, nil, now, now))

	mock.ExpectQuery(`status = 'skipped'`).
		WithArgs("registrar", windowID).
		WillReturnRows(sqlmock.NewRows([]string{"number"}))

	snapshot, err := fetchSnapshot("registrar", &windowID)
	require.NoError(t, err)

	assert.Nil(t, snapshot.CurrentlyServing)
	require.Len(t, snapshot.WaitingQueue, 1)
	assert.Equal(t, int64(7), snapshot.WaitingQueue[0].ServiceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
