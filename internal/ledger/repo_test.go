package ledger

import (
	"context"
	"regexp"
	"testing"

	"BobaLink/pkg/db/mysql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	old := mysql.DB
	mysql.DB = sqlx.NewDb(db, "mysql")
	t.Cleanup(func() {
		mysql.DB = old
		db.Close()
	})
	return mock
}

func TestInsertEdgeReportsCreated(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO connections (from_id, to_id) VALUES (?, ?)")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := MySQLStore{}.InsertEdge(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEdgeDuplicateIsNoOp(t *testing.T) {
	mock := withMockDB(t)
	// INSERT IGNORE hits the unique key: zero rows affected
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO connections (from_id, to_id) VALUES (?, ?)")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := MySQLStore{}.InsertEdge(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEdgeExists(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM connections WHERE from_id = ? AND to_id = ?)")).
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := MySQLStore{}.EdgeExists(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMutualIDsQuery(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectQuery("SELECT c1.to_id FROM connections c1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"to_id"}).AddRow(int64(2)).AddRow(int64(9)))

	ids, err := MySQLStore{}.MutualIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 9}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
