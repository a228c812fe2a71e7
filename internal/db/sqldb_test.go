package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*SQLDB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })
	return &SQLDB{DB: sqldb, Normalize: BytesToString}, mock
}

func TestSQLDB_Close(t *testing.T) {
	base := &SQLDB{}
	assert.NoError(t, base.Close())

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	base.DB = sqldb
	assert.NoError(t, base.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDB_Query(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     string
		setupMock func(mock sqlmock.Sqlmock)
		wantCols  []string
		wantData  []Row
		expectErr bool
	}{
		{
			name:  "rows with bytes and nulls",
			query: "SELECT id, name, created FROM users",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name", "created"}).
					AddRow(int64(1), []byte("alice"), ts).
					AddRow(int64(2), nil, ts)
				mock.ExpectQuery("SELECT id, name, created FROM users").WillReturnRows(rows)
			},
			wantCols: []string{"id", "name", "created"},
			wantData: []Row{
				{int64(1), "alice", ts},
				{int64(2), nil, ts},
			},
		},
		{
			name:  "empty result keeps header",
			query: "SELECT schema_name AS `Database` FROM information_schema.schemata WHERE 1 = 0",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"Database"}))
			},
			wantCols: []string{"Database"},
		},
		{
			name:  "skips result sets without columns",
			query: "SET @db = 'information_schema'; SELECT TABLE_NAME AS `Table` FROM TABLES",
			setupMock: func(mock sqlmock.Sqlmock) {
				set := sqlmock.NewRows([]string{})
				sel := sqlmock.NewRows([]string{"Table"}).AddRow("COLUMNS")
				mock.ExpectQuery("SET @db").WillReturnRows(set, sel)
			},
			wantCols: []string{"Table"},
			wantData: []Row{{"COLUMNS"}},
		},
		{
			name:  "query error",
			query: "SELECT 1/0",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)
			},
			expectErr: true,
		},
		{
			name:  "row error",
			query: "SELECT 1",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"n"}).AddRow(1).RowError(0, assert.AnError)
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, mock := newMock(t)
			tt.setupMock(mock)

			rows, err := base.Query(context.Background(), tt.query)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			names := make([]string, len(rows.Columns))
			for i, c := range rows.Columns {
				names[i] = c.Name
			}
			assert.Equal(t, tt.wantCols, names)
			assert.Equal(t, tt.wantData, rows.Data)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLDB_QueryNames(t *testing.T) {
	base, mock := newMock(t)
	mock.ExpectQuery("SELECT table_name").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("orders").AddRow("users"))

	names, err := base.QueryNames(context.Background(), "SELECT table_name FROM information_schema.tables")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, names)
}

func TestSQLDB_QueryColumns(t *testing.T) {
	base, mock := newMock(t)
	mock.ExpectQuery("SELECT column_name, data_type, is_nullable").
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "bigint", "NO").
			AddRow("email", "varchar", "YES"))

	cols, err := base.QueryColumns(context.Background(),
		"SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_name = ?", "users")
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "id", Type: "bigint"},
		{Name: "email", Type: "varchar", Nullable: true},
	}, cols)
}

func TestConnectError_Unwrap(t *testing.T) {
	err := &ConnectError{Driver: DriverMysql, Err: assert.AnError}
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "connect mysql")

	qerr := &QueryError{Err: assert.AnError}
	assert.ErrorIs(t, qerr, assert.AnError)
}
