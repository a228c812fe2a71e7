package db

import (
	"context"
)

// Column describes one result or table column. Nullable is only known for
// DescribeTable.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

type Row []any

type Rows struct {
	Columns []Column
	Data    []Row
}

type DB interface {
	Close() error
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) ([]Column, error)
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)
}

// Driver names a supported backend.
type Driver string

const (
	DriverMysql    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverSqlite   Driver = "sqlite"
	DriverMssql    Driver = "mssql"
)

// Drivers lists every backend in the order they are offered to users.
func Drivers() []Driver {
	return []Driver{DriverMysql, DriverPostgres, DriverSqlite, DriverMssql}
}

// OpenFunc connects to a database; implementations must honour ctx for the
// connect round trip.
type OpenFunc func(ctx context.Context, dsn string) (DB, error)
