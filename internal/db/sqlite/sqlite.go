package sqlite

import (
	"context"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bgunnarsson/sqlpad/internal/db"
)

// SQLite has no information_schema; tables come from sqlite_schema and
// columns from the table_info pragma.
const (
	tablesQuery = `
SELECT name
FROM sqlite_schema
WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
ORDER BY lower(name);`
	columnsQuery = `
SELECT name, type, "notnull", pk
FROM pragma_table_info(?);`
)

type SqliteDB struct {
	db.SQLDB
}

// Open opens the database file at path, or a private in-memory database for
// ":memory:". A single connection keeps ":memory:" stable across statements.
func Open(ctx context.Context, path string) (*SqliteDB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, db.ErrEmptyDSN
	}

	sqldb, err := db.Connect(ctx, "sqlite", path, db.Pool{MaxOpen: 1, MaxIdle: 1, MaxLifetime: time.Hour})
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{`PRAGMA foreign_keys = ON`, `PRAGMA busy_timeout = 5000`} {
		if _, err := sqldb.ExecContext(ctx, pragma); err != nil {
			_ = sqldb.Close()
			return nil, err
		}
	}

	return &SqliteDB{db.SQLDB{DB: sqldb}}, nil
}

func (s *SqliteDB) ListTables(ctx context.Context) ([]string, error) {
	return s.QueryNames(ctx, tablesQuery)
}

// DescribeTable reports primary key columns as not nullable, as SQLite
// enforces for INTEGER PRIMARY KEY.
func (s *SqliteDB) DescribeTable(ctx context.Context, table string) ([]db.Column, error) {
	rows, err := s.DB.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []db.Column
	for rows.Next() {
		var c db.Column
		var notNull, pk int
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &pk); err != nil {
			return nil, err
		}
		c.Nullable = notNull == 0 && pk == 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}
