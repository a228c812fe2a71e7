package db

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Normalizer rewrites a scanned value into something printable. dbType is the
// lower-cased driver type name of the column, or "" when unknown.
type Normalizer func(dbType string, v any) any

// Pool holds the database/sql pool knobs a driver applies after sql.Open.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// DefaultPool is sized for a single interactive user.
var DefaultPool = Pool{MaxOpen: 4, MaxIdle: 4, MaxLifetime: 5 * time.Minute}

// Connect opens a pool and pings it with ctx. The pool is closed again if the
// ping fails.
func Connect(ctx context.Context, driverName, dsn string, pool Pool) (*sql.DB, error) {
	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	sqldb.SetMaxOpenConns(pool.MaxOpen)
	sqldb.SetMaxIdleConns(pool.MaxIdle)
	sqldb.SetConnMaxLifetime(pool.MaxLifetime)

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, err
	}

	return sqldb, nil
}

// SQLDB carries the database/sql plumbing shared by every driver.
type SQLDB struct {
	DB        *sql.DB
	Normalize Normalizer
}

func (s *SQLDB) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Query runs sqlQuery as a single command. Leading result sets that carry no
// columns (SET, USE, DDL) are skipped; the first one with columns is read in
// full and anything after it is ignored.
func (s *SQLDB) Query(ctx context.Context, sqlQuery string, args ...any) (*Rows, error) {
	rows, err := s.DB.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for len(colNames) == 0 {
		if !rows.NextResultSet() {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return &Rows{}, nil
		}
		colNames, err = rows.Columns()
		if err != nil {
			return nil, err
		}
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	header := make([]Column, len(colNames))
	for i, name := range colNames {
		typ := ""
		if i < len(colTypes) && colTypes[i] != nil {
			typ = strings.ToLower(colTypes[i].DatabaseTypeName())
		}
		header[i] = Column{
			Name: name,
			Type: typ,
		}
	}

	var data []Row
	for rows.Next() {
		values := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		if s.Normalize != nil {
			for i, v := range values {
				values[i] = s.Normalize(header[i].Type, v)
			}
		}

		data = append(data, Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Rows{
		Columns: header,
		Data:    data,
	}, nil
}

// QueryNames returns the first column of every row as a string.
func (s *SQLDB) QueryNames(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// QueryColumns reads (column name, data type, nullable) rows.
func (s *SQLDB) QueryColumns(ctx context.Context, q string, args ...any) ([]Column, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		var nullable string
		if err := rows.Scan(&c.Name, &c.Type, &nullable); err != nil {
			return nil, err
		}
		c.Nullable = strings.EqualFold(nullable, "YES")
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// BytesToString is the Normalizer for drivers that hand text back as []byte.
func BytesToString(_ string, v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
