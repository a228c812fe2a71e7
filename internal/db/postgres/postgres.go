package postgres

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bgunnarsson/sqlpad/internal/db"
)

// Catalog lists user tables and views as schema.name; DescribeTable accepts
// either "name" (public) or "schema.name".
var Catalog = db.Catalog{
	Tables: `
SELECT table_schema || '.' || table_name
FROM information_schema.tables
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY 1;`,
	Columns: `
SELECT column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position;`,
	DefaultSchema: "public",
}

type PostgresDB struct {
	db.CatalogDB
}

// Open accepts anything pgx understands: a postgres:// URL or a keyword/value
// string.
func Open(ctx context.Context, dsn string) (*PostgresDB, error) {
	if dsn == "" {
		return nil, db.ErrEmptyDSN
	}

	sqldb, err := db.Connect(ctx, "pgx", dsn, db.DefaultPool)
	if err != nil {
		return nil, err
	}

	return &PostgresDB{db.CatalogDB{
		SQLDB:   db.SQLDB{DB: sqldb, Normalize: db.BytesToString},
		Catalog: Catalog,
	}}, nil
}
