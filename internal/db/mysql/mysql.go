package mysql

import (
	"context"

	_ "github.com/go-sql-driver/mysql"

	"github.com/bgunnarsson/sqlpad/internal/db"
)

// Catalog scopes schema questions to the connection's current database.
var Catalog = db.Catalog{
	Tables: `
SELECT TABLE_NAME
FROM information_schema.TABLES
WHERE TABLE_SCHEMA = DATABASE()
ORDER BY TABLE_NAME;`,
	Columns: `
SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION;`,
}

type MysqlDB struct {
	db.CatalogDB
}

// Open connects to MySQL. dsn may be a native go-sql-driver DSN or a
// "Key=Value;" connection string; see ParseConnectionString.
func Open(ctx context.Context, dsn string) (*MysqlDB, error) {
	if dsn == "" {
		return nil, db.ErrEmptyDSN
	}

	native, err := ParseConnectionString(dsn)
	if err != nil {
		return nil, err
	}

	sqldb, err := db.Connect(ctx, "mysql", native, db.DefaultPool)
	if err != nil {
		return nil, err
	}

	// text columns arrive as []byte
	return &MysqlDB{db.CatalogDB{
		SQLDB:   db.SQLDB{DB: sqldb, Normalize: db.BytesToString},
		Catalog: Catalog,
	}}, nil
}
