package mssql

import (
	"context"
	"encoding/hex"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"

	"github.com/bgunnarsson/sqlpad/internal/db"
)

// Catalog mirrors the postgres one with dbo as the default schema.
var Catalog = db.Catalog{
	Tables: `
SELECT TABLE_SCHEMA + '.' + TABLE_NAME
FROM INFORMATION_SCHEMA.TABLES
ORDER BY TABLE_SCHEMA, TABLE_NAME;`,
	Columns: `
SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
FROM INFORMATION_SCHEMA.COLUMNS
WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2
ORDER BY ORDINAL_POSITION;`,
	DefaultSchema: "dbo",
}

type MssqlDB struct {
	db.CatalogDB
}

// Open connects with the sqlserver driver, or with azuresql when the DSN asks
// for Azure AD authentication through fedauth=.
func Open(ctx context.Context, dsn string) (*MssqlDB, error) {
	if dsn == "" {
		return nil, db.ErrEmptyDSN
	}

	sqldb, err := db.Connect(ctx, DriverName(dsn), dsn, db.DefaultPool)
	if err != nil {
		return nil, err
	}

	return &MssqlDB{db.CatalogDB{
		SQLDB:   db.SQLDB{DB: sqldb, Normalize: normalize},
		Catalog: Catalog,
	}}, nil
}

// DriverName picks the database/sql driver for dsn.
func DriverName(dsn string) string {
	if strings.Contains(strings.ToLower(dsn), "fedauth=") {
		return azuread.DriverName
	}
	return "sqlserver"
}

// textTypes come back from the driver as []byte but are safe to show as text.
var textTypes = map[string]bool{
	"varchar": true, "nvarchar": true, "char": true, "nchar": true,
	"text": true, "ntext": true, "decimal": true, "money": true, "smallmoney": true,
}

// normalize never turns binary into a Go string: it would wreck the grid.
func normalize(dbType string, v any) any {
	b, ok := v.([]byte)
	switch {
	case !ok:
		return v
	case dbType == "uniqueidentifier":
		return formatGUID(b)
	case textTypes[dbType]:
		return string(b)
	default:
		return "0x" + hex.EncodeToString(b)
	}
}

// formatGUID renders SQL Server's mixed-endian uniqueidentifier layout.
func formatGUID(b []byte) string {
	if len(b) != 16 {
		return hex.EncodeToString(b)
	}
	ordered := append([]byte{b[3], b[2], b[1], b[0], b[5], b[4], b[7], b[6]}, b[8:]...)
	h := hex.EncodeToString(ordered)
	return h[:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:]
}
