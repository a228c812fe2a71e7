package db

import (
	"context"
	"strings"
)

// Catalog is the pair of information-schema queries a backend answers
// ListTables and DescribeTable with.
//
// Columns must select (column name, data type, nullable) where nullable is
// 'YES' or 'NO'. When DefaultSchema is set the query takes (schema, table)
// arguments, otherwise only the table.
type Catalog struct {
	Tables        string
	Columns       string
	DefaultSchema string
}

// SplitQualified splits "schema.table" into its parts. An unqualified name
// gets def as its schema.
func SplitQualified(name, def string) (schema, table string) {
	if dot := strings.Index(name, "."); dot != -1 {
		return name[:dot], name[dot+1:]
	}
	return def, name
}

// CatalogDB answers the schema questions of db.DB from a Catalog.
type CatalogDB struct {
	SQLDB
	Catalog Catalog
}

func (c *CatalogDB) ListTables(ctx context.Context) ([]string, error) {
	return c.QueryNames(ctx, c.Catalog.Tables)
}

func (c *CatalogDB) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	if c.Catalog.DefaultSchema == "" {
		return c.QueryColumns(ctx, c.Catalog.Columns, table)
	}
	schema, name := SplitQualified(table, c.Catalog.DefaultSchema)
	return c.QueryColumns(ctx, c.Catalog.Columns, schema, name)
}
