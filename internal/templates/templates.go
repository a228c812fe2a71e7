// Package templates holds canned catalog queries the console offers for
// each driver.
package templates

import "github.com/bgunnarsson/sqlpad/internal/db"

type Template struct {
	Name string
	SQL  string
}

var mysql = []Template{
	{Name: "Query databases", SQL: "SHOW DATABASES;"},
	{Name: "Query tables", SQL: "## query tables of db\n" +
		"SET @db = 'information_schema';\n" +
		"SELECT\n" +
		"  `TABLE_NAME` AS `Table`,\n" +
		"  `ENGINE` AS `Engine`,\n" +
		"  `TABLE_COLLATION` AS `Collation`\n" +
		"FROM `information_schema`.`TABLES`\n" +
		"WHERE `TABLE_SCHEMA` = @db;"},
	{Name: "Query columns", SQL: "## query columns of db.table\n" +
		"SET @db = 'information_schema';\n" +
		"SET @table = 'COLUMNS';\n" +
		"SELECT\n" +
		"  `COLUMN_NAME` AS `Column`,\n" +
		"  `COLUMN_TYPE` AS `Type`,\n" +
		"  `COLLATION_NAME` AS `Collation`\n" +
		"FROM `information_schema`.`COLUMNS`\n" +
		"WHERE `TABLE_SCHEMA` = @db AND `TABLE_NAME` = @table;"},
	{Name: "Query indexes", SQL: "## query indexes of db.table\n" +
		"SET @db = 'information_schema';\n" +
		"SET @table = 'COLUMNS';\n" +
		"SELECT\n" +
		"  `INDEX_NAME` AS `Index`,\n" +
		"  `COLUMN_NAME` AS `Column`,\n" +
		"  IF(`NON_UNIQUE`=1, 0, 1) AS `Unique`\n" +
		"FROM `information_schema`.`STATISTICS`\n" +
		"WHERE `TABLE_SCHEMA` = @db AND `TABLE_NAME` = @table;"},
}

var postgres = []Template{
	{Name: "Query databases", SQL: "SELECT datname AS \"Database\"\nFROM pg_database\nWHERE NOT datistemplate\nORDER BY datname;"},
	{Name: "Query tables", SQL: "SELECT table_schema AS \"Schema\", table_name AS \"Table\", table_type AS \"Type\"\n" +
		"FROM information_schema.tables\n" +
		"WHERE table_schema NOT IN ('pg_catalog', 'information_schema')\n" +
		"ORDER BY table_schema, table_name;"},
	{Name: "Query columns", SQL: "SELECT column_name AS \"Column\", data_type AS \"Type\", is_nullable AS \"Nullable\"\n" +
		"FROM information_schema.columns\n" +
		"WHERE table_schema = 'public' AND table_name = 'users'\n" +
		"ORDER BY ordinal_position;"},
	{Name: "Query indexes", SQL: "SELECT indexname AS \"Index\", indexdef AS \"Definition\"\n" +
		"FROM pg_indexes\n" +
		"WHERE schemaname = 'public' AND tablename = 'users';"},
}

var sqlite = []Template{
	{Name: "Query databases", SQL: "PRAGMA database_list;"},
	{Name: "Query tables", SQL: "SELECT name AS \"Table\", type AS \"Type\"\n" +
		"FROM sqlite_master\n" +
		"WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'\n" +
		"ORDER BY lower(name);"},
	{Name: "Query columns", SQL: "SELECT name AS \"Column\", type AS \"Type\", \"notnull\" AS \"NotNull\"\n" +
		"FROM pragma_table_info('users');"},
	{Name: "Query indexes", SQL: "SELECT name AS \"Index\", \"unique\" AS \"Unique\"\n" +
		"FROM pragma_index_list('users');"},
}

var mssql = []Template{
	{Name: "Query databases", SQL: "SELECT name AS [Database] FROM sys.databases ORDER BY name;"},
	{Name: "Query tables", SQL: "SELECT TABLE_SCHEMA AS [Schema], TABLE_NAME AS [Table], TABLE_TYPE AS [Type]\n" +
		"FROM INFORMATION_SCHEMA.TABLES\n" +
		"ORDER BY TABLE_SCHEMA, TABLE_NAME;"},
	{Name: "Query columns", SQL: "DECLARE @table sysname = 'users';\n" +
		"SELECT COLUMN_NAME AS [Column], DATA_TYPE AS [Type], IS_NULLABLE AS [Nullable]\n" +
		"FROM INFORMATION_SCHEMA.COLUMNS\n" +
		"WHERE TABLE_NAME = @table\n" +
		"ORDER BY ORDINAL_POSITION;"},
	{Name: "Query indexes", SQL: "DECLARE @table sysname = 'users';\n" +
		"SELECT i.name AS [Index], c.name AS [Column], i.is_unique AS [Unique]\n" +
		"FROM sys.indexes i\n" +
		"JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id\n" +
		"JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id\n" +
		"WHERE i.object_id = OBJECT_ID(@table);"},
}

// For returns the templates for driver, MySQL's for an unknown driver.
// The slice is a copy.
func For(driver db.Driver) []Template {
	var src []Template
	switch driver {
	case db.DriverPostgres:
		src = postgres
	case db.DriverSqlite:
		src = sqlite
	case db.DriverMssql:
		src = mssql
	default:
		src = mysql
	}
	return append([]Template(nil), src...)
}
