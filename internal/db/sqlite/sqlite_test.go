package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgunnarsson/sqlpad/internal/db"
)

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.ErrorIs(t, err, db.ErrEmptyDSN)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.DB.ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL, note TEXT)`)
	require.NoError(t, err)
	_, err = s.DB.ExecContext(ctx, `CREATE VIEW active AS SELECT id FROM users`)
	require.NoError(t, err)

	tables, err := s.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"active", "users"}, tables)

	cols, err := s.DescribeTable(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []db.Column{
		{Name: "id", Type: "INTEGER"},
		{Name: "email", Type: "TEXT"},
		{Name: "note", Type: "TEXT", Nullable: true},
	}, cols)

	cols, err = s.DescribeTable(ctx, "ghosts")
	require.NoError(t, err)
	assert.Empty(t, cols)
}
