package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bgunnarsson/sqlpad/internal/db/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS prefs (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`

// opTimeout bounds every statement; the store sits on the UI's start-up and
// shutdown path.
const opTimeout = 5 * time.Second

// SQLiteStore keeps preferences in a single-table SQLite file.
type SQLiteStore struct {
	db     *sqlite.SqliteDB
	logger logrus.FieldLogger
}

// OpenSQLite opens (creating if needed) the store at path. ":memory:" is
// accepted.
func OpenSQLite(ctx context.Context, path string, logger logrus.FieldLogger) (*SQLiteStore, error) {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create prefs dir: %w", err)
		}
	}

	sdb, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open prefs %s: %w", path, err)
	}
	if _, err := sdb.DB.ExecContext(ctx, schema); err != nil {
		_ = sdb.Close()
		return nil, fmt.Errorf("create prefs table: %w", err)
	}

	return &SQLiteStore{db: sdb, logger: logger.WithField("prefs", path)}, nil
}

func (s *SQLiteStore) GetString(key, def string) string {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var v string
	err := s.db.DB.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?;`, key).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return def
	case err != nil:
		s.logger.WithError(err).WithField("key", key).Warn("Failed to read preference")
		return def
	}
	return v
}

func (s *SQLiteStore) SetString(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;
	`, key, value)
	if err != nil {
		return fmt.Errorf("write preference %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := s.db.DB.ExecContext(ctx, `DELETE FROM prefs WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
