package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at a temp dir so a developer's own
// sqlpad.yaml never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return filepath.Join(dir, AppDir)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("driver", "mysql", "")
	fs.Duration("query-timeout", 0, "")
	fs.String("log-level", "", "")
	fs.String("passphrase", "", "")
	fs.String("dsn", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, 5*time.Minute, cfg.QueryTimeout)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, GridConfig{MaxCells: 2048, MinWidth: 1}, cfg.Grid)
	assert.Equal(t, UIConfig{MinColumnCells: 4, MaxColumnCells: 40}, cfg.UI)
	assert.Equal(t, filepath.Join(dir, "prefs.db"), cfg.Prefs.Path)
	assert.Equal(t, filepath.Join(dir, "sqlpad.log"), cfg.Log.File)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.FileUsed)
	assert.Equal(t, InstallDir(), cfg.Passphrase())
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "sqlpad.yaml"), `
driver: postgres
query_timeout: 1m
grid:
  max_cells: 100
log:
  level: warn
`)
	t.Setenv("SQLPAD_QUERY_TIMEOUT", "30s")
	t.Setenv("SQLPAD_GRID_MIN_WIDTH", "8")
	t.Setenv("SQLPAD_VAULT_PASSPHRASE", "from-env")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--log-level", "debug", "--dsn", "ignored"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "sqlpad.yaml"), cfg.FileUsed)
	assert.Equal(t, "postgres", cfg.Driver, "file beats defaults; unset flag does not override")
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout, "env beats file")
	assert.Equal(t, 100, cfg.Grid.MaxCells)
	assert.Equal(t, 8, cfg.Grid.MinWidth)
	assert.Equal(t, "debug", cfg.Log.Level, "flag beats file")
	assert.Equal(t, "from-env", cfg.Passphrase())
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "driver: sqlite\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, path, cfg.FileUsed)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("SQLPAD_DRIVER", "oracle")

	_, err := Load("", nil)
	assert.ErrorContains(t, err, `invalid driver "oracle"`)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SQLPAD_DRIVER":              "driver",
		"SQLPAD_QUERY_TIMEOUT":       "query_timeout",
		"SQLPAD_GRID_MAX_CELLS":      "grid.max_cells",
		"SQLPAD_UI_MIN_COLUMN_CELLS": "ui.min_column_cells",
		"SQLPAD_LOG_FILE":            "log.file",
		"SQLPAD_PREFS_PATH":          "prefs.path",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Driver:         "mysql",
			QueryTimeout:   time.Minute,
			ConnectTimeout: time.Second,
			FrameInterval:  time.Millisecond,
			Grid:           GridConfig{MaxCells: 10, MinWidth: 0},
			UI:             UIConfig{MinColumnCells: 1, MaxColumnCells: 1},
			Log:            LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no query timeout", mutate: func(c *Config) { c.QueryTimeout = 0 }},
		{name: "negative query timeout", mutate: func(c *Config) { c.QueryTimeout = -1 }, wantErr: "query_timeout"},
		{name: "zero connect timeout", mutate: func(c *Config) { c.ConnectTimeout = 0 }, wantErr: "connect_timeout"},
		{name: "zero frame interval", mutate: func(c *Config) { c.FrameInterval = 0 }, wantErr: "frame_interval"},
		{name: "zero max cells", mutate: func(c *Config) { c.Grid.MaxCells = 0 }, wantErr: "grid.max_cells"},
		{name: "negative min width", mutate: func(c *Config) { c.Grid.MinWidth = -1 }, wantErr: "grid.min_width"},
		{name: "max below min", mutate: func(c *Config) { c.UI.MinColumnCells = 5; c.UI.MaxColumnCells = 4 }, wantErr: "ui column cells"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
