// Package config loads sqlpad's settings.
//
// Precedence (highest to lowest): flags > SQLPAD_ env vars > YAML file >
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/bgunnarsson/sqlpad/internal/db"
)

const (
	EnvPrefix = "SQLPAD_"
	AppDir    = "sqlpad"
)

// sections are the nested key groups. An env var starting with one of them
// gets its first underscore turned into the key delimiter.
var sections = []string{"grid", "ui", "prefs", "vault", "log"}

// flagKeys maps CLI flag names onto config keys where the two differ.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-file":   "log.file",
	"prefs":      "prefs.path",
	"passphrase": "vault.passphrase",
}

type GridConfig struct {
	MaxCells int `koanf:"max_cells"`
	// MinWidth is the narrowest column the text printer emits.
	MinWidth int `koanf:"min_width"`
}

type UIConfig struct {
	MinColumnCells int `koanf:"min_column_cells"`
	MaxColumnCells int `koanf:"max_column_cells"`
}

type PrefsConfig struct {
	Path string `koanf:"path"`
}

type VaultConfig struct {
	// Passphrase keys the stored configuration. Empty means the install
	// directory.
	Passphrase string `koanf:"passphrase"`
}

type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// Config holds every setting.
type Config struct {
	Driver         string        `koanf:"driver"`
	QueryTimeout   time.Duration `koanf:"query_timeout"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	FrameInterval  time.Duration `koanf:"frame_interval"`

	Grid  GridConfig  `koanf:"grid"`
	UI    UIConfig    `koanf:"ui"`
	Prefs PrefsConfig `koanf:"prefs"`
	Vault VaultConfig `koanf:"vault"`
	Log   LogConfig   `koanf:"log"`

	// FileUsed is the YAML file that was read, if any.
	FileUsed string `koanf:"-"`
}

// Dir is <user config dir>/sqlpad, or a relative sqlpad directory when the
// user config dir is unknown.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return AppDir
	}
	return filepath.Join(base, AppDir)
}

// InstallDir is the directory holding the running executable.
func InstallDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func defaults() map[string]any {
	dir := Dir()
	return map[string]any{
		"driver":              string(db.DriverMysql),
		"query_timeout":       5 * time.Minute,
		"connect_timeout":     10 * time.Second,
		"frame_interval":      50 * time.Millisecond,
		"grid.max_cells":      2048,
		"grid.min_width":      1,
		"ui.min_column_cells": 4,
		"ui.max_column_cells": 40,
		"prefs.path":          filepath.Join(dir, "prefs.db"),
		"vault.passphrase":    "",
		"log.file":            filepath.Join(dir, "sqlpad.log"),
		"log.level":           "info",
	}
}

// envKey turns SQLPAD_GRID_MAX_CELLS into grid.max_cells.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if strings.HasPrefix(key, sec+"_") {
			return sec + "." + strings.TrimPrefix(key, sec+"_")
		}
	}
	return key
}

// flagKey turns a flag name into a config key.
func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// findConfigFile returns explicit, or the default file when it exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"sqlpad.yaml", "sqlpad.yml"} {
		candidate := filepath.Join(Dir(), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Load reads configuration from defaults, the YAML file, the environment and
// the flags that were explicitly set. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := flagKey(f.Name)
			if !k.Exists(key) {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if !slices.Contains(db.Drivers(), db.Driver(c.Driver)) {
		return fmt.Errorf("invalid driver %q: want one of %v", c.Driver, db.Drivers())
	}
	if c.QueryTimeout < 0 {
		return fmt.Errorf("query_timeout must not be negative, got %s", c.QueryTimeout)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect_timeout must be positive, got %s", c.ConnectTimeout)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %s", c.FrameInterval)
	}
	if c.Grid.MaxCells <= 0 {
		return fmt.Errorf("grid.max_cells must be positive, got %d", c.Grid.MaxCells)
	}
	if c.Grid.MinWidth < 0 {
		return fmt.Errorf("grid.min_width must not be negative, got %d", c.Grid.MinWidth)
	}
	if c.UI.MinColumnCells < 1 || c.UI.MaxColumnCells < c.UI.MinColumnCells {
		return fmt.Errorf("ui column cells must satisfy 1 <= min (%d) <= max (%d)", c.UI.MinColumnCells, c.UI.MaxColumnCells)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	return nil
}

// Passphrase is the vault passphrase, defaulting to the install directory.
func (c *Config) Passphrase() string {
	if c.Vault.Passphrase != "" {
		return c.Vault.Passphrase
	}
	return InstallDir()
}
