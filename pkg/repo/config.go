package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/bgit/pkg/object"
	"github.com/odvcencio/bgit/pkg/sqlstore"
)

const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"

	defaultSQLitePath = "objects.db"
)

// Config stores repository-local settings, persisted as .bgit/config.toml.
type Config struct {
	Core    CoreConfig    `toml:"core"`
	Storage StorageConfig `toml:"storage"`
}

type CoreConfig struct {
	DefaultBranch    string `toml:"default_branch"`
	CompressionLevel int    `toml:"compression_level"`
}

// StorageConfig selects the object backend. Path is only used by the sqlite
// backend and is relative to .bgit/ unless absolute.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path,omitempty"`
}

// DefaultConfig returns the settings used when config.toml is absent or
// leaves a key out.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			DefaultBranch:    "main",
			CompressionLevel: -1,
		},
		Storage: StorageConfig{Backend: BackendFS},
	}
}

// Validate checks that the config can be used to open a repository.
func (c *Config) Validate() error {
	if err := ValidateBranchName(c.Core.DefaultBranch); err != nil {
		return fmt.Errorf("config: core.default_branch: %w", err)
	}
	if !object.ValidCompressionLevel(c.Core.CompressionLevel) {
		return fmt.Errorf("config: core.compression_level %d out of range", c.Core.CompressionLevel)
	}
	switch c.Storage.Backend {
	case BackendFS, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}
	return nil
}

func configPath(bgitDir string) string {
	return filepath.Join(bgitDir, "config.toml")
}

// readConfig reads .bgit/config.toml on top of the defaults. A missing file
// yields the defaults.
func readConfig(bgitDir string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configPath(bgitDir), cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeConfig(bgitDir string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := writeFileAtomic(configPath(bgitDir), buf.Bytes()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// WriteConfig validates and persists cfg, then makes it the active config.
// Storage changes take effect the next time the repository is opened.
func (r *Repo) WriteConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := writeConfig(r.BgitDir, cfg); err != nil {
		return err
	}
	r.Config = cfg
	return nil
}

func (r *Repo) openStore() (*object.Store, error) {
	opts := []object.StoreOption{
		object.WithCompressionLevel(r.Config.Core.CompressionLevel),
		object.WithLogger(r.logger),
	}
	switch r.Config.Storage.Backend {
	case BackendSQLite:
		path := r.Config.Storage.Path
		if path == "" {
			path = defaultSQLitePath
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.BgitDir, path)
		}
		b, err := sqlstore.Open(path)
		if err != nil {
			return nil, err
		}
		return object.NewStore(b, opts...), nil
	default:
		return object.NewFSStore(r.BgitDir, opts...), nil
	}
}
