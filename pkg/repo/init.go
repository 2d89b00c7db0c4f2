package repo

import (
	"fmt"
	"os"
	"path/filepath"
)

// Init creates a new repository at path with the default config.
func Init(path string, opts ...Option) (*Repo, error) {
	return InitWithConfig(path, DefaultConfig(), opts...)
}

// InitWithConfig creates the .bgit/ directory structure under path: objects/,
// refs/heads/, config.toml, an empty index, a symbolic HEAD and an unborn
// default branch. Returns ErrRepoExists if .bgit/ is already present.
func InitWithConfig(path string, cfg *Config, opts ...Option) (*Repo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	bgitDir := filepath.Join(abs, DirName)

	if _, err := os.Stat(bgitDir); err == nil {
		return nil, fmt.Errorf("init: %w at %s", ErrRepoExists, bgitDir)
	}

	dirs := []string{
		filepath.Join(bgitDir, "objects"),
		filepath.Join(bgitDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	if err := writeConfig(bgitDir, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	branch := cfg.Core.DefaultBranch
	files := []struct {
		path string
		data string
	}{
		{filepath.Join(bgitDir, "HEAD"), formatHead(SymbolicHead(branch))},
		{branchPath(bgitDir, branch), ""},
		{filepath.Join(bgitDir, "index"), ""},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.data), 0o644); err != nil {
			return nil, fmt.Errorf("init: write %s: %w", filepath.Base(f.path), err)
		}
	}

	r, err := newRepo(abs, bgitDir, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	r.logger.Debug("initialized repository", "dir", bgitDir, "branch", branch, "backend", cfg.Storage.Backend)
	return r, nil
}

// Open searches upward from path for a .bgit/ directory and opens the
// repository. Returns ErrNotARepository if none is found.
func Open(path string, opts ...Option) (*Repo, error) {
	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		bgitDir := filepath.Join(cur, DirName)
		info, err := os.Stat(bgitDir)
		if err == nil && info.IsDir() {
			cfg, err := readConfig(bgitDir)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			r, err := newRepo(cur, bgitDir, cfg, opts)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: %w", ErrNotARepository)
		}
		cur = parent
	}
}
