package repo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/odvcencio/bgit/pkg/object"
)

// DirName is the name of the hidden repository directory.
const DirName = ".bgit"

// Repo represents an opened bgit repository.
type Repo struct {
	RootDir string        // working directory root
	BgitDir string        // .bgit/ directory
	Store   *object.Store // content-addressed object store
	Config  *Config

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Repo at Init or Open time.
type Option func(*Repo)

// WithLogger sets the logger used for warnings and tracing. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repo) { r.logger = l }
}

// WithClock overrides the time source used for commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.now = now }
}

func newRepo(root, bgitDir string, cfg *Config, opts []Option) (*Repo, error) {
	r := &Repo{
		RootDir: root,
		BgitDir: bgitDir,
		Config:  cfg,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	store, err := r.openStore()
	if err != nil {
		return nil, err
	}
	r.Store = store
	return r, nil
}

// Logger returns the repository logger.
func (r *Repo) Logger() *slog.Logger {
	return r.logger
}

// Close releases the object store backend.
func (r *Repo) Close() error {
	if r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory and a rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-tmp-*")
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
