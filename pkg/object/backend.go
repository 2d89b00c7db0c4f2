package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Backend is the key-value layer under a Store. Keys are object hashes and
// values are the compressed envelopes; backends never interpret the bytes.
// WriteRaw must be idempotent: writing an existing key is a no-op.
type Backend interface {
	Has(h Hash) (bool, error)
	ReadRaw(h Hash) ([]byte, error)
	WriteRaw(h Hash, data []byte) error
	Close() error
}

// FSBackend stores objects as loose files with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
type FSBackend struct {
	root string
}

// NewFSBackend creates a FSBackend rooted at the given directory. The
// objects/ subdirectory is created lazily on first write.
func NewFSBackend(root string) *FSBackend {
	return &FSBackend{root: root}
}

// ObjectPath returns the filesystem path for a given hash.
func (b *FSBackend) ObjectPath(h Hash) string {
	return filepath.Join(b.root, "objects", string(h[:2]), string(h[2:]))
}

func (b *FSBackend) Has(h Hash) (bool, error) {
	_, err := os.Stat(b.ObjectPath(h))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("object stat %s: %w", h, err)
}

func (b *FSBackend) ReadRaw(h Hash) ([]byte, error) {
	raw, err := os.ReadFile(b.ObjectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return raw, nil
}

// WriteRaw writes data atomically: it goes to a temp file in the fan-out
// directory and is then renamed into place.
func (b *FSBackend) WriteRaw(h Hash, data []byte) error {
	dest := b.ObjectPath(h)

	// Fast path: already exists.
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("object write %s: %w", h, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("object write rename: %w", err)
	}
	return nil
}

// Close is a no-op for loose files.
func (b *FSBackend) Close() error { return nil }
