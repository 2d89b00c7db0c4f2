package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Store is a content-addressed object store. Objects are hashed over their
// envelope, zlib-compressed, and handed to a Backend keyed by hash.
type Store struct {
	backend Backend
	level   int
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompressionLevel sets the zlib level used for new objects.
func WithCompressionLevel(level int) StoreOption {
	return func(s *Store) { s.level = level }
}

// WithLogger attaches a logger for write tracing.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{backend: backend, level: zlib.DefaultCompression}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// NewFSStore is shorthand for a Store over loose files under root.
func NewFSStore(root string, opts ...StoreOption) *Store {
	return NewStore(NewFSBackend(root), opts...)
}

// ValidCompressionLevel reports whether level is accepted by zlib.
func ValidCompressionLevel(level int) bool {
	return level >= zlib.HuffmanOnly && level <= zlib.BestCompression
}

// Backend returns the underlying key-value backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !h.Valid() {
		return false
	}
	ok, err := s.backend.Has(h)
	return err == nil && ok
}

// Write stores an object and returns its content hash. Writing an object
// that already exists is a no-op; the stored bytes are not re-validated.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	if !objType.Known() {
		return "", fmt.Errorf("object write: unknown type %q", objType)
	}
	h := HashObject(objType, data)

	exists, err := s.backend.Has(h)
	if err != nil {
		return "", err
	}
	if exists {
		return h, nil
	}

	compressed, err := deflate(Envelope(objType, data), s.level)
	if err != nil {
		return "", fmt.Errorf("object write %s: compress: %w", h, err)
	}
	if err := s.backend.WriteRaw(h, compressed); err != nil {
		return "", err
	}
	s.logger.Debug("object written", "hash", string(h), "type", string(objType), "size", len(data))
	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !h.Valid() {
		return "", nil, fmt.Errorf("object read: %w: %q", ErrInvalidHash, h)
	}
	compressed, err := s.backend.ReadRaw(h)
	if err != nil {
		return "", nil, err
	}
	raw, err := inflate(compressed)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: inflate: %v", h, ErrCorruptObject, err)
	}
	objType, content, err := parseEnvelope(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, content, nil
}

// parseEnvelope splits "type len\0content" and validates the header.
func parseEnvelope(raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: invalid format (no NUL)", ErrCorruptObject)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	typ, size, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, fmt.Errorf("%w: invalid header %q", ErrCorruptObject, header)
	}
	objType := ObjectType(typ)
	if !objType.Known() {
		return "", nil, fmt.Errorf("%w: unknown type %q", ErrCorruptObject, objType)
	}
	length, err := strconv.Atoi(size)
	if err != nil || length < 0 {
		return "", nil, fmt.Errorf("%w: invalid length %q", ErrCorruptObject, size)
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("%w: length mismatch (header=%d, actual=%d)", ErrCorruptObject, length, len(content))
	}
	return objType, content, nil
}

func deflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated stream: %w", err)
		}
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: TypeBlob}
	}
	return UnmarshalBlob(data)
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	data, err := MarshalCommit(c)
	if err != nil {
		return "", err
	}
	return s.Write(TypeCommit, data)
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeCommit {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: TypeCommit}
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
