package object

import "fmt"

// Hash is a 40-character lowercase hex-encoded SHA-1 digest.
type Hash string

// HashLen is the length of a hex-encoded Hash.
const HashLen = 40

// Valid reports whether h is a well-formed object address.
func (h Hash) Valid() bool {
	if len(h) != HashLen {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Short returns the first 8 characters of h, or h itself when shorter.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}

// ParseHash validates s as an object address.
func ParseHash(s string) (Hash, error) {
	h := Hash(s)
	if !h.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}
	return h, nil
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeCommit ObjectType = "commit"
)

// Known reports whether t is one of the object kinds this store understands.
func (t ObjectType) Known() bool {
	switch t {
	case TypeBlob, TypeCommit:
		return true
	}
	return false
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// CommitObj is one immutable node of the history graph. Files maps a
// repo-relative slash path to the blob holding its content. An empty Parent
// marks a root commit.
type CommitObj struct {
	Message   string
	Timestamp int64
	Files     map[string]Hash
	Parent    Hash
}
