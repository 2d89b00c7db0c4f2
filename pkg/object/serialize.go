package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj to a deterministic text format:
//
//	parent H       (omitted for a root commit)
//	timestamp T
//	file H path    (zero or more, sorted by path)
//
//	message
//
// Identical logical commits always serialize to identical bytes.
func MarshalCommit(c *CommitObj) ([]byte, error) {
	if c.Parent != "" && !c.Parent.Valid() {
		return nil, fmt.Errorf("marshal commit: parent: %w: %q", ErrInvalidHash, c.Parent)
	}

	paths := make([]string, 0, len(c.Files))
	for p, h := range c.Files {
		if p == "" || strings.ContainsAny(p, "\n\x00") {
			return nil, fmt.Errorf("marshal commit: invalid path %q", p)
		}
		if !h.Valid() {
			return nil, fmt.Errorf("marshal commit: file %q: %w: %q", p, ErrInvalidHash, h)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", string(c.Parent))
	}
	fmt.Fprintf(&buf, "timestamp %d\n", c.Timestamp)
	for _, p := range paths {
		fmt.Fprintf(&buf, "file %s %s\n", string(c.Files[p]), p)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes(), nil
}

// UnmarshalCommit parses a CommitObj from its serialized form. Malformed
// input is reported as ErrCorruptObject.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrCorruptObject)
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &CommitObj{Message: message, Files: make(map[string]Hash)}
	haveTimestamp := false
	haveParent := false
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: %w: malformed header line %q", ErrCorruptObject, line)
		}
		switch key {
		case "parent":
			if haveParent {
				return nil, fmt.Errorf("unmarshal commit: %w: duplicate parent", ErrCorruptObject)
			}
			h := Hash(val)
			if !h.Valid() {
				return nil, fmt.Errorf("unmarshal commit: %w: bad parent %q", ErrCorruptObject, val)
			}
			c.Parent = h
			haveParent = true
		case "timestamp":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w: bad timestamp %q", ErrCorruptObject, val)
			}
			c.Timestamp = ts
			haveTimestamp = true
		case "file":
			hs, path, ok := strings.Cut(val, " ")
			h := Hash(hs)
			if !ok || path == "" || !h.Valid() {
				return nil, fmt.Errorf("unmarshal commit: %w: bad file entry %q", ErrCorruptObject, val)
			}
			if _, dup := c.Files[path]; dup {
				return nil, fmt.Errorf("unmarshal commit: %w: duplicate file %q", ErrCorruptObject, path)
			}
			c.Files[path] = h
		default:
			return nil, fmt.Errorf("unmarshal commit: %w: unknown header key %q", ErrCorruptObject, key)
		}
	}
	if !haveTimestamp {
		return nil, fmt.Errorf("unmarshal commit: %w: missing timestamp", ErrCorruptObject)
	}
	return c, nil
}
