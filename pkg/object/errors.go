package object

import (
	"errors"
	"fmt"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrCorruptObject  = errors.New("corrupt object")
	ErrInvalidHash    = errors.New("invalid object hash")
)

// TypeMismatchError is returned by the typed read helpers when the stored
// object has a different kind than requested.
type TypeMismatchError struct {
	Hash Hash
	Got  ObjectType
	Want ObjectType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("object %s: type mismatch: got %q, want %q", e.Hash, e.Got, e.Want)
}
