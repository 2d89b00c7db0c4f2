package object

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// Envelope returns the canonical encoding "type len\0content" that is both
// hashed and stored.
func Envelope(objType ObjectType, data []byte) []byte {
	out := make([]byte, 0, len(objType)+len(data)+24)
	out = append(out, objType...)
	out = append(out, ' ')
	out = strconv.AppendInt(out, int64(len(data)), 10)
	out = append(out, 0)
	return append(out, data...)
}

// HashObject computes the SHA-1 of the envelope "type len\0content", the
// same addressing scheme Git uses for loose objects.
func HashObject(objType ObjectType, data []byte) Hash {
	sum := sha1.Sum(Envelope(objType, data))
	return Hash(hex.EncodeToString(sum[:]))
}
