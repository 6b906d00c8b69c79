package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the document fields.
func (d Document) Hash() string {
	h := blake3.New()

	// Null delimiters keep ("ab","c") and ("a","bc") apart.
	h.Write([]byte(d.CreatedAt))
	h.Write([]byte{0})

	h.Write([]byte(d.Name))
	h.Write([]byte{0})

	h.Write([]byte(d.Content))

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// Digest returns the hex BLAKE3 digest of an opaque byte slice.
func Digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}
