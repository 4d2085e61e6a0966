package state

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is the hex BLAKE3 hash of an encoded record. Two saves with the
// same digest stored the same state.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
