package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a stable hex digest of s, used wherever a user id or client IP
// would otherwise be written into shared storage keys.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
