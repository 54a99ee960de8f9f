package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// digest returns a fixed-length key fragment for an arbitrary identifier,
// so distinct identifiers never share a key and raw values never reach Redis.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
