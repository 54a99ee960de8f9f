// Package hasher provides bcrypt password hashing for stored credentials.
package hasher

import (
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes and verifies passwords using bcrypt.
// Callers must not log or persist plaintext passwords.
type Bcrypt struct {
	Cost int
}

// NewBcrypt returns a Bcrypt hasher. Costs outside bcrypt's range are clamped,
// and zero selects bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Bcrypt{Cost: cost}
}

// Hash produces a bcrypt hash of plain suitable for storage.
func (h *Bcrypt) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. A malformed hash never matches.
func (h *Bcrypt) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
