package entity

import (
	"fmt"
	"strings"

	"multiauth/internal/feature/multiauth/domain"
)

// KeySeparator separates the entity type from the local id in a user key.
const KeySeparator = "."

// UserKey addresses one user across all entity types.
type UserKey struct {
	Type    string
	LocalID string
}

// String returns the canonical "{type}.{localID}" form.
func (k UserKey) String() string {
	return k.Type + KeySeparator + k.LocalID
}

// EncodeKey joins an entity type and a local id into a user key.
// The local id may contain the separator; the type may not.
func EncodeKey(entityType, localID string) (string, error) {
	if strings.Contains(entityType, KeySeparator) {
		return "", fmt.Errorf("%w: entity type %q contains %q", domain.ErrInvalidArgument, entityType, KeySeparator)
	}
	return UserKey{Type: entityType, LocalID: localID}.String(), nil
}

// DecodeKey splits a user key on its first separator.
func DecodeKey(key string) (UserKey, error) {
	t, id, ok := strings.Cut(key, KeySeparator)
	if !ok {
		return UserKey{}, fmt.Errorf("%w: %q", domain.ErrMalformedKey, key)
	}
	return UserKey{Type: t, LocalID: id}, nil
}
