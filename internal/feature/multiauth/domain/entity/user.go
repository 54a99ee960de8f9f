package entity

import (
	"fmt"
	"strings"

	"multiauth/internal/feature/multiauth/domain"
)

// Authenticatable is implemented by every record kind that can log in.
type Authenticatable interface {
	// AuthID returns the record's primary key as text.
	AuthID() string
	// AuthPassword returns the stored password hash.
	AuthPassword() string
	// RememberToken returns the persisted remember token, or "".
	RememberToken() string
	// SetRememberToken replaces the remember token in memory.
	SetRememberToken(token string)
}

// User is an authenticated or candidate user handle.
type User struct {
	// Key is the composite "{type}.{localID}" user key.
	Key string

	// Record is the loaded record of the user's entity.
	Record Authenticatable
}

// Type returns the entity type encoded in Key.
func (u *User) Type() string {
	t, _, _ := strings.Cut(u.Key, KeySeparator)
	return t
}

// LookupResult is one row matched by a federated identifier lookup.
type LookupResult struct {
	Type       string `json:"type" gorm:"column:type"`
	ID         string `json:"id" gorm:"column:id"`
	Identifier string `json:"identifier" gorm:"column:identifier"`
}

// Key returns the composite user key of the matched row.
func (r LookupResult) Key() string {
	return UserKey{Type: r.Type, LocalID: r.ID}.String()
}

// Factory creates an empty record of one kind, ready to be loaded into.
type Factory func() Authenticatable

// Kinds maps record-kind names to record factories.
// It is populated at startup and read-only afterwards.
type Kinds map[string]Factory

// New returns an empty record of the given kind.
func (k Kinds) New(kind string) (Authenticatable, error) {
	f, ok := k[kind]
	if !ok {
		return nil, domain.ConfigError{Key: KeyModel, Msg: fmt.Sprintf("unknown record kind %q", kind)}
	}
	return f(), nil
}

// Validate checks that every definition of reg names a registered kind.
func (k Kinds) Validate(reg *Registry) error {
	var missing []string
	for _, d := range reg.All() {
		if _, ok := k[d.Model]; !ok {
			missing = append(missing, d.Type+":"+d.Model)
		}
	}
	if len(missing) > 0 {
		return domain.ConfigError{Key: KeyModel, Msg: "no record kind registered for " + strings.Join(missing, ", ")}
	}
	return nil
}
