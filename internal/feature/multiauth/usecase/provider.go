package usecase

import (
	"context"
	"errors"
	"fmt"

	"multiauth/internal/feature/multiauth/domain"
	"multiauth/internal/feature/multiauth/domain/entity"
)

const (
	// DefaultIdentifierField is read when the configured identifier field is absent.
	DefaultIdentifierField = "email"

	// PasswordField is the credential field holding the plaintext password.
	PasswordField = "password"

	// RememberTokenColumn is the column holding each record's remember token.
	RememberTokenColumn = "remember_token"

	// primaryKeyColumn is the primary key column of every entity table.
	primaryKeyColumn = "id"
)

// dummyHash is compared against when no user matched, so a miss costs the same
// bcrypt work as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Provider resolves and verifies users across every configured entity.
// It holds no mutable state and is safe for concurrent use.
type Provider struct {
	registry      *entity.Registry
	resolver      IdentifierResolver
	store         RecordStore
	hasher        Hasher
	identifierKey string
}

// NewProvider creates a Provider. identifierKey is the credential field read
// before falling back to DefaultIdentifierField.
func NewProvider(registry *entity.Registry, resolver IdentifierResolver, store RecordStore, hasher Hasher, identifierKey string) *Provider {
	return &Provider{
		registry:      registry,
		resolver:      resolver,
		store:         store,
		hasher:        hasher,
		identifierKey: identifierKey,
	}
}

// RetrieveByID loads the user addressed by a composite key.
// It returns nil if the entity exists but holds no such record.
func (p *Provider) RetrieveByID(ctx context.Context, key string) (*entity.User, error) {
	def, k, err := p.definitionFor(key)
	if err != nil {
		return nil, err
	}

	rec, err := p.store.Find(ctx, def, k.LocalID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, asStorageError("usecase.RetrieveByID", err)
	}
	return &entity.User{Key: key, Record: rec}, nil
}

// RetrieveByToken loads the user addressed by key if its remember token equals token.
// Malformed keys, unknown types and token mismatches all yield nil.
func (p *Provider) RetrieveByToken(ctx context.Context, key, token string) (*entity.User, error) {
	if token == "" {
		return nil, nil
	}
	def, k, err := p.definitionFor(key)
	if err != nil {
		return nil, nil
	}

	rec, err := p.store.FindWhere(ctx, def, map[string]any{
		primaryKeyColumn:    k.LocalID,
		RememberTokenColumn: token,
	})
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, asStorageError("usecase.RetrieveByToken", err)
	}
	return &entity.User{Key: key, Record: rec}, nil
}

// RetrieveByCredentials finds the candidate user for a credential map.
// The password is not checked; see ValidateCredentials.
func (p *Provider) RetrieveByCredentials(ctx context.Context, credentials map[string]string) (*entity.User, error) {
	identifier, ok := p.identifierFrom(credentials)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	match, err := p.resolver.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	def, ok := p.registry.ByType(match.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, match.Type)
	}

	rec, err := p.store.Find(ctx, def, match.ID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, asStorageError("usecase.RetrieveByCredentials", err)
	}

	key, err := entity.EncodeKey(def.Type, rec.AuthID())
	if err != nil {
		return nil, err
	}
	return &entity.User{Key: key, Record: rec}, nil
}

// ValidateCredentials reports whether the plaintext password of credentials
// matches the user's stored hash.
func (p *Provider) ValidateCredentials(user *entity.User, credentials map[string]string) bool {
	if user == nil || user.Record == nil {
		return false
	}
	return p.hasher.Verify(credentials[PasswordField], user.Record.AuthPassword())
}

// UpdateRememberToken stores token on the user's record.
func (p *Provider) UpdateRememberToken(ctx context.Context, user *entity.User, token string) error {
	def, _, err := p.definitionFor(user.Key)
	if err != nil {
		return err
	}

	user.Record.SetRememberToken(token)
	if err := p.store.Save(ctx, def, user.Record); err != nil {
		return asStorageError("usecase.UpdateRememberToken", err)
	}
	return nil
}

// Attempt retrieves and verifies a user in one step.
// Credentials without any identifier field return domain.ErrInvalidCredentials;
// every other rejected attempt returns domain.ErrAuthFailed regardless of which stage failed.
// A hash comparison always runs so misses and wrong passwords cost the same.
func (p *Provider) Attempt(ctx context.Context, credentials map[string]string) (*entity.User, error) {
	user, err := p.RetrieveByCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}

	hash := dummyHash
	if user != nil {
		hash = user.Record.AuthPassword()
	}
	matched := p.hasher.Verify(credentials[PasswordField], hash)

	if user == nil || !matched {
		return nil, domain.ErrAuthFailed
	}
	return user, nil
}

// IdentifierAvailable reports whether value may be claimed. exceptKey, when
// set, names the user allowed to already own it.
func (p *Provider) IdentifierAvailable(ctx context.Context, value, exceptKey string) (bool, error) {
	var exceptType, exceptID string
	if exceptKey != "" {
		k, err := entity.DecodeKey(exceptKey)
		if err != nil {
			return false, err
		}
		exceptType, exceptID = k.Type, k.LocalID
	}
	return IsIdentifierAvailable(ctx, p.resolver, value, exceptType, exceptID)
}

// identifierFrom picks the configured identifier field, then the default one.
func (p *Provider) identifierFrom(credentials map[string]string) (string, bool) {
	if p.identifierKey != "" {
		if v, ok := credentials[p.identifierKey]; ok {
			return v, true
		}
	}
	v, ok := credentials[DefaultIdentifierField]
	return v, ok
}

// definitionFor decodes key and looks up the definition of its type.
func (p *Provider) definitionFor(key string) (entity.Definition, entity.UserKey, error) {
	k, err := entity.DecodeKey(key)
	if err != nil {
		return entity.Definition{}, entity.UserKey{}, err
	}
	def, ok := p.registry.ByType(k.Type)
	if !ok {
		return entity.Definition{}, entity.UserKey{}, fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, k.Type)
	}
	return def, k, nil
}
