package usecase

import (
	"context"

	"multiauth/internal/feature/multiauth/domain/entity"
)

// RecordStore abstracts loading and saving entity records.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type RecordStore interface {
	// Find retrieves the record of def whose primary key equals id.
	// It returns ErrRecordNotFound if no row matches.
	Find(ctx context.Context, def entity.Definition, id string) (entity.Authenticatable, error)

	// FindWhere retrieves the first record of def matching every column/value pair of conds.
	// It returns ErrRecordNotFound if no row matches.
	FindWhere(ctx context.Context, def entity.Definition, conds map[string]any) (entity.Authenticatable, error)

	// Save persists the remember token of rec into its existing row of def.
	// It returns ErrRecordNotFound if the row no longer exists.
	Save(ctx context.Context, def entity.Definition, rec entity.Authenticatable) error
}

// IdentifierResolver finds which entity owns a login identifier.
type IdentifierResolver interface {
	// FindByIdentifier returns the single matching row across all entity tables,
	// or nil if no table holds value.
	FindByIdentifier(ctx context.Context, value string) (*entity.LookupResult, error)
}

// Hasher verifies plaintext passwords against stored hashes.
type Hasher interface {
	// Verify reports whether plain matches hash. A malformed hash is a mismatch.
	Verify(plain, hash string) bool
}
