package usecase

import (
	"context"
	"errors"

	"multiauth/internal/feature/multiauth/domain"
	"multiauth/internal/feature/multiauth/domain/entity"
)

// FanOutResolver resolves identifiers by querying each entity table in registry order.
// The first table holding the value wins.
type FanOutResolver struct {
	registry *entity.Registry
	store    RecordStore
}

// Compile-time check to ensure FanOutResolver implements IdentifierResolver.
var _ IdentifierResolver = (*FanOutResolver)(nil)

// NewFanOutResolver creates a FanOutResolver over the given registry and store.
func NewFanOutResolver(registry *entity.Registry, store RecordStore) *FanOutResolver {
	return &FanOutResolver{registry: registry, store: store}
}

// FindByIdentifier returns the owner of value, or nil if no entity table holds it.
func (r *FanOutResolver) FindByIdentifier(ctx context.Context, value string) (*entity.LookupResult, error) {
	if r.registry.Len() == 0 {
		return nil, domain.ErrNoEntities
	}

	for _, def := range r.registry.All() {
		rec, err := r.store.FindWhere(ctx, def, map[string]any{def.Identifier: value})
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, asStorageError("usecase.FindByIdentifier", err)
		}
		return &entity.LookupResult{Type: def.Type, ID: rec.AuthID(), Identifier: value}, nil
	}
	return nil, nil
}

// IsIdentifierAvailable reports whether value is unowned, or owned exactly by
// the (exceptType, exceptID) user. An empty exceptType disables the exception.
func IsIdentifierAvailable(ctx context.Context, r IdentifierResolver, value, exceptType, exceptID string) (bool, error) {
	owner, err := r.FindByIdentifier(ctx, value)
	if err != nil {
		return false, err
	}
	if owner == nil {
		return true, nil
	}
	return exceptType != "" && owner.Type == exceptType && owner.ID == exceptID, nil
}

// asStorageError wraps err as a domain.StorageError unless it already is one.
func asStorageError(op string, err error) error {
	if domain.IsStorage(err) {
		return err
	}
	return domain.StorageError{Op: op, Err: err}
}
