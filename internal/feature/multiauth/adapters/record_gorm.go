package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"multiauth/internal/feature/multiauth/domain"
	"multiauth/internal/feature/multiauth/domain/entity"
	"multiauth/internal/feature/multiauth/usecase"
)

// recordGorm is a GORM implementation of the RecordStore interface.
// Rows are loaded into the record kind named by each definition.
type recordGorm struct {
	db    *gorm.DB
	kinds entity.Kinds
}

// Compile-time check to ensure recordGorm implements RecordStore.
var _ usecase.RecordStore = (*recordGorm)(nil)

// NewRecordGorm creates a new instance of recordGorm.
func NewRecordGorm(db *gorm.DB, kinds entity.Kinds) *recordGorm {
	return &recordGorm{db: db, kinds: kinds}
}

// Find retrieves the record of def by primary key.
// It returns usecase.ErrRecordNotFound if no row matches.
func (r *recordGorm) Find(ctx context.Context, def entity.Definition, id string) (entity.Authenticatable, error) {
	return r.FindWhere(ctx, def, map[string]any{"id": id})
}

// FindWhere retrieves the first record of def matching every condition, ordered by primary key.
func (r *recordGorm) FindWhere(ctx context.Context, def entity.Definition, conds map[string]any) (entity.Authenticatable, error) {
	rec, err := r.kinds.New(def.Model)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table(def.Table).Where(conds).First(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRecordNotFound
		}
		return nil, domain.StorageError{Op: "adapters.FindWhere", Err: err}
	}
	return rec, nil
}

// Save writes the remember token of rec back to its existing row of def.
// It never inserts: a row deleted since rec was loaded yields usecase.ErrRecordNotFound.
func (r *recordGorm) Save(ctx context.Context, def entity.Definition, rec entity.Authenticatable) error {
	res := r.db.WithContext(ctx).
		Table(def.Table).
		Where(map[string]any{"id": rec.AuthID()}).
		Update(usecase.RememberTokenColumn, rec.RememberToken())
	if res.Error != nil {
		return domain.StorageError{Op: "adapters.Save", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return usecase.ErrRecordNotFound
	}
	return nil
}
