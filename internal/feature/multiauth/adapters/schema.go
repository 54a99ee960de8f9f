package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"multiauth/internal/feature/multiauth/domain"
	"multiauth/internal/feature/multiauth/domain/entity"
	"multiauth/internal/feature/multiauth/usecase"
)

// Migrate creates or updates the table of every definition from its record kind.
func Migrate(ctx context.Context, db *gorm.DB, registry *entity.Registry, kinds entity.Kinds) error {
	for _, def := range registry.All() {
		rec, err := kinds.New(def.Model)
		if err != nil {
			return err
		}
		if err := db.WithContext(ctx).Table(def.Table).AutoMigrate(rec); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", def.Table, err)
		}
	}
	return nil
}

// VerifySchema checks that every entity table exists with the columns the
// provider reads.
func VerifySchema(ctx context.Context, db *gorm.DB, registry *entity.Registry) error {
	m := db.WithContext(ctx).Migrator()
	for _, def := range registry.All() {
		if !m.HasTable(def.Table) {
			return domain.ConfigError{Key: entity.KeyTable, Msg: fmt.Sprintf("table %q does not exist", def.Table)}
		}
		for _, col := range []string{"id", def.Identifier, usecase.PasswordField, usecase.RememberTokenColumn} {
			if !m.HasColumn(def.Table, col) {
				return domain.ConfigError{Key: entity.KeyIdentifier, Msg: fmt.Sprintf("column %s.%s does not exist", def.Table, col)}
			}
		}
	}
	return nil
}
