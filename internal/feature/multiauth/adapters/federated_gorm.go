package adapters

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"multiauth/internal/feature/multiauth/domain"
	"multiauth/internal/feature/multiauth/domain/entity"
	"multiauth/internal/feature/multiauth/usecase"
)

// federatedGorm resolves identifiers with a single UNION query across every entity table.
type federatedGorm struct {
	db       *gorm.DB
	registry *entity.Registry
}

// Compile-time check to ensure federatedGorm implements IdentifierResolver.
var _ usecase.IdentifierResolver = (*federatedGorm)(nil)

// NewFederatedGorm creates a new instance of federatedGorm.
func NewFederatedGorm(db *gorm.DB, registry *entity.Registry) *federatedGorm {
	return &federatedGorm{db: db, registry: registry}
}

// FindByIdentifier runs, for each entity in registry order,
//
//	SELECT '<type>' AS type, id, <column> AS identifier FROM <table> WHERE <column> = value
//
// unions the branches and returns the first row. A pos column carrying the
// registry position makes the first configured entity win on collisions.
func (r *federatedGorm) FindByIdentifier(ctx context.Context, value string) (*entity.LookupResult, error) {
	query, args := r.unionQuery(value)
	if query == "" {
		return nil, domain.ErrNoEntities
	}

	var rows []entity.LookupResult
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, domain.StorageError{Op: "adapters.FindByIdentifier", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// unionQuery builds the federated query. Table and column names are quoted by gorm.
// The distinct pos of each branch keeps duplicate definitions from collapsing
// under UNION; LIMIT 1 returns the same row either way.
func (r *federatedGorm) unionQuery(value string) (string, []any) {
	defs := r.registry.All()
	if len(defs) == 0 {
		return "", nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(defs)*7)
	for i, def := range defs {
		if i > 0 {
			sb.WriteString(" UNION ")
		}
		sb.WriteString("SELECT CAST(? AS TEXT) AS type, CAST(? AS TEXT) AS id, CAST(? AS TEXT) AS identifier, CAST(? AS INTEGER) AS pos FROM ? WHERE ? = ?")
		col := clause.Column{Name: def.Identifier}
		args = append(args, def.Type, clause.Column{Name: "id"}, col, i, clause.Table{Name: def.Table}, col, value)
	}
	sb.WriteString(" ORDER BY pos LIMIT 1")
	return sb.String(), args
}
