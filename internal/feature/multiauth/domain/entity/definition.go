// Package entity defines the domain entities for the multiauth feature.
package entity

import (
	"regexp"
	"strings"

	"multiauth/internal/feature/multiauth/domain"
)

// Raw configuration keys of an entity definition.
const (
	KeyType       = "type"
	KeyTable      = "table"
	KeyModel      = "model"
	KeyIdentifier = "identifier"
)

// sqlName matches table and column names that are safe to quote into a query.
var sqlName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Definition describes one authenticable user category.
// It is an immutable value built once from configuration.
type Definition struct {
	// Type is the unique entity name, e.g. "client". It prefixes every user key.
	Type string `json:"type"`

	// Table is the storage table holding the entity's records.
	Table string `json:"table"`

	// Model names the record kind used to load rows of Table.
	Model string `json:"model"`

	// Identifier is the column holding the login identifier, e.g. "email".
	Identifier string `json:"identifier"`
}

// NewDefinition builds a Definition from a raw configuration map.
// The first missing key aborts construction with a domain.ConfigError naming it.
func NewDefinition(raw map[string]string) (Definition, error) {
	var d Definition
	fields := []struct {
		key string
		dst *string
	}{
		{KeyType, &d.Type},
		{KeyTable, &d.Table},
		{KeyModel, &d.Model},
		{KeyIdentifier, &d.Identifier},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok || v == "" {
			return Definition{}, domain.ConfigError{Key: f.key}
		}
		*f.dst = v
	}

	if strings.Contains(d.Type, KeySeparator) {
		return Definition{}, domain.ConfigError{Key: KeyType, Msg: "must not contain '" + KeySeparator + "'"}
	}
	if !sqlName.MatchString(d.Table) {
		return Definition{}, domain.ConfigError{Key: KeyTable, Msg: "not a valid table name"}
	}
	if !sqlName.MatchString(d.Identifier) {
		return Definition{}, domain.ConfigError{Key: KeyIdentifier, Msg: "not a valid column name"}
	}
	return d, nil
}

// Registry is the ordered list of configured entity definitions.
// It is read-only after LoadRegistry and safe for concurrent use.
type Registry struct {
	defs []Definition
}

// LoadRegistry validates every raw definition and returns the registry.
// Any invalid element aborts the whole load; no partial registry is returned.
func LoadRegistry(raw []map[string]string) (*Registry, error) {
	defs := make([]Definition, 0, len(raw))
	for _, item := range raw {
		d, err := NewDefinition(item)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return &Registry{defs: defs}, nil
}

// NewRegistry wraps already validated definitions.
func NewRegistry(defs ...Definition) *Registry {
	return &Registry{defs: append([]Definition(nil), defs...)}
}

// ByType returns the first definition whose Type equals t.
func (r *Registry) ByType(t string) (Definition, bool) {
	for _, d := range r.defs {
		if d.Type == t {
			return d, true
		}
	}
	return Definition{}, false
}

// All returns the definitions in configuration order.
func (r *Registry) All() []Definition {
	return append([]Definition(nil), r.defs...)
}

// Len returns the number of configured definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}
