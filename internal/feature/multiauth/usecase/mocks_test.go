package usecase

import (
	"context"
	"fmt"
	"strings"

	"multiauth/internal/feature/multiauth/domain/entity"
)

// fakeRecord is a record whose columns are kept in a map.
type fakeRecord struct {
	cols map[string]string
}

func (r *fakeRecord) AuthID() string { return r.cols["id"] }
func (r *fakeRecord) AuthPassword() string { return r.cols["password"] }
func (r *fakeRecord) RememberToken() string { return r.cols[RememberTokenColumn] }
func (r *fakeRecord) SetRememberToken(tok string) { r.cols[RememberTokenColumn] = tok }

// memStore is an in-memory RecordStore keyed by table name.
type memStore struct {
	tables  map[string][]map[string]string
	saveErr error
	saves   int
}

func (m *memStore) Find(ctx context.Context, def entity.Definition, id string) (entity.Authenticatable, error) {
	return m.FindWhere(ctx, def, map[string]any{"id": id})
}

func (m *memStore) FindWhere(_ context.Context, def entity.Definition, conds map[string]any) (entity.Authenticatable, error) {
	for _, row := range m.tables[def.Table] {
		matched := true
		for col, want := range conds {
			if row[col] != fmt.Sprint(want) {
				matched = false
				break
			}
		}
		if matched {
			cp := make(map[string]string, len(row))
			for k, v := range row {
				cp[k] = v
			}
			return &fakeRecord{cols: cp}, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m *memStore) Save(_ context.Context, def entity.Definition, rec entity.Authenticatable) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	fr := rec.(*fakeRecord)
	for i, row := range m.tables[def.Table] {
		if row["id"] == fr.AuthID() {
			m.tables[def.Table][i] = fr.cols
			return nil
		}
	}
	return ErrRecordNotFound
}

// mockRecordStore is a func-field RecordStore for error paths.
type mockRecordStore struct {
	FindFunc      func(ctx context.Context, def entity.Definition, id string) (entity.Authenticatable, error)
	FindWhereFunc func(ctx context.Context, def entity.Definition, conds map[string]any) (entity.Authenticatable, error)
	SaveFunc      func(ctx context.Context, def entity.Definition, rec entity.Authenticatable) error
}

func (m *mockRecordStore) Find(ctx context.Context, def entity.Definition, id string) (entity.Authenticatable, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, def, id)
	}
	return nil, ErrRecordNotFound
}

func (m *mockRecordStore) FindWhere(ctx context.Context, def entity.Definition, conds map[string]any) (entity.Authenticatable, error) {
	if m.FindWhereFunc != nil {
		return m.FindWhereFunc(ctx, def, conds)
	}
	return nil, ErrRecordNotFound
}

func (m *mockRecordStore) Save(ctx context.Context, def entity.Definition, rec entity.Authenticatable) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, def, rec)
	}
	return nil
}

// mockResolver is a func-field IdentifierResolver.
type mockResolver struct {
	FindByIdentifierFunc func(ctx context.Context, value string) (*entity.LookupResult, error)
}

func (m *mockResolver) FindByIdentifier(ctx context.Context, value string) (*entity.LookupResult, error) {
	if m.FindByIdentifierFunc != nil {
		return m.FindByIdentifierFunc(ctx, value)
	}
	return nil, nil
}

// plainHasher treats "hashed:<plain>" as the hash of plain.
type plainHasher struct {
	calls int
}

func (h *plainHasher) Verify(plain, hash string) bool {
	h.calls++
	return strings.TrimPrefix(hash, "hashed:") == plain && strings.HasPrefix(hash, "hashed:")
}

func testRegistry() *entity.Registry {
	return entity.NewRegistry(
		entity.Definition{Type: "client", Table: "clients", Model: "Client", Identifier: "username"},
		entity.Definition{Type: "admin", Table: "admins", Model: "Admin", Identifier: "email"},
	)
}

// seededStore mirrors the clients/admins fixture data.
func seededStore() *memStore {
	return &memStore{tables: map[string][]map[string]string{
		"clients": {
			{"id": "1", "email": "client@example.com", "username": "client", "password": "hashed:secret", RememberTokenColumn: ""},
			{"id": "2", "email": "anotherclient@example.com", "username": "secondclient", "password": "hashed:test", RememberTokenColumn: "a_test_remember_token"},
		},
		"admins": {
			{"id": "1", "email": "admin@example.com", "password": "hashed:password", RememberTokenColumn: ""},
		},
	}}
}
