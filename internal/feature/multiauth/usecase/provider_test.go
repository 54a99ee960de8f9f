package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multiauth/internal/feature/multiauth/domain"
	"multiauth/internal/feature/multiauth/domain/entity"
)

func newTestProvider(store RecordStore) (*Provider, *plainHasher) {
	reg := testRegistry()
	h := &plainHasher{}
	return NewProvider(reg, NewFanOutResolver(reg, store), store, h, "identifier"), h
}

func TestProvider_RetrieveByCredentials(t *testing.T) {
	t.Parallel()

	t.Run("configured identifier field", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.RetrieveByCredentials(context.Background(), map[string]string{"identifier": "secondclient", "password": "test"})

		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "client.2", u.Key)
		assert.Equal(t, "2", u.Record.AuthID())
	})

	t.Run("falls back to email field", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.RetrieveByCredentials(context.Background(), map[string]string{"email": "admin@example.com", "password": "test"})

		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "admin.1", u.Key)
		assert.Equal(t, "admin", u.Type())
	})

	t.Run("configured field takes precedence over email", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.RetrieveByCredentials(context.Background(), map[string]string{"identifier": "client", "email": "admin@example.com"})

		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "client.1", u.Key)
	})

	t.Run("no identifier field", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.RetrieveByCredentials(context.Background(), map[string]string{"invalididentifier": "admin@example.com", "password": "test"})

		assert.Nil(t, u)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown identifier returns nil", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.RetrieveByCredentials(context.Background(), map[string]string{"email": "nonexistent@example.com", "password": "test"})

		assert.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("resolver type missing from registry", func(t *testing.T) {
		t.Parallel()

		reg := testRegistry()
		resolver := &mockResolver{
			FindByIdentifierFunc: func(ctx context.Context, value string) (*entity.LookupResult, error) {
				return &entity.LookupResult{Type: "ghost", ID: "1", Identifier: value}, nil
			},
		}
		p := NewProvider(reg, resolver, seededStore(), &plainHasher{}, "identifier")

		_, err := p.RetrieveByCredentials(context.Background(), map[string]string{"identifier": "x"})

		assert.ErrorIs(t, err, domain.ErrUnknownEntityType)
	})
}

func TestProvider_RetrieveByID(t *testing.T) {
	t.Parallel()

	t.Run("existing client", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.RetrieveByID(context.Background(), "client.1")

		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "client.1", u.Key)
		assert.Equal(t, "hashed:secret", u.Record.AuthPassword())
	})

	t.Run("missing record returns nil", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.RetrieveByID(context.Background(), "admin.99")

		assert.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("unknown entity type", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.RetrieveByID(context.Background(), "unknowntype.1")

		assert.Nil(t, u)
		assert.ErrorIs(t, err, domain.ErrUnknownEntityType)
	})

	t.Run("malformed key", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		_, err := p.RetrieveByID(context.Background(), "client1")

		assert.ErrorIs(t, err, domain.ErrMalformedKey)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("disk I/O error")
		store := &mockRecordStore{
			FindFunc: func(ctx context.Context, def entity.Definition, id string) (entity.Authenticatable, error) {
				return nil, cause
			},
		}
		p, _ := newTestProvider(store)

		_, err := p.RetrieveByID(context.Background(), "client.1")

		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.ErrorIs(t, err, cause)
	})
}

func TestProvider_RetrieveByToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		token   string
		wantKey string
	}{
		{"matching token", "client.2", "a_test_remember_token", "client.2"},
		{"wrong token", "client.2", "nope", ""},
		{"wrong id", "client.1", "a_test_remember_token", ""},
		{"empty token", "client.1", "", ""},
		{"unknown type", "ghost.2", "a_test_remember_token", ""},
		{"malformed key", "client2", "a_test_remember_token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _ := newTestProvider(seededStore())

			u, err := p.RetrieveByToken(context.Background(), tt.key, tt.token)

			require.NoError(t, err)
			if tt.wantKey == "" {
				assert.Nil(t, u)
				return
			}
			require.NotNil(t, u)
			assert.Equal(t, tt.wantKey, u.Key)
		})
	}
}

func TestProvider_ValidateCredentials(t *testing.T) {
	t.Parallel()

	p, h := newTestProvider(seededStore())
	u, err := p.RetrieveByID(context.Background(), "client.1")
	require.NoError(t, err)

	assert.True(t, p.ValidateCredentials(u, map[string]string{"password": "secret"}))
	assert.False(t, p.ValidateCredentials(u, map[string]string{"password": "wrong"}))
	assert.False(t, p.ValidateCredentials(u, map[string]string{}))
	assert.False(t, p.ValidateCredentials(nil, map[string]string{"password": "secret"}))
	assert.Equal(t, 3, h.calls)
}

func TestProvider_UpdateRememberToken(t *testing.T) {
	t.Parallel()

	t.Run("token is persisted", func(t *testing.T) {
		t.Parallel()

		store := seededStore()
		p, _ := newTestProvider(store)
		admin, err := p.RetrieveByID(context.Background(), "admin.1")
		require.NoError(t, err)
		assert.Empty(t, admin.Record.RememberToken())

		err = p.UpdateRememberToken(context.Background(), admin, "tok")
		require.NoError(t, err)
		assert.Equal(t, "tok", admin.Record.RememberToken())

		reread, err := p.RetrieveByID(context.Background(), "admin.1")
		require.NoError(t, err)
		assert.Equal(t, "tok", reread.Record.RememberToken())

		byToken, err := p.RetrieveByToken(context.Background(), "admin.1", "tok")
		require.NoError(t, err)
		assert.NotNil(t, byToken)
	})

	t.Run("save failure is a storage error", func(t *testing.T) {
		t.Parallel()

		store := seededStore()
		store.saveErr = errors.New("read-only database")
		p, _ := newTestProvider(store)
		admin, err := p.RetrieveByID(context.Background(), "admin.1")
		require.NoError(t, err)

		err = p.UpdateRememberToken(context.Background(), admin, "tok")

		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.Equal(t, 1, store.saves)
	})

	t.Run("row deleted after load is not recreated", func(t *testing.T) {
		t.Parallel()

		store := seededStore()
		p, _ := newTestProvider(store)
		admin, err := p.RetrieveByID(context.Background(), "admin.1")
		require.NoError(t, err)
		store.tables["admins"] = nil

		err = p.UpdateRememberToken(context.Background(), admin, "tok")

		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.Empty(t, store.tables["admins"])
	})
}

func TestProvider_Attempt(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		u, err := p.Attempt(context.Background(), map[string]string{"identifier": "client", "password": "secret"})

		require.NoError(t, err)
		assert.Equal(t, "client.1", u.Key)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		t.Parallel()

		for _, creds := range []map[string]string{
			{"identifier": "client", "password": "wrong"},
			{"identifier": "abc@example.com", "password": "123"},
		} {
			p, h := newTestProvider(seededStore())

			u, err := p.Attempt(context.Background(), creds)

			assert.Nil(t, u)
			assert.Equal(t, domain.ErrAuthFailed, err)
			assert.Equal(t, 1, h.calls, "a hash comparison runs on every attempt")
		}
	})

	t.Run("missing identifier field", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProvider(seededStore())

		_, err := p.Attempt(context.Background(), map[string]string{"password": "secret"})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestProvider_IdentifierAvailable(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(seededStore())

	ok, err := p.IdentifierAvailable(context.Background(), "value", "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.IdentifierAvailable(context.Background(), "secondclient", "client.2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.IdentifierAvailable(context.Background(), "client", "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.IdentifierAvailable(context.Background(), "client", "client2")
	assert.ErrorIs(t, err, domain.ErrMalformedKey)
}
