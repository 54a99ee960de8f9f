package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"multiauth/internal/feature/multiauth/domain/entity"
)

// testRegistry mirrors the default clients/admins configuration.
func testRegistry() *entity.Registry {
	return entity.NewRegistry(
		entity.Definition{Type: "client", Table: "clients", Model: "Client", Identifier: "username"},
		entity.Definition{Type: "admin", Table: "admins", Model: "Admin", Identifier: "email"},
	)
}

// setupTestDB prepares an in-memory SQLite database with seeded client and admin rows.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to initialize test database")

	// Every pooled connection to ":memory:" would be a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = Migrate(context.Background(), db, testRegistry(), DefaultKinds())
	require.NoError(t, err, "failed to migrate tables")

	token := "a_test_remember_token"
	require.NoError(t, db.Create(&ClientModel{Email: "client@example.com", Username: "client", Password: "hash-secret"}).Error)
	require.NoError(t, db.Create(&ClientModel{Email: "anotherclient@example.com", Username: "secondclient", Password: "hash-test", Token: &token}).Error)
	require.NoError(t, db.Create(&AdminModel{Email: "admin@example.com", Password: "hash-password"}).Error)

	return db
}
