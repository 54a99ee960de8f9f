package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// PasswordHasher produces storable password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type demoAccount struct {
	username, email, password, rememberToken string
}

var demoClients = []demoAccount{
	{username: "client", email: "client@example.com", password: "secret"},
	{username: "secondclient", email: "anotherclient@example.com", password: "test", rememberToken: "a_test_remember_token"},
}

var demoAdmins = []demoAccount{
	{email: "admin@example.com", password: "password"},
}

// SeedDemo migrates the default client and admin tables and inserts the demo
// accounts that are not present yet. It returns how many rows were created.
func SeedDemo(ctx context.Context, db *gorm.DB, h PasswordHasher) (int, error) {
	tx := db.WithContext(ctx)
	if err := tx.AutoMigrate(&ClientModel{}, &AdminModel{}); err != nil {
		return 0, fmt.Errorf("failed to migrate demo tables: %w", err)
	}

	created := 0
	for _, a := range demoClients {
		hash, err := h.Hash(a.password)
		if err != nil {
			return created, err
		}
		m := ClientModel{Username: a.username, Email: a.email, Password: hash}
		if a.rememberToken != "" {
			m.SetRememberToken(a.rememberToken)
		}
		res := tx.Where(ClientModel{Username: a.username}).FirstOrCreate(&m)
		if res.Error != nil {
			return created, fmt.Errorf("failed to seed client %s: %w", a.username, res.Error)
		}
		created += int(res.RowsAffected)
	}
	for _, a := range demoAdmins {
		hash, err := h.Hash(a.password)
		if err != nil {
			return created, err
		}
		m := AdminModel{Email: a.email, Password: hash}
		res := tx.Where(AdminModel{Email: a.email}).FirstOrCreate(&m)
		if res.Error != nil {
			return created, fmt.Errorf("failed to seed admin %s: %w", a.email, res.Error)
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}
