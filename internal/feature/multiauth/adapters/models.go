// Package adapters provides gorm-backed implementations for the multiauth feature.
package adapters

import (
	"strconv"
	"time"

	"multiauth/internal/feature/multiauth/domain/entity"
)

// ClientModel is the GORM model for client accounts.
type ClientModel struct {
	ID        uint    `gorm:"primaryKey"`
	Email     string  `gorm:"uniqueIndex;size:255;not null"`
	Username  string  `gorm:"uniqueIndex;size:255;not null"`
	Password  string  `gorm:"size:255;not null"`
	Token     *string `gorm:"column:remember_token;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the default table name for GORM.
func (ClientModel) TableName() string {
	return "clients"
}

func (m *ClientModel) AuthID() string { return strconv.FormatUint(uint64(m.ID), 10) }
func (m *ClientModel) AuthPassword() string { return m.Password }
func (m *ClientModel) RememberToken() string { return deref(m.Token) }
func (m *ClientModel) SetRememberToken(v string) { m.Token = &v }

// AdminModel is the GORM model for administrator accounts.
type AdminModel struct {
	ID        uint    `gorm:"primaryKey"`
	Email     string  `gorm:"uniqueIndex;size:255;not null"`
	Password  string  `gorm:"size:255;not null"`
	Token     *string `gorm:"column:remember_token;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the default table name for GORM.
func (AdminModel) TableName() string {
	return "admins"
}

func (m *AdminModel) AuthID() string { return strconv.FormatUint(uint64(m.ID), 10) }
func (m *AdminModel) AuthPassword() string { return m.Password }
func (m *AdminModel) RememberToken() string { return deref(m.Token) }
func (m *AdminModel) SetRememberToken(v string) { m.Token = &v }

// DefaultKinds returns the record kinds shipped with the service.
func DefaultKinds() entity.Kinds {
	return entity.Kinds{
		"Client": func() entity.Authenticatable { return &ClientModel{} },
		"Admin":  func() entity.Authenticatable { return &AdminModel{} },
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
