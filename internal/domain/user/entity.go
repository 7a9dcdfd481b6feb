package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents a staff account. Roles and direct permission grants
// live in join tables and are loaded alongside the row.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	IsActive     bool      `db:"is_active"`

	LastLoginAt sql.NullTime `db:"last_login_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Roles             []string `db:"-"`
	DirectPermissions []string `db:"-"`
}

// HasRole reports whether the user carries the named role
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}
