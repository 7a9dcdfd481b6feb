package role

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role names a reusable permission bundle. System roles are seeded at
// install time and cannot be deleted.
type Role struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Permissions pq.StringArray `db:"permissions"`
	IsSystem    bool           `db:"is_system"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
