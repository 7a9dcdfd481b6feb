package role

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository persists roles
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a role repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const roleColumns = `id, name, description, permissions, is_system, created_at, updated_at`

// Create inserts a role
func (r *Repository) Create(ctx context.Context, role *Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO roles (id, name, description, permissions, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, role.Name, role.Description, role.Permissions, role.IsSystem,
		role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("role create: %w", err)
	}
	return nil
}

// GetByID returns a role by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Role, error) {
	var role Role
	err := r.db.GetContext(ctx, &role,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("role get: %w", err)
	}
	return &role, nil
}

// GetByName returns a role by its unique name
func (r *Repository) GetByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.db.GetContext(ctx, &role,
		`SELECT `+roleColumns+` FROM roles WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("role get by name: %w", err)
	}
	return &role, nil
}

// List returns all roles ordered by name
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	var roles []Role
	err := r.db.SelectContext(ctx, &roles,
		`SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("role list: %w", err)
	}
	return roles, nil
}

// Update writes the mutable fields
func (r *Repository) Update(ctx context.Context, role *Role) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE roles
		SET name = $2, description = $3, permissions = $4, updated_at = NOW()
		WHERE id = $1`,
		role.ID, role.Name, role.Description, role.Permissions,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("role update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the role and its user assignments
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("role delete: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_roles WHERE role_id = $1`, id); err != nil {
		return fmt.Errorf("role delete assignments: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("role delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
