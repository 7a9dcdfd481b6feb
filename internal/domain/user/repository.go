package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ListFilter narrows and pages the user listing
type ListFilter struct {
	IsActive *bool
	Role     *string
	Page     int
	Limit    int
}

// Repository persists users and their role/permission assignments
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a user repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, password_hash, full_name, is_active, last_login_at, created_at, updated_at`

// Create inserts the user and its role assignments in one transaction
func (r *Repository) Create(ctx context.Context, u *User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user create: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("user create: %w", err)
	}

	if err := replaceRolesTx(ctx, tx, u.ID, u.Roles); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns the user with roles and direct grants loaded
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	if err := r.loadAssignments(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user with roles and direct grants loaded
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user get by email: %w", err)
	}
	if err := r.loadAssignments(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns a user page plus the total count
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]User, int, error) {
	where := ""
	args := []interface{}{}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = fmt.Sprintf(" WHERE is_active = $%d", len(args))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clause := fmt.Sprintf(`id IN (
			SELECT ur.user_id FROM user_roles ur
			JOIN roles ro ON ro.id = ur.role_id WHERE ro.name = $%d)`, len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("user count: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("user list: %w", err)
	}
	for i := range users {
		if err := r.loadAssignments(ctx, &users[i]); err != nil {
			return nil, 0, err
		}
	}
	return users, total, nil
}

// Update writes the mutable profile fields
func (r *Repository) Update(ctx context.Context, u *User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, full_name = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1`,
		u.ID, u.Email, u.FullName, u.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("user update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored hash
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("user update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastLogin stamps a successful login
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

// Deactivate soft-deletes the account
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user deactivate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRoles replaces the user's role assignments. Role names must exist.
func (r *Repository) SetRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user set roles: begin: %w", err)
	}
	defer tx.Rollback()

	if err := replaceRolesTx(ctx, tx, id, roles); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("user set roles: %w", err)
	}
	return tx.Commit()
}

// SetPermissions replaces the user's direct permission grants
func (r *Repository) SetPermissions(ctx context.Context, id uuid.UUID, permissions []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user set permissions: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_permissions WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("user set permissions: %w", err)
	}
	for _, p := range permissions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)`,
			id, p); err != nil {
			return fmt.Errorf("user set permissions: %w", err)
		}
	}
	return tx.Commit()
}

// EffectivePermissions returns the union of role permissions and
// direct grants for the user
func (r *Repository) EffectivePermissions(ctx context.Context, id uuid.UUID) ([]string, error) {
	var perms pq.StringArray
	err := r.db.GetContext(ctx, &perms, `
		SELECT ARRAY(
			SELECT DISTINCT p FROM (
				SELECT UNNEST(ro.permissions) AS p
				FROM user_roles ur
				JOIN roles ro ON ro.id = ur.role_id
				WHERE ur.user_id = $1
				UNION
				SELECT up.permission FROM user_permissions up WHERE up.user_id = $1
			) perms ORDER BY p
		)`, id)
	if err != nil {
		return nil, fmt.Errorf("user effective permissions: %w", err)
	}
	return []string(perms), nil
}

func (r *Repository) loadAssignments(ctx context.Context, u *User) error {
	var roles pq.StringArray
	err := r.db.GetContext(ctx, &roles, `
		SELECT ARRAY(
			SELECT ro.name FROM user_roles ur
			JOIN roles ro ON ro.id = ur.role_id
			WHERE ur.user_id = $1 ORDER BY ro.name
		)`, u.ID)
	if err != nil {
		return fmt.Errorf("user load roles: %w", err)
	}
	u.Roles = []string(roles)

	var grants pq.StringArray
	err = r.db.GetContext(ctx, &grants, `
		SELECT ARRAY(
			SELECT permission FROM user_permissions
			WHERE user_id = $1 ORDER BY permission
		)`, u.ID)
	if err != nil {
		return fmt.Errorf("user load grants: %w", err)
	}
	u.DirectPermissions = []string(grants)
	return nil
}

func replaceRolesTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, roles []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("user replace roles: %w", err)
	}
	for _, name := range roles {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2`,
			userID, name)
		if err != nil {
			return fmt.Errorf("user replace roles: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownRole, name)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
