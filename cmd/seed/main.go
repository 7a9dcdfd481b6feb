package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Gayasri72/Hotline-Backend/internal/config"
	"github.com/Gayasri72/Hotline-Backend/internal/domain/permission"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/database"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/logger"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/password"
)

// Seeds the system roles and the initial admin account. Safe to run
// repeatedly: existing rows are left untouched.
func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	ctx := context.Background()

	seedRoles(ctx, db)
	seedAdmin(ctx, db)

	log.Info().Msg("Seeding complete")
}

func seedRoles(ctx context.Context, db *sqlx.DB) {
	allPermissions := make([]string, 0)
	for _, e := range permission.Catalog() {
		allPermissions = append(allPermissions, e.Name)
	}

	roles := []struct {
		name        string
		description string
		permissions []string
	}{
		{
			name:        "admin",
			description: "Full access to every operation",
			permissions: allPermissions,
		},
		{
			name:        "manager",
			description: "Runs the store: promotions, returns, staff visibility",
			permissions: []string{
				permission.ViewUsers,
				permission.ViewRoles,
				permission.ViewPermissions,
				permission.ViewPromotions,
				permission.ManagePromotions,
				permission.CreateReturn,
				permission.ViewReturns,
			},
		},
		{
			name:        "cashier",
			description: "Register staff: sees promotions, registers returns",
			permissions: []string{
				permission.UpdateOwnProfile,
				permission.ViewPromotions,
				permission.CreateReturn,
			},
		},
	}

	for _, r := range roles {
		res, err := db.ExecContext(ctx, `
			INSERT INTO roles (id, name, description, permissions, is_system, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING`,
			uuid.New(), r.name, r.description, pq.StringArray(r.permissions),
		)
		if err != nil {
			log.Fatal().Err(err).Str("role", r.name).Msg("Failed to seed role")
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.Info().Str("role", r.name).Msg("Role seeded")
		}
	}
}

func seedAdmin(ctx context.Context, db *sqlx.DB) {
	email := envOr("ADMIN_EMAIL", "admin@hotline.local")
	pass := envOr("ADMIN_PASSWORD", "change-me-immediately")

	var exists bool
	if err := db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email); err != nil {
		log.Fatal().Err(err).Msg("Failed to check for admin account")
	}
	if exists {
		log.Info().Str("email", email).Msg("Admin account already present")
		return
	}

	hash, err := password.Hash(pass)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash admin password")
	}

	adminID := uuid.New()
	now := time.Now()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, $5, $5)`,
		adminID, email, hash, "Administrator", now,
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin account")
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = 'admin'`,
		adminID,
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to assign admin role")
	}

	if err := tx.Commit(); err != nil {
		log.Fatal().Err(err).Msg("Failed to commit admin account")
	}

	log.Info().Str("email", email).Msg("Admin account seeded")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
