package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/permission"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/password"
)

// Repo is the persistence surface the service depends on
type Repo interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]User, int, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	SetRoles(ctx context.Context, id uuid.UUID, roles []string) error
	SetPermissions(ctx context.Context, id uuid.UUID, permissions []string) error
	EffectivePermissions(ctx context.Context, id uuid.UUID) ([]string, error)
}

// Service owns user management rules and implements the permission
// check the authorization middleware runs on every gated route
type Service struct {
	repo  Repo
	cache *PermissionCache
}

// NewService creates a user service. cache may be nil.
func NewService(repo Repo, cache *PermissionCache) *Service {
	return &Service{repo: repo, cache: cache}
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// HasPermission reports whether the user's effective permission set
// (role permissions plus direct grants) contains the named permission
func (s *Service) HasPermission(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	perms, ok := s.cache.Get(ctx, userID)
	if !ok {
		var err error
		perms, err = s.repo.EffectivePermissions(ctx, userID)
		if err != nil {
			return false, err
		}
		s.cache.Set(ctx, userID, perms)
	}

	for _, p := range perms {
		if p == name {
			return true, nil
		}
	}
	return false, nil
}

// Create registers a new staff account
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*User, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Roles:        req.Roles,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Str("email", u.Email).Msg("User created")
	return u, nil
}

// List returns a user page plus the total count
func (s *Service) List(ctx context.Context, filter ListFilter) ([]User, int, error) {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return s.repo.List(ctx, filter)
}

// Get returns a single user
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies an admin-side profile update
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateMe applies a self-service profile update
func (s *Service) UpdateMe(ctx context.Context, id uuid.UUID, req *UpdateMeRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Delete deactivates the account. The row stays for audit; the user
// can no longer authenticate.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)

	log.Info().Str("user_id", id.String()).Msg("User deactivated")
	return nil
}

// AssignRoles replaces the user's role set
func (s *Service) AssignRoles(ctx context.Context, id uuid.UUID, roles []string) (*User, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetRoles(ctx, id, roles); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)

	log.Info().Str("user_id", id.String()).Strs("roles", roles).Msg("Roles assigned")
	return s.repo.GetByID(ctx, id)
}

// GrantPermissions replaces the user's direct permission grants.
// Every name must be a catalogued permission.
func (s *Service) GrantPermissions(ctx context.Context, id uuid.UUID, permissions []string) (*User, error) {
	for _, p := range permissions {
		if !permission.Known(p) {
			return nil, ErrUnknownPermission
		}
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetPermissions(ctx, id, permissions); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)

	log.Info().Str("user_id", id.String()).Strs("permissions", permissions).Msg("Permissions granted")
	return s.repo.GetByID(ctx, id)
}

// EffectivePermissions returns the resolved permission set
func (s *Service) EffectivePermissions(ctx context.Context, id uuid.UUID) ([]string, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.EffectivePermissions(ctx, id)
}
