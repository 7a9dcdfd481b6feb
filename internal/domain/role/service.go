package role

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/permission"
)

// Repo is the persistence surface the service depends on
type Repo interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service owns role management rules
type Service struct {
	repo Repo
}

// NewService creates a role service
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new role
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Role, error) {
	if err := checkPermissions(req.Permissions); err != nil {
		return nil, err
	}

	now := time.Now()
	role := &Role{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		return nil, err
	}

	log.Info().Str("role_id", role.ID.String()).Str("name", role.Name).Msg("Role created")
	return role, nil
}

// List returns every role
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

// Get returns a single role
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Role, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Permissions != nil {
		if err := checkPermissions(*req.Permissions); err != nil {
			return nil, err
		}
		role.Permissions = *req.Permissions
	}

	if err := s.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete removes a non-system role and its assignments
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRole
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("role_id", id.String()).Str("name", role.Name).Msg("Role deleted")
	return nil
}

func checkPermissions(names []string) error {
	for _, p := range names {
		if !permission.Known(p) {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, p)
		}
	}
	return nil
}
