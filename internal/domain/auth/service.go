package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/user"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/jwt"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/password"
)

// UserRepo is the slice of user persistence auth needs
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service handles authentication. Refresh tokens are JWTs whose IDs
// are tracked in redis; a refresh works only while its ID is stored,
// so logout and rotation revoke immediately.
type Service struct {
	userRepo   UserRepo
	jwtService *jwt.Service
	rdb        *redis.Client // nil disables refresh tokens
}

// NewService creates an auth service. rdb may be nil.
func NewService(userRepo UserRepo, jwtService *jwt.Service, rdb *redis.Client) *Service {
	return &Service{userRepo: userRepo, jwtService: jwtService, rdb: rdb}
}

// Login authenticates by email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	if err := s.userRepo.UpdateLastLogin(ctx, u.ID, time.Now()); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("Failed to stamp login")
	}

	log.Info().Str("user_id", u.ID.String()).Msg("User logged in")
	return s.issueTokens(ctx, u)
}

// Refresh rotates a refresh token and issues a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if !s.tokenStored(ctx, claims.ID) {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	// Rotation: the presented token is dead from here on
	s.revokeToken(ctx, claims.ID)
	return s.issueTokens(ctx, u)
}

// Logout revokes the refresh token. A missing token is not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	s.revokeToken(ctx, claims.ID)
	return nil
}

// Me returns the authenticated user
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) issueTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, tokenID, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.storeToken(ctx, tokenID, u.ID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: user.ToResponse(u),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.AccessTTL().Seconds()),
		},
	}, nil
}

// Redis helpers (nil redis means refresh tokens are disabled)
func (s *Service) storeToken(ctx context.Context, tokenID string, userID uuid.UUID) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Set(ctx, "refresh:"+tokenID, userID.String(), s.jwtService.RefreshTTL()).Err()
}

func (s *Service) tokenStored(ctx context.Context, tokenID string) bool {
	if s.rdb == nil {
		return false
	}
	_, err := s.rdb.Get(ctx, "refresh:"+tokenID).Result()
	return err == nil
}

func (s *Service) revokeToken(ctx context.Context, tokenID string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, "refresh:"+tokenID)
}
