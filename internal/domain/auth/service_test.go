package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/user"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/jwt"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/password"
)

type fakeUserRepo struct {
	users      map[uuid.UUID]*user.User
	lastLogins map[uuid.UUID]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[uuid.UUID]*user.User),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogins[id] = at
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *user.User) {
	t.Helper()
	repo := newFakeUserRepo()

	hash, err := password.Hash("open-sesame-123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &user.User{
		ID:           uuid.New(),
		Email:        "clerk@store.test",
		PasswordHash: hash,
		FullName:     "Clerk",
		IsActive:     true,
	}
	repo.users[u.ID] = u

	jwtService := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(repo, jwtService, nil), repo, u
}

func TestLogin(t *testing.T) {
	svc, repo, u := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &LoginRequest{Email: u.Email, Password: "open-sesame-123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}
	if resp.Tokens.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expiry %d", resp.Tokens.ExpiresIn)
	}
	if resp.User.ID != u.ID {
		t.Fatal("response must carry the authenticated user")
	}
	if _, ok := repo.lastLogins[u.ID]; !ok {
		t.Fatal("login must be stamped")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, u := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", u.Email, "not-the-password"},
		{"unknown email", "ghost@store.test", "open-sesame-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, repo, u := newTestService(t)

	repo.users[u.ID].IsActive = false

	_, err := svc.Login(context.Background(), &LoginRequest{Email: u.Email, Password: "open-sesame-123"})
	if !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestRefreshRequiresToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "")
	if !errors.Is(err, ErrRefreshTokenRequired) {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "not.a.jwt")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefreshRequiresStoredToken(t *testing.T) {
	// Without redis no refresh token is ever stored, so even a
	// well-formed token from a real login must be rejected
	svc, _, u := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &LoginRequest{Email: u.Email, Password: "open-sesame-123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Refresh(ctx, resp.Tokens.RefreshToken)
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestLogoutToleratesMissingToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMe(t *testing.T) {
	svc, _, u := newTestService(t)
	ctx := context.Background()

	got, err := svc.Me(ctx, u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != u.Email {
		t.Fatalf("unexpected user %s", got.Email)
	}

	if _, err := svc.Me(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
