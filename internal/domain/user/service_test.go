package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Gayasri72/Hotline-Backend/internal/pkg/password"
)

type fakeRepo struct {
	store map[uuid.UUID]*User
	roles map[string][]string // role name -> permissions
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		store: make(map[uuid.UUID]*User),
		roles: map[string][]string{
			"cashier": {"VIEW_PROMOTIONS", "CREATE_RETURN"},
			"manager": {"VIEW_PROMOTIONS", "MANAGE_PROMOTIONS", "VIEW_RETURNS"},
		},
	}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	for _, existing := range f.store {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	for _, r := range u.Roles {
		if _, ok := f.roles[r]; !ok {
			return ErrUnknownRole
		}
	}
	cp := *u
	f.store[u.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]User, int, error) {
	out := make([]User, 0, len(f.store))
	for _, u := range f.store {
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	if _, ok := f.store[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	f.store[u.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.store[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	u, ok := f.store[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = false
	return nil
}

func (f *fakeRepo) SetRoles(_ context.Context, id uuid.UUID, roles []string) error {
	u, ok := f.store[id]
	if !ok {
		return ErrNotFound
	}
	for _, r := range roles {
		if _, known := f.roles[r]; !known {
			return ErrUnknownRole
		}
	}
	u.Roles = roles
	return nil
}

func (f *fakeRepo) SetPermissions(_ context.Context, id uuid.UUID, permissions []string) error {
	u, ok := f.store[id]
	if !ok {
		return ErrNotFound
	}
	u.DirectPermissions = permissions
	return nil
}

func (f *fakeRepo) EffectivePermissions(_ context.Context, id uuid.UUID) ([]string, error) {
	u, ok := f.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range u.Roles {
		for _, p := range f.roles[r] {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	for _, p := range u.DirectPermissions {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func seedUser(t *testing.T, svc *Service, roles []string) *User {
	t.Helper()
	u, err := svc.Create(context.Background(), &CreateRequest{
		Email:    uuid.NewString() + "@store.test",
		Password: "correct-horse-battery",
		FullName: "Test Cashier",
		Roles:    roles,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestServiceCreateHashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	u := seedUser(t, svc, []string{"cashier"})

	stored := repo.store[u.ID]
	if stored.PasswordHash == "correct-horse-battery" {
		t.Fatal("password must never be stored in plain text")
	}
	if !password.Verify("correct-horse-battery", stored.PasswordHash) {
		t.Fatal("stored hash must verify against the original password")
	}
	if !stored.IsActive {
		t.Fatal("new accounts must start active")
	}
}

func TestServiceCreateRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	req := &CreateRequest{
		Email:    "taken@store.test",
		Password: "correct-horse-battery",
		FullName: "First",
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Create(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestServiceHasPermission(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	cashier := seedUser(t, svc, []string{"cashier"})

	ok, err := svc.HasPermission(ctx, cashier.ID, "VIEW_PROMOTIONS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("cashier role carries VIEW_PROMOTIONS")
	}

	ok, err = svc.HasPermission(ctx, cashier.ID, "MANAGE_PROMOTIONS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("cashier role must not carry MANAGE_PROMOTIONS")
	}
}

func TestServiceDirectGrantsExtendRoles(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	cashier := seedUser(t, svc, []string{"cashier"})

	if _, err := svc.GrantPermissions(ctx, cashier.ID, []string{"MANAGE_PROMOTIONS"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := svc.HasPermission(ctx, cashier.ID, "MANAGE_PROMOTIONS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("direct grant must extend the effective set")
	}
}

func TestServiceGrantRejectsUnknownPermission(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	u := seedUser(t, svc, nil)

	_, err := svc.GrantPermissions(ctx, u.ID, []string{"LAUNCH_ROCKETS"})
	if !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
}

func TestServiceAssignRoles(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	u := seedUser(t, svc, []string{"cashier"})

	updated, err := svc.AssignRoles(ctx, u.ID, []string{"manager"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Roles) != 1 || updated.Roles[0] != "manager" {
		t.Fatalf("role set not replaced: %v", updated.Roles)
	}

	if _, err := svc.AssignRoles(ctx, u.ID, []string{"wizard"}); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestServiceDeleteDeactivates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	u := seedUser(t, svc, nil)

	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("deactivated user must stay readable: %v", err)
	}
	if got.IsActive {
		t.Fatal("user must be inactive after delete")
	}
}

func TestServiceUpdateMe(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	u := seedUser(t, svc, nil)
	oldHash := repo.store[u.ID].PasswordHash

	name := "Renamed Clerk"
	pass := "a-brand-new-secret"
	if _, err := svc.UpdateMe(ctx, u.ID, &UpdateMeRequest{FullName: &name, Password: &pass}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.store[u.ID]
	if stored.FullName != name {
		t.Fatalf("name not applied: %s", stored.FullName)
	}
	if stored.PasswordHash == oldHash {
		t.Fatal("password hash must change")
	}
	if !password.Verify(pass, stored.PasswordHash) {
		t.Fatal("new hash must verify against the new password")
	}
}
