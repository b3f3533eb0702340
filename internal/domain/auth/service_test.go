package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sitesmith/sitesmith-api/internal/domain/auth"
	"github.com/sitesmith/sitesmith-api/internal/domain/user"
	"github.com/sitesmith/sitesmith-api/internal/pkg/jwt"
)

type memUserRepo struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func newTestService(repo user.Repository) *auth.Service {
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return auth.NewService(repo, jwtService, nil)
}

func TestRegister(t *testing.T) {
	repo := newMemUserRepo()
	service := newTestService(repo)

	resp, err := service.Register(context.Background(), &auth.RegisterRequest{
		Email:    "New@Example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.User.Email != "new@example.com" {
		t.Errorf("email must be normalized, got %q", resp.User.Email)
	}
	if resp.User.CreditBalance != 10 {
		t.Errorf("new account balance = %d, want the signup grant of 10", resp.User.CreditBalance)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("both tokens must be issued")
	}

	stored, err := repo.GetByEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if stored.PasswordHash == "hunter2hunter2" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	service := newTestService(repo)

	req := &auth.RegisterRequest{Email: "dup@example.com", Password: "hunter2hunter2"}
	if _, err := service.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := service.Register(context.Background(), &auth.RegisterRequest{
		Email:    "DUP@example.com",
		Password: "otherpassword",
	})
	if !errors.Is(err, auth.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newMemUserRepo()
	service := newTestService(repo)

	if _, err := service.Register(context.Background(), &auth.RegisterRequest{
		Email:    "login@example.com",
		Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := service.Login(context.Background(), &auth.LoginRequest{
		Email:    "login@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Tokens.AccessToken == "" {
		t.Fatal("access token must be issued")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	repo := newMemUserRepo()
	service := newTestService(repo)

	if _, err := service.Register(context.Background(), &auth.RegisterRequest{
		Email:    "login@example.com",
		Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, errWrong := service.Login(context.Background(), &auth.LoginRequest{
		Email:    "login@example.com",
		Password: "not-the-password",
	})
	_, errUnknown := service.Login(context.Background(), &auth.LoginRequest{
		Email:    "ghost@example.com",
		Password: "hunter2hunter2",
	})

	if !errors.Is(errWrong, auth.ErrInvalidCredentials) || !errors.Is(errUnknown, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong %v, unknown %v, both must be ErrInvalidCredentials", errWrong, errUnknown)
	}
}

func TestRefresh(t *testing.T) {
	repo := newMemUserRepo()
	service := newTestService(repo)

	registered, err := service.Register(context.Background(), &auth.RegisterRequest{
		Email:    "refresh@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := service.Refresh(context.Background(), registered.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.User.ID != registered.User.ID {
		t.Fatal("refresh must resolve the same account")
	}
	if refreshed.Tokens.AccessToken == "" || refreshed.Tokens.RefreshToken == "" {
		t.Fatal("refresh must issue a full token pair")
	}

	if _, err := service.Refresh(context.Background(), "not-a-token"); !errors.Is(err, auth.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, err := service.Refresh(context.Background(), ""); !errors.Is(err, auth.ErrRefreshTokenRequired) {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newMemUserRepo()
	service := newTestService(repo)

	registered, err := service.Register(context.Background(), &auth.RegisterRequest{
		Email:    "mixup@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.Refresh(context.Background(), registered.Tokens.AccessToken); !errors.Is(err, auth.ErrInvalidRefreshToken) {
		t.Fatalf("access token must not pass as refresh token, got %v", err)
	}
}
