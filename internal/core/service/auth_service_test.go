package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

type stubAccountRepo struct {
	users   map[string]*domain.Account
	findErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{users: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Authorities = slices.Clone(a.Authorities)
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	if _, exists := r.users[a.Username]; exists {
		return domain.ErrAccountExists
	}
	a.ID = int64(len(r.users) + 1)
	r.users[a.Username] = cloneAccount(a)
	return nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.users[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func seedAccount(t *testing.T, repo *stubAccountRepo, username, password string, roles ...string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := repo.Create(context.Background(), &domain.Account{
		Username:     username,
		Name:         username,
		PasswordHash: string(hash),
		Authorities:  roles,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestAuthService_ResolveCredentials(t *testing.T) {
	repo := newStubAccountRepo()
	seedAccount(t, repo, "bunro", "pw", domain.RoleUser)
	svc := NewAuthService(repo, "", 0)

	account, err := svc.ResolveCredentials(context.Background(), "bunro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Username != "bunro" || !account.HasAuthority(domain.RoleUser) {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestAuthService_ResolveCredentials_NotFound(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), "", 0)

	if _, err := svc.ResolveCredentials(context.Background(), "ghost"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.ResolveCredentials(context.Background(), ""); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound for empty username, got %v", err)
	}
}

func TestAuthService_ResolveCredentials_StoreError(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findErr = errors.New("db down")
	svc := NewAuthService(repo, "", 0)

	_, err := svc.ResolveCredentials(context.Background(), "bunro")
	if err == nil || errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newStubAccountRepo()
	seedAccount(t, repo, "andrew", "s3cret", domain.RoleUser, domain.RoleAdmin)
	svc := NewAuthService(repo, "", 0)

	account, err := svc.Authenticate(context.Background(), "andrew", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.HasAuthority(domain.RoleAdmin) {
		t.Fatalf("expected admin authority, got %v", account.Authorities)
	}

	if _, err := svc.Authenticate(context.Background(), "andrew", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ghost", "s3cret"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_Authenticate_AcceptsMarkedHash(t *testing.T) {
	repo := newStubAccountRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	repo.users["legacy"] = &domain.Account{Username: "legacy", PasswordHash: "{bcrypt}" + string(hash), Authorities: []string{domain.RoleUser}}
	svc := NewAuthService(repo, "", 0)

	if _, err := svc.Authenticate(context.Background(), "legacy", "pw"); err != nil {
		t.Fatalf("expected marked hash to verify, got %v", err)
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), "secret", time.Hour)
	account := &domain.Account{Username: "andrew", Authorities: []string{domain.RoleUser, domain.RoleAdmin}}

	token, expiresAt, err := svc.IssueToken(account)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" || time.Until(expiresAt) <= 0 {
		t.Fatalf("unexpected token/expiry: %q %v", token, expiresAt)
	}

	principal, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.Username != "andrew" || !slices.Equal(principal.Authorities, account.Authorities) {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestAuthService_VerifyToken_Rejects(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), "secret", time.Hour)

	other := NewAuthService(newStubAccountRepo(), "other-secret", time.Hour)
	foreign, _, _ := other.IssueToken(&domain.Account{Username: "mallory"})
	if _, err := svc.VerifyToken(foreign); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected foreign signature to be rejected, got %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "andrew",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, _ := expired.SignedString([]byte("secret"))
	if _, err := svc.VerifyToken(signed); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	if _, err := svc.VerifyToken("not-a-token"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected garbage to be rejected, got %v", err)
	}
}

func TestAuthService_TokensDisabledWithoutSecret(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), "", time.Hour)

	if _, _, err := svc.IssueToken(&domain.Account{Username: "andrew"}); err != domain.ErrTokensDisabled {
		t.Fatalf("expected ErrTokensDisabled, got %v", err)
	}
	if _, err := svc.VerifyToken("anything"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
