package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

// dummyHash is compared against when the username is unknown so that a miss
// costs the same as a wrong password.
const dummyHash = "$2a$10$e8xFDPx1uyg16xvNTDPnb.xLVFA8Wiu7tWsge4RlziNV/Xkp19rlS"

type tokenClaims struct {
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// AuthService resolves accounts for authentication and issues bearer tokens.
type AuthService struct {
	repo      ports.AccountRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService returns an AuthService. An empty jwtSecret disables tokens;
// Basic authentication keeps working.
func NewAuthService(repo ports.AccountRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) ResolveCredentials(ctx context.Context, username string) (*domain.Account, error) {
	if username == "" {
		return nil, domain.ErrAccountNotFound
	}
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("resolve credentials: %w", err)
	}
	return account, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both return domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.ResolveCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.BcryptHash()), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

func (s *AuthService) IssueToken(account *domain.Account) (string, time.Time, error) {
	if s.jwtSecret == "" {
		return "", time.Time{}, domain.ErrTokensDisabled
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := tokenClaims{
		Authorities: account.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *AuthService) VerifyToken(token string) (*ports.Principal, error) {
	if s.jwtSecret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	return &ports.Principal{Username: claims.Subject, Authorities: claims.Authorities}, nil
}
