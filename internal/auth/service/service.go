// Package service implements account registration and token lifecycle.
//
// Access tokens are short-lived HS256 JWTs. Refresh tokens are opaque
// random values handed to the client once; only their SHA-256 hash is
// stored, in Redis, with the refresh TTL. Refreshing rotates the token.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storefront_backend/internal/auth/password"
	"storefront_backend/internal/auth/repository"
	"storefront_backend/internal/auth/token"
	"storefront_backend/internal/auth/tokenstore"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
)

// ErrInvalidCredentials covers unknown emails and wrong passwords alike,
// so a login probe cannot tell the two apart.
var ErrInvalidCredentials = apperr.Unauthorized("invalid credentials")

// ErrInvalidRefreshToken is returned for unknown, expired or rotated
// refresh tokens.
var ErrInvalidRefreshToken = apperr.Unauthorized("invalid refresh token")

// RoleCustomer is assigned to every self-registered account.
const RoleCustomer = "customer"

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Service implements auth use cases.
type Service struct {
	repo   repository.Repository
	tokens tokenstore.Store
	cfg    config.AuthServiceConfig
	log    *logger.Logger
}

// NewService creates an auth service.
func NewService(repo repository.Repository, tokens tokenstore.Store, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, cfg: cfg, log: log}
}

// Register creates a customer account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, plainPassword string) (*repository.User, error) {
	email = normalizeEmail(email)

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         RoleCustomer,
	})
	if err != nil {
		s.log.AuthEvent("register", email, false, err.Error())
		return nil, err
	}

	s.log.AuthEvent("register", email, true, "")
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			s.log.AuthEvent("login", email, false, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.AuthEvent("login", email, true, "")
	return pair, nil
}

// Refresh rotates a refresh token and issues a fresh pair. The presented
// token is revoked whether or not a new pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	hash := token.Hash(refreshToken)

	userID, err := s.tokens.Resolve(ctx, hash)
	if err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, apperr.Unavailable("token store unavailable", err)
	}

	if err := s.tokens.Revoke(ctx, hash); err != nil {
		return nil, apperr.Unavailable("token store unavailable", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a single refresh token. Unknown tokens succeed, so a
// repeated logout is harmless.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	hash := token.Hash(refreshToken)
	if err := s.tokens.Revoke(ctx, hash); err != nil {
		return apperr.Unavailable("token store unavailable", err)
	}
	return nil
}

// LogoutAll revokes every refresh token for a user.
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RevokeAll(ctx, userID); err != nil {
		return apperr.Unavailable("token store unavailable", err)
	}
	return nil
}

func (s *Service) issueTokens(ctx context.Context, user *repository.User) (*TokenPair, error) {
	accessToken, err := s.signJWT(user.ID, []string{user.Role}, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to sign access token", err)
	}

	refreshToken, err := token.NewOpaque()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to generate refresh token", err)
	}

	hash := token.Hash(refreshToken)
	if err := s.tokens.Save(ctx, hash, user.ID, s.cfg.GetRefreshTokenTTL()); err != nil {
		return nil, apperr.Unavailable("token store unavailable", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.GetAccessTokenTTL().Seconds()),
	}, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  "access",
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
