package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/credit-case-service/internal/auth"
	"github.com/spec-kit/credit-case-service/internal/config"
	"github.com/spec-kit/credit-case-service/internal/domain"
	"github.com/spec-kit/credit-case-service/internal/repository"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

// Bootstrap admin identity. The default password only applies when the
// bootstrap request omits one.
const (
	initialAdminEmail    = "admin@cras.com"
	defaultAdminPassword = "admin123"
)

// AuthService coordinates login and the one-time admin bootstrap.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates clients and admins alike. The email is
// normalized the same way intake stores it, so casing in the login
// form never locks an applicant out.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("incorrect email or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("incorrect email or password")
	}
	if !account.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("account is inactive")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// Me returns the account for the given id.
func (s *AuthService) Me(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("account not found")
		}
		return nil, err
	}
	return account, nil
}

// CreateInitialAdmin bootstraps the first admin account. It may only
// succeed once: any existing admin makes the call a conflict.
func (s *AuthService) CreateInitialAdmin(ctx context.Context, password string) (*domain.Account, error) {
	exists, err := s.accounts.AdminExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("admin already exists", nil)
	}

	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        initialAdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
