package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/credit-case-service/internal/auth"
	"github.com/spec-kit/credit-case-service/internal/config"
	"github.com/spec-kit/credit-case-service/internal/domain"
	"github.com/spec-kit/credit-case-service/internal/repository"
)

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func seedAccount(t *testing.T, accounts *repository.MemoryAccountRepository, email, password string, role domain.Role, active bool) *domain.Account {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
	}
	if err := accounts.Create(context.Background(), account); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

func TestLoginSuccess(t *testing.T) {
	accounts := repository.NewMemoryAccountRepository()
	seeded := seedAccount(t, accounts, "jane.doe@example.com", "hunter2hunter", domain.RoleClient, true)
	svc := NewAuthService(testAuthConfig(), accounts)

	account, token, exp, err := svc.Login(context.Background(), "jane.doe@example.com", "hunter2hunter")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if account.ID != seeded.ID {
		t.Fatalf("expected account %s, got %s", seeded.ID, account.ID)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if exp.IsZero() {
		t.Fatalf("expected expiry")
	}

	subject, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if subject != seeded.ID {
		t.Fatalf("token subject %s, want %s", subject, seeded.ID)
	}
}

func TestLoginNormalizesEmailCase(t *testing.T) {
	accounts := repository.NewMemoryAccountRepository()
	seeded := seedAccount(t, accounts, "jane.doe@example.com", "hunter2hunter", domain.RoleClient, true)
	svc := NewAuthService(testAuthConfig(), accounts)

	account, _, _, err := svc.Login(context.Background(), " Jane.Doe@Example.com ", "hunter2hunter")
	if err != nil {
		t.Fatalf("login with mixed-case email: %v", err)
	}
	if account.ID != seeded.ID {
		t.Fatalf("expected account %s, got %s", seeded.ID, account.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	accounts := repository.NewMemoryAccountRepository()
	seedAccount(t, accounts, "jane.doe@example.com", "hunter2hunter", domain.RoleClient, true)
	svc := NewAuthService(testAuthConfig(), accounts)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "hunter2hunter"},
		{"wrong password", "jane.doe@example.com", "wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Login(context.Background(), tc.email, tc.password)
			assertDomainCode(t, err, "UNAUTHORIZED")
		})
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	accounts := repository.NewMemoryAccountRepository()
	seedAccount(t, accounts, "jane.doe@example.com", "hunter2hunter", domain.RoleClient, false)
	svc := NewAuthService(testAuthConfig(), accounts)

	_, _, _, err := svc.Login(context.Background(), "jane.doe@example.com", "hunter2hunter")
	assertDomainCode(t, err, "FORBIDDEN")
}

func TestCreateInitialAdminOnce(t *testing.T) {
	accounts := repository.NewMemoryAccountRepository()
	svc := NewAuthService(testAuthConfig(), accounts)

	admin, err := svc.CreateInitialAdmin(context.Background(), "")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if admin.Email != "admin@cras.com" {
		t.Fatalf("expected admin@cras.com, got %s", admin.Email)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
	if err := auth.ComparePassword(admin.PasswordHash, "admin123"); err != nil {
		t.Fatalf("expected default password when omitted: %v", err)
	}

	_, err = svc.CreateInitialAdmin(context.Background(), "another")
	assertDomainCode(t, err, "CONFLICT")
}

func TestCreateInitialAdminCustomPassword(t *testing.T) {
	accounts := repository.NewMemoryAccountRepository()
	svc := NewAuthService(testAuthConfig(), accounts)

	admin, err := svc.CreateInitialAdmin(context.Background(), "s3cure-pass")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, "s3cure-pass"); err != nil {
		t.Fatalf("expected provided password to be stored: %v", err)
	}
}

func TestMeUnknownAccount(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), repository.NewMemoryAccountRepository())
	_, err := svc.Me(context.Background(), "missing-id")
	assertDomainCode(t, err, "UNAUTHORIZED")
}
