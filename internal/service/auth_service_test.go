package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pagecms/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.AuthToken{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func seedUser(t *testing.T, gdb *gorm.DB, email, password string) *db.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := db.User{Name: "Tester", Email: email, Password: string(hashed)}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	gdb, cleanup := setupAuthServiceTestDB(t)
	defer cleanup()

	seedUser(t, gdb, "admin@example.com", "secret")

	svc := NewAuthService(gdb, time.Hour)
	user, token, err := svc.Login("Admin@Example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token.Token == "" {
		t.Fatal("expected non-empty token")
	}

	resolved, err := svc.UserFromToken(token.Token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, resolved.ID)
	}
}

func TestAuthServiceLoginFailuresAreIndistinguishable(t *testing.T) {
	gdb, cleanup := setupAuthServiceTestDB(t)
	defer cleanup()

	seedUser(t, gdb, "admin@example.com", "secret")

	svc := NewAuthService(gdb, time.Hour)

	_, _, wrongPassword := svc.Login("admin@example.com", "nope")
	_, _, unknownEmail := svc.Login("nobody@example.com", "nope")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthServiceLogoutRevokesOnlyPresentedToken(t *testing.T) {
	gdb, cleanup := setupAuthServiceTestDB(t)
	defer cleanup()

	seedUser(t, gdb, "admin@example.com", "secret")

	svc := NewAuthService(gdb, time.Hour)
	_, first, err := svc.Login("admin@example.com", "secret")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	_, second, err := svc.Login("admin@example.com", "secret")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if err := svc.Logout(first.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.UserFromToken(first.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected revoked token rejected, got %v", err)
	}
	if _, err := svc.UserFromToken(second.Token); err != nil {
		t.Fatalf("expected second token still valid, got %v", err)
	}
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	gdb, cleanup := setupAuthServiceTestDB(t)
	defer cleanup()

	user := seedUser(t, gdb, "admin@example.com", "secret")

	expired := db.AuthToken{
		Token:     "expired-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := gdb.Create(&expired).Error; err != nil {
		t.Fatalf("create expired token: %v", err)
	}

	svc := NewAuthService(gdb, time.Hour)
	if _, err := svc.UserFromToken("expired-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}

func TestAuthServiceRejectsUnknownToken(t *testing.T) {
	gdb, cleanup := setupAuthServiceTestDB(t)
	defer cleanup()

	svc := NewAuthService(gdb, time.Hour)
	if _, err := svc.UserFromToken("never-issued"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected unknown token rejected, got %v", err)
	}
	if _, err := svc.UserFromToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected empty token rejected, got %v", err)
	}
}
