package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pagecms/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers both unknown emails and wrong
	// passwords so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken covers missing, unknown, revoked and expired
	// bearer tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AuthService issues and resolves opaque bearer tokens.
type AuthService struct {
	db       *gorm.DB
	tokenTTL time.Duration
}

// NewAuthService returns an AuthService issuing tokens valid for ttl.
func NewAuthService(gdb *gorm.DB, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	return &AuthService{db: gdb, tokenTTL: ttl}
}

// Login checks the credentials and issues a fresh token. Existing
// tokens for the user stay valid; each client revokes only its own.
func (s *AuthService) Login(email, password string) (*db.User, *db.AuthToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user db.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token := db.AuthToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}
	if err := s.db.Create(&token).Error; err != nil {
		return nil, nil, err
	}

	return &user, &token, nil
}

// UserFromToken resolves a bearer token to its user.
func (s *AuthService) UserFromToken(token string) (*db.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	var row db.AuthToken
	if err := s.db.Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if time.Now().After(row.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user db.User
	if err := s.db.First(&user, row.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &user, nil
}

// Logout revokes exactly the presented token.
func (s *AuthService) Logout(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	return s.db.Where("token = ?", token).Delete(&db.AuthToken{}).Error
}
