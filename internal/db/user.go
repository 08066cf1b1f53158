package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account that can authenticate and author pages.
type User struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
}

// EnsureAdmin creates a bcrypt-hashed user for the given credentials if
// no account with that email exists yet. All-empty input is a no-op so
// deployments without bootstrap variables keep working.
func EnsureAdmin(name, email, password string) error {
	trimmedName := strings.TrimSpace(name)
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}
	if trimmedName == "" {
		trimmedName = "Admin"
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{Name: trimmedName, Email: trimmedEmail, Password: string(hashed)}).Error
	}

	return nil
}
