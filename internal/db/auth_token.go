package db

import (
	"time"

	"gorm.io/gorm"
)

// AuthToken is an opaque bearer credential. A user may hold several at
// once; logout deletes exactly the presented row.
type AuthToken struct {
	gorm.Model
	Token     string `gorm:"uniqueIndex;not null"`
	UserID    uint   `gorm:"not null;index"`
	User      User
	ExpiresAt time.Time `gorm:"not null"`
}
