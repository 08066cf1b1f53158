package db

import (
	"time"

	"gorm.io/gorm"
)

// Page statuses. The column is free text in sqlite; the service layer
// rejects anything outside this set.
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
	PageStatusArchived  = "archived"
)

// Page is a content page. Pages form a soft hierarchy through ParentID;
// deleting a parent detaches its children instead of cascading.
type Page struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Slug            string `gorm:"uniqueIndex;not null"`
	Content         string `gorm:"type:text"`
	Excerpt         string `gorm:"type:text"`
	FeaturedImage   string
	MetaTitle       string
	MetaDescription string `gorm:"type:text"`
	MetaKeywords    string `gorm:"type:text"`
	Status          string `gorm:"default:draft"`
	PublishedAt     *time.Time
	AuthorID        *uint
	Author          *User `gorm:"constraint:OnDelete:SET NULL"`
	ParentID        *uint
	Parent          *Page  `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	Children        []Page `gorm:"foreignKey:ParentID"`
	Template        string `gorm:"default:default"`
	SortOrder       int    `gorm:"default:0"`
	IsHomepage      bool   `gorm:"default:false"`
}
