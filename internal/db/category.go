package db

import "gorm.io/gorm"

// Category groups content into a soft hierarchy of its own. Categories
// and pages are independent aggregates; nothing links the two tables.
type Category struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	ParentID    *uint
	Parent      *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	Children    []Category `gorm:"foreignKey:ParentID"`
	SortOrder   int        `gorm:"default:0"`
}
