package service

import (
	"errors"
	"strings"

	"github.com/pagecms/internal/db"
	"gorm.io/gorm"
)

// ErrCategoryNotFound signals an unknown category id.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryInput carries the fields accepted when creating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ParentID    *uint
	SortOrder   int
}

// CategoryUpdate carries a partial update, with the same pointer
// semantics as PageUpdate.
type CategoryUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	ParentID    *uint
	ClearParent bool
	SortOrder   *int
}

// CategoryService implements category CRUD.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService returns a new CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns categories newest-created-first with the total count.
func (s *CategoryService) List(page, perPage int) ([]db.Category, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}

	var total int64
	if err := s.db.Model(&db.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []db.Category
	if err := s.db.
		Order("created_at desc").
		Order("id desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&categories).Error; err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

// Get fetches a single category.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create persists a new category with server defaults merged in.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	ve := newValidationError()

	if strings.TrimSpace(input.Name) == "" {
		ve.add("name", "name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		ve.add("slug", "slug is required")
	} else if taken, err := s.slugTaken(slug, 0); err != nil {
		return nil, err
	} else if taken {
		ve.add("slug", "slug is already in use")
	}

	if input.ParentID != nil {
		if exists, err := s.categoryExists(*input.ParentID); err != nil {
			return nil, err
		} else if !exists {
			ve.add("parent_id", "parent category does not exist")
		}
	}

	if input.SortOrder < 0 {
		ve.add("sort_order", "sort_order must not be negative")
	}

	if ve.hasErrors() {
		return nil, ve
	}

	category := db.Category{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		ParentID:    input.ParentID,
		SortOrder:   input.SortOrder,
	}

	if err := s.db.Create(&category).Error; err != nil {
		if isUniqueConstraintErr(err, "slug") {
			ve.add("slug", "slug is already in use")
			return nil, ve
		}
		return nil, err
	}

	return &category, nil
}

// Update applies only the supplied fields.
func (s *CategoryService) Update(id uint, update CategoryUpdate) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	ve := newValidationError()

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			ve.add("name", "name is required")
		} else {
			category.Name = *update.Name
		}
	}

	if update.Slug != nil {
		slug := strings.TrimSpace(*update.Slug)
		if slug == "" {
			ve.add("slug", "slug is required")
		} else if taken, err := s.slugTaken(slug, category.ID); err != nil {
			return nil, err
		} else if taken {
			ve.add("slug", "slug is already in use")
		} else {
			category.Slug = slug
		}
	}

	if update.ClearParent {
		category.ParentID = nil
	} else if update.ParentID != nil {
		switch {
		case *update.ParentID == category.ID:
			ve.add("parent_id", "category cannot be its own parent")
		default:
			if exists, err := s.categoryExists(*update.ParentID); err != nil {
				return nil, err
			} else if !exists {
				ve.add("parent_id", "parent category does not exist")
			} else {
				category.ParentID = update.ParentID
			}
		}
	}

	if update.SortOrder != nil {
		if *update.SortOrder < 0 {
			ve.add("sort_order", "sort_order must not be negative")
		} else {
			category.SortOrder = *update.SortOrder
		}
	}

	if ve.hasErrors() {
		return nil, ve
	}

	if update.Description != nil {
		category.Description = *update.Description
	}

	if err := s.db.Save(&category).Error; err != nil {
		if isUniqueConstraintErr(err, "slug") {
			ve.add("slug", "slug is already in use")
			return nil, ve
		}
		return nil, err
	}

	return &category, nil
}

// Delete hard-removes a category, detaching its children first.
func (s *CategoryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		if err := tx.Model(&db.Category{}).
			Where("parent_id = ?", category.ID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&category).Error
	})
}

// Children returns the direct children of a category in sort order.
func (s *CategoryService) Children(parentID uint) ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.
		Where("parent_id = ?", parentID).
		Order("sort_order asc").
		Order("id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) slugTaken(slug string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&db.Category{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *CategoryService) categoryExists(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
