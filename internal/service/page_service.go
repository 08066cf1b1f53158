package service

import (
	"errors"
	"strings"
	"time"

	"github.com/pagecms/internal/db"
	"gorm.io/gorm"
)

// ErrPageNotFound signals an unknown page id.
var ErrPageNotFound = errors.New("page not found")

var pageStatuses = map[string]bool{
	db.PageStatusDraft:     true,
	db.PageStatusPublished: true,
	db.PageStatusArchived:  true,
}

// DefaultPageSize is the page size for list endpoints.
const DefaultPageSize = 20

const maxPageSize = 100

// PageInput carries the fields accepted when creating a page. AuthorID
// is derived from the authenticated caller, never from the payload.
type PageInput struct {
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	FeaturedImage   string
	MetaTitle       string
	MetaDescription string
	MetaKeywords    string
	Status          string
	ParentID        *uint
	Template        string
	SortOrder       int
	IsHomepage      bool
	AuthorID        *uint
}

// PageUpdate carries a partial update. Nil pointers mean "field not
// supplied"; ClearParent distinguishes an explicit null parent_id from
// an absent one.
type PageUpdate struct {
	Title           *string
	Slug            *string
	Content         *string
	Excerpt         *string
	FeaturedImage   *string
	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *string
	Status          *string
	ParentID        *uint
	ClearParent     bool
	Template        *string
	SortOrder       *int
	IsHomepage      *bool
}

// PageService implements page CRUD on top of the relational store.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// List returns pages newest-created-first together with the total row
// count for pagination metadata. The author relation is loaded.
func (s *PageService) List(page, perPage int) ([]db.Page, int64, error) {
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
	if err := s.db.Model(&db.Page{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pages []db.Page
	if err := s.db.
		Preload("Author").
		Order("created_at desc").
		Order("id desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&pages).Error; err != nil {
		return nil, 0, err
	}

	return pages, total, nil
}

// Get fetches a single page with its author loaded.
func (s *PageService) Get(id uint) (*db.Page, error) {
	var page db.Page
	if err := s.db.Preload("Author").First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Create persists a new page after merging server defaults. A published
// status stamps published_at; an empty excerpt is derived from content.
func (s *PageService) Create(input PageInput) (*db.Page, error) {
	ve := newValidationError()

	if strings.TrimSpace(input.Title) == "" {
		ve.add("title", "title is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		ve.add("slug", "slug is required")
	} else if taken, err := s.slugTaken(slug, 0); err != nil {
		return nil, err
	} else if taken {
		ve.add("slug", "slug is already in use")
	}

	status := input.Status
	if status == "" {
		status = db.PageStatusDraft
	}
	if !pageStatuses[status] {
		ve.add("status", "status must be one of draft, published, archived")
	}

	if input.ParentID != nil {
		if exists, err := s.pageExists(*input.ParentID); err != nil {
			return nil, err
		} else if !exists {
			ve.add("parent_id", "parent page does not exist")
		}
	}

	if input.SortOrder < 0 {
		ve.add("sort_order", "sort_order must not be negative")
	}

	if ve.hasErrors() {
		return nil, ve
	}

	template := strings.TrimSpace(input.Template)
	if template == "" {
		template = "default"
	}

	excerpt := input.Excerpt
	if excerpt == "" && input.Content != "" {
		excerpt = deriveExcerpt(input.Content)
	}

	page := db.Page{
		Title:           input.Title,
		Slug:            slug,
		Content:         input.Content,
		Excerpt:         excerpt,
		FeaturedImage:   input.FeaturedImage,
		MetaTitle:       input.MetaTitle,
		MetaDescription: input.MetaDescription,
		MetaKeywords:    input.MetaKeywords,
		Status:          status,
		ParentID:        input.ParentID,
		Template:        template,
		SortOrder:       input.SortOrder,
		IsHomepage:      input.IsHomepage,
		AuthorID:        input.AuthorID,
	}

	if status == db.PageStatusPublished {
		now := time.Now()
		page.PublishedAt = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&page).Error; err != nil {
			return err
		}
		if page.IsHomepage {
			return clearOtherHomepages(tx, page.ID)
		}
		return nil
	})
	if err != nil {
		if isUniqueConstraintErr(err, "slug") {
			ve.add("slug", "slug is already in use")
			return nil, ve
		}
		return nil, err
	}

	return s.Get(page.ID)
}

// Update applies only the supplied fields after re-validating slug
// uniqueness (excluding the page itself) and parent existence.
func (s *PageService) Update(id uint, update PageUpdate) (*db.Page, error) {
	var page db.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	ve := newValidationError()

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			ve.add("title", "title is required")
		} else {
			page.Title = *update.Title
		}
	}

	if update.Slug != nil {
		slug := strings.TrimSpace(*update.Slug)
		if slug == "" {
			ve.add("slug", "slug is required")
		} else if taken, err := s.slugTaken(slug, page.ID); err != nil {
			return nil, err
		} else if taken {
			ve.add("slug", "slug is already in use")
		} else {
			page.Slug = slug
		}
	}

	if update.Status != nil {
		if !pageStatuses[*update.Status] {
			ve.add("status", "status must be one of draft, published, archived")
		} else {
			if *update.Status == db.PageStatusPublished && page.Status != db.PageStatusPublished && page.PublishedAt == nil {
				now := time.Now()
				page.PublishedAt = &now
			}
			page.Status = *update.Status
		}
	}

	if update.ClearParent {
		page.ParentID = nil
	} else if update.ParentID != nil {
		switch {
		case *update.ParentID == page.ID:
			ve.add("parent_id", "page cannot be its own parent")
		default:
			if exists, err := s.pageExists(*update.ParentID); err != nil {
				return nil, err
			} else if !exists {
				ve.add("parent_id", "parent page does not exist")
			} else {
				page.ParentID = update.ParentID
			}
		}
	}

	if update.SortOrder != nil {
		if *update.SortOrder < 0 {
			ve.add("sort_order", "sort_order must not be negative")
		} else {
			page.SortOrder = *update.SortOrder
		}
	}

	if ve.hasErrors() {
		return nil, ve
	}

	if update.Content != nil {
		page.Content = *update.Content
	}
	if update.Excerpt != nil {
		page.Excerpt = *update.Excerpt
	}
	if update.Content != nil && page.Excerpt == "" && page.Content != "" {
		page.Excerpt = deriveExcerpt(page.Content)
	}
	if update.FeaturedImage != nil {
		page.FeaturedImage = *update.FeaturedImage
	}
	if update.MetaTitle != nil {
		page.MetaTitle = *update.MetaTitle
	}
	if update.MetaDescription != nil {
		page.MetaDescription = *update.MetaDescription
	}
	if update.MetaKeywords != nil {
		page.MetaKeywords = *update.MetaKeywords
	}
	if update.Template != nil && strings.TrimSpace(*update.Template) != "" {
		page.Template = strings.TrimSpace(*update.Template)
	}
	if update.IsHomepage != nil {
		page.IsHomepage = *update.IsHomepage
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&page).Error; err != nil {
			return err
		}
		if page.IsHomepage {
			return clearOtherHomepages(tx, page.ID)
		}
		return nil
	})
	if err != nil {
		if isUniqueConstraintErr(err, "slug") {
			ve.add("slug", "slug is already in use")
			return nil, ve
		}
		return nil, err
	}

	return s.Get(page.ID)
}

// Delete hard-removes a page and detaches its children instead of
// cascading into them.
func (s *PageService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var page db.Page
		if err := tx.First(&page, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPageNotFound
			}
			return err
		}

		if err := tx.Model(&db.Page{}).
			Where("parent_id = ?", page.ID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&page).Error
	})
}

// Children returns the direct children of a page in sort order.
func (s *PageService) Children(parentID uint) ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.
		Where("parent_id = ?", parentID).
		Order("sort_order asc").
		Order("id asc").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *PageService) slugTaken(slug string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&db.Page{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PageService) pageExists(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.Page{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func clearOtherHomepages(tx *gorm.DB, keepID uint) error {
	return tx.Model(&db.Page{}).
		Where("id <> ? AND is_homepage = ?", keepID, true).
		Update("is_homepage", false).Error
}
