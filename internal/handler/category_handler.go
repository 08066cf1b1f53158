package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pagecms/internal/db"
	"github.com/pagecms/internal/service"
)

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Slug        string `json:"slug" binding:"required,max=255"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	SortOrder   int    `json:"sort_order" binding:"omitempty,gte=0"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Slug        *string `json:"slug" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
	SortOrder   *int    `json:"sort_order" binding:"omitempty,gte=0"`
}

// ListCategories returns a page of categories, newest first.
func (a *API) ListCategories(c *gin.Context) {
	page := parsePageQuery(c)

	categories, total, err := a.categories.List(page, service.DefaultPageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]gin.H, 0, len(categories))
	for i := range categories {
		items = append(items, serializeCategory(&categories[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"meta": paginationMeta(page, service.DefaultPageSize, total),
	})
}

// GetCategory returns a single category.
func (a *API) GetCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}

	category, err := a.categories.Get(id)
	if err != nil {
		handleWriteError(c, err, service.ErrCategoryNotFound, "category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": serializeCategory(category)})
}

// CreateCategory creates a category.
func (a *API) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := a.categories.Create(service.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		handleWriteError(c, err, service.ErrCategoryNotFound, "category not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": serializeCategory(category)})
}

// UpdateCategory applies a partial update.
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}

	var req updateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	update := service.CategoryUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
	}
	if present, isNull := jsonKeyState(c, "parent_id"); present && isNull {
		update.ClearParent = true
	}

	category, err := a.categories.Update(id, update)
	if err != nil {
		handleWriteError(c, err, service.ErrCategoryNotFound, "category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": serializeCategory(category)})
}

// DeleteCategory hard-deletes a category, detaching its children.
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		handleWriteError(c, err, service.ErrCategoryNotFound, "category not found")
		return
	}

	c.Status(http.StatusNoContent)
}

func serializeCategory(category *db.Category) gin.H {
	return gin.H{
		"id":          category.ID,
		"name":        category.Name,
		"slug":        category.Slug,
		"description": category.Description,
		"parent_id":   category.ParentID,
		"sort_order":  category.SortOrder,
		"created_at":  formatTime(category.CreatedAt),
		"updated_at":  formatTime(category.UpdatedAt),
	}
}
