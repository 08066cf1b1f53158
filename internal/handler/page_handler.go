package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pagecms/internal/db"
	"github.com/pagecms/internal/service"
)

type createPageRequest struct {
	Title           string `json:"title" binding:"required,max=255"`
	Slug            string `json:"slug" binding:"required,max=255"`
	Content         string `json:"content"`
	Excerpt         string `json:"excerpt"`
	FeaturedImage   string `json:"featured_image" binding:"omitempty,max=255"`
	MetaTitle       string `json:"meta_title" binding:"omitempty,max=255"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
	Status          string `json:"status" binding:"omitempty,oneof=draft published archived"`
	ParentID        *uint  `json:"parent_id"`
	Template        string `json:"template" binding:"omitempty,max=100"`
	SortOrder       int    `json:"sort_order" binding:"omitempty,gte=0"`
	IsHomepage      bool   `json:"is_homepage"`
}

type updatePageRequest struct {
	Title           *string `json:"title" binding:"omitempty,max=255"`
	Slug            *string `json:"slug" binding:"omitempty,max=255"`
	Content         *string `json:"content"`
	Excerpt         *string `json:"excerpt"`
	FeaturedImage   *string `json:"featured_image" binding:"omitempty,max=255"`
	MetaTitle       *string `json:"meta_title" binding:"omitempty,max=255"`
	MetaDescription *string `json:"meta_description"`
	MetaKeywords    *string `json:"meta_keywords"`
	Status          *string `json:"status" binding:"omitempty,oneof=draft published archived"`
	ParentID        *uint   `json:"parent_id"`
	Template        *string `json:"template" binding:"omitempty,max=100"`
	SortOrder       *int    `json:"sort_order" binding:"omitempty,gte=0"`
	IsHomepage      *bool   `json:"is_homepage"`
}

// ListPages returns a page of pages, newest first, with the author
// relation embedded.
func (a *API) ListPages(c *gin.Context) {
	page := parsePageQuery(c)

	pages, total, err := a.pages.List(page, service.DefaultPageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]gin.H, 0, len(pages))
	for i := range pages {
		items = append(items, serializePage(&pages[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"meta": paginationMeta(page, service.DefaultPageSize, total),
	})
}

// GetPage returns a single page with its author.
func (a *API) GetPage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "page not found")
		return
	}

	page, err := a.pages.Get(id)
	if err != nil {
		handleWriteError(c, err, service.ErrPageNotFound, "page not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": serializePage(page)})
}

// CreatePage creates a page. The author is always the authenticated
// caller; an author_id in the payload is ignored.
func (a *API) CreatePage(c *gin.Context) {
	var req createPageRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.PageInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		Status:          req.Status,
		ParentID:        req.ParentID,
		Template:        req.Template,
		SortOrder:       req.SortOrder,
		IsHomepage:      req.IsHomepage,
	}
	if user := currentUser(c); user != nil {
		authorID := user.ID
		input.AuthorID = &authorID
	}

	page, err := a.pages.Create(input)
	if err != nil {
		handleWriteError(c, err, service.ErrPageNotFound, "page not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": serializePage(page)})
}

// UpdatePage applies a partial update; only supplied fields change.
func (a *API) UpdatePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "page not found")
		return
	}

	var req updatePageRequest
	if !bindJSON(c, &req) {
		return
	}

	update := service.PageUpdate{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		Status:          req.Status,
		ParentID:        req.ParentID,
		Template:        req.Template,
		SortOrder:       req.SortOrder,
		IsHomepage:      req.IsHomepage,
	}
	if present, isNull := jsonKeyState(c, "parent_id"); present && isNull {
		update.ClearParent = true
	}

	page, err := a.pages.Update(id, update)
	if err != nil {
		handleWriteError(c, err, service.ErrPageNotFound, "page not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": serializePage(page)})
}

// DeletePage hard-deletes a page; its children are detached, not
// removed. An unknown id yields 404.
func (a *API) DeletePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "page not found")
		return
	}

	if err := a.pages.Delete(id); err != nil {
		handleWriteError(c, err, service.ErrPageNotFound, "page not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// serializePage maps a page to its response shape. The author collapses
// to id+name and is omitted entirely when the relation is not loaded.
func serializePage(page *db.Page) gin.H {
	resource := gin.H{
		"id":               page.ID,
		"title":            page.Title,
		"slug":             page.Slug,
		"content":          page.Content,
		"excerpt":          page.Excerpt,
		"featured_image":   page.FeaturedImage,
		"meta_title":       page.MetaTitle,
		"meta_description": page.MetaDescription,
		"meta_keywords":    page.MetaKeywords,
		"status":           page.Status,
		"published_at":     formatNullableTime(page.PublishedAt),
		"parent_id":        page.ParentID,
		"template":         page.Template,
		"sort_order":       page.SortOrder,
		"is_homepage":      page.IsHomepage,
		"created_at":       formatTime(page.CreatedAt),
		"updated_at":       formatTime(page.UpdatedAt),
	}

	if page.Author != nil {
		resource["author"] = gin.H{
			"id":   page.Author.ID,
			"name": page.Author.Name,
		}
	}

	return resource
}
