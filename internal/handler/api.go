package handler

import (
	"time"

	"github.com/pagecms/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	auth       *service.AuthService
	pages      *service.PageService
	categories *service.CategoryService
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, tokenTTL time.Duration, uploadDir, uploadURL string) *API {
	return &API{
		db:         gdb,
		auth:       service.NewAuthService(gdb, tokenTTL),
		pages:      service.NewPageService(gdb),
		categories: service.NewCategoryService(gdb),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
