package main

import (
	"fmt"
	"log"

	"github.com/pagecms/internal/config"
	"github.com/pagecms/internal/db"
	"github.com/pagecms/internal/service"
)

// Seeds the database with an admin account and demo content so a fresh
// install has something to browse.
func main() {
	cfg := config.Load()

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	name, email, password := cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword
	if email == "" {
		name, email, password = "Admin", "admin@example.com", "admin123"
	}
	if err := db.EnsureAdmin(name, email, password); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	var admin db.User
	if err := db.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		log.Fatalf("failed to load admin user: %v", err)
	}

	var pageCount int64
	db.DB.Model(&db.Page{}).Count(&pageCount)
	if pageCount > 0 {
		fmt.Println("content already present, nothing to seed")
		return
	}

	pages := service.NewPageService(db.DB)
	categories := service.NewCategoryService(db.DB)
	authorID := admin.ID

	home, err := pages.Create(service.PageInput{
		Title:      "Home",
		Slug:       "home",
		Content:    "# Welcome\n\nThis site is powered by pagecms.",
		Status:     db.PageStatusPublished,
		IsHomepage: true,
		AuthorID:   &authorID,
	})
	if err != nil {
		log.Fatalf("failed to seed homepage: %v", err)
	}

	staticPages := []service.PageInput{
		{Title: "About", Slug: "about", Content: "## About us\n\nA small demo site.", Status: db.PageStatusPublished, ParentID: &home.ID, AuthorID: &authorID},
		{Title: "Contact", Slug: "contact", Content: "Drop us a line.", Status: db.PageStatusDraft, AuthorID: &authorID},
	}
	for _, input := range staticPages {
		if _, err := pages.Create(input); err != nil {
			log.Fatalf("failed to seed page %q: %v", input.Slug, err)
		}
	}

	for i := 1; i <= 10; i++ {
		input := service.PageInput{
			Title:    fmt.Sprintf("Sample Page %d", i),
			Slug:     fmt.Sprintf("sample-page-%d", i),
			Content:  fmt.Sprintf("Filler content for sample page %d.", i),
			AuthorID: &authorID,
		}
		if _, err := pages.Create(input); err != nil {
			log.Fatalf("failed to seed page %q: %v", input.Slug, err)
		}
	}

	root, err := categories.Create(service.CategoryInput{
		Name:        "General",
		Slug:        "general",
		Description: "Top-level catch-all category.",
	})
	if err != nil {
		log.Fatalf("failed to seed root category: %v", err)
	}

	for i := 1; i <= 5; i++ {
		input := service.CategoryInput{
			Name:      fmt.Sprintf("Topic %d", i),
			Slug:      fmt.Sprintf("topic-%d", i),
			ParentID:  &root.ID,
			SortOrder: i,
		}
		if _, err := categories.Create(input); err != nil {
			log.Fatalf("failed to seed category %q: %v", input.Slug, err)
		}
	}

	fmt.Println("seeded admin user and demo content")
	fmt.Printf("login email: %s\n", email)
}
