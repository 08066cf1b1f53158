package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pagecms/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCategoryServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:category-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Category{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestCategoryServiceCreateAppliesDefaults(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create(CategoryInput{Name: "General", Slug: "general"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.SortOrder != 0 {
		t.Fatalf("expected sort_order 0, got %d", category.SortOrder)
	}

	fetched, err := svc.Get(category.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if fetched.Name != "General" || fetched.Slug != "general" {
		t.Fatalf("fetched category differs: %+v", fetched)
	}
}

func TestCategoryServiceCreateRejectsDuplicateSlug(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	if _, err := svc.Create(CategoryInput{Name: "First", Slug: "news"}); err != nil {
		t.Fatalf("create first category: %v", err)
	}

	_, err := svc.Create(CategoryInput{Name: "Second", Slug: "news"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["slug"]; !ok {
		t.Fatalf("expected slug error, got %v", ve.Fields)
	}
}

func TestCategoryServiceCreateRejectsUnknownParent(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	missing := uint(42)
	_, err := svc.Create(CategoryInput{Name: "Child", Slug: "child", ParentID: &missing})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["parent_id"]; !ok {
		t.Fatalf("expected parent_id error, got %v", ve.Fields)
	}
}

func TestCategoryServiceUpdateChangesOnlySuppliedFields(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create(CategoryInput{Name: "Original", Slug: "original", Description: "desc"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	newName := "Renamed"
	updated, err := svc.Update(category.ID, CategoryUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected renamed category, got %q", updated.Name)
	}
	if updated.Slug != "original" || updated.Description != "desc" {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
}

func TestCategoryServiceDeleteDetachesChildren(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	parent, err := svc.Create(CategoryInput{Name: "Parent", Slug: "parent"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := svc.Create(CategoryInput{Name: "Child", Slug: "child", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := svc.Delete(parent.ID); err != nil {
		t.Fatalf("delete parent: %v", err)
	}

	fetched, err := svc.Get(child.ID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if fetched.ParentID != nil {
		t.Fatalf("expected detached child, got parent_id %v", *fetched.ParentID)
	}
}

func TestCategoryServiceDeleteUnknownID(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	if err := svc.Delete(777); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryServiceChildrenOrderedBySortOrder(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	parent, err := svc.Create(CategoryInput{Name: "Parent", Slug: "parent"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	for i, slug := range []string{"late", "early"} {
		input := CategoryInput{
			Name:      slug,
			Slug:      slug,
			ParentID:  &parent.ID,
			SortOrder: 2 - i,
		}
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("create child %q: %v", slug, err)
		}
	}

	children, err := svc.Children(parent.ID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 2 || children[0].Slug != "early" || children[1].Slug != "late" {
		t.Fatalf("unexpected child order: %+v", children)
	}
}
