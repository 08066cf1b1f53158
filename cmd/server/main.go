package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/pagecms/internal/config"
	"github.com/pagecms/internal/db"
	"github.com/pagecms/internal/handler"
	"github.com/pagecms/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	api := handler.NewAPI(db.DB, cfg.TokenTTL, cfg.UploadDir, cfg.UploadURLPath)
	r := router.SetupRouter(api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
