package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pagecms/internal/handler"
)

// SetupRouter configures the Gin engine and routes. Everything except
// /health and /auth/login sits behind bearer-token auth.
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.POST("/auth/login", api.Login)

	authed := r.Group("")
	authed.Use(api.AuthRequired())
	{
		authed.GET("/auth/user", api.CurrentUser)
		authed.POST("/auth/logout", api.Logout)

		pages := authed.Group("/pages")
		{
			pages.GET("", api.ListPages)
			pages.POST("", api.CreatePage)
			pages.GET("/:id", api.GetPage)
			pages.PUT("/:id", api.UpdatePage)
			pages.PATCH("/:id", api.UpdatePage)
			pages.DELETE("/:id", api.DeletePage)
		}

		categories := authed.Group("/categories")
		{
			categories.GET("", api.ListCategories)
			categories.POST("", api.CreateCategory)
			categories.GET("/:id", api.GetCategory)
			categories.PUT("/:id", api.UpdateCategory)
			categories.PATCH("/:id", api.UpdateCategory)
			categories.DELETE("/:id", api.DeleteCategory)
		}

		authed.POST("/uploads", api.UploadImage)
	}

	return r
}
