package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pagecms/internal/db"
	"github.com/pagecms/internal/service"
)

const (
	contextUserKey  = "__current_user"
	contextTokenKey = "__current_token"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues a bearer token. The error body is
// identical for unknown emails and wrong passwords.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  serializeUser(user),
		"token": token.Token,
	})
}

// CurrentUser returns the caller resolved from the bearer token.
func (a *API) CurrentUser(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	c.JSON(http.StatusOK, serializeUser(user))
}

// Logout revokes exactly the token presented on this request.
func (a *API) Logout(c *gin.Context) {
	token, _ := c.Get(contextTokenKey)
	raw, _ := token.(string)
	if err := a.auth.Logout(raw); err != nil && !errors.Is(err, service.ErrInvalidToken) {
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AuthRequired rejects requests without a valid, unrevoked bearer token
// before any handler logic runs.
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		user, err := a.auth.UserFromToken(token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				respondError(c, http.StatusUnauthorized, "unauthorized")
			} else {
				respondError(c, http.StatusInternalServerError, "internal error")
			}
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextTokenKey, token)
		c.Next()
	}
}

func currentUser(c *gin.Context) *db.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*db.User)
	return user
}

func serializeUser(user *db.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": formatTime(user.CreatedAt),
		"updated_at": formatTime(user.UpdatedAt),
	}
}
