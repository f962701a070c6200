package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"
)

// Handlers holds all dependencies for the HTTP handlers.
type Handlers struct {
	DB *sql.DB
}

// currentUserID reads the authenticated user's ID off the request
// context. The second return is false when no identity is present.
func currentUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := raw.(int64)
	return id, ok
}
