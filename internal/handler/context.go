package handler

import "github.com/gin-gonic/gin"

// Context keys set by the auth middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// CurrentUserID returns the authenticated user's id, or 0 on
// unauthenticated routes.
func CurrentUserID(c *gin.Context) int64 {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}

// CurrentRole returns the authenticated user's role, or "" when absent.
func CurrentRole(c *gin.Context) string {
	v, ok := c.Get(ContextRole)
	if !ok {
		return ""
	}
	role, _ := v.(string)
	return role
}
