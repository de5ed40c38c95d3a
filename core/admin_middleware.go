package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// AdminOnly ensures the session role is ADMIN.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionAny, _ := c.Get("session")
		sess, _ := sessionAny.(*sessions.Session)
		if !sessionFromCookie(sess).IsAdmin() {
			respondError(c, http.StatusForbidden, "FORBIDDEN", "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
