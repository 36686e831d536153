package handlers

import "github.com/gin-gonic/gin"

// currentUserID returns the authenticated caller's id, 0 for anonymous.
func currentUserID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
