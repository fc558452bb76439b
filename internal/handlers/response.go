package handlers

import (
	"github.com/gin-gonic/gin"
)

// RespondError writes the structured error payload the API promises: a
// generic message plus a non-sensitive detail string.
func RespondError(c *gin.Context, status int, message, details string) {
	payload := gin.H{"error": message}
	if details != "" {
		payload["details"] = details
	}
	c.JSON(status, payload)
}
