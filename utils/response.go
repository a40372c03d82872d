package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithError writes the standard JSON error envelope.
func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// RespondWithValidationErrors writes a 400 with per-field messages.
func RespondWithValidationErrors(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}
