package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealth GET /healthz
func HandleHealth(version string, geminiConfigured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "taskchat",
			"version": version,
			"gemini":  geminiConfigured,
		})
	}
}
