package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// testEnv reports whether the upstream credential is configured. Diagnostics
// only, not part of the trading path.
func (s *service) testEnv(c *gin.Context) {
	if !s.book.HasKey() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":       "error",
			"message":      msgKeyNotConfigured,
			"instructions": "set orderbook.api_key in the service config",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"message":      "API key is configured",
		"apiKeyLength": s.book.KeyLen(),
		"apiKeyPrefix": s.book.KeyPrefix(),
	})
}
