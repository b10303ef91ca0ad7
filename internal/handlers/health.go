package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthChecker is anything that can report its own health
type healthChecker interface {
	Health(ctx context.Context) error
}

// Root handles GET /
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API funcionando correctamente"})
}

// Health returns a GET /health handler reporting database reachability
func Health(db healthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
				"error":    err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	}
}
