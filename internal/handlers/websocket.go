package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/parceldrop/parceldrop-backend/internal/middleware"
	"github.com/parceldrop/parceldrop-backend/internal/services"
)

// WebSocketHandler upgrades an authenticated connection and attaches it to
// the hub under the caller's verified email.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(middleware.ContextEmailKey)
		if err := services.ServeWS(hub, c.Writer, c.Request, email); err != nil {
			c.JSON(400, gin.H{"error": "Failed to upgrade connection"})
		}
	}
}
