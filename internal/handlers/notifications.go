package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/middleware"
	"github.com/parceldrop/parceldrop-backend/internal/models"
)

// RegisterFCMToken stores the caller's device token for push notifications.
func RegisterFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		email := c.GetString(middleware.ContextEmailKey)
		result := db.Model(&models.User{}).Where("email = ?", email).Update("fcm_token", input.Token)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to register token"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, gin.H{"message": "Token registered"})
	}
}
