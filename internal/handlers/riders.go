package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/middleware"
	"github.com/parceldrop/parceldrop-backend/internal/models"
	"github.com/parceldrop/parceldrop-backend/internal/riders"
	"github.com/parceldrop/parceldrop-backend/internal/services"
)

// ApplyRider files a rider application for the verified caller. The status
// is always pending on creation, whatever the client sends.
func ApplyRider(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name        string `json:"name" binding:"required"`
			Phone       string `json:"phone" binding:"required"`
			VehicleType string `json:"vehicleType" binding:"required"`
			Region      string `json:"region" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		rider := models.Rider{
			Name:        input.Name,
			Email:       c.GetString(middleware.ContextEmailKey),
			Phone:       input.Phone,
			VehicleType: input.VehicleType,
			Region:      input.Region,
			Status:      models.RiderStatusPending,
		}

		if err := db.Create(&rider).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create rider application"})
			return
		}

		c.JSON(http.StatusCreated, rider)
	}
}

// ListRiders returns rider applications, optionally filtered by status.
// Admin only.
func ListRiders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("created_at desc")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var applications []models.Rider
		if err := query.Find(&applications).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to list rider applications"})
			return
		}

		c.JSON(200, applications)
	}
}

// UpdateRiderStatus applies an admin decision to a pending application.
func UpdateRiderStatus(lifecycle *riders.Lifecycle, db *gorm.DB, events *services.EventPublisher, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid rider id"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		rider, err := lifecycle.Transition(c.Request.Context(), uint(id), input.Status)
		if err != nil {
			switch {
			case errors.Is(err, riders.ErrNotFound):
				c.JSON(404, gin.H{"error": "Rider application not found"})
			case errors.Is(err, riders.ErrInvalidStatus):
				c.JSON(400, gin.H{"error": "Status must be approved or rejected"})
			case errors.Is(err, riders.ErrAlreadyDecided):
				c.JSON(409, gin.H{"error": "Rider application already decided"})
			default:
				c.JSON(500, gin.H{"error": "Failed to update rider application"})
			}
			return
		}

		announceRiderDecision(c, db, events, notifier, rider)

		c.JSON(200, rider)
	}
}

func announceRiderDecision(c *gin.Context, db *gorm.DB, events *services.EventPublisher, notifier *services.Notifier, rider *models.Rider) {
	ctx := c.Request.Context()

	if events != nil {
		if err := events.PublishRiderUpdate(ctx, rider.ID, rider.Status, rider.Email); err != nil {
			logrus.WithError(err).Warn("failed to publish rider update")
		}
	}

	if notifier != nil {
		var applicant models.User
		if err := db.Where("email = ?", rider.Email).First(&applicant).Error; err == nil {
			if err := notifier.SendRiderDecision(ctx, applicant.FCMToken, rider.Status); err != nil {
				logrus.WithError(err).Warn("failed to send rider decision notification")
			}
		}
	}
}
