package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/middleware"
	"github.com/parceldrop/parceldrop-backend/internal/models"
	"github.com/parceldrop/parceldrop-backend/internal/payments"
	"github.com/parceldrop/parceldrop-backend/internal/services"
)

// CreateCheckoutSession opens a provider checkout session for an unpaid
// parcel owned by the caller and returns the hosted payment URL.
func CreateCheckoutSession(db *gorm.DB, provider payments.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(middleware.ContextEmailKey)

		var parcel models.Parcel
		if err := db.First(&parcel, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Parcel not found"})
			return
		}

		if parcel.SenderEmail != email {
			c.JSON(403, gin.H{"error": "Forbidden"})
			return
		}

		if parcel.PaymentStatus == models.PaymentStatusPaid {
			c.JSON(400, gin.H{"error": "Parcel is already paid"})
			return
		}

		url, err := provider.CreateSession(c.Request.Context(), &parcel, email)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create checkout session"})
			return
		}

		c.JSON(200, gin.H{"url": url})
	}
}

// ConfirmPayment is the settlement endpoint. Clients call it from the
// checkout success page, possibly several times; every defined outcome is a
// 200 so reloads never look like failures.
func ConfirmPayment(co *payments.Coordinator, db *gorm.DB, events *services.EventPublisher, hub *services.Hub, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(400, gin.H{"success": false, "error": "session_id is required"})
			return
		}

		result, err := co.Settle(c.Request.Context(), sessionID)
		if err != nil {
			switch {
			case errors.Is(err, payments.ErrParcelNotFound):
				c.JSON(404, gin.H{"success": false, "error": "Parcel not found"})
			case errors.Is(err, payments.ErrProviderUnavailable):
				c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Payment provider unavailable"})
			default:
				c.JSON(500, gin.H{"success": false, "error": "Failed to confirm payment"})
			}
			return
		}

		switch result.Outcome {
		case payments.OutcomeSettled:
			announceSettlement(c, db, events, hub, notifier, result)
			c.JSON(200, gin.H{
				"success":       true,
				"trackingId":    result.TrackingID,
				"transactionId": result.TransactionID,
			})

		case payments.OutcomeAlreadySettled:
			c.JSON(200, gin.H{
				"success":       true,
				"message":       "Already exists",
				"trackingId":    result.TrackingID,
				"transactionId": result.TransactionID,
			})

		case payments.OutcomeNotPaid:
			c.JSON(200, gin.H{
				"success": false,
				"message": "Payment not completed",
			})
		}
	}
}

// announceSettlement fans the settlement out to Redis, the websocket hub and
// FCM. All of it is best effort; the payment is already committed.
func announceSettlement(c *gin.Context, db *gorm.DB, events *services.EventPublisher, hub *services.Hub, notifier *services.Notifier, result *payments.Result) {
	ctx := c.Request.Context()
	parcel := result.Parcel

	if events != nil {
		err := events.PublishParcelUpdate(ctx, parcel.ID, models.PaymentStatusPaid, map[string]interface{}{
			"trackingId":    result.TrackingID,
			"transactionId": result.TransactionID,
		})
		if err != nil {
			logrus.WithError(err).Warn("failed to publish parcel update")
		}
	}

	if hub != nil {
		message, _ := json.Marshal(map[string]interface{}{
			"type":       "parcel_paid",
			"parcelId":   parcel.ID,
			"trackingId": result.TrackingID,
		})
		hub.SendToEmail(parcel.SenderEmail, message)
	}

	if notifier != nil {
		var sender models.User
		if err := db.Where("email = ?", parcel.SenderEmail).First(&sender).Error; err == nil {
			if err := notifier.SendPaymentSettled(ctx, sender.FCMToken, parcel.Name, result.TrackingID); err != nil {
				logrus.WithError(err).Warn("failed to send settlement notification")
			}
		}
	}
}

// ListMyPayments returns the caller's payment records.
func ListMyPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(middleware.ContextEmailKey)

		var records []models.Payment
		if err := db.Where("customer_email = ?", email).Order("paid_at desc").Find(&records).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to list payments"})
			return
		}

		c.JSON(200, records)
	}
}

// ListAllPayments returns every payment record. Admin only.
func ListAllPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var records []models.Payment
		if err := db.Order("paid_at desc").Find(&records).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to list payments"})
			return
		}

		c.JSON(200, records)
	}
}
