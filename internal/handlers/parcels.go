package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/middleware"
	"github.com/parceldrop/parceldrop-backend/internal/models"
	"github.com/parceldrop/parceldrop-backend/internal/services"
)

// CreateParcel registers a new unpaid parcel for the verified sender. The
// sender email always comes from the token, never from the form.
func CreateParcel(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name            string `form:"name" binding:"required"`
			Description     string `form:"description"`
			Cost            int64  `form:"cost" binding:"required,min=1"`
			ReceiverName    string `form:"receiverName" binding:"required"`
			ReceiverContact string `form:"receiverContact" binding:"required"`
			Destination     string `form:"destination" binding:"required"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var imageURL string
		if file, err := c.FormFile("parcelImage"); err == nil {
			imageURL, err = storage.UploadImage(file, "parcels")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Failed to upload image",
					"details": err.Error(),
				})
				return
			}
		}

		parcel := models.Parcel{
			SenderEmail:     c.GetString(middleware.ContextEmailKey),
			Name:            input.Name,
			Description:     input.Description,
			Cost:            input.Cost,
			ReceiverName:    input.ReceiverName,
			ReceiverContact: input.ReceiverContact,
			Destination:     input.Destination,
			ImageURL:        imageURL,
			PaymentStatus:   models.PaymentStatusUnpaid,
		}

		if err := db.Create(&parcel).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create parcel"})
			return
		}

		c.JSON(http.StatusCreated, parcel)
	}
}

// ListMyParcels returns the caller's parcels, newest first.
func ListMyParcels(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(middleware.ContextEmailKey)

		var parcels []models.Parcel
		if err := db.Where("sender_email = ?", email).Order("created_at desc").Find(&parcels).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to list parcels"})
			return
		}

		c.JSON(200, parcels)
	}
}

// ListAllParcels returns every parcel. Admin only.
func ListAllParcels(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var parcels []models.Parcel
		if err := db.Order("created_at desc").Find(&parcels).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to list parcels"})
			return
		}

		c.JSON(200, parcels)
	}
}

// GetParcel returns one parcel, visible to its sender and to admins.
func GetParcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		parcel, ok := parcelForCaller(c, db)
		if !ok {
			return
		}

		c.JSON(200, parcel)
	}
}

// DeleteParcel removes a parcel. Available to the sender and to admins
// regardless of payment status.
func DeleteParcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		parcel, ok := parcelForCaller(c, db)
		if !ok {
			return
		}

		if err := db.Delete(parcel).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete parcel"})
			return
		}

		c.JSON(200, gin.H{"message": "Parcel deleted"})
	}
}

// parcelForCaller loads the requested parcel and enforces the owner-or-admin
// rule, writing the error response itself when access fails.
func parcelForCaller(c *gin.Context, db *gorm.DB) (*models.Parcel, bool) {
	var parcel models.Parcel
	if err := db.First(&parcel, c.Param("id")).Error; err != nil {
		c.JSON(404, gin.H{"error": "Parcel not found"})
		return nil, false
	}

	email := c.GetString(middleware.ContextEmailKey)
	if parcel.SenderEmail != email {
		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil || user.Role != models.RoleAdmin {
			c.JSON(403, gin.H{"error": "Forbidden"})
			return nil, false
		}
	}

	return &parcel, true
}
