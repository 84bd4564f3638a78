package models

import "gorm.io/gorm"

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

type Parcel struct {
	gorm.Model
	SenderEmail     string `gorm:"column:sender_email;not null;index" json:"senderEmail"`
	Name            string `gorm:"not null" json:"name"`
	Description     string `json:"description"`
	Cost            int64  `gorm:"not null" json:"cost"` // smallest currency unit
	ReceiverName    string `json:"receiverName"`
	ReceiverContact string `json:"receiverContact"`
	Destination     string `json:"destination"`
	ImageURL        string `gorm:"column:image_url" json:"imageUrl"`
	PaymentStatus   string `gorm:"column:payment_status;not null;default:unpaid" json:"paymentStatus"`
	TrackingID      string `gorm:"column:tracking_id" json:"trackingId,omitempty"`
}
