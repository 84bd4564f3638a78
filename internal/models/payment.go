package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the settlement record for a completed checkout. TransactionID
// carries the unique index that makes settlement idempotent; the upfront
// duplicate lookup in the coordinator is only an optimization on top of it.
type Payment struct {
	gorm.Model
	Amount        int64     `gorm:"not null" json:"amount"` // smallest currency unit
	Currency      string    `gorm:"not null" json:"currency"`
	CustomerEmail string    `gorm:"column:customer_email;not null" json:"customerEmail"`
	ParcelID      uint      `gorm:"column:parcel_id;not null" json:"parcelId"`
	ParcelName    string    `gorm:"column:parcel_name" json:"parcelName"`
	TransactionID string    `gorm:"column:transaction_id;uniqueIndex;not null" json:"transactionId"`
	PaymentStatus string    `gorm:"column:payment_status;not null" json:"paymentStatus"`
	PaidAt        time.Time `gorm:"column:paid_at" json:"paidAt"`
	TrackingID    string    `gorm:"column:tracking_id;not null" json:"trackingId"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}
