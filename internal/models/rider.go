package models

import "gorm.io/gorm"

const (
	RiderStatusPending  = "pending"
	RiderStatusApproved = "approved"
	RiderStatusRejected = "rejected"
)

// Rider is a rider application. It is always created pending; an admin
// moves it to approved or rejected, both terminal.
type Rider struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Email       string `gorm:"not null;index" json:"email"`
	Phone       string `json:"phone"`
	VehicleType string `gorm:"column:vehicle_type" json:"vehicleType"`
	Region      string `json:"region"`
	Status      string `gorm:"not null;default:pending" json:"status"`
}
