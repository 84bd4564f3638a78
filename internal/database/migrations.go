package database

import (
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Parcel{},
		&models.Payment{},
		&models.Rider{},
	)
	if err != nil {
		return err
	}

	// The unique index on payments.transaction_id is the authoritative guard
	// against concurrent double-settlement; make sure it exists even on
	// databases migrated by older builds.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_transaction_id ON payments (transaction_id)`).Error; err != nil {
		return err
	}

	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('user', 'rider', 'admin'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Rider{}) {
		db.Exec(`ALTER TABLE riders DROP CONSTRAINT IF EXISTS riders_status_check`)
		if err := db.Exec(`ALTER TABLE riders ADD CONSTRAINT riders_status_check CHECK (status IN ('pending', 'approved', 'rejected'))`).Error; err != nil {
			return err
		}
	}

	return nil
}
