package riders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

// GormStore implements Store on Postgres via GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ByID(ctx context.Context, id uint) (*models.Rider, error) {
	var rider models.Rider
	err := s.db.WithContext(ctx).First(&rider, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up rider application: %w", err)
	}
	return &rider, nil
}

// Approve flips the application to approved and promotes the applicant's
// user to the rider role in the same transaction, so an approved
// application can never coexist with an unpromoted user.
func (s *GormStore) Approve(ctx context.Context, rider *models.Rider) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Rider{}).
			Where("id = ?", rider.ID).
			Update("status", models.RiderStatusApproved).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("email = ?", rider.Email).
			Update("role", models.RoleRider).Error
	})
}

func (s *GormStore) Reject(ctx context.Context, rider *models.Rider) error {
	return s.db.WithContext(ctx).Model(&models.Rider{}).
		Where("id = ?", rider.ID).
		Update("status", models.RiderStatusRejected).Error
}
