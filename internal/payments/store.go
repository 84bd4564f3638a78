package payments

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

// Store is the persistence surface the coordinator needs. Settle must apply
// the parcel update and the payment insert atomically and report a duplicate
// transaction id as ErrDuplicate.
type Store interface {
	PaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	ParcelByID(ctx context.Context, id uint) (*models.Parcel, error)
	Settle(ctx context.Context, parcelID uint, trackingID string, payment *models.Payment) error
}

// GormStore implements Store on Postgres via GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) PaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}
	return &payment, nil
}

func (s *GormStore) ParcelByID(ctx context.Context, id uint) (*models.Parcel, error) {
	var parcel models.Parcel
	err := s.db.WithContext(ctx).First(&parcel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, fmt.Errorf("failed to look up parcel: %w", err)
	}
	return &parcel, nil
}

// Settle marks the parcel paid and inserts the payment record in one
// transaction. If a concurrent settle won the race, the unique index on
// transaction_id fails the insert, the transaction rolls back and the parcel
// update is discarded with it.
func (s *GormStore) Settle(ctx context.Context, parcelID uint, trackingID string, payment *models.Payment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Parcel{}).
			Where("id = ?", parcelID).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentStatusPaid,
				"tracking_id":    trackingID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrParcelNotFound
		}

		return tx.Create(payment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}
