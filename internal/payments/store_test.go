package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return db, mock
}

func TestGormStore_PaymentByTransactionID(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewGormStore(db)

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE transaction_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "transaction_id", "tracking_id", "paid_at"}).
			AddRow(1, "pi_1", "DD-20250101-ABCDEF", time.Now()))

	payment, err := store.PaymentByTransactionID(context.Background(), "pi_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.TrackingID != "DD-20250101-ABCDEF" {
		t.Errorf("expected stored tracking id, got %q", payment.TrackingID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGormStore_PaymentByTransactionID_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewGormStore(db)

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE transaction_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.PaymentByTransactionID(context.Background(), "pi_missing")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGormStore_Settle(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "parcels" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	payment := &models.Payment{
		Amount:        2500,
		Currency:      "usd",
		CustomerEmail: "sender@example.com",
		ParcelID:      1,
		TransactionID: "pi_1",
		PaymentStatus: models.PaymentStatusPaid,
		PaidAt:        time.Now().UTC(),
		TrackingID:    "DD-20250101-ABCDEF",
	}

	if err := store.Settle(context.Background(), 1, "DD-20250101-ABCDEF", payment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGormStore_Settle_DuplicateTransactionID(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "parcels" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	payment := &models.Payment{ParcelID: 1, TransactionID: "pi_1", TrackingID: "DD-20250101-ABCDEF"}

	err := store.Settle(context.Background(), 1, "DD-20250101-ABCDEF", payment)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGormStore_Settle_MissingParcelRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "parcels" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	payment := &models.Payment{ParcelID: 42, TransactionID: "pi_1", TrackingID: "DD-20250101-ABCDEF"}

	err := store.Settle(context.Background(), 42, "DD-20250101-ABCDEF", payment)
	if !errors.Is(err, ErrParcelNotFound) {
		t.Fatalf("expected ErrParcelNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
