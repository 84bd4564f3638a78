package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/parceldrop/parceldrop-backend/internal/models"
	"github.com/parceldrop/parceldrop-backend/internal/payments"
)

type fakeProvider struct {
	sessions map[string]*payments.Session
}

func (f *fakeProvider) CreateSession(ctx context.Context, parcel *models.Parcel, customerEmail string) (string, error) {
	return "https://checkout.test/session", nil
}

func (f *fakeProvider) RetrieveSession(ctx context.Context, sessionID string) (*payments.Session, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown session", payments.ErrProviderUnavailable)
	}
	return sess, nil
}

type fakeStore struct {
	payments map[string]*models.Payment
	parcels  map[uint]*models.Parcel
}

func (f *fakeStore) PaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	if p, ok := f.payments[transactionID]; ok {
		return p, nil
	}
	return nil, payments.ErrRecordNotFound
}

func (f *fakeStore) ParcelByID(ctx context.Context, id uint) (*models.Parcel, error) {
	if p, ok := f.parcels[id]; ok {
		return p, nil
	}
	return nil, payments.ErrParcelNotFound
}

func (f *fakeStore) Settle(ctx context.Context, parcelID uint, trackingID string, payment *models.Payment) error {
	parcel := f.parcels[parcelID]
	parcel.PaymentStatus = models.PaymentStatusPaid
	parcel.TrackingID = trackingID
	f.payments[payment.TransactionID] = payment
	return nil
}

func confirmRouter(provider payments.Provider, store payments.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	co := payments.NewCoordinator(provider, store)
	r.GET("/api/payments/confirm", ConfirmPayment(co, nil, nil, nil, nil))
	return r
}

func confirm(t *testing.T, r *gin.Engine, sessionID string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/payments/confirm?session_id="+sessionID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec.Code, body
}

func TestConfirmPayment_PaidSession(t *testing.T) {
	parcel := &models.Parcel{Name: "Books", SenderEmail: "sender@example.com", PaymentStatus: models.PaymentStatusUnpaid}
	parcel.ID = 1

	store := &fakeStore{
		payments: make(map[string]*models.Payment),
		parcels:  map[uint]*models.Parcel{1: parcel},
	}
	provider := &fakeProvider{sessions: map[string]*payments.Session{
		"sess_1": {
			ID:              "sess_1",
			PaymentIntentID: "pi_1",
			PaymentStatus:   "paid",
			AmountTotal:     2500,
			Currency:        "usd",
			CustomerEmail:   "sender@example.com",
			Metadata:        map[string]string{"parcelId": "1"},
		},
	}}

	r := confirmRouter(provider, store)

	code, body := confirm(t, r, "sess_1")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["success"] != true {
		t.Errorf("expected success=true, got %v", body["success"])
	}
	if body["transactionId"] != "pi_1" {
		t.Errorf("expected transactionId pi_1, got %v", body["transactionId"])
	}
	if body["trackingId"] == nil || body["trackingId"] == "" {
		t.Error("expected a tracking id in the response")
	}
	if parcel.PaymentStatus != models.PaymentStatusPaid {
		t.Error("parcel not marked paid")
	}

	// The reloaded success page hits the endpoint again.
	code, body = confirm(t, r, "sess_1")
	if code != http.StatusOK {
		t.Fatalf("expected 200 on retry, got %d", code)
	}
	if body["message"] != "Already exists" {
		t.Errorf("expected 'Already exists' message, got %v", body["message"])
	}
	if body["trackingId"] != parcel.TrackingID {
		t.Errorf("retry returned tracking id %v, want %q", body["trackingId"], parcel.TrackingID)
	}
	if len(store.payments) != 1 {
		t.Errorf("expected exactly one payment record, got %d", len(store.payments))
	}
}

func TestConfirmPayment_UnpaidSession(t *testing.T) {
	store := &fakeStore{
		payments: make(map[string]*models.Payment),
		parcels:  make(map[uint]*models.Parcel),
	}
	provider := &fakeProvider{sessions: map[string]*payments.Session{
		"sess_2": {
			ID:              "sess_2",
			PaymentIntentID: "pi_2",
			PaymentStatus:   "unpaid",
			Metadata:        map[string]string{"parcelId": "1"},
		},
	}}

	code, body := confirm(t, confirmRouter(provider, store), "sess_2")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body["success"])
	}
	if len(store.payments) != 0 {
		t.Error("unpaid session must not create payment records")
	}
}

func TestConfirmPayment_UnknownParcel(t *testing.T) {
	store := &fakeStore{
		payments: make(map[string]*models.Payment),
		parcels:  make(map[uint]*models.Parcel),
	}
	provider := &fakeProvider{sessions: map[string]*payments.Session{
		"sess_3": {
			ID:              "sess_3",
			PaymentIntentID: "pi_3",
			PaymentStatus:   "paid",
			Metadata:        map[string]string{"parcelId": "99"},
		},
	}}

	code, _ := confirm(t, confirmRouter(provider, store), "sess_3")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestConfirmPayment_ProviderUnreachable(t *testing.T) {
	store := &fakeStore{
		payments: make(map[string]*models.Payment),
		parcels:  make(map[uint]*models.Parcel),
	}
	provider := &fakeProvider{sessions: map[string]*payments.Session{}}

	code, body := confirm(t, confirmRouter(provider, store), "sess_gone")
	if code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", code)
	}
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body["success"])
	}
}

func TestConfirmPayment_MissingSessionID(t *testing.T) {
	r := confirmRouter(&fakeProvider{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/payments/confirm", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
