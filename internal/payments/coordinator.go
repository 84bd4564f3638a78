package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/parceldrop/parceldrop-backend/internal/models"
	"github.com/parceldrop/parceldrop-backend/pkg/utils"
)

var (
	// ErrProviderUnavailable means the payment provider errored or was
	// unreachable. Safe to retry: settlement is idempotent.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrParcelNotFound means the session metadata did not resolve to a parcel.
	ErrParcelNotFound = errors.New("parcel not found")
	// ErrRecordNotFound is returned by stores for missing payment records.
	ErrRecordNotFound = errors.New("payment record not found")
	// ErrDuplicate is returned by stores when the transaction id already has
	// a payment record. The coordinator converts it to OutcomeAlreadySettled.
	ErrDuplicate = errors.New("duplicate transaction id")
)

type Outcome string

const (
	OutcomeSettled        Outcome = "settled"
	OutcomeAlreadySettled Outcome = "already_settled"
	OutcomeNotPaid        Outcome = "not_paid"
)

// Result is the outcome of a settlement attempt. TrackingID and Payment are
// set for settled and already-settled outcomes; Parcel only when this call
// performed the settlement.
type Result struct {
	Outcome       Outcome
	TransactionID string
	TrackingID    string
	Parcel        *models.Parcel
	Payment       *models.Payment
}

// Coordinator reconciles a provider checkout session with the parcel and
// payment records exactly once, no matter how many times the client retries.
type Coordinator struct {
	provider Provider
	store    Store
}

func NewCoordinator(provider Provider, store Store) *Coordinator {
	return &Coordinator{provider: provider, store: store}
}

// Settle drives one settlement attempt for a checkout session.
//
// The upfront payment lookup keeps retried confirmations cheap, but the
// unique index on transaction_id is what actually guarantees a single
// payment record: two concurrent calls can both pass the lookup, and the
// loser's insert comes back as ErrDuplicate, which is folded into the same
// already-settled result the winner's retry would see.
func (co *Coordinator) Settle(ctx context.Context, sessionID string) (*Result, error) {
	sess, err := co.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	transactionID := sess.PaymentIntentID
	if transactionID == "" {
		return nil, fmt.Errorf("%w: session %s has no payment intent", ErrProviderUnavailable, sessionID)
	}

	existing, err := co.store.PaymentByTransactionID(ctx, transactionID)
	if err == nil {
		return alreadySettled(existing), nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	if sess.PaymentStatus != models.PaymentStatusPaid {
		return &Result{Outcome: OutcomeNotPaid, TransactionID: transactionID}, nil
	}

	parcelID, err := strconv.ParseUint(sess.Metadata["parcelId"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad parcelId metadata %q", ErrParcelNotFound, sess.Metadata["parcelId"])
	}

	parcel, err := co.store.ParcelByID(ctx, uint(parcelID))
	if err != nil {
		return nil, err
	}

	trackingID := utils.GenerateTrackingID()
	payment := &models.Payment{
		Amount:        sess.AmountTotal,
		Currency:      sess.Currency,
		CustomerEmail: sess.CustomerEmail,
		ParcelID:      parcel.ID,
		ParcelName:    parcel.Name,
		TransactionID: transactionID,
		PaymentStatus: sess.PaymentStatus,
		PaidAt:        time.Now().UTC(),
		TrackingID:    trackingID,
	}

	if err := co.store.Settle(ctx, parcel.ID, trackingID, payment); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the race to a concurrent confirmation. Report the
			// winner's record so every caller sees the same tracking id.
			winner, lookupErr := co.store.PaymentByTransactionID(ctx, transactionID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return alreadySettled(winner), nil
		}
		return nil, err
	}

	parcel.PaymentStatus = models.PaymentStatusPaid
	parcel.TrackingID = trackingID

	return &Result{
		Outcome:       OutcomeSettled,
		TransactionID: transactionID,
		TrackingID:    trackingID,
		Parcel:        parcel,
		Payment:       payment,
	}, nil
}

func alreadySettled(payment *models.Payment) *Result {
	return &Result{
		Outcome:       OutcomeAlreadySettled,
		TransactionID: payment.TransactionID,
		TrackingID:    payment.TrackingID,
		Payment:       payment,
	}
}
