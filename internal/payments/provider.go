package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

// Session is the provider-neutral view of a checkout session. The payment
// intent id becomes the settlement transaction id.
type Session struct {
	ID              string
	PaymentIntentID string
	PaymentStatus   string // "paid" or "unpaid"
	AmountTotal     int64
	Currency        string
	CustomerEmail   string
	Metadata        map[string]string
}

// Provider is the external payment provider. Only these two operations are
// needed; everything else (webhooks, refunds) is out of scope.
type Provider interface {
	CreateSession(ctx context.Context, parcel *models.Parcel, customerEmail string) (string, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
}

// StripeProvider implements Provider against Stripe Checkout.
type StripeProvider struct {
	successURL string
	cancelURL  string
}

func NewStripeProvider(secretKey, successURL, cancelURL string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateSession opens a checkout session for a parcel and returns the hosted
// payment page URL. The parcel id travels in the session metadata so the
// settlement endpoint can find its way back to the record.
func (p *StripeProvider) CreateSession(ctx context.Context, parcel *models.Parcel, customerEmail string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(parcel.Name),
					},
					UnitAmount: stripe.Int64(parcel.Cost),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(customerEmail),
		SuccessURL:    stripe.String(p.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(p.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("parcelId", strconv.FormatUint(uint64(parcel.ID), 10))
	params.AddMetadata("parcelName", parcel.Name)

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return s.URL, nil
}

// RetrieveSession fetches the session and flattens it into the neutral shape.
func (p *StripeProvider) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	sess := &Session{
		ID:            s.ID,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	}
	if s.PaymentIntent != nil {
		sess.PaymentIntentID = s.PaymentIntent.ID
	}
	if sess.CustomerEmail == "" && s.CustomerDetails != nil {
		sess.CustomerEmail = s.CustomerDetails.Email
	}

	return sess, nil
}
