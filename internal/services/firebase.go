package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Notifier sends push notifications through Firebase Cloud Messaging.
// A Notifier built without credentials is a no-op so deployments without
// Firebase keep working.
type Notifier struct {
	client *messaging.Client
}

// NewNotifier initializes the FCM client from a service account file.
func NewNotifier(ctx context.Context, credentialsPath string) (*Notifier, error) {
	if credentialsPath == "" {
		logrus.Warn("FIREBASE_SERVICE_ACCOUNT_PATH not set, push notifications disabled")
		return &Notifier{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %v", err)
	}

	logrus.Info("Firebase Cloud Messaging initialized")
	return &Notifier{client: client}, nil
}

func (n *Notifier) send(ctx context.Context, token, title, body string, data map[string]string) error {
	if n.client == nil || token == "" {
		return nil
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: token,
	}

	response, err := n.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending message: %v", err)
	}

	logrus.Debugf("sent notification %s", response)
	return nil
}

// SendPaymentSettled notifies a sender that their parcel payment went through.
func (n *Notifier) SendPaymentSettled(ctx context.Context, token, parcelName, trackingID string) error {
	return n.send(ctx, token,
		"Payment received",
		fmt.Sprintf("Payment for %s is confirmed. Tracking id: %s", parcelName, trackingID),
		map[string]string{
			"type":       "payment_settled",
			"trackingId": trackingID,
		})
}

// SendRiderDecision notifies an applicant about their rider application.
func (n *Notifier) SendRiderDecision(ctx context.Context, token, status string) error {
	body := "Your rider application was not approved this time."
	if status == "approved" {
		body = "You are approved! You can start accepting deliveries."
	}

	return n.send(ctx, token,
		"Rider application update",
		body,
		map[string]string{
			"type":   "rider_decision",
			"status": status,
		})
}
