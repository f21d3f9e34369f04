// README: FCM push sender for ride offers.

// Package notify pushes ride offers to partner devices over FCM.
// Delivery is best effort; the dispatch protocol never depends on it.
package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"ryde/internal/modules/trip"
)

// FCMService sends offer notifications via Firebase Cloud Messaging.
type FCMService struct {
	client *messaging.Client
}

// NewFCMService initialises the Firebase Admin SDK. If credentialsFile is
// non-empty it is used as the service-account JSON path; otherwise
// application-default credentials are used.
func NewFCMService(ctx context.Context, projectID, credentialsFile string) (*FCMService, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Messaging: %w", err)
	}
	return &FCMService{client: client}, nil
}

// OfferCreated sends an FCM data message for a fresh reservation to the
// partner's device. The deviceToken must be resolved by the caller.
func (s *FCMService) OfferCreated(ctx context.Context, deviceToken string, t *trip.Trip) error {
	if deviceToken == "" {
		return fmt.Errorf("empty device token for trip %s", string(t.ID))
	}

	msg := &messaging.Message{
		Token: deviceToken,
		Data: map[string]string{
			"type":        "ride_offer",
			"trip_id":     string(t.ID),
			"pickup_lat":  strconv.FormatFloat(t.Origin.Lat, 'f', 6, 64),
			"pickup_lng":  strconv.FormatFloat(t.Origin.Lng, 'f', 6, 64),
			"dropoff_lat": strconv.FormatFloat(t.Destination.Lat, 'f', 6, 64),
			"dropoff_lng": strconv.FormatFloat(t.Destination.Lng, 'f', 6, 64),
			"payment":     string(t.Payment),
		},
		Notification: &messaging.Notification{
			Title: "New ride request",
			Body:  "A pickup near you is waiting for a driver",
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	messageID, err := s.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending FCM to token %s: %w", deviceToken, err)
	}

	log.Printf("FCM offer sent for trip %s, message_id=%s", string(t.ID), messageID)
	return nil
}
