// Package notify delivers best-effort push notifications through FCM.
// Delivery failure is never allowed to fail a dispatch operation: callers log
// the returned error and move on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// TripOffer is the payload for a new trip pushed to a candidate driver.
type TripOffer struct {
	TripID           string
	TripCostCustomer float64
	TripCostDriver   float64
	From             string
	To               string
	ETAPickup        string
}

// Sender is the gateway the dispatch engine talks to.
type Sender interface {
	// SendTripOffer pushes a new trip request to a driver's device.
	SendTripOffer(ctx context.Context, token string, offer TripOffer) error
	// SendAssignment tells the customer a driver accepted their trip.
	SendAssignment(ctx context.Context, token string, tripID string) error
	// SendClosure tells a losing candidate the trip went to another driver.
	SendClosure(ctx context.Context, token string, tripID string) error
	// SendAlert pushes a plain title/body message.
	SendAlert(ctx context.Context, token, title, body string) error
}

// FCMSender posts data-only messages to the FCM legacy HTTP endpoint.
type FCMSender struct {
	serverKey string
	endpoint  string
	client    *http.Client
}

type fcmMessage struct {
	To   string            `json:"to"`
	Data map[string]string `json:"data"`
}

// NewFCMSender builds the gateway. The endpoint is configurable so tests can
// point it at a local server.
func NewFCMSender(serverKey, endpoint string) *FCMSender {
	return &FCMSender{
		serverKey: serverKey,
		endpoint:  endpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FormatLocation truncates long place labels for notification display.
// Truncation counts runes so multi-byte place names are never cut mid
// character.
func FormatLocation(location string) string {
	r := []rune(location)
	if len(r) >= 25 {
		return string(r[:25]) + "..."
	}
	return location
}

func (s *FCMSender) SendTripOffer(ctx context.Context, token string, offer TripOffer) error {
	data := map[string]string{
		"title":         "New Trip Requested",
		"body":          fmt.Sprintf("Amount | %.0f | %s -> %s", offer.TripCostDriver, FormatLocation(offer.From), FormatLocation(offer.To)),
		"trip_id":       offer.TripID,
		"cost_customer": strconv.FormatFloat(offer.TripCostCustomer, 'f', -1, 64),
		"cost_driver":   strconv.FormatFloat(offer.TripCostDriver, 'f', -1, 64),
		"source":        offer.From,
		"destination":   offer.To,
		"eta_pickup":    offer.ETAPickup,
		"type":          "request",
		"showButtons":   "true",
	}
	return s.post(ctx, token, data)
}

func (s *FCMSender) SendAssignment(ctx context.Context, token string, tripID string) error {
	return s.post(ctx, token, map[string]string{
		"title":    "Driver Assigned",
		"body":     "A driver has accepted your trip request",
		"trip_id":  tripID,
		"type":     "assignment",
		"response": "accepted",
	})
}

func (s *FCMSender) SendClosure(ctx context.Context, token string, tripID string) error {
	return s.post(ctx, token, map[string]string{
		"title":   "Trip Assigned",
		"body":    fmt.Sprintf("Trip %s has been assigned to another driver", tripID),
		"trip_id": tripID,
		"type":    "closed",
	})
}

func (s *FCMSender) SendAlert(ctx context.Context, token, title, body string) error {
	return s.post(ctx, token, map[string]string{
		"title": title,
		"body":  body,
		"type":  "alert",
	})
}

func (s *FCMSender) post(ctx context.Context, token string, data map[string]string) error {
	body, err := json.Marshal(fcmMessage{To: token, Data: data})
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Authorization", "key="+s.serverKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notify: fcm returned %s", resp.Status)
	}
	return nil
}
