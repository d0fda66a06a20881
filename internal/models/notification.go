package models

import "time"

// NotificationType classifies why a notification row exists.
type NotificationType string

const (
	NotifyTripRequest NotificationType = "trip_request"
	NotifyTripUpdate  NotificationType = "trip_update"
	NotifyPayment     NotificationType = "payment"
	NotifySystem      NotificationType = "system"
)

// NotifyTo says which side of the trip the row addresses.
type NotifyTo string

const (
	NotifyToDriver   NotifyTo = "driver"
	NotifyToCustomer NotifyTo = "customer"
)

// GeoPoint is a labelled coordinate pair, [longitude, latitude] on the wire.
type GeoPoint struct {
	Path        string     `json:"path"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FareFigures is the customer/driver cost pair snapshotted into metadata.
type FareFigures struct {
	Customer float64 `json:"customer"`
	Driver   float64 `json:"driver"`
}

// NotificationMetadata is the structured trip snapshot carried by every
// dispatch notification. It is validated on write and stored as jsonb; no
// free-form maps.
type NotificationMetadata struct {
	TripID       string       `json:"trip_id"`
	FromLocation *GeoPoint    `json:"from_location,omitempty"`
	ToLocation   *GeoPoint    `json:"to_location,omitempty"`
	Distance     float64      `json:"distance,omitempty"`
	Fare         FareFigures  `json:"fare"`
	Weight       float64      `json:"weight,omitempty"`
	MaterialUnit MaterialUnit `json:"material_unit,omitempty"`
}

// Notification is the durable record of what was offered to whom. It answers
// "what did I send this driver and did they respond" independent of whether
// the push was ever delivered.
type Notification struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user"`
	Title        string                `json:"title"`
	Message      string                `json:"message"`
	Type         NotificationType      `json:"type"`
	IsRead       bool                  `json:"is_read"`
	RelatedTrip  *string               `json:"related_trip,omitempty"`
	NotifyTo     NotifyTo              `json:"notify_to"`
	UserResponse *ResponseStatus       `json:"user_response,omitempty"`
	Metadata     *NotificationMetadata `json:"metadata,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// NotificationFilter narrows inbox queries.
type NotificationFilter struct {
	UserID   string
	NotifyTo NotifyTo
	TripID   string
	Response ResponseStatus
}
