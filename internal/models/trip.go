package models

import "time"

// TripStatus is the wire-exact trip lifecycle enumeration.
type TripStatus string

const (
	TripSearching      TripStatus = "searching"
	TripScheduled      TripStatus = "scheduled"
	TripLoading        TripStatus = "loading"
	TripInTransit      TripStatus = "in_transit"
	TripUnloading      TripStatus = "unloading"
	TripDelivered      TripStatus = "delivered"
	TripCancelled      TripStatus = "cancelled"
	TripFailedDelivery TripStatus = "failed_delivery"
	TripDelayed        TripStatus = "delayed"
	TripReturned       TripStatus = "returned"
)

// ResponseStatus is one driver's decision for a given trip offer.
type ResponseStatus string

const (
	ResponsePending  ResponseStatus = "pending"
	ResponseAccepted ResponseStatus = "accepted"
	ResponseRejected ResponseStatus = "rejected"
)

// MaterialUnit is the cargo weight unit enumeration.
type MaterialUnit string

const (
	UnitKg    MaterialUnit = "Kg"
	UnitLitre MaterialUnit = "Litre"
	UnitTon   MaterialUnit = "Ton"
)

// FareSnapshot records the rate-card figures a trip was priced with. It is
// written once at creation and never recomputed, so historical trips keep
// their original pricing even after the rate card changes.
type FareSnapshot struct {
	CustomerBaseFare float64 `json:"customer_base_fare"`
	CustomerKmFare   float64 `json:"customer_km_fare"`
	DriverBaseFare   float64 `json:"driver_base_fare"`
	DriverKmFare     float64 `json:"driver_km_fare"`
}

// StatusStackEntry is one append-only record of a status transition. The
// stage number is a fixed display-ordering lookup, not a legality gate.
type StatusStackEntry struct {
	ID          int64      `json:"id"`
	TripID      string     `json:"trip_id"`
	StageNumber int        `json:"stage_number"`
	Status      TripStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DriverResponse is one candidate driver's pending/accepted/rejected record.
// Rows are append-only: a retry fan-out adds new pending rows and never
// rewrites the rejected ones.
type DriverResponse struct {
	ID          int64          `json:"id"`
	TripID      string         `json:"trip_id"`
	DriverID    string         `json:"driver_id"`
	Response    ResponseStatus `json:"response"`
	RespondedAt *time.Time     `json:"responded_at"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Trip is the central aggregate: route, cargo, pricing snapshot, dispatch
// state and settlement flags.
type Trip struct {
	ID     string  `json:"id"`
	UserID string  `json:"user_id"`
	Driver *string `json:"driver,omitempty"`

	VehicleTypeID   string  `json:"vehicle_type"`
	VehicleDetailID *string `json:"vehicle_details,omitempty"`

	MaterialID     string       `json:"material"`
	MaterialUnit   MaterialUnit `json:"material_unit"`
	Weight         float64      `json:"weight"`
	MaterialWidth  float64      `json:"material_width,omitempty"`
	MaterialHeight float64      `json:"material_height,omitempty"`

	Distance         float64      `json:"distance"`
	TripCostCustomer float64      `json:"trip_cost_customer"`
	TripCostDriver   float64      `json:"trip_cost_driver"`
	FareUsed         FareSnapshot `json:"fare_used"`

	From          string   `json:"from"`
	To            string   `json:"to"`
	FromLatitude  float64  `json:"from_latitude"`
	FromLongitude float64  `json:"from_longitude"`
	ToLatitude    *float64 `json:"to_latitude,omitempty"`
	ToLongitude   *float64 `json:"to_longitude,omitempty"`

	ETAPickup          *time.Time `json:"eta_pickup,omitempty"`
	AlternateContactNo string     `json:"alternate_contact_no,omitempty"`
	Assistants         int        `json:"assisstant"`

	Status     TripStatus `json:"status"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`

	IsPaymentDone      bool    `json:"is_payment_done"`
	TotalTollTaxAmount float64 `json:"total_toll_tax_amount"`
	CustomerFreight    float64 `json:"customer_freight"`
	DriverFreight      float64 `json:"driver_freight"`
	AppCharges         float64 `json:"app_charges"`

	PotentialDrivers []string           `json:"potential_drivers"`
	DriverResponses  []DriverResponse   `json:"driver_responses,omitempty"`
	StatusStack      []StatusStackEntry `json:"status_stack,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTripRequest is the customer-facing creation payload.
type CreateTripRequest struct {
	Distance           float64      `json:"distance" validate:"required,gt=0"`
	From               string       `json:"from" validate:"required"`
	To                 string       `json:"to" validate:"required"`
	Material           string       `json:"material" validate:"required"`
	MaterialUnit       MaterialUnit `json:"material_unit" validate:"required,oneof=Kg Litre Ton"`
	Weight             float64      `json:"weight" validate:"required,gt=0"`
	VehicleType        string       `json:"vehicle_type" validate:"required"`
	FromLatitude       float64      `json:"from_latitude" validate:"latitude"`
	FromLongitude      float64      `json:"from_longitude" validate:"longitude"`
	ToLatitude         *float64     `json:"to_latitude,omitempty" validate:"omitempty,latitude"`
	ToLongitude        *float64     `json:"to_longitude,omitempty" validate:"omitempty,longitude"`
	ETAPickup          *time.Time   `json:"eta_pickup,omitempty"`
	AlternateContactNo string       `json:"alternate_contact_no,omitempty"`
	Assistants         int          `json:"assisstant" validate:"gte=0,lte=5"`
}

// AdminCreateTripRequest extends creation with base-fare overrides and an
// optional pre-assigned driver, which bypasses fan-out entirely.
type AdminCreateTripRequest struct {
	CreateTripRequest
	UserID           string   `json:"user" validate:"required"`
	DriverID         *string  `json:"driver,omitempty"`
	CustomerBaseFare *float64 `json:"customer_base_fare,omitempty" validate:"omitempty,gte=0"`
	DriverBaseFare   *float64 `json:"driver_base_fare,omitempty" validate:"omitempty,gte=0"`
	MaterialWidth    float64  `json:"material_width,omitempty"`
	MaterialHeight   float64  `json:"material_height,omitempty"`
}

// RespondRequest carries a driver's accept/reject decision.
type RespondRequest struct {
	TripID   string `json:"trip_id" validate:"required"`
	Response string `json:"response" validate:"required,oneof=accept reject"`
}

// AssignDriverRequest is the admin manual-assignment payload.
type AssignDriverRequest struct {
	TripID   string `json:"trip_id" validate:"required"`
	DriverID string `json:"driver_id" validate:"required"`
}

// UpdateTripRequest is the generic field patch. Status changes append to the
// status stack; UserStatus triggers the credit settlement side effect.
type UpdateTripRequest struct {
	AlternateContactNo *string       `json:"alternate_contact_no,omitempty"`
	Material           *string       `json:"material,omitempty"`
	MaterialUnit       *MaterialUnit `json:"material_unit,omitempty" validate:"omitempty,oneof=Kg Litre Ton"`
	Weight             *float64      `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Status             *TripStatus   `json:"status,omitempty"`
	IsPaymentDone      *bool         `json:"is_payment_done,omitempty"`
	Assistants         *int          `json:"assisstant,omitempty" validate:"omitempty,gte=0,lte=5"`
	VehicleDetailID    *string       `json:"vehicle_details,omitempty"`
	ETAPickup          *time.Time    `json:"eta_pickup,omitempty"`
	FromLatitude       *float64      `json:"from_latitude,omitempty" validate:"omitempty,latitude"`
	FromLongitude      *float64      `json:"from_longitude,omitempty" validate:"omitempty,longitude"`
	ToLatitude         *float64      `json:"to_latitude,omitempty" validate:"omitempty,latitude"`
	ToLongitude        *float64      `json:"to_longitude,omitempty" validate:"omitempty,longitude"`
	TotalTollTaxAmount *float64      `json:"total_toll_tax_amount,omitempty"`
	CustomerFreight    *float64      `json:"customer_freight,omitempty"`
	DriverFreight      *float64      `json:"driver_freight,omitempty"`
	AppCharges         *float64      `json:"app_charges,omitempty"`
	// UserStatus, when true, settles the trip: debits the customer and
	// credits the driver on the ledger. Not idempotent.
	UserStatus bool `json:"user_status,omitempty"`
}

// TripFilter narrows trip list queries.
type TripFilter struct {
	UserID          string
	Status          TripStatus
	MaterialID      string
	VehicleDetailID string
	Assistants      *int
	Tab             string // "booking" or "history"
	Search          string
	DriverID        string
	DriverResponse  ResponseStatus
}

// DispatchResult reports a fan-out round back to the caller.
type DispatchResult struct {
	Trip             *Trip    `json:"trip"`
	AvailableDrivers int      `json:"available_drivers"`
	NotifiedDrivers  []string `json:"notified_drivers"`
}
