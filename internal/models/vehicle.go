package models

import "time"

// VehicleType is the rate card: one record per truck class holding the base
// and per-km fares for both the customer and the driver side.
type VehicleType struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Wheeler               int       `json:"wheeler"`
	Capacity              float64   `json:"capacity"`
	Unit                  string    `json:"unit"`
	CustomerBaseFare      float64   `json:"customer_base_fare"`
	CustomerKmFare        float64   `json:"customer_km_fare"`
	CustomerBaseFareMargin float64  `json:"customer_base_fare_margin"`
	CustomerKmFareMargin  float64   `json:"customer_km_fare_margin"`
	DriverBaseFare        float64   `json:"driver_base_fare"`
	DriverKmFare          float64   `json:"driver_km_fare"`
	DriverBaseFareMargin  float64   `json:"driver_base_fare_margin"`
	DriverKmFareMargin    float64   `json:"driver_km_fare_margin"`
	VehicleImage          string    `json:"vehicle_image,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Vehicle is one truck owned by a driver.
type Vehicle struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user"`
	VehicleTypeID string    `json:"vehicle_type"`
	VehicleNo     string    `json:"vehicle_no"`
	Weight        float64   `json:"weight"`
	Length        string    `json:"length,omitempty"`
	Width         string    `json:"width,omitempty"`
	Height        string    `json:"height,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateVehicleTypeRequest struct {
	Name             string  `json:"name" validate:"required,max=60"`
	Wheeler          int     `json:"wheeler" validate:"required,gt=0"`
	Capacity         float64 `json:"capacity" validate:"required,gt=0"`
	Unit             string  `json:"unit" validate:"required,oneof=Kg Litre Ton"`
	CustomerBaseFare float64 `json:"customer_base_fare" validate:"gte=0"`
	CustomerKmFare   float64 `json:"customer_km_fare" validate:"gte=0"`
	DriverBaseFare   float64 `json:"driver_base_fare" validate:"gte=0"`
	DriverKmFare     float64 `json:"driver_km_fare" validate:"gte=0"`
	VehicleImage     string  `json:"vehicle_image,omitempty"`
}

type UpdateVehicleTypeRequest struct {
	Name             *string  `json:"name,omitempty" validate:"omitempty,max=60"`
	CustomerBaseFare *float64 `json:"customer_base_fare,omitempty" validate:"omitempty,gte=0"`
	CustomerKmFare   *float64 `json:"customer_km_fare,omitempty" validate:"omitempty,gte=0"`
	DriverBaseFare   *float64 `json:"driver_base_fare,omitempty" validate:"omitempty,gte=0"`
	DriverKmFare     *float64 `json:"driver_km_fare,omitempty" validate:"omitempty,gte=0"`
	VehicleImage     *string  `json:"vehicle_image,omitempty"`
}

type CreateVehicleRequest struct {
	VehicleTypeID string  `json:"vehicle_type" validate:"required"`
	VehicleNo     string  `json:"vehicle_no" validate:"required,max=20"`
	Weight        float64 `json:"weight" validate:"gte=0"`
	Length        string  `json:"length,omitempty"`
	Width         string  `json:"width,omitempty"`
	Height        string  `json:"height,omitempty"`
}
