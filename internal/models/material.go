package models

import "time"

// Material is a cargo catalogue entry referenced by trips.
type Material struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Weight    float64   `json:"weight"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateMaterialRequest struct {
	Name   string  `json:"name" validate:"required,max=80"`
	Weight float64 `json:"weight" validate:"gte=0"`
	Type   string  `json:"type,omitempty" validate:"omitempty,max=40"`
}
