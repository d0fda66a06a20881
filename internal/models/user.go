package models

import "time"

// Role is the user's capability class. It replaces ad hoc string comparisons:
// handlers and services compare against these constants only.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

// UserStatus gates whether an account participates in dispatch.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User is an account of any role. Drivers additionally own vehicles, which is
// what makes them eligible for trip fan-out.
type User struct {
	ID           string     `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	Fullname     string     `json:"fullname,omitempty" db:"fullname"`
	ContactNo    string     `json:"contact_no" db:"contact_no"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Type         Role       `json:"type" db:"type"`
	Status       UserStatus `json:"status" db:"status"`
	Availability string     `json:"availability,omitempty" db:"availability"`
	FCMToken     string     `json:"-" db:"fcm_token"`
	// TotalCredits mirrors the sum of the user's credit ledger rows for fast
	// reads. The ledger is authoritative; this value is not.
	TotalCredits float64   `json:"total_credits" db:"total_credits"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Fullname  string `json:"fullname,omitempty" validate:"omitempty,max=100"`
	ContactNo string `json:"contact_no" validate:"required,min=7,max=15"`
	Password  string `json:"password" validate:"required,min=8"`
	Type      Role   `json:"type" validate:"omitempty,oneof=customer driver"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	FCMToken string `json:"fcm_token,omitempty"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// UserUpdateData defines the patchable profile fields.
type UserUpdateData struct {
	Fullname     *string `json:"fullname,omitempty" validate:"omitempty,max=100"`
	ContactNo    *string `json:"contact_no,omitempty" validate:"omitempty,min=7,max=15"`
	Availability *string `json:"availability,omitempty" validate:"omitempty,oneof=online offline"`
	FCMToken     *string `json:"fcm_token,omitempty"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}
