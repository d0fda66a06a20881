package models

import "time"

// CreditStackType distinguishes manual top-ups from trip settlements.
type CreditStackType string

const (
	CreditOwn  CreditStackType = "own_credit"
	CreditTrip CreditStackType = "trip_credit"
)

// Credit is one immutable ledger row. A user's balance is the sum of their
// rows; rows are never mutated after insert.
type Credit struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user"`
	Amount    float64         `json:"amount"`
	TripID    *string         `json:"trip,omitempty"`
	StackType CreditStackType `json:"stack_type"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateCreditRequest struct {
	Amount float64 `json:"amount" validate:"required"`
}
