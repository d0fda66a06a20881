package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is the base class for malformed or missing input.
	// Services wrap it with detail: fmt.Errorf("%w: invalid pickup coordinates", models.ErrValidation).
	ErrValidation = errors.New("invalid input")

	// ErrTripNotSearching is returned when a dispatch action requires the trip
	// to still be in 'searching' and it is not (already assigned or cancelled).
	ErrTripNotSearching = errors.New("trip not found or already assigned")

	// ErrTripNotCancelled is returned when retry is requested for a trip that
	// is not in 'cancelled' state.
	ErrTripNotCancelled = errors.New("trip not found or not cancelled")

	// ErrAlreadyBookedSameDay is returned when a driver accepts a trip whose
	// pickup ETA falls on the same calendar day as a trip they already hold.
	ErrAlreadyBookedSameDay = errors.New("driver has already accepted a trip on this date")

	// ErrDuplicateMaterial is returned when a material with the same name
	// already exists in the catalogue.
	ErrDuplicateMaterial = errors.New("material type already exists")

	// ErrCreditNotOwned is returned when a credit row does not belong to the
	// requesting user.
	ErrCreditNotOwned = errors.New("credit not found or not owned by user")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrDuplicateUser is returned when the username or email is taken.
	ErrDuplicateUser = errors.New("username or email already registered")
)
