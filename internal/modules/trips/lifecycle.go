package trips

import "freight-dispatch/internal/models"

// stageNumbers fixes the display ordering of the trip lifecycle. It is a
// presentation lookup only: transitions are not validated against it.
var stageNumbers = map[models.TripStatus]int{
	models.TripSearching:      1,
	models.TripScheduled:      2,
	models.TripLoading:        3,
	models.TripInTransit:      4,
	models.TripUnloading:      5,
	models.TripDelivered:      6,
	models.TripCancelled:      7,
	models.TripFailedDelivery: 8,
	models.TripDelayed:        9,
	models.TripReturned:       10,
}

// StageNumber returns the fixed stage index for a status, or 0 when the
// status is unknown.
func StageNumber(status models.TripStatus) int {
	return stageNumbers[status]
}

// ValidStatus reports whether the given status is part of the lifecycle.
func ValidStatus(status models.TripStatus) bool {
	_, ok := stageNumbers[status]
	return ok
}
