package trips

import "freight-dispatch/internal/models"

// hasPendingResponse reports whether the driver holds an open offer row for
// the trip. Accepting requires one: a driver who was never offered the trip
// cannot claim it.
func hasPendingResponse(responses []models.DriverResponse, driverID string) bool {
	for _, r := range responses {
		if r.DriverID == driverID && r.Response == models.ResponsePending {
			return true
		}
	}
	return false
}

// allRejected reports whether every candidate response row is rejected. This
// is the cancellation decision: the moment the last open offer turns into a
// rejection, the trip has nobody left. An empty set never cancels.
func allRejected(responses []models.DriverResponse) bool {
	if len(responses) == 0 {
		return false
	}
	for _, r := range responses {
		if r.Response != models.ResponseRejected {
			return false
		}
	}
	return true
}
