package trips

import (
	"testing"

	"freight-dispatch/internal/models"
)

func TestStageNumber(t *testing.T) {
	tests := []struct {
		status models.TripStatus
		want   int
	}{
		{models.TripSearching, 1},
		{models.TripScheduled, 2},
		{models.TripLoading, 3},
		{models.TripInTransit, 4},
		{models.TripUnloading, 5},
		{models.TripDelivered, 6},
		{models.TripCancelled, 7},
		{models.TripFailedDelivery, 8},
		{models.TripDelayed, 9},
		{models.TripReturned, 10},
		{models.TripStatus("bogus"), 0},
		{models.TripStatus(""), 0},
	}

	for _, tt := range tests {
		if got := StageNumber(tt.status); got != tt.want {
			t.Errorf("StageNumber(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(models.TripDelayed) {
		t.Error("delayed should be a valid status")
	}
	if ValidStatus(models.TripStatus("assigned")) {
		t.Error("assigned is not part of the lifecycle")
	}
}
