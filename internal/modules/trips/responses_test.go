package trips

import (
	"testing"

	"freight-dispatch/internal/models"
)

func responseRow(driverID string, status models.ResponseStatus) models.DriverResponse {
	return models.DriverResponse{TripID: "trip-1", DriverID: driverID, Response: status}
}

func TestHasPendingResponse(t *testing.T) {
	rows := []models.DriverResponse{
		responseRow("drv-1", models.ResponsePending),
		responseRow("drv-2", models.ResponseRejected),
	}

	tests := []struct {
		name     string
		driverID string
		want     bool
	}{
		{"open offer", "drv-1", true},
		{"already rejected", "drv-2", false},
		{"never offered", "drv-999", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasPendingResponse(rows, tt.driverID); got != tt.want {
				t.Errorf("hasPendingResponse(%q) = %v, want %v", tt.driverID, got, tt.want)
			}
		})
	}

	t.Run("no rows at all", func(t *testing.T) {
		if hasPendingResponse(nil, "drv-1") {
			t.Error("empty response set must not grant an offer")
		}
	})
}

// Cancellation must fire exactly when the last candidate rejects, no matter
// which order the rejections land in. Walks every rejection order of three
// candidates and checks the decision after each step.
func TestAllRejectedOrderIndependent(t *testing.T) {
	drivers := []string{"drv-1", "drv-2", "drv-3"}
	orders := [][]int{
		{0, 1, 2}, {0, 2, 1},
		{1, 0, 2}, {1, 2, 0},
		{2, 0, 1}, {2, 1, 0},
	}

	for _, order := range orders {
		rows := []models.DriverResponse{
			responseRow(drivers[0], models.ResponsePending),
			responseRow(drivers[1], models.ResponsePending),
			responseRow(drivers[2], models.ResponsePending),
		}
		for step, idx := range order {
			rows[idx].Response = models.ResponseRejected
			got := allRejected(rows)
			want := step == len(order)-1
			if got != want {
				t.Errorf("order %v step %d: allRejected = %v, want %v", order, step, got, want)
			}
		}
	}
}

func TestAllRejectedNeverCancelsWithAcceptedRow(t *testing.T) {
	rows := []models.DriverResponse{
		responseRow("drv-1", models.ResponseAccepted),
		responseRow("drv-2", models.ResponseRejected),
		responseRow("drv-3", models.ResponseRejected),
	}
	if allRejected(rows) {
		t.Error("a trip with an accepted row must never be cancelled by rejections")
	}
}

func TestAllRejectedEmptySet(t *testing.T) {
	if allRejected(nil) {
		t.Error("a trip with no candidates must not auto-cancel")
	}
}
