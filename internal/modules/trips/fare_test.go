package trips

import (
	"testing"

	"freight-dispatch/internal/models"
)

func TestQuote(t *testing.T) {
	card := &models.VehicleType{
		CustomerBaseFare: 500,
		CustomerKmFare:   20,
		DriverBaseFare:   400,
		DriverKmFare:     15,
	}

	override := func(v float64) *float64 { return &v }

	tests := []struct {
		name             string
		distance         float64
		customerBase     *float64
		driverBase       *float64
		wantCustomerCost float64
		wantDriverCost   float64
	}{
		{
			name:             "card fares",
			distance:         100,
			wantCustomerCost: 2500, // 100*20 + 500
			wantDriverCost:   1900, // 100*15 + 400
		},
		{
			name:             "zero distance is base fare only",
			distance:         0,
			wantCustomerCost: 500,
			wantDriverCost:   400,
		},
		{
			name:             "customer base override replaces card base",
			distance:         10,
			customerBase:     override(1000),
			wantCustomerCost: 1200, // 10*20 + 1000
			wantDriverCost:   550,
		},
		{
			name:             "both overrides",
			distance:         10,
			customerBase:     override(0),
			driverBase:       override(50),
			wantCustomerCost: 200,
			wantDriverCost:   200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := Quote(card, tt.distance, tt.customerBase, tt.driverBase)
			if quote.CustomerCost != tt.wantCustomerCost {
				t.Errorf("customer cost = %v, want %v", quote.CustomerCost, tt.wantCustomerCost)
			}
			if quote.DriverCost != tt.wantDriverCost {
				t.Errorf("driver cost = %v, want %v", quote.DriverCost, tt.wantDriverCost)
			}
			// Per-km fares always come from the card.
			if quote.Snapshot.CustomerKmFare != card.CustomerKmFare {
				t.Errorf("snapshot customer km fare = %v, want %v", quote.Snapshot.CustomerKmFare, card.CustomerKmFare)
			}
			if quote.Snapshot.DriverKmFare != card.DriverKmFare {
				t.Errorf("snapshot driver km fare = %v, want %v", quote.Snapshot.DriverKmFare, card.DriverKmFare)
			}
		})
	}
}

func TestQuoteSnapshotRecordsOverride(t *testing.T) {
	card := &models.VehicleType{CustomerBaseFare: 500, CustomerKmFare: 20, DriverBaseFare: 400, DriverKmFare: 15}
	base := 750.0

	quote := Quote(card, 50, &base, nil)
	if quote.Snapshot.CustomerBaseFare != 750 {
		t.Errorf("snapshot customer base = %v, want 750", quote.Snapshot.CustomerBaseFare)
	}
	if quote.Snapshot.DriverBaseFare != 400 {
		t.Errorf("snapshot driver base = %v, want 400", quote.Snapshot.DriverBaseFare)
	}
}
