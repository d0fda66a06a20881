package trips

import "freight-dispatch/internal/models"

// FareQuote is the priced result of one rate-card application.
type FareQuote struct {
	Snapshot     models.FareSnapshot
	CustomerCost float64
	DriverCost   float64
}

// Quote prices a trip against a rate card: cost = distance * km fare + base
// fare, computed independently for the customer and the driver side. A non-nil
// override replaces the corresponding base fare outright; per-km fares always
// come from the card. The returned snapshot records exactly the figures used,
// so the trip keeps its pricing after the card changes.
func Quote(card *models.VehicleType, distance float64, customerBaseOverride, driverBaseOverride *float64) FareQuote {
	customerBase := card.CustomerBaseFare
	if customerBaseOverride != nil {
		customerBase = *customerBaseOverride
	}
	driverBase := card.DriverBaseFare
	if driverBaseOverride != nil {
		driverBase = *driverBaseOverride
	}

	return FareQuote{
		Snapshot: models.FareSnapshot{
			CustomerBaseFare: customerBase,
			CustomerKmFare:   card.CustomerKmFare,
			DriverBaseFare:   driverBase,
			DriverKmFare:     card.DriverKmFare,
		},
		CustomerCost: distance*card.CustomerKmFare + customerBase,
		DriverCost:   distance*card.DriverKmFare + driverBase,
	}
}
