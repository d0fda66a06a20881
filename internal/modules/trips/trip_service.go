package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight-dispatch/internal/models"
	"freight-dispatch/pkg/logger"
	"freight-dispatch/pkg/notify"
)

// CandidateResolver yields the drivers eligible for a trip's vehicle type,
// and resolves the vehicle a claiming driver will run it with. The vehicles
// module provides the production implementation.
type CandidateResolver interface {
	EligibleDrivers(ctx context.Context, vehicleTypeID string) ([]string, error)
	DriverVehicleOfType(ctx context.Context, driverID, vehicleTypeID string) (string, error)
}

// RateCardSource yields the pricing card for a vehicle type.
type RateCardSource interface {
	GetType(ctx context.Context, typeID string) (*models.VehicleType, error)
}

// MaterialCatalogue confirms that a referenced material exists.
type MaterialCatalogue interface {
	Get(ctx context.Context, materialID string) (*models.Material, error)
}

// UserDirectory resolves accounts and their device tokens.
type UserDirectory interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]models.User, error)
}

// NotificationRecorder persists the durable record of every offer and update,
// independent of push delivery.
type NotificationRecorder interface {
	Record(ctx context.Context, n *models.Notification) error
	MarkResponse(ctx context.Context, tripID, userID string, response models.ResponseStatus) error
}

// CreditLedger applies the trip settlement: debit the customer, credit the
// driver.
type CreditLedger interface {
	SettleTrip(ctx context.Context, tripID, customerID string, customerAmount float64, driverID string, driverAmount float64) error
}

// ServiceInterface is the dispatch engine's public surface.
type ServiceInterface interface {
	CreateTrip(ctx context.Context, userID string, req models.CreateTripRequest) (*models.DispatchResult, error)
	CreateTripByAdmin(ctx context.Context, req models.AdminCreateTripRequest) (*models.DispatchResult, error)
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	ListTrips(ctx context.Context, filter models.TripFilter, page, limit int) ([]models.Trip, error)

	Respond(ctx context.Context, driverID string, req models.RespondRequest) (*models.Trip, error)
	AssignDriver(ctx context.Context, req models.AssignDriverRequest) (*models.Trip, error)
	RetryTrip(ctx context.Context, tripID string) (*models.DispatchResult, error)
	EditTrip(ctx context.Context, tripID string, req models.UpdateTripRequest) (*models.Trip, error)

	SendPickupReminders(ctx context.Context, now time.Time) error
	StartReminderLoop(ctx context.Context)
}

type Service struct {
	repo          RepositoryInterface
	resolver      CandidateResolver
	rateCards     RateCardSource
	materials     MaterialCatalogue
	users         UserDirectory
	notifications NotificationRecorder
	ledger        CreditLedger
	pusher        notify.Sender
	log           logger.ILogger
}

func NewService(
	repo RepositoryInterface,
	resolver CandidateResolver,
	rateCards RateCardSource,
	materials MaterialCatalogue,
	users UserDirectory,
	notifications NotificationRecorder,
	ledger CreditLedger,
	pusher notify.Sender,
	log logger.ILogger,
) ServiceInterface {
	return &Service{
		repo:          repo,
		resolver:      resolver,
		rateCards:     rateCards,
		materials:     materials,
		users:         users,
		notifications: notifications,
		ledger:        ledger,
		pusher:        pusher,
		log:           log,
	}
}

func (s *Service) CreateTrip(ctx context.Context, userID string, req models.CreateTripRequest) (*models.DispatchResult, error) {
	trip, err := s.buildTrip(ctx, userID, req, nil, nil)
	if err != nil {
		return nil, err
	}

	candidates, err := s.resolver.EligibleDrivers(ctx, req.VehicleType)
	if err != nil {
		return nil, fmt.Errorf("service.CreateTrip: %w", err)
	}
	trip.PotentialDrivers = candidates

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("service.CreateTrip: %w", err)
	}

	notified := s.fanOut(ctx, created, candidates)
	s.log.Info("trip dispatched",
		logger.String("trip_id", created.ID),
		logger.Int("candidates", len(candidates)),
		logger.Int("notified", len(notified)))

	return &models.DispatchResult{
		Trip:             created,
		AvailableDrivers: len(candidates),
		NotifiedDrivers:  notified,
	}, nil
}

func (s *Service) CreateTripByAdmin(ctx context.Context, req models.AdminCreateTripRequest) (*models.DispatchResult, error) {
	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("service.CreateTripByAdmin: customer: %w", err)
	}

	trip, err := s.buildTrip(ctx, req.UserID, req.CreateTripRequest, req.CustomerBaseFare, req.DriverBaseFare)
	if err != nil {
		return nil, err
	}
	trip.MaterialWidth = req.MaterialWidth
	trip.MaterialHeight = req.MaterialHeight

	// A pre-assigned driver bypasses fan-out entirely: the trip is born
	// scheduled and no candidate rows are written.
	if req.DriverID != nil {
		driver, err := s.users.FindByID(ctx, *req.DriverID)
		if err != nil {
			return nil, fmt.Errorf("service.CreateTripByAdmin: driver: %w", err)
		}
		if trip.ETAPickup != nil {
			if err := s.checkSameDayBooking(ctx, driver, *trip.ETAPickup); err != nil {
				return nil, err
			}
		}

		now := time.Now()
		trip.Driver = req.DriverID
		trip.Status = models.TripScheduled
		trip.AssignedAt = &now
		trip.VehicleDetailID = s.driverVehicle(ctx, driver.ID, req.VehicleType)

		created, err := s.repo.Create(ctx, trip)
		if err != nil {
			return nil, fmt.Errorf("service.CreateTripByAdmin: %w", err)
		}

		s.recordAndPushAssignment(ctx, created, driver)
		s.notifyCustomerAssignment(ctx, created)
		return &models.DispatchResult{Trip: created, NotifiedDrivers: []string{driver.ID}}, nil
	}

	candidates, err := s.resolver.EligibleDrivers(ctx, req.VehicleType)
	if err != nil {
		return nil, fmt.Errorf("service.CreateTripByAdmin: %w", err)
	}
	trip.PotentialDrivers = candidates

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("service.CreateTripByAdmin: %w", err)
	}

	notified := s.fanOut(ctx, created, candidates)
	return &models.DispatchResult{
		Trip:             created,
		AvailableDrivers: len(candidates),
		NotifiedDrivers:  notified,
	}, nil
}

// buildTrip validates the references, prices the trip and assembles the
// aggregate in its initial searching state.
func (s *Service) buildTrip(ctx context.Context, userID string, req models.CreateTripRequest, customerBaseOverride, driverBaseOverride *float64) (*models.Trip, error) {
	if err := validateCoordinate(req.FromLatitude, req.FromLongitude); err != nil {
		return nil, err
	}
	if req.ToLatitude != nil || req.ToLongitude != nil {
		if req.ToLatitude == nil || req.ToLongitude == nil {
			return nil, fmt.Errorf("%w: destination coordinates must come as a pair", models.ErrValidation)
		}
		if err := validateCoordinate(*req.ToLatitude, *req.ToLongitude); err != nil {
			return nil, err
		}
	}

	card, err := s.rateCards.GetType(ctx, req.VehicleType)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown vehicle type", models.ErrValidation)
		}
		return nil, fmt.Errorf("service.buildTrip: %w", err)
	}
	if _, err := s.materials.Get(ctx, req.Material); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown material", models.ErrValidation)
		}
		return nil, fmt.Errorf("service.buildTrip: %w", err)
	}

	quote := Quote(card, req.Distance, customerBaseOverride, driverBaseOverride)

	return &models.Trip{
		UserID:             userID,
		VehicleTypeID:      req.VehicleType,
		MaterialID:         req.Material,
		MaterialUnit:       req.MaterialUnit,
		Weight:             req.Weight,
		Distance:           req.Distance,
		TripCostCustomer:   quote.CustomerCost,
		TripCostDriver:     quote.DriverCost,
		FareUsed:           quote.Snapshot,
		From:               req.From,
		To:                 req.To,
		FromLatitude:       req.FromLatitude,
		FromLongitude:      req.FromLongitude,
		ToLatitude:         req.ToLatitude,
		ToLongitude:        req.ToLongitude,
		ETAPickup:          req.ETAPickup,
		AlternateContactNo: req.AlternateContactNo,
		Assistants:         req.Assistants,
		Status:             models.TripSearching,
	}, nil
}

func validateCoordinate(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", models.ErrValidation, lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", models.ErrValidation, lng)
	}
	return nil
}

// fanOut records a notification row per candidate and pushes the offer to
// each device. Push failures are logged and swallowed: the durable rows are
// the source of truth, delivery is best effort.
func (s *Service) fanOut(ctx context.Context, trip *models.Trip, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	drivers, err := s.users.ListByIDs(ctx, candidates)
	if err != nil {
		s.log.Error("failed to load candidate drivers",
			logger.String("trip_id", trip.ID), logger.Error(err))
		return nil
	}

	offer := notify.TripOffer{
		TripID:           trip.ID,
		TripCostCustomer: trip.TripCostCustomer,
		TripCostDriver:   trip.TripCostDriver,
		From:             trip.From,
		To:               trip.To,
	}
	if trip.ETAPickup != nil {
		offer.ETAPickup = trip.ETAPickup.Format(time.RFC3339)
	}

	var notified []string
	for i := range drivers {
		driver := &drivers[i]

		n := s.offerNotification(trip, driver.ID)
		if err := s.notifications.Record(ctx, n); err != nil {
			s.log.Error("failed to record trip offer",
				logger.String("trip_id", trip.ID),
				logger.String("driver_id", driver.ID),
				logger.Error(err))
			continue
		}

		if driver.FCMToken == "" {
			continue
		}
		if err := s.pusher.SendTripOffer(ctx, driver.FCMToken, offer); err != nil {
			s.log.Warn("trip offer push failed",
				logger.String("trip_id", trip.ID),
				logger.String("driver_id", driver.ID),
				logger.Error(err))
			continue
		}
		notified = append(notified, driver.ID)
	}
	return notified
}

func tripMetadata(trip *models.Trip) *models.NotificationMetadata {
	meta := &models.NotificationMetadata{
		TripID: trip.ID,
		FromLocation: &models.GeoPoint{
			Path:        trip.From,
			Coordinates: [2]float64{trip.FromLongitude, trip.FromLatitude},
		},
		Distance:     trip.Distance,
		Fare:         models.FareFigures{Customer: trip.TripCostCustomer, Driver: trip.TripCostDriver},
		Weight:       trip.Weight,
		MaterialUnit: trip.MaterialUnit,
	}
	if trip.ToLatitude != nil && trip.ToLongitude != nil {
		meta.ToLocation = &models.GeoPoint{
			Path:        trip.To,
			Coordinates: [2]float64{*trip.ToLongitude, *trip.ToLatitude},
		}
	}
	return meta
}

func (s *Service) offerNotification(trip *models.Trip, driverID string) *models.Notification {
	return &models.Notification{
		UserID:      driverID,
		Title:       "New Trip Requested",
		Message:     fmt.Sprintf("%s -> %s", notify.FormatLocation(trip.From), notify.FormatLocation(trip.To)),
		Type:        models.NotifyTripRequest,
		RelatedTrip: &trip.ID,
		NotifyTo:    models.NotifyToDriver,
		Metadata:    tripMetadata(trip),
	}
}

// notifyCustomerAssignment records the customer-side row and pushes it. Every
// path that moves a trip to scheduled ends here, whether a driver accepted or
// an admin assigned.
func (s *Service) notifyCustomerAssignment(ctx context.Context, trip *models.Trip) {
	n := &models.Notification{
		UserID:      trip.UserID,
		Title:       "Driver Assigned",
		Message:     fmt.Sprintf("A driver has accepted your trip %s -> %s", notify.FormatLocation(trip.From), notify.FormatLocation(trip.To)),
		Type:        models.NotifyTripUpdate,
		RelatedTrip: &trip.ID,
		NotifyTo:    models.NotifyToCustomer,
		Metadata:    tripMetadata(trip),
	}
	if err := s.notifications.Record(ctx, n); err != nil {
		s.log.Error("failed to record customer assignment",
			logger.String("trip_id", trip.ID), logger.Error(err))
	}

	customer, err := s.users.FindByID(ctx, trip.UserID)
	if err != nil || customer.FCMToken == "" {
		return
	}
	if err := s.pusher.SendAssignment(ctx, customer.FCMToken, trip.ID); err != nil {
		s.log.Warn("assignment push failed",
			logger.String("trip_id", trip.ID), logger.Error(err))
	}
}

// driverVehicle resolves the driver's vehicle of the trip's type, best
// effort: a trip can be claimed even when the lookup finds nothing.
func (s *Service) driverVehicle(ctx context.Context, driverID, vehicleTypeID string) *string {
	id, err := s.resolver.DriverVehicleOfType(ctx, driverID, vehicleTypeID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Warn("failed to resolve driver vehicle",
				logger.String("driver_id", driverID), logger.Error(err))
		}
		return nil
	}
	if id == "" {
		return nil
	}
	return &id
}

func (s *Service) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.GetTrip: %w", err)
	}
	return trip, nil
}

func (s *Service) ListTrips(ctx context.Context, filter models.TripFilter, page, limit int) ([]models.Trip, error) {
	trips, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("service.ListTrips: %w", err)
	}
	return trips, nil
}

func (s *Service) Respond(ctx context.Context, driverID string, req models.RespondRequest) (*models.Trip, error) {
	switch req.Response {
	case "accept":
		return s.accept(ctx, driverID, req.TripID)
	case "reject":
		return s.reject(ctx, driverID, req.TripID)
	default:
		return nil, fmt.Errorf("%w: response must be accept or reject", models.ErrValidation)
	}
}

func (s *Service) accept(ctx context.Context, driverID, tripID string) (*models.Trip, error) {
	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.Accept: %w", err)
	}

	driver, err := s.users.FindByID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("service.Accept: %w", err)
	}

	// Only a candidate with an open offer may claim. A driver the dispatcher
	// never offered the trip to does not get to accept it.
	if !hasPendingResponse(trip.DriverResponses, driverID) {
		return nil, fmt.Errorf("service.Accept: no pending offer for driver: %w", models.ErrNotFound)
	}

	// Same-day guard: a driver cannot hold two trips with pickups on the same
	// calendar day. Checked before the claim so both trips stay untouched.
	if trip.ETAPickup != nil && trip.ETAPickup.After(time.Now()) {
		if err := s.checkSameDayBooking(ctx, driver, *trip.ETAPickup); err != nil {
			return nil, err
		}
	}

	claimed, err := s.repo.Accept(ctx, tripID, driverID, s.driverVehicle(ctx, driverID, trip.VehicleTypeID))
	if err != nil {
		return nil, fmt.Errorf("service.Accept: %w", err)
	}

	if err := s.notifications.MarkResponse(ctx, tripID, driverID, models.ResponseAccepted); err != nil {
		s.log.Warn("failed to mark offer accepted",
			logger.String("trip_id", tripID), logger.Error(err))
	}

	// Tell the customer, then close the offer for the losing candidates.
	s.notifyCustomerAssignment(ctx, claimed)
	s.notifyLosers(ctx, claimed, driverID)

	s.log.Info("trip accepted",
		logger.String("trip_id", tripID), logger.String("driver_id", driverID))
	return claimed, nil
}

func (s *Service) notifyLosers(ctx context.Context, trip *models.Trip, winnerID string) {
	var losers []string
	for _, id := range trip.PotentialDrivers {
		if id != winnerID {
			losers = append(losers, id)
		}
	}
	if len(losers) == 0 {
		return
	}

	users, err := s.users.ListByIDs(ctx, losers)
	if err != nil {
		s.log.Warn("failed to load losing candidates",
			logger.String("trip_id", trip.ID), logger.Error(err))
		return
	}
	for i := range users {
		if users[i].FCMToken == "" {
			continue
		}
		if err := s.pusher.SendClosure(ctx, users[i].FCMToken, trip.ID); err != nil {
			s.log.Warn("closure push failed",
				logger.String("trip_id", trip.ID),
				logger.String("driver_id", users[i].ID),
				logger.Error(err))
		}
	}
}

func (s *Service) reject(ctx context.Context, driverID, tripID string) (*models.Trip, error) {
	cancelled, err := s.repo.Reject(ctx, tripID, driverID)
	if err != nil {
		return nil, fmt.Errorf("service.Reject: %w", err)
	}

	if err := s.notifications.MarkResponse(ctx, tripID, driverID, models.ResponseRejected); err != nil {
		s.log.Warn("failed to mark offer rejected",
			logger.String("trip_id", tripID), logger.Error(err))
	}

	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.Reject: %w", err)
	}

	if cancelled {
		s.log.Info("trip cancelled, all candidates rejected",
			logger.String("trip_id", tripID))
		if customer, err := s.users.FindByID(ctx, trip.UserID); err == nil && customer.FCMToken != "" {
			if err := s.pusher.SendAlert(ctx, customer.FCMToken,
				"No Driver Available",
				"All drivers declined your trip request. You can retry the search."); err != nil {
				s.log.Warn("cancellation push failed",
					logger.String("trip_id", tripID), logger.Error(err))
			}
		}
	}
	return trip, nil
}

func (s *Service) AssignDriver(ctx context.Context, req models.AssignDriverRequest) (*models.Trip, error) {
	trip, err := s.repo.FindByID(ctx, req.TripID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignDriver: %w", err)
	}

	driver, err := s.users.FindByID(ctx, req.DriverID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignDriver: driver: %w", err)
	}

	if trip.ETAPickup != nil && trip.ETAPickup.After(time.Now()) {
		if err := s.checkSameDayBooking(ctx, driver, *trip.ETAPickup); err != nil {
			return nil, err
		}
	}

	// An unscheduled pickup defaults to one hour out so the reminder sweep
	// and same-day bookkeeping always have a time to work with.
	defaultETA := time.Now().Add(time.Hour)
	vehicleDetailID := s.driverVehicle(ctx, req.DriverID, trip.VehicleTypeID)

	assigned, err := s.repo.Assign(ctx, req.TripID, req.DriverID, vehicleDetailID, defaultETA)
	if err != nil {
		return nil, fmt.Errorf("service.AssignDriver: %w", err)
	}

	s.recordAndPushAssignment(ctx, assigned, driver)
	s.notifyCustomerAssignment(ctx, assigned)
	s.notifyLosers(ctx, assigned, req.DriverID)

	s.log.Info("trip manually assigned",
		logger.String("trip_id", req.TripID), logger.String("driver_id", req.DriverID))
	return assigned, nil
}

// checkSameDayBooking returns ErrAlreadyBookedSameDay when the driver already
// holds a trip whose pickup lands on the same calendar day, pushing a
// courtesy alert so the driver knows why the accept bounced.
func (s *Service) checkSameDayBooking(ctx context.Context, driver *models.User, eta time.Time) error {
	existing, err := s.repo.FindAcceptedOnDay(ctx, driver.ID, eta)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.checkSameDayBooking: %w", err)
	}

	if driver.FCMToken != "" {
		if err := s.pusher.SendAlert(ctx, driver.FCMToken,
			"Trip Already Booked",
			fmt.Sprintf("You already have a trip scheduled for %s", eta.Format("2006-01-02"))); err != nil {
			s.log.Warn("double-booking push failed",
				logger.String("trip_id", existing.ID), logger.Error(err))
		}
	}
	return models.ErrAlreadyBookedSameDay
}

func (s *Service) recordAndPushAssignment(ctx context.Context, trip *models.Trip, driver *models.User) {
	n := s.offerNotification(trip, driver.ID)
	n.Title = "Trip Assigned"
	n.Message = fmt.Sprintf("You have been assigned a trip: %s -> %s",
		notify.FormatLocation(trip.From), notify.FormatLocation(trip.To))
	n.Type = models.NotifyTripUpdate
	if err := s.notifications.Record(ctx, n); err != nil {
		s.log.Error("failed to record assignment",
			logger.String("trip_id", trip.ID), logger.Error(err))
	}

	if driver.FCMToken != "" {
		if err := s.pusher.SendAssignment(ctx, driver.FCMToken, trip.ID); err != nil {
			s.log.Warn("assignment push failed",
				logger.String("trip_id", trip.ID), logger.Error(err))
		}
	}
}

// RetryTrip re-runs the candidate fan-out for a cancelled trip. The candidate
// set is resolved fresh, the potential list is overwritten and new pending
// rows are appended; earlier rejected rows are kept as history.
func (s *Service) RetryTrip(ctx context.Context, tripID string) (*models.DispatchResult, error) {
	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.RetryTrip: %w", err)
	}
	if trip.Status != models.TripCancelled {
		return nil, models.ErrTripNotCancelled
	}

	candidates, err := s.resolver.EligibleDrivers(ctx, trip.VehicleTypeID)
	if err != nil {
		return nil, fmt.Errorf("service.RetryTrip: %w", err)
	}

	if err := s.repo.SetPotentialDrivers(ctx, tripID, candidates); err != nil {
		return nil, fmt.Errorf("service.RetryTrip: %w", err)
	}
	if err := s.repo.AddPendingResponses(ctx, tripID, candidates); err != nil {
		return nil, fmt.Errorf("service.RetryTrip: %w", err)
	}

	notified := s.fanOut(ctx, trip, candidates)
	s.log.Info("trip retry dispatched",
		logger.String("trip_id", tripID),
		logger.Int("candidates", len(candidates)))

	refreshed, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.RetryTrip: %w", err)
	}
	return &models.DispatchResult{
		Trip:             refreshed,
		AvailableDrivers: len(candidates),
		NotifiedDrivers:  notified,
	}, nil
}

func (s *Service) EditTrip(ctx context.Context, tripID string, req models.UpdateTripRequest) (*models.Trip, error) {
	stage := 0
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown trip status %q", models.ErrValidation, *req.Status)
		}
		stage = StageNumber(*req.Status)
	}

	updated, err := s.repo.Update(ctx, tripID, req, stage)
	if err != nil {
		return nil, fmt.Errorf("service.EditTrip: %w", err)
	}

	// UserStatus settles the trip on the credit ledger. The flag is applied
	// as sent: submitting it twice settles twice.
	if req.UserStatus {
		if updated.Driver == nil {
			return nil, fmt.Errorf("%w: cannot settle a trip without a driver", models.ErrValidation)
		}
		err := s.ledger.SettleTrip(ctx, updated.ID,
			updated.UserID, -updated.TripCostCustomer,
			*updated.Driver, updated.TripCostDriver)
		if err != nil {
			return nil, fmt.Errorf("service.EditTrip: settle: %w", err)
		}
		s.log.Info("trip settled",
			logger.String("trip_id", updated.ID),
			logger.Float64("customer_debit", updated.TripCostCustomer),
			logger.Float64("driver_credit", updated.TripCostDriver))
	}

	if req.Status != nil {
		if customer, err := s.users.FindByID(ctx, updated.UserID); err == nil && customer.FCMToken != "" {
			if err := s.pusher.SendAlert(ctx, customer.FCMToken,
				"Trip Update",
				fmt.Sprintf("Your trip is now %s", *req.Status)); err != nil {
				s.log.Warn("status push failed",
					logger.String("trip_id", updated.ID), logger.Error(err))
			}
		}
	}
	return updated, nil
}

// reminderOffsets are how far ahead of pickup a reminder fires. Each sweep
// scans a two-minute window centred on now+offset, so a trip is caught once
// by the minutely loop.
var reminderOffsets = []time.Duration{30 * time.Minute, 5 * time.Minute}

func (s *Service) SendPickupReminders(ctx context.Context, now time.Time) error {
	for _, offset := range reminderOffsets {
		from := now.Add(offset - time.Minute)
		to := now.Add(offset + time.Minute)

		trips, err := s.repo.ListPickupsBetween(ctx, from, to)
		if err != nil {
			return fmt.Errorf("service.SendPickupReminders: %w", err)
		}

		for i := range trips {
			s.sendReminder(ctx, &trips[i], offset)
		}
	}
	return nil
}

func (s *Service) sendReminder(ctx context.Context, trip *models.Trip, offset time.Duration) {
	minutes := int(offset.Minutes())
	title := "Pickup Reminder"
	body := fmt.Sprintf("Pickup for your trip is in %d minutes", minutes)

	// Reminders chase the candidate pool, nudging drivers who have not
	// responded while the pickup window closes in.
	if len(trip.PotentialDrivers) == 0 {
		return
	}
	users, err := s.users.ListByIDs(ctx, trip.PotentialDrivers)
	if err != nil {
		s.log.Warn("failed to load reminder targets",
			logger.String("trip_id", trip.ID), logger.Error(err))
		return
	}
	for i := range users {
		if users[i].FCMToken == "" {
			continue
		}
		if err := s.pusher.SendAlert(ctx, users[i].FCMToken, title, body); err != nil {
			s.log.Warn("reminder push failed",
				logger.String("trip_id", trip.ID),
				logger.String("user_id", users[i].ID),
				logger.Error(err))
		}
	}
}

// StartReminderLoop runs the minutely reminder sweep until the context is
// cancelled.
func (s *Service) StartReminderLoop(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if err := s.SendPickupReminders(ctx, now); err != nil {
					s.log.Error("reminder sweep failed", logger.Error(err))
				}
			}
		}
	}()
}
