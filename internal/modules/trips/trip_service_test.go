package trips

import (
	"context"
	"errors"
	"testing"
	"time"

	"freight-dispatch/internal/models"
	"freight-dispatch/pkg/logger"
	"freight-dispatch/pkg/notify"
)

// --- stubs ---

type stubRepo struct {
	trips map[string]*models.Trip

	acceptErr       error
	rejectCancelled bool
	rejectErr       error
	acceptedOnDay   *models.Trip

	acceptCalls     []string
	acceptVehicles  []*string
	assignCalls     []string
	assignVehicles  []*string
	assignETAs      []time.Time
	setPotential    [][]string
	pendingAppended [][]string
	updateReqs      []models.UpdateTripRequest
	reminderWindows [][2]time.Time
	reminderTrips   []models.Trip
}

func newStubRepo(trips ...*models.Trip) *stubRepo {
	r := &stubRepo{trips: map[string]*models.Trip{}}
	for _, t := range trips {
		r.trips[t.ID] = t
	}
	return r
}

func (r *stubRepo) Create(_ context.Context, trip *models.Trip) (*models.Trip, error) {
	if trip.ID == "" {
		trip.ID = "trip-new"
	}
	r.trips[trip.ID] = trip
	return trip, nil
}

func (r *stubRepo) FindByID(_ context.Context, tripID string) (*models.Trip, error) {
	t, ok := r.trips[tripID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubRepo) List(_ context.Context, _ models.TripFilter, _, _ int) ([]models.Trip, error) {
	var out []models.Trip
	for _, t := range r.trips {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubRepo) Accept(_ context.Context, tripID, driverID string, vehicleDetailID *string) (*models.Trip, error) {
	r.acceptCalls = append(r.acceptCalls, tripID+":"+driverID)
	r.acceptVehicles = append(r.acceptVehicles, vehicleDetailID)
	if r.acceptErr != nil {
		return nil, r.acceptErr
	}
	t := r.trips[tripID]
	t.Status = models.TripScheduled
	t.Driver = &driverID
	if t.VehicleDetailID == nil {
		t.VehicleDetailID = vehicleDetailID
	}
	cp := *t
	return &cp, nil
}

func (r *stubRepo) Reject(_ context.Context, tripID, driverID string) (bool, error) {
	if r.rejectErr != nil {
		return false, r.rejectErr
	}
	if r.rejectCancelled {
		r.trips[tripID].Status = models.TripCancelled
	}
	return r.rejectCancelled, nil
}

func (r *stubRepo) Assign(_ context.Context, tripID, driverID string, vehicleDetailID *string, defaultETA time.Time) (*models.Trip, error) {
	r.assignCalls = append(r.assignCalls, tripID+":"+driverID)
	r.assignVehicles = append(r.assignVehicles, vehicleDetailID)
	r.assignETAs = append(r.assignETAs, defaultETA)
	t := r.trips[tripID]
	t.Status = models.TripScheduled
	t.Driver = &driverID
	if t.VehicleDetailID == nil {
		t.VehicleDetailID = vehicleDetailID
	}
	if t.ETAPickup == nil {
		eta := defaultETA
		t.ETAPickup = &eta
	}
	cp := *t
	return &cp, nil
}

func (r *stubRepo) AddPendingResponses(_ context.Context, _ string, driverIDs []string) error {
	r.pendingAppended = append(r.pendingAppended, driverIDs)
	return nil
}

func (r *stubRepo) SetPotentialDrivers(_ context.Context, tripID string, driverIDs []string) error {
	r.setPotential = append(r.setPotential, driverIDs)
	if t, ok := r.trips[tripID]; ok {
		t.PotentialDrivers = driverIDs
	}
	return nil
}

func (r *stubRepo) FindAcceptedOnDay(_ context.Context, _ string, _ time.Time) (*models.Trip, error) {
	if r.acceptedOnDay == nil {
		return nil, models.ErrNotFound
	}
	return r.acceptedOnDay, nil
}

func (r *stubRepo) Update(_ context.Context, tripID string, req models.UpdateTripRequest, _ int) (*models.Trip, error) {
	r.updateReqs = append(r.updateReqs, req)
	t, ok := r.trips[tripID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	cp := *t
	return &cp, nil
}

func (r *stubRepo) ListPickupsBetween(_ context.Context, from, to time.Time) ([]models.Trip, error) {
	r.reminderWindows = append(r.reminderWindows, [2]time.Time{from, to})
	return r.reminderTrips, nil
}

type stubResolver struct {
	drivers   []string
	err       error
	vehicleID string
}

func (s *stubResolver) EligibleDrivers(_ context.Context, _ string) ([]string, error) {
	return s.drivers, s.err
}

func (s *stubResolver) DriverVehicleOfType(_ context.Context, _, _ string) (string, error) {
	if s.vehicleID == "" {
		return "", models.ErrNotFound
	}
	return s.vehicleID, nil
}

type stubCards struct {
	card *models.VehicleType
}

func (s *stubCards) GetType(_ context.Context, _ string) (*models.VehicleType, error) {
	if s.card == nil {
		return nil, models.ErrNotFound
	}
	return s.card, nil
}

type stubMaterials struct{ missing bool }

func (s *stubMaterials) Get(_ context.Context, id string) (*models.Material, error) {
	if s.missing {
		return nil, models.ErrNotFound
	}
	return &models.Material{ID: id, Name: "steel"}, nil
}

type stubUsers struct {
	users map[string]*models.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type stubNotifications struct {
	recorded  []*models.Notification
	responses []string
}

func (s *stubNotifications) Record(_ context.Context, n *models.Notification) error {
	s.recorded = append(s.recorded, n)
	return nil
}

func (s *stubNotifications) MarkResponse(_ context.Context, tripID, userID string, response models.ResponseStatus) error {
	s.responses = append(s.responses, tripID+":"+userID+":"+string(response))
	return nil
}

type settlement struct {
	tripID         string
	customerID     string
	customerAmount float64
	driverID       string
	driverAmount   float64
}

type stubLedger struct {
	settlements []settlement
}

func (s *stubLedger) SettleTrip(_ context.Context, tripID, customerID string, customerAmount float64, driverID string, driverAmount float64) error {
	s.settlements = append(s.settlements, settlement{tripID, customerID, customerAmount, driverID, driverAmount})
	return nil
}

type push struct {
	kind  string
	token string
	extra string
}

type fakePusher struct {
	pushes  []push
	failAll bool
}

func (f *fakePusher) SendTripOffer(_ context.Context, token string, offer notify.TripOffer) error {
	if f.failAll {
		return errors.New("push down")
	}
	f.pushes = append(f.pushes, push{"offer", token, offer.TripID})
	return nil
}

func (f *fakePusher) SendAssignment(_ context.Context, token, tripID string) error {
	if f.failAll {
		return errors.New("push down")
	}
	f.pushes = append(f.pushes, push{"assignment", token, tripID})
	return nil
}

func (f *fakePusher) SendClosure(_ context.Context, token, tripID string) error {
	if f.failAll {
		return errors.New("push down")
	}
	f.pushes = append(f.pushes, push{"closure", token, tripID})
	return nil
}

func (f *fakePusher) SendAlert(_ context.Context, token, title, _ string) error {
	if f.failAll {
		return errors.New("push down")
	}
	f.pushes = append(f.pushes, push{"alert", token, title})
	return nil
}

func (f *fakePusher) byKind(kind string) []push {
	var out []push
	for _, p := range f.pushes {
		if p.kind == kind {
			out = append(out, p)
		}
	}
	return out
}

type fixture struct {
	repo          *stubRepo
	resolver      *stubResolver
	cards         *stubCards
	materials     *stubMaterials
	users         *stubUsers
	notifications *stubNotifications
	ledger        *stubLedger
	pusher        *fakePusher
	service       ServiceInterface
}

func newFixture(repo *stubRepo) *fixture {
	f := &fixture{
		repo:     repo,
		resolver: &stubResolver{},
		cards: &stubCards{card: &models.VehicleType{
			ID: "vt-1", CustomerBaseFare: 500, CustomerKmFare: 20, DriverBaseFare: 400, DriverKmFare: 15,
		}},
		materials: &stubMaterials{},
		users: &stubUsers{users: map[string]*models.User{
			"cust-1": {ID: "cust-1", Type: models.RoleCustomer, FCMToken: "tok-cust"},
			"drv-1":  {ID: "drv-1", Type: models.RoleDriver, FCMToken: "tok-1"},
			"drv-2":  {ID: "drv-2", Type: models.RoleDriver, FCMToken: "tok-2"},
			"drv-3":  {ID: "drv-3", Type: models.RoleDriver, FCMToken: ""},
		}},
		notifications: &stubNotifications{},
		ledger:        &stubLedger{},
		pusher:        &fakePusher{},
	}
	f.service = NewService(repo, f.resolver, f.cards, f.materials, f.users,
		f.notifications, f.ledger, f.pusher, logger.Nop())
	return f
}

func baseTrip() *models.Trip {
	return &models.Trip{
		ID:               "trip-1",
		UserID:           "cust-1",
		VehicleTypeID:    "vt-1",
		MaterialID:       "mat-1",
		Status:           models.TripSearching,
		TripCostCustomer: 2500,
		TripCostDriver:   1900,
		PotentialDrivers: []string{"drv-1", "drv-2"},
		DriverResponses: []models.DriverResponse{
			{TripID: "trip-1", DriverID: "drv-1", Response: models.ResponsePending},
			{TripID: "trip-1", DriverID: "drv-2", Response: models.ResponsePending},
		},
		From: "Warehouse A",
		To:   "Warehouse B",
	}
}

// --- tests ---

func TestCreateTripFansOutToCandidates(t *testing.T) {
	repo := newStubRepo()
	f := newFixture(repo)
	f.resolver.drivers = []string{"drv-1", "drv-2", "drv-3"}

	result, err := f.service.CreateTrip(context.Background(), "cust-1", models.CreateTripRequest{
		Distance: 100, From: "A", To: "B", Material: "mat-1",
		MaterialUnit: models.UnitKg, Weight: 10, VehicleType: "vt-1",
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	if result.Trip.Status != models.TripSearching {
		t.Errorf("status = %s, want searching", result.Trip.Status)
	}
	if result.Trip.TripCostCustomer != 2500 {
		t.Errorf("customer cost = %v, want 2500", result.Trip.TripCostCustomer)
	}
	if result.AvailableDrivers != 3 {
		t.Errorf("available = %d, want 3", result.AvailableDrivers)
	}
	// drv-3 has no device token, so only two offers go out.
	if len(result.NotifiedDrivers) != 2 {
		t.Errorf("notified = %v, want 2 drivers", result.NotifiedDrivers)
	}
	// Every candidate still gets a durable notification row.
	if len(f.notifications.recorded) != 3 {
		t.Errorf("recorded rows = %d, want 3", len(f.notifications.recorded))
	}
	for _, n := range f.notifications.recorded {
		if n.Type != models.NotifyTripRequest || n.NotifyTo != models.NotifyToDriver {
			t.Errorf("notification row %+v has wrong type/target", n)
		}
		if n.Metadata == nil || n.Metadata.Fare.Customer != 2500 {
			t.Error("notification metadata missing fare snapshot")
		}
	}
}

func TestCreateTripWithNoCandidates(t *testing.T) {
	repo := newStubRepo()
	f := newFixture(repo)
	f.resolver.drivers = nil

	result, err := f.service.CreateTrip(context.Background(), "cust-1", models.CreateTripRequest{
		Distance: 10, From: "A", To: "B", Material: "mat-1",
		MaterialUnit: models.UnitKg, Weight: 5, VehicleType: "vt-1",
	})
	if err != nil {
		t.Fatalf("CreateTrip with empty candidate set should not fail: %v", err)
	}
	if result.AvailableDrivers != 0 || len(result.NotifiedDrivers) != 0 {
		t.Errorf("expected zero candidates, got %+v", result)
	}
	if result.Trip.Status != models.TripSearching {
		t.Errorf("status = %s, want searching", result.Trip.Status)
	}
}

func TestCreateTripUnknownVehicleType(t *testing.T) {
	f := newFixture(newStubRepo())
	f.cards.card = nil

	_, err := f.service.CreateTrip(context.Background(), "cust-1", models.CreateTripRequest{
		Distance: 10, From: "A", To: "B", Material: "mat-1",
		MaterialUnit: models.UnitKg, Weight: 5, VehicleType: "vt-missing",
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestAcceptClaimsTripAndNotifies(t *testing.T) {
	repo := newStubRepo(baseTrip())
	f := newFixture(repo)

	trip, err := f.service.Respond(context.Background(), "drv-1", models.RespondRequest{
		TripID: "trip-1", Response: "accept",
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if trip.Status != models.TripScheduled {
		t.Errorf("status = %s, want scheduled", trip.Status)
	}
	if trip.Driver == nil || *trip.Driver != "drv-1" {
		t.Errorf("driver = %v, want drv-1", trip.Driver)
	}
	if len(f.notifications.responses) != 1 || f.notifications.responses[0] != "trip-1:drv-1:accepted" {
		t.Errorf("responses = %v", f.notifications.responses)
	}

	assignments := f.pusher.byKind("assignment")
	if len(assignments) != 1 || assignments[0].token != "tok-cust" {
		t.Errorf("customer assignment pushes = %v", assignments)
	}
	// The customer also keeps a durable notification row.
	if len(f.notifications.recorded) != 1 {
		t.Fatalf("recorded rows = %d, want 1", len(f.notifications.recorded))
	}
	row := f.notifications.recorded[0]
	if row.UserID != "cust-1" || row.NotifyTo != models.NotifyToCustomer {
		t.Errorf("customer row = %+v", row)
	}
	// drv-2 was the losing candidate.
	closures := f.pusher.byKind("closure")
	if len(closures) != 1 || closures[0].token != "tok-2" {
		t.Errorf("closure pushes = %v", closures)
	}
}

func TestAcceptRequiresOpenOffer(t *testing.T) {
	repo := newStubRepo(baseTrip())
	f := newFixture(repo)

	// drv-3 exists but was never offered the trip.
	_, err := f.service.Respond(context.Background(), "drv-3", models.RespondRequest{
		TripID: "trip-1", Response: "accept",
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(repo.acceptCalls) != 0 {
		t.Errorf("accept calls = %v, want none", repo.acceptCalls)
	}
	if trip, _ := repo.FindByID(context.Background(), "trip-1"); trip.Status != models.TripSearching {
		t.Errorf("status = %s, want searching untouched", trip.Status)
	}
}

func TestAcceptAfterRejectionIsRefused(t *testing.T) {
	trip := baseTrip()
	trip.DriverResponses[0].Response = models.ResponseRejected

	repo := newStubRepo(trip)
	f := newFixture(repo)

	_, err := f.service.Respond(context.Background(), "drv-1", models.RespondRequest{
		TripID: "trip-1", Response: "accept",
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(repo.acceptCalls) != 0 {
		t.Errorf("accept calls = %v, want none", repo.acceptCalls)
	}
}

func TestAcceptAttachesDriverVehicle(t *testing.T) {
	repo := newStubRepo(baseTrip())
	f := newFixture(repo)
	f.resolver.vehicleID = "veh-9"

	trip, err := f.service.Respond(context.Background(), "drv-1", models.RespondRequest{
		TripID: "trip-1", Response: "accept",
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if len(repo.acceptVehicles) != 1 || repo.acceptVehicles[0] == nil || *repo.acceptVehicles[0] != "veh-9" {
		t.Errorf("vehicle passed to claim = %v, want veh-9", repo.acceptVehicles)
	}
	if trip.VehicleDetailID == nil || *trip.VehicleDetailID != "veh-9" {
		t.Errorf("trip vehicle = %v, want veh-9", trip.VehicleDetailID)
	}
}

func TestAcceptWithoutMatchingVehicle(t *testing.T) {
	repo := newStubRepo(baseTrip())
	f := newFixture(repo) // resolver has no vehicle

	if _, err := f.service.Respond(context.Background(), "drv-1", models.RespondRequest{
		TripID: "trip-1", Response: "accept",
	}); err != nil {
		t.Fatalf("accept must not require a registered vehicle: %v", err)
	}
	if len(repo.acceptVehicles) != 1 || repo.acceptVehicles[0] != nil {
		t.Errorf("vehicle passed to claim = %v, want nil", repo.acceptVehicles)
	}
}

func TestAcceptLosesRace(t *testing.T) {
	repo := newStubRepo(baseTrip())
	repo.acceptErr = models.ErrTripNotSearching
	f := newFixture(repo)

	_, err := f.service.Respond(context.Background(), "drv-2", models.RespondRequest{
		TripID: "trip-1", Response: "accept",
	})
	if !errors.Is(err, models.ErrTripNotSearching) {
		t.Errorf("err = %v, want ErrTripNotSearching", err)
	}
}

func TestAcceptSameDayConflict(t *testing.T) {
	trip := baseTrip()
	eta := time.Now().Add(48 * time.Hour)
	trip.ETAPickup = &eta

	repo := newStubRepo(trip)
	repo.acceptedOnDay = &models.Trip{ID: "trip-0", Status: models.TripScheduled}
	f := newFixture(repo)

	_, err := f.service.Respond(context.Background(), "drv-1", models.RespondRequest{
		TripID: "trip-1", Response: "accept",
	})
	if !errors.Is(err, models.ErrAlreadyBookedSameDay) {
		t.Fatalf("err = %v, want ErrAlreadyBookedSameDay", err)
	}

	// The claim must never have been attempted.
	if len(repo.acceptCalls) != 0 {
		t.Errorf("accept calls = %v, want none", repo.acceptCalls)
	}
	// Courtesy alert to the driver.
	alerts := f.pusher.byKind("alert")
	if len(alerts) != 1 || alerts[0].token != "tok-1" {
		t.Errorf("alert pushes = %v", alerts)
	}
}

func TestRejectLastCandidateCancels(t *testing.T) {
	repo := newStubRepo(baseTrip())
	repo.rejectCancelled = true
	f := newFixture(repo)

	trip, err := f.service.Respond(context.Background(), "drv-2", models.RespondRequest{
		TripID: "trip-1", Response: "reject",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if trip.Status != models.TripCancelled {
		t.Errorf("status = %s, want cancelled", trip.Status)
	}
	if len(f.notifications.responses) != 1 || f.notifications.responses[0] != "trip-1:drv-2:rejected" {
		t.Errorf("responses = %v", f.notifications.responses)
	}
	// The customer hears about it.
	alerts := f.pusher.byKind("alert")
	if len(alerts) != 1 || alerts[0].token != "tok-cust" {
		t.Errorf("alert pushes = %v", alerts)
	}
}

func TestRejectNotLastLeavesTripSearching(t *testing.T) {
	repo := newStubRepo(baseTrip())
	f := newFixture(repo)

	trip, err := f.service.Respond(context.Background(), "drv-1", models.RespondRequest{
		TripID: "trip-1", Response: "reject",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if trip.Status != models.TripSearching {
		t.Errorf("status = %s, want searching", trip.Status)
	}
	if len(f.pusher.byKind("alert")) != 0 {
		t.Error("no cancellation alert expected while candidates remain")
	}
}

func TestAssignDriverSameDayConflict(t *testing.T) {
	trip := baseTrip()
	eta := time.Now().Add(24 * time.Hour)
	trip.ETAPickup = &eta

	repo := newStubRepo(trip)
	repo.acceptedOnDay = &models.Trip{ID: "trip-0"}
	f := newFixture(repo)

	_, err := f.service.AssignDriver(context.Background(), models.AssignDriverRequest{
		TripID: "trip-1", DriverID: "drv-1",
	})
	if !errors.Is(err, models.ErrAlreadyBookedSameDay) {
		t.Errorf("err = %v, want ErrAlreadyBookedSameDay", err)
	}
	if len(repo.assignCalls) != 0 {
		t.Errorf("assign calls = %v, want none", repo.assignCalls)
	}
}

func TestAssignDriverDefaultsPickupEta(t *testing.T) {
	repo := newStubRepo(baseTrip()) // no eta set
	f := newFixture(repo)

	before := time.Now()
	trip, err := f.service.AssignDriver(context.Background(), models.AssignDriverRequest{
		TripID: "trip-1", DriverID: "drv-1",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if len(repo.assignETAs) != 1 {
		t.Fatalf("assign calls = %d, want 1", len(repo.assignETAs))
	}
	eta := repo.assignETAs[0]
	if eta.Before(before.Add(59*time.Minute)) || eta.After(time.Now().Add(61*time.Minute)) {
		t.Errorf("default eta = %v, want about an hour out", eta)
	}
	if trip.ETAPickup == nil {
		t.Error("assigned trip must carry a pickup eta")
	}

	// Driver and customer both get a durable row and a push.
	if len(f.notifications.recorded) != 2 {
		t.Fatalf("recorded rows = %d, want 2", len(f.notifications.recorded))
	}
	byTarget := map[models.NotifyTo]*models.Notification{}
	for _, n := range f.notifications.recorded {
		byTarget[n.NotifyTo] = n
	}
	if d := byTarget[models.NotifyToDriver]; d == nil || d.UserID != "drv-1" {
		t.Errorf("driver row = %+v", d)
	}
	if c := byTarget[models.NotifyToCustomer]; c == nil || c.UserID != "cust-1" {
		t.Errorf("customer row = %+v", c)
	}
	tokens := map[string]bool{}
	for _, p := range f.pusher.byKind("assignment") {
		tokens[p.token] = true
	}
	if !tokens["tok-1"] || !tokens["tok-cust"] {
		t.Errorf("assignment pushes = %v, want driver and customer", f.pusher.byKind("assignment"))
	}
}

func TestAdminPreAssignNotifiesBothSides(t *testing.T) {
	repo := newStubRepo()
	f := newFixture(repo)
	driverID := "drv-1"

	result, err := f.service.CreateTripByAdmin(context.Background(), models.AdminCreateTripRequest{
		CreateTripRequest: models.CreateTripRequest{
			Distance: 50, From: "A", To: "B", Material: "mat-1",
			MaterialUnit: models.UnitKg, Weight: 8, VehicleType: "vt-1",
		},
		UserID:   "cust-1",
		DriverID: &driverID,
	})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}

	if result.Trip.Status != models.TripScheduled {
		t.Errorf("status = %s, want scheduled", result.Trip.Status)
	}
	if result.Trip.Driver == nil || *result.Trip.Driver != "drv-1" {
		t.Errorf("driver = %v, want drv-1", result.Trip.Driver)
	}

	if len(f.notifications.recorded) != 2 {
		t.Fatalf("recorded rows = %d, want driver and customer rows", len(f.notifications.recorded))
	}
	targets := map[models.NotifyTo]bool{}
	for _, n := range f.notifications.recorded {
		targets[n.NotifyTo] = true
	}
	if !targets[models.NotifyToDriver] || !targets[models.NotifyToCustomer] {
		t.Errorf("notification targets = %v", targets)
	}
	tokens := map[string]bool{}
	for _, p := range f.pusher.byKind("assignment") {
		tokens[p.token] = true
	}
	if !tokens["tok-1"] || !tokens["tok-cust"] {
		t.Errorf("assignment pushes = %v", f.pusher.byKind("assignment"))
	}
}

func TestCreateTripRejectsBadCoordinates(t *testing.T) {
	f := newFixture(newStubRepo())
	f.resolver.drivers = []string{"drv-1"}

	tests := []struct {
		name string
		req  models.CreateTripRequest
	}{
		{"latitude beyond pole", models.CreateTripRequest{
			Distance: 10, From: "A", To: "B", Material: "mat-1",
			MaterialUnit: models.UnitKg, Weight: 5, VehicleType: "vt-1",
			FromLatitude: 95, FromLongitude: 77,
		}},
		{"longitude out of range", models.CreateTripRequest{
			Distance: 10, From: "A", To: "B", Material: "mat-1",
			MaterialUnit: models.UnitKg, Weight: 5, VehicleType: "vt-1",
			FromLatitude: 12, FromLongitude: -190,
		}},
		{"destination latitude alone", func() models.CreateTripRequest {
			lat := 13.0
			return models.CreateTripRequest{
				Distance: 10, From: "A", To: "B", Material: "mat-1",
				MaterialUnit: models.UnitKg, Weight: 5, VehicleType: "vt-1",
				FromLatitude: 12, FromLongitude: 77, ToLatitude: &lat,
			}
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.service.CreateTrip(context.Background(), "cust-1", tt.req); !errors.Is(err, models.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRetryTripRequiresCancelled(t *testing.T) {
	repo := newStubRepo(baseTrip()) // still searching
	f := newFixture(repo)

	_, err := f.service.RetryTrip(context.Background(), "trip-1")
	if !errors.Is(err, models.ErrTripNotCancelled) {
		t.Errorf("err = %v, want ErrTripNotCancelled", err)
	}
}

func TestRetryTripRedispatches(t *testing.T) {
	trip := baseTrip()
	trip.Status = models.TripCancelled

	repo := newStubRepo(trip)
	f := newFixture(repo)
	f.resolver.drivers = []string{"drv-1", "drv-2"}

	result, err := f.service.RetryTrip(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}

	if len(repo.setPotential) != 1 || len(repo.setPotential[0]) != 2 {
		t.Errorf("potential drivers overwritten = %v", repo.setPotential)
	}
	if len(repo.pendingAppended) != 1 || len(repo.pendingAppended[0]) != 2 {
		t.Errorf("pending rows appended = %v", repo.pendingAppended)
	}
	// Retry re-runs the search; it does not rewrite the trip status.
	if result.Trip.Status != models.TripCancelled {
		t.Errorf("status = %s, want cancelled", result.Trip.Status)
	}
	if result.AvailableDrivers != 2 {
		t.Errorf("available = %d, want 2", result.AvailableDrivers)
	}
}

func TestEditTripRejectsUnknownStatus(t *testing.T) {
	repo := newStubRepo(baseTrip())
	f := newFixture(repo)

	bad := models.TripStatus("teleported")
	_, err := f.service.EditTrip(context.Background(), "trip-1", models.UpdateTripRequest{Status: &bad})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if len(repo.updateReqs) != 0 {
		t.Error("update should not reach the repository on a bad status")
	}
}

func TestEditTripSettlement(t *testing.T) {
	trip := baseTrip()
	driverID := "drv-1"
	trip.Driver = &driverID
	trip.Status = models.TripDelivered

	repo := newStubRepo(trip)
	f := newFixture(repo)

	req := models.UpdateTripRequest{UserStatus: true}
	if _, err := f.service.EditTrip(context.Background(), "trip-1", req); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if len(f.ledger.settlements) != 1 {
		t.Fatalf("settlements = %d, want 1", len(f.ledger.settlements))
	}
	s := f.ledger.settlements[0]
	if s.customerID != "cust-1" || s.customerAmount != -2500 {
		t.Errorf("customer leg = %+v, want -2500 for cust-1", s)
	}
	if s.driverID != "drv-1" || s.driverAmount != 1900 {
		t.Errorf("driver leg = %+v, want 1900 for drv-1", s)
	}

	// The flag is applied as sent: a second submission settles again.
	if _, err := f.service.EditTrip(context.Background(), "trip-1", req); err != nil {
		t.Fatalf("second edit: %v", err)
	}
	if len(f.ledger.settlements) != 2 {
		t.Errorf("settlements = %d, want 2 after resubmission", len(f.ledger.settlements))
	}
}

func TestEditTripSettlementRequiresDriver(t *testing.T) {
	repo := newStubRepo(baseTrip()) // no driver yet
	f := newFixture(repo)

	_, err := f.service.EditTrip(context.Background(), "trip-1", models.UpdateTripRequest{UserStatus: true})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if len(f.ledger.settlements) != 0 {
		t.Error("no settlement should be written without a driver")
	}
}

func TestSendPickupRemindersScansBothWindows(t *testing.T) {
	trip := baseTrip()

	repo := newStubRepo()
	repo.reminderTrips = []models.Trip{*trip}
	f := newFixture(repo)

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if err := f.service.SendPickupReminders(context.Background(), now); err != nil {
		t.Fatalf("reminders: %v", err)
	}

	if len(repo.reminderWindows) != 2 {
		t.Fatalf("windows scanned = %d, want 2", len(repo.reminderWindows))
	}
	want30 := [2]time.Time{now.Add(29 * time.Minute), now.Add(31 * time.Minute)}
	if repo.reminderWindows[0] != want30 {
		t.Errorf("first window = %v, want %v", repo.reminderWindows[0], want30)
	}
	want5 := [2]time.Time{now.Add(4 * time.Minute), now.Add(6 * time.Minute)}
	if repo.reminderWindows[1] != want5 {
		t.Errorf("second window = %v, want %v", repo.reminderWindows[1], want5)
	}

	// One trip per window, both undecided candidates nudged each time. The
	// customer is not on the reminder list.
	alerts := f.pusher.byKind("alert")
	if len(alerts) != 4 {
		t.Errorf("alert pushes = %d, want 4", len(alerts))
	}
	for _, a := range alerts {
		if a.token == "tok-cust" {
			t.Errorf("reminder pushed to customer token %q", a.token)
		}
		if a.token != "tok-1" && a.token != "tok-2" {
			t.Errorf("reminder pushed to unexpected token %q", a.token)
		}
	}
}
