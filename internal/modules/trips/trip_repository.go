package trips

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freight-dispatch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for trip storage and the atomic
// dispatch-state transitions.
type RepositoryInterface interface {
	Create(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	FindByID(ctx context.Context, tripID string) (*models.Trip, error)
	List(ctx context.Context, filter models.TripFilter, page, limit int) ([]models.Trip, error)

	// Accept atomically claims a searching trip for a driver. The driver must
	// hold a pending response row (ErrNotFound otherwise); a losing concurrent
	// writer gets ErrTripNotSearching.
	Accept(ctx context.Context, tripID, driverID string, vehicleDetailID *string) (*models.Trip, error)
	// Reject marks the driver's pending row rejected and cancels the trip if
	// no non-rejected candidate rows remain. Returns whether it cancelled.
	Reject(ctx context.Context, tripID, driverID string) (bool, error)
	// Assign claims a searching trip for a driver without requiring a pending
	// response row: one is marked accepted, or synthesized when the driver was
	// never a candidate. A trip with no pickup ETA gets defaultETA. Used by
	// admin manual assignment.
	Assign(ctx context.Context, tripID, driverID string, vehicleDetailID *string, defaultETA time.Time) (*models.Trip, error)

	AddPendingResponses(ctx context.Context, tripID string, driverIDs []string) error
	SetPotentialDrivers(ctx context.Context, tripID string, driverIDs []string) error

	// FindAcceptedOnDay returns a trip the driver already holds whose pickup
	// ETA falls on the same calendar day, or ErrNotFound.
	FindAcceptedOnDay(ctx context.Context, driverID string, day time.Time) (*models.Trip, error)

	Update(ctx context.Context, tripID string, req models.UpdateTripRequest, stage int) (*models.Trip, error)

	// ListPickupsBetween returns scheduled trips whose pickup ETA falls inside
	// the window. Used by the reminder sweep.
	ListPickupsBetween(ctx context.Context, from, to time.Time) ([]models.Trip, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const tripColumns = `id, user_id, driver_id, vehicle_type_id, vehicle_detail_id,
	material_id, material_unit, weight, material_width, material_height,
	distance, trip_cost_customer, trip_cost_driver,
	fare_customer_base, fare_customer_km, fare_driver_base, fare_driver_km,
	from_label, to_label, from_latitude, from_longitude, to_latitude, to_longitude,
	eta_pickup, alternate_contact_no, assistants, status, assigned_at,
	is_payment_done, total_toll_tax_amount, customer_freight, driver_freight, app_charges,
	potential_drivers, created_at, updated_at`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	t := &models.Trip{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.Driver, &t.VehicleTypeID, &t.VehicleDetailID,
		&t.MaterialID, &t.MaterialUnit, &t.Weight, &t.MaterialWidth, &t.MaterialHeight,
		&t.Distance, &t.TripCostCustomer, &t.TripCostDriver,
		&t.FareUsed.CustomerBaseFare, &t.FareUsed.CustomerKmFare, &t.FareUsed.DriverBaseFare, &t.FareUsed.DriverKmFare,
		&t.From, &t.To, &t.FromLatitude, &t.FromLongitude, &t.ToLatitude, &t.ToLongitude,
		&t.ETAPickup, &t.AlternateContactNo, &t.Assistants, &t.Status, &t.AssignedAt,
		&t.IsPaymentDone, &t.TotalTollTaxAmount, &t.CustomerFreight, &t.DriverFreight, &t.AppCharges,
		&t.PotentialDrivers, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) Create(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateTrip: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO trips (user_id, driver_id, vehicle_type_id, material_id, material_unit,
            weight, material_width, material_height, distance,
            trip_cost_customer, trip_cost_driver,
            fare_customer_base, fare_customer_km, fare_driver_base, fare_driver_km,
            from_label, to_label, from_latitude, from_longitude, to_latitude, to_longitude,
            eta_pickup, alternate_contact_no, assistants, status, assigned_at, potential_drivers)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
            $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
        RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		trip.UserID, trip.Driver, trip.VehicleTypeID, trip.MaterialID, trip.MaterialUnit,
		trip.Weight, trip.MaterialWidth, trip.MaterialHeight, trip.Distance,
		trip.TripCostCustomer, trip.TripCostDriver,
		trip.FareUsed.CustomerBaseFare, trip.FareUsed.CustomerKmFare,
		trip.FareUsed.DriverBaseFare, trip.FareUsed.DriverKmFare,
		trip.From, trip.To, trip.FromLatitude, trip.FromLongitude, trip.ToLatitude, trip.ToLongitude,
		trip.ETAPickup, trip.AlternateContactNo, trip.Assistants, trip.Status, trip.AssignedAt, trip.PotentialDrivers,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateTrip: %w", err)
	}

	if err := appendStatusStack(ctx, tx, trip.ID, trip.Status, StageNumber(trip.Status)); err != nil {
		return nil, err
	}

	if err := insertPendingResponses(ctx, tx, trip.ID, trip.PotentialDrivers); err != nil {
		return nil, err
	}

	// A pre-assigned driver gets their accepted row up front, keeping the
	// one-accepted-row-per-scheduled-trip invariant.
	if trip.Driver != nil {
		if err := insertAcceptedResponse(ctx, tx, trip.ID, *trip.Driver); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreateTrip: %w", err)
	}
	return trip, nil
}

func appendStatusStack(ctx context.Context, tx pgx.Tx, tripID string, status models.TripStatus, stage int) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO trip_status_stack (trip_id, stage_number, status) VALUES ($1, $2, $3)`,
		tripID, stage, status)
	if err != nil {
		return fmt.Errorf("repository.appendStatusStack: %w", err)
	}
	return nil
}

func insertPendingResponses(ctx context.Context, tx pgx.Tx, tripID string, driverIDs []string) error {
	for _, id := range driverIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO trip_driver_responses (trip_id, driver_id, response) VALUES ($1, $2, 'pending')`,
			tripID, id)
		if err != nil {
			return fmt.Errorf("repository.insertPendingResponses: %w", err)
		}
	}
	return nil
}

func insertAcceptedResponse(ctx context.Context, tx pgx.Tx, tripID, driverID string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO trip_driver_responses (trip_id, driver_id, response, responded_at)
         VALUES ($1, $2, 'accepted', NOW())`,
		tripID, driverID)
	if err != nil {
		return fmt.Errorf("repository.insertAcceptedResponse: %w", err)
	}
	return nil
}

func lockResponses(ctx context.Context, tx pgx.Tx, tripID string) ([]models.DriverResponse, error) {
	rows, err := tx.Query(ctx, `
        SELECT id, trip_id, driver_id, response, responded_at, created_at
        FROM trip_driver_responses WHERE trip_id = $1 FOR UPDATE`, tripID)
	if err != nil {
		return nil, fmt.Errorf("repository.lockResponses: %w", err)
	}
	defer rows.Close()

	var out []models.DriverResponse
	for rows.Next() {
		var dr models.DriverResponse
		if err := rows.Scan(&dr.ID, &dr.TripID, &dr.DriverID, &dr.Response, &dr.RespondedAt, &dr.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.lockResponses: %w", err)
		}
		out = append(out, dr)
	}
	return out, rows.Err()
}

func (r *Repository) FindByID(ctx context.Context, tripID string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	trip, err := scanTrip(r.db.QueryRow(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindTripByID: %w", err)
	}

	if err := r.loadResponses(ctx, trip); err != nil {
		return nil, err
	}
	if err := r.loadStatusStack(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (r *Repository) loadResponses(ctx context.Context, trip *models.Trip) error {
	rows, err := r.db.Query(ctx, `
        SELECT id, trip_id, driver_id, response, responded_at, created_at
        FROM trip_driver_responses WHERE trip_id = $1 ORDER BY id`, trip.ID)
	if err != nil {
		return fmt.Errorf("repository.loadResponses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dr models.DriverResponse
		if err := rows.Scan(&dr.ID, &dr.TripID, &dr.DriverID, &dr.Response, &dr.RespondedAt, &dr.CreatedAt); err != nil {
			return fmt.Errorf("repository.loadResponses: %w", err)
		}
		trip.DriverResponses = append(trip.DriverResponses, dr)
	}
	return rows.Err()
}

func (r *Repository) loadStatusStack(ctx context.Context, trip *models.Trip) error {
	rows, err := r.db.Query(ctx, `
        SELECT id, trip_id, stage_number, status, created_at
        FROM trip_status_stack WHERE trip_id = $1 ORDER BY id`, trip.ID)
	if err != nil {
		return fmt.Errorf("repository.loadStatusStack: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.StatusStackEntry
		if err := rows.Scan(&e.ID, &e.TripID, &e.StageNumber, &e.Status, &e.CreatedAt); err != nil {
			return fmt.Errorf("repository.loadStatusStack: %w", err)
		}
		trip.StatusStack = append(trip.StatusStack, e)
	}
	return rows.Err()
}

func (r *Repository) List(ctx context.Context, filter models.TripFilter, page, limit int) ([]models.Trip, error) {
	var conds []string
	var args []interface{}
	argIdx := 1

	appendCond := func(cond string, value interface{}) {
		conds = append(conds, fmt.Sprintf(cond, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.UserID != "" {
		appendCond("user_id = $%d", filter.UserID)
	}
	if filter.DriverID != "" {
		conds = append(conds, fmt.Sprintf("(driver_id = $%d OR $%d = ANY(potential_drivers))", argIdx, argIdx))
		args = append(args, filter.DriverID)
		argIdx++
	}
	if filter.Status != "" {
		appendCond("status = $%d", filter.Status)
	}
	if filter.MaterialID != "" {
		appendCond("material_id = $%d", filter.MaterialID)
	}
	if filter.VehicleDetailID != "" {
		appendCond("vehicle_detail_id = $%d", filter.VehicleDetailID)
	}
	if filter.Assistants != nil {
		appendCond("assistants = $%d", *filter.Assistants)
	}
	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf("(from_label ILIKE $%d OR to_label ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	switch filter.Tab {
	case "booking":
		conds = append(conds, `status IN ('searching', 'scheduled', 'loading', 'in_transit', 'unloading', 'delayed')`)
	case "history":
		conds = append(conds, `status IN ('delivered', 'cancelled', 'failed_delivery', 'returned')`)
	}

	query := `SELECT ` + tripColumns + ` FROM trips`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListTrips: %w", err)
	}
	defer rows.Close()

	var out []models.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListTrips: %w", err)
		}
		out = append(out, *trip)
	}
	return out, rows.Err()
}

func (r *Repository) Accept(ctx context.Context, tripID, driverID string, vehicleDetailID *string) (*models.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.AcceptTrip: %w", err)
	}
	defer tx.Rollback(ctx)

	// A driver with no open offer row cannot claim the trip.
	cmdTag, err := tx.Exec(ctx, `
        UPDATE trip_driver_responses
        SET response = 'accepted', responded_at = NOW()
        WHERE trip_id = $1 AND driver_id = $2 AND response = 'pending'`,
		tripID, driverID)
	if err != nil {
		return nil, fmt.Errorf("repository.AcceptTrip: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}

	// The WHERE status = 'searching' guard is the whole concurrency story:
	// the first accept wins, every later one affects zero rows and rolls
	// back its response-row mark.
	cmdTag, err = tx.Exec(ctx, `
        UPDATE trips
        SET driver_id = $1, status = 'scheduled', assigned_at = NOW(),
            vehicle_detail_id = COALESCE($2, vehicle_detail_id), updated_at = NOW()
        WHERE id = $3 AND status = 'searching'`,
		driverID, vehicleDetailID, tripID)
	if err != nil {
		return nil, fmt.Errorf("repository.AcceptTrip: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, models.ErrTripNotSearching
	}

	if err := appendStatusStack(ctx, tx, tripID, models.TripScheduled, StageNumber(models.TripScheduled)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.AcceptTrip: %w", err)
	}
	return r.FindByID(ctx, tripID)
}

func (r *Repository) Reject(ctx context.Context, tripID, driverID string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("repository.RejectTrip: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `
        UPDATE trip_driver_responses
        SET response = 'rejected', responded_at = NOW()
        WHERE trip_id = $1 AND driver_id = $2 AND response = 'pending'`,
		tripID, driverID)
	if err != nil {
		return false, fmt.Errorf("repository.RejectTrip: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return false, models.ErrNotFound
	}

	// Cancel only when every candidate row is now rejected and nobody has
	// claimed the trip in the meantime. The rows are locked for the decision
	// so a concurrent reject or accept serializes behind this transaction.
	responses, err := lockResponses(ctx, tx, tripID)
	if err != nil {
		return false, err
	}

	cancelled := false
	if allRejected(responses) {
		cmdTag, err = tx.Exec(ctx, `
            UPDATE trips
            SET status = 'cancelled', updated_at = NOW()
            WHERE id = $1 AND status = 'searching'`,
			tripID)
		if err != nil {
			return false, fmt.Errorf("repository.RejectTrip: %w", err)
		}
		cancelled = cmdTag.RowsAffected() > 0
	}

	if cancelled {
		if err := appendStatusStack(ctx, tx, tripID, models.TripCancelled, StageNumber(models.TripCancelled)); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("repository.RejectTrip: %w", err)
	}
	return cancelled, nil
}

func (r *Repository) Assign(ctx context.Context, tripID, driverID string, vehicleDetailID *string, defaultETA time.Time) (*models.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.AssignDriver: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `
        UPDATE trips
        SET driver_id = $1, status = 'scheduled', assigned_at = NOW(),
            vehicle_detail_id = COALESCE($2, vehicle_detail_id),
            eta_pickup = COALESCE(eta_pickup, $3), updated_at = NOW()
        WHERE id = $4 AND status = 'searching'`,
		driverID, vehicleDetailID, defaultETA, tripID)
	if err != nil {
		return nil, fmt.Errorf("repository.AssignDriver: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, models.ErrTripNotSearching
	}

	// Mark the driver's pending offer accepted; an admin can hand the trip to
	// a driver outside the candidate set, in which case the row is synthesized.
	cmdTag, err = tx.Exec(ctx, `
        UPDATE trip_driver_responses
        SET response = 'accepted', responded_at = NOW()
        WHERE trip_id = $1 AND driver_id = $2 AND response = 'pending'`,
		tripID, driverID)
	if err != nil {
		return nil, fmt.Errorf("repository.AssignDriver: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if err := insertAcceptedResponse(ctx, tx, tripID, driverID); err != nil {
			return nil, err
		}
	}

	if err := appendStatusStack(ctx, tx, tripID, models.TripScheduled, StageNumber(models.TripScheduled)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.AssignDriver: %w", err)
	}
	return r.FindByID(ctx, tripID)
}

func (r *Repository) AddPendingResponses(ctx context.Context, tripID string, driverIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository.AddPendingResponses: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertPendingResponses(ctx, tx, tripID, driverIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository.AddPendingResponses: %w", err)
	}
	return nil
}

func (r *Repository) SetPotentialDrivers(ctx context.Context, tripID string, driverIDs []string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE trips SET potential_drivers = $1, updated_at = NOW() WHERE id = $2`,
		driverIDs, tripID)
	if err != nil {
		return fmt.Errorf("repository.SetPotentialDrivers: %w", err)
	}
	return nil
}

func (r *Repository) FindAcceptedOnDay(ctx context.Context, driverID string, day time.Time) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
        WHERE driver_id = $1
          AND status NOT IN ('cancelled', 'delivered', 'failed_delivery', 'returned')
          AND eta_pickup::date = $2::date
        LIMIT 1`
	trip, err := scanTrip(r.db.QueryRow(ctx, query, driverID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindAcceptedOnDay: %w", err)
	}
	return trip, nil
}

func (r *Repository) Update(ctx context.Context, tripID string, req models.UpdateTripRequest, stage int) (*models.Trip, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.AlternateContactNo != nil {
		appendSet("alternate_contact_no", *req.AlternateContactNo)
	}
	if req.Material != nil {
		appendSet("material_id", *req.Material)
	}
	if req.MaterialUnit != nil {
		appendSet("material_unit", *req.MaterialUnit)
	}
	if req.Weight != nil {
		appendSet("weight", *req.Weight)
	}
	if req.Status != nil {
		appendSet("status", *req.Status)
	}
	if req.IsPaymentDone != nil {
		appendSet("is_payment_done", *req.IsPaymentDone)
	}
	if req.Assistants != nil {
		appendSet("assistants", *req.Assistants)
	}
	if req.VehicleDetailID != nil {
		appendSet("vehicle_detail_id", *req.VehicleDetailID)
	}
	if req.ETAPickup != nil {
		appendSet("eta_pickup", *req.ETAPickup)
	}
	if req.FromLatitude != nil {
		appendSet("from_latitude", *req.FromLatitude)
	}
	if req.FromLongitude != nil {
		appendSet("from_longitude", *req.FromLongitude)
	}
	if req.ToLatitude != nil {
		appendSet("to_latitude", *req.ToLatitude)
	}
	if req.ToLongitude != nil {
		appendSet("to_longitude", *req.ToLongitude)
	}
	if req.TotalTollTaxAmount != nil {
		appendSet("total_toll_tax_amount", *req.TotalTollTaxAmount)
	}
	if req.CustomerFreight != nil {
		appendSet("customer_freight", *req.CustomerFreight)
	}
	if req.DriverFreight != nil {
		appendSet("driver_freight", *req.DriverFreight)
	}
	if req.AppCharges != nil {
		appendSet("app_charges", *req.AppCharges)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, tripID)
	}

	appendSet("updated_at", time.Now())
	args = append(args, tripID)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateTrip: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`UPDATE trips SET %s WHERE id = $%d`,
		strings.Join(setClauses, ", "), argIdx)
	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateTrip: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}

	if req.Status != nil {
		if err := appendStatusStack(ctx, tx, tripID, *req.Status, stage); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.UpdateTrip: %w", err)
	}
	return r.FindByID(ctx, tripID)
}

func (r *Repository) ListPickupsBetween(ctx context.Context, from, to time.Time) ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
        WHERE status = 'scheduled' AND eta_pickup BETWEEN $1 AND $2`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("repository.ListPickupsBetween: %w", err)
	}
	defer rows.Close()

	var out []models.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListPickupsBetween: %w", err)
		}
		out = append(out, *trip)
	}
	return out, rows.Err()
}
