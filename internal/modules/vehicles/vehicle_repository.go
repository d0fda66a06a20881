package vehicles

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

// RepositoryInterface defines methods for vehicle and rate-card storage.
type RepositoryInterface interface {
	CreateType(ctx context.Context, vt *models.VehicleType) (*models.VehicleType, error)
	FindTypeByID(ctx context.Context, typeID string) (*models.VehicleType, error)
	ListTypes(ctx context.Context) ([]models.VehicleType, error)
	UpdateType(ctx context.Context, typeID string, data models.UpdateVehicleTypeRequest) (*models.VehicleType, error)

	CreateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	ListVehiclesByOwner(ctx context.Context, userID string) ([]models.Vehicle, error)
	DeleteVehicle(ctx context.Context, userID, vehicleID string) error

	// ListOwnersByType returns the distinct active drivers owning at least one
	// vehicle of the given type. An empty result is not an error.
	ListOwnersByType(ctx context.Context, vehicleTypeID string) ([]string, error)

	// FindOwnerVehicleOfType returns the ID of one active vehicle of the given
	// type owned by the user, or ErrNotFound.
	FindOwnerVehicleOfType(ctx context.Context, userID, vehicleTypeID string) (string, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const typeColumns = `id, name, wheeler, capacity, unit,
	customer_base_fare, customer_km_fare, customer_base_fare_margin, customer_km_fare_margin,
	driver_base_fare, driver_km_fare, driver_base_fare_margin, driver_km_fare_margin,
	vehicle_image, created_at, updated_at`

func scanVehicleType(row pgx.Row) (*models.VehicleType, error) {
	vt := &models.VehicleType{}
	err := row.Scan(
		&vt.ID, &vt.Name, &vt.Wheeler, &vt.Capacity, &vt.Unit,
		&vt.CustomerBaseFare, &vt.CustomerKmFare, &vt.CustomerBaseFareMargin, &vt.CustomerKmFareMargin,
		&vt.DriverBaseFare, &vt.DriverKmFare, &vt.DriverBaseFareMargin, &vt.DriverKmFareMargin,
		&vt.VehicleImage, &vt.CreatedAt, &vt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return vt, nil
}

func (r *Repository) CreateType(ctx context.Context, vt *models.VehicleType) (*models.VehicleType, error) {
	query := `
        INSERT INTO vehicle_types (name, wheeler, capacity, unit,
            customer_base_fare, customer_km_fare, driver_base_fare, driver_km_fare, vehicle_image)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		vt.Name, vt.Wheeler, vt.Capacity, vt.Unit,
		vt.CustomerBaseFare, vt.CustomerKmFare, vt.DriverBaseFare, vt.DriverKmFare, vt.VehicleImage,
	).Scan(&vt.ID, &vt.CreatedAt, &vt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateType: %w", err)
	}
	return vt, nil
}

func (r *Repository) FindTypeByID(ctx context.Context, typeID string) (*models.VehicleType, error) {
	query := `SELECT ` + typeColumns + ` FROM vehicle_types WHERE id = $1`
	vt, err := scanVehicleType(r.db.QueryRow(ctx, query, typeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindTypeByID: %w", err)
	}
	return vt, nil
}

func (r *Repository) ListTypes(ctx context.Context) ([]models.VehicleType, error) {
	query := `SELECT ` + typeColumns + ` FROM vehicle_types ORDER BY wheeler, name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListTypes: %w", err)
	}
	defer rows.Close()

	var out []models.VehicleType
	for rows.Next() {
		vt, err := scanVehicleType(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListTypes: %w", err)
		}
		out = append(out, *vt)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateType(ctx context.Context, typeID string, data models.UpdateVehicleTypeRequest) (*models.VehicleType, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if data.Name != nil {
		appendSet("name", *data.Name)
	}
	if data.CustomerBaseFare != nil {
		appendSet("customer_base_fare", *data.CustomerBaseFare)
	}
	if data.CustomerKmFare != nil {
		appendSet("customer_km_fare", *data.CustomerKmFare)
	}
	if data.DriverBaseFare != nil {
		appendSet("driver_base_fare", *data.DriverBaseFare)
	}
	if data.DriverKmFare != nil {
		appendSet("driver_km_fare", *data.DriverKmFare)
	}
	if data.VehicleImage != nil {
		appendSet("vehicle_image", *data.VehicleImage)
	}

	if len(setClauses) == 0 {
		return r.FindTypeByID(ctx, typeID)
	}

	appendSet("updated_at", time.Now())
	args = append(args, typeID)

	query := fmt.Sprintf(`UPDATE vehicle_types SET %s WHERE id = $%d RETURNING `+typeColumns,
		strings.Join(setClauses, ", "), argIdx)

	vt, err := scanVehicleType(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateType: %w", err)
	}
	return vt, nil
}

func (r *Repository) CreateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	query := `
        INSERT INTO vehicles (user_id, vehicle_type_id, vehicle_no, weight, length, width, height)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, status, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		v.UserID, v.VehicleTypeID, v.VehicleNo, v.Weight, v.Length, v.Width, v.Height,
	).Scan(&v.ID, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateVehicle: %w", err)
	}
	return v, nil
}

func (r *Repository) ListVehiclesByOwner(ctx context.Context, userID string) ([]models.Vehicle, error) {
	query := `
        SELECT id, user_id, vehicle_type_id, vehicle_no, weight, length, width, height, status, created_at, updated_at
        FROM vehicles WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListVehiclesByOwner: %w", err)
	}
	defer rows.Close()

	var out []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.VehicleTypeID, &v.VehicleNo, &v.Weight,
			&v.Length, &v.Width, &v.Height, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("repository.ListVehiclesByOwner: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteVehicle(ctx context.Context, userID, vehicleID string) error {
	query := `DELETE FROM vehicles WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, vehicleID, userID)
	if err != nil {
		return fmt.Errorf("repository.DeleteVehicle: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) ListOwnersByType(ctx context.Context, vehicleTypeID string) ([]string, error) {
	query := `
        SELECT DISTINCT u.id
        FROM vehicles v
        JOIN users u ON u.id = v.user_id
        WHERE v.vehicle_type_id = $1
          AND u.type = 'driver'
          AND u.status = 'active'`
	rows, err := r.db.Query(ctx, query, vehicleTypeID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListOwnersByType: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repository.ListOwnersByType: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) FindOwnerVehicleOfType(ctx context.Context, userID, vehicleTypeID string) (string, error) {
	query := `
        SELECT id FROM vehicles
        WHERE user_id = $1 AND vehicle_type_id = $2 AND status = 'active'
        ORDER BY created_at
        LIMIT 1`
	var id string
	err := r.db.QueryRow(ctx, query, userID, vehicleTypeID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("repository.FindOwnerVehicleOfType: %w", err)
	}
	return id, nil
}
