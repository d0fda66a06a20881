package vehicles

import (
	"context"
	"fmt"

	"freight-dispatch/internal/models"
	"freight-dispatch/pkg/cache"
	"freight-dispatch/pkg/logger"
)

// ServiceInterface defines methods for vehicle and rate-card business logic.
type ServiceInterface interface {
	CreateType(ctx context.Context, req models.CreateVehicleTypeRequest) (*models.VehicleType, error)
	GetType(ctx context.Context, typeID string) (*models.VehicleType, error)
	ListTypes(ctx context.Context) ([]models.VehicleType, error)
	UpdateType(ctx context.Context, typeID string, req models.UpdateVehicleTypeRequest) (*models.VehicleType, error)

	AddVehicle(ctx context.Context, userID string, req models.CreateVehicleRequest) (*models.Vehicle, error)
	ListMyVehicles(ctx context.Context, userID string) ([]models.Vehicle, error)
	RemoveVehicle(ctx context.Context, userID, vehicleID string) error

	EligibleDrivers(ctx context.Context, vehicleTypeID string) ([]string, error)
	DriverVehicleOfType(ctx context.Context, driverID, vehicleTypeID string) (string, error)
}

type Service struct {
	repo      RepositoryInterface
	rateCards *cache.RateCardCache
	log       logger.ILogger
}

func NewService(repo RepositoryInterface, rateCards *cache.RateCardCache, log logger.ILogger) ServiceInterface {
	return &Service{repo: repo, rateCards: rateCards, log: log}
}

func (s *Service) CreateType(ctx context.Context, req models.CreateVehicleTypeRequest) (*models.VehicleType, error) {
	vt := &models.VehicleType{
		Name:             req.Name,
		Wheeler:          req.Wheeler,
		Capacity:         req.Capacity,
		Unit:             req.Unit,
		CustomerBaseFare: req.CustomerBaseFare,
		CustomerKmFare:   req.CustomerKmFare,
		DriverBaseFare:   req.DriverBaseFare,
		DriverKmFare:     req.DriverKmFare,
		VehicleImage:     req.VehicleImage,
	}
	created, err := s.repo.CreateType(ctx, vt)
	if err != nil {
		return nil, fmt.Errorf("service.CreateType: %w", err)
	}
	return created, nil
}

// GetType is a read-through: cache first, database on miss. The cache is
// advisory, so a cold or unreachable Redis only costs a query.
func (s *Service) GetType(ctx context.Context, typeID string) (*models.VehicleType, error) {
	var cached models.VehicleType
	if s.rateCards.Get(ctx, typeID, &cached) {
		return &cached, nil
	}

	vt, err := s.repo.FindTypeByID(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("service.GetType: %w", err)
	}
	s.rateCards.Set(ctx, typeID, vt)
	return vt, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]models.VehicleType, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListTypes: %w", err)
	}
	return types, nil
}

func (s *Service) UpdateType(ctx context.Context, typeID string, req models.UpdateVehicleTypeRequest) (*models.VehicleType, error) {
	vt, err := s.repo.UpdateType(ctx, typeID, req)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateType: %w", err)
	}
	// Drop the stale rate card so the next quote sees the new fares.
	s.rateCards.Invalidate(ctx, typeID)
	s.log.Info("rate card updated", logger.String("vehicle_type_id", typeID))
	return vt, nil
}

func (s *Service) AddVehicle(ctx context.Context, userID string, req models.CreateVehicleRequest) (*models.Vehicle, error) {
	if _, err := s.repo.FindTypeByID(ctx, req.VehicleTypeID); err != nil {
		return nil, fmt.Errorf("service.AddVehicle: %w", err)
	}

	v := &models.Vehicle{
		UserID:        userID,
		VehicleTypeID: req.VehicleTypeID,
		VehicleNo:     req.VehicleNo,
		Weight:        req.Weight,
		Length:        req.Length,
		Width:         req.Width,
		Height:        req.Height,
	}
	created, err := s.repo.CreateVehicle(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("service.AddVehicle: %w", err)
	}
	return created, nil
}

func (s *Service) ListMyVehicles(ctx context.Context, userID string) ([]models.Vehicle, error) {
	list, err := s.repo.ListVehiclesByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ListMyVehicles: %w", err)
	}
	return list, nil
}

func (s *Service) RemoveVehicle(ctx context.Context, userID, vehicleID string) error {
	if err := s.repo.DeleteVehicle(ctx, userID, vehicleID); err != nil {
		return fmt.Errorf("service.RemoveVehicle: %w", err)
	}
	return nil
}

// EligibleDrivers resolves the candidate set for a fan-out: active drivers
// owning at least one vehicle of the requested type.
func (s *Service) EligibleDrivers(ctx context.Context, vehicleTypeID string) ([]string, error) {
	ids, err := s.repo.ListOwnersByType(ctx, vehicleTypeID)
	if err != nil {
		return nil, fmt.Errorf("service.EligibleDrivers: %w", err)
	}
	return ids, nil
}

// DriverVehicleOfType returns the driver's vehicle of the given type, so a
// claimed trip can carry the truck that will actually run it.
func (s *Service) DriverVehicleOfType(ctx context.Context, driverID, vehicleTypeID string) (string, error) {
	id, err := s.repo.FindOwnerVehicleOfType(ctx, driverID, vehicleTypeID)
	if err != nil {
		return "", fmt.Errorf("service.DriverVehicleOfType: %w", err)
	}
	return id, nil
}
