package credits

import (
	"context"
	"fmt"

	"freight-dispatch/internal/models"
	"freight-dispatch/pkg/logger"
)

// ServiceInterface defines methods for credit ledger logic.
type ServiceInterface interface {
	Add(ctx context.Context, userID string, req models.CreateCreditRequest) (*models.Credit, error)
	List(ctx context.Context, userID string, page, limit int) ([]models.Credit, error)
	Delete(ctx context.Context, userID, creditID string) error
	SettleTrip(ctx context.Context, tripID, customerID string, customerAmount float64, driverID string, driverAmount float64) error
}

type Service struct {
	repo RepositoryInterface
	log  logger.ILogger
}

func NewService(repo RepositoryInterface, log logger.ILogger) ServiceInterface {
	return &Service{repo: repo, log: log}
}

func (s *Service) Add(ctx context.Context, userID string, req models.CreateCreditRequest) (*models.Credit, error) {
	credit := &models.Credit{
		UserID:    userID,
		Amount:    req.Amount,
		StackType: models.CreditOwn,
	}
	created, err := s.repo.Add(ctx, credit)
	if err != nil {
		return nil, fmt.Errorf("service.AddCredit: %w", err)
	}
	return created, nil
}

func (s *Service) List(ctx context.Context, userID string, page, limit int) ([]models.Credit, error) {
	list, err := s.repo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("service.ListCredits: %w", err)
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, userID, creditID string) error {
	if err := s.repo.Delete(ctx, userID, creditID); err != nil {
		return fmt.Errorf("service.DeleteCredit: %w", err)
	}
	return nil
}

func (s *Service) SettleTrip(ctx context.Context, tripID, customerID string, customerAmount float64, driverID string, driverAmount float64) error {
	if err := s.repo.SettleTrip(ctx, tripID, customerID, customerAmount, driverID, driverAmount); err != nil {
		return fmt.Errorf("service.SettleTrip: %w", err)
	}
	s.log.Info("trip settlement written",
		logger.String("trip_id", tripID),
		logger.Float64("customer_leg", customerAmount),
		logger.Float64("driver_leg", driverAmount))
	return nil
}
