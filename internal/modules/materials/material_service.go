package materials

import (
	"context"
	"fmt"

	"freight-dispatch/internal/models"
)

// ServiceInterface defines methods for material catalogue logic.
type ServiceInterface interface {
	Create(ctx context.Context, req models.CreateMaterialRequest) (*models.Material, error)
	Get(ctx context.Context, materialID string) (*models.Material, error)
	List(ctx context.Context) ([]models.Material, error)
	Delete(ctx context.Context, materialID string) error
}

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) ServiceInterface {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req models.CreateMaterialRequest) (*models.Material, error) {
	m := &models.Material{
		Name:   req.Name,
		Weight: req.Weight,
		Type:   req.Type,
	}
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("service.CreateMaterial: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, materialID string) (*models.Material, error) {
	m, err := s.repo.FindByID(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("service.GetMaterial: %w", err)
	}
	return m, nil
}

func (s *Service) List(ctx context.Context) ([]models.Material, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListMaterials: %w", err)
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, materialID string) error {
	if err := s.repo.Delete(ctx, materialID); err != nil {
		return fmt.Errorf("service.DeleteMaterial: %w", err)
	}
	return nil
}
