package notifications

import (
	"context"
	"fmt"

	"freight-dispatch/internal/models"
)

// ServiceInterface defines methods for the notification inbox.
type ServiceInterface interface {
	Record(ctx context.Context, n *models.Notification) error
	MarkResponse(ctx context.Context, tripID, userID string, response models.ResponseStatus) error
	Inbox(ctx context.Context, filter models.NotificationFilter, page, limit int) ([]models.Notification, error)
}

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) ServiceInterface {
	return &Service{repo: repo}
}

func (s *Service) Record(ctx context.Context, n *models.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("service.RecordNotification: %w", err)
	}
	return nil
}

func (s *Service) MarkResponse(ctx context.Context, tripID, userID string, response models.ResponseStatus) error {
	if err := s.repo.MarkResponse(ctx, tripID, userID, response); err != nil {
		return fmt.Errorf("service.MarkResponse: %w", err)
	}
	return nil
}

func (s *Service) Inbox(ctx context.Context, filter models.NotificationFilter, page, limit int) ([]models.Notification, error) {
	list, err := s.repo.ListByUser(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("service.Inbox: %w", err)
	}
	return list, nil
}
