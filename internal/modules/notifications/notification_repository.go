package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"freight-dispatch/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for notification storage.
type RepositoryInterface interface {
	Create(ctx context.Context, n *models.Notification) error
	MarkResponse(ctx context.Context, tripID, userID string, response models.ResponseStatus) error
	ListByUser(ctx context.Context, filter models.NotificationFilter, page, limit int) ([]models.Notification, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, n *models.Notification) error {
	var meta []byte
	if n.Metadata != nil {
		var err error
		meta, err = json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("repository.CreateNotification: marshal metadata: %w", err)
		}
	}

	query := `
        INSERT INTO notifications (user_id, title, message, type, related_trip, notify_to, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedTrip, n.NotifyTo, meta,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository.CreateNotification: %w", err)
	}
	return nil
}

// MarkResponse stamps the driver's decision onto their offer row for the trip.
func (r *Repository) MarkResponse(ctx context.Context, tripID, userID string, response models.ResponseStatus) error {
	query := `
        UPDATE notifications
        SET user_response = $1, updated_at = NOW()
        WHERE related_trip = $2 AND user_id = $3 AND user_response IS NULL`
	cmdTag, err := r.db.Exec(ctx, query, response, tripID, userID)
	if err != nil {
		return fmt.Errorf("repository.MarkResponse: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListByUser returns the inbox: today's rows first, then yesterday's, then
// the rest, newest first inside each bucket. A trip-request row counts as
// read once its trip has left the searching state.
func (r *Repository) ListByUser(ctx context.Context, filter models.NotificationFilter, page, limit int) ([]models.Notification, error) {
	query := `
        SELECT n.id, n.user_id, n.title, n.message, n.type,
            CASE
                WHEN t.id IS NOT NULL THEN t.status <> 'searching'
                ELSE n.is_read
            END AS is_read,
            n.related_trip, n.notify_to, n.user_response, n.metadata, n.created_at, n.updated_at
        FROM notifications n
        LEFT JOIN trips t ON t.id = n.related_trip
        WHERE n.user_id = $1`
	args := []interface{}{filter.UserID}
	argIdx := 2

	if filter.NotifyTo != "" {
		query += fmt.Sprintf(" AND n.notify_to = $%d", argIdx)
		args = append(args, filter.NotifyTo)
		argIdx++
	}
	if filter.TripID != "" {
		query += fmt.Sprintf(" AND n.related_trip = $%d", argIdx)
		args = append(args, filter.TripID)
		argIdx++
	}
	if filter.Response != "" {
		query += fmt.Sprintf(" AND n.user_response = $%d", argIdx)
		args = append(args, filter.Response)
		argIdx++
	}

	query += fmt.Sprintf(`
        ORDER BY
            CASE
                WHEN n.created_at::date = CURRENT_DATE THEN 0
                WHEN n.created_at::date = CURRENT_DATE - 1 THEN 1
                ELSE 2
            END,
            n.created_at DESC
        LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListNotifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var meta []byte
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead,
			&n.RelatedTrip, &n.NotifyTo, &n.UserResponse, &meta, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("repository.ListNotifications: %w", err)
		}
		if len(meta) > 0 {
			n.Metadata = &models.NotificationMetadata{}
			if err := json.Unmarshal(meta, n.Metadata); err != nil {
				return nil, fmt.Errorf("repository.ListNotifications: unmarshal metadata: %w", err)
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
