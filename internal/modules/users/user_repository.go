package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freight-dispatch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for interacting with user storage.
type RepositoryInterface interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]models.User, error)
	List(ctx context.Context, role models.Role, page, limit int) ([]models.User, error)

	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const userColumns = `id, username, email, fullname, contact_no, password_hash, type, status, availability, fcm_token, total_credits, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname, &user.ContactNo,
		&user.PasswordHash, &user.Type, &user.Status, &user.Availability,
		&user.FCMToken, &user.TotalCredits, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByUsername: %w", err)
	}
	return user, nil
}

// ListByIDs returns the users for a set of IDs in one round trip. Used by the
// dispatch engine to resolve FCM tokens for a fan-out.
func (r *Repository) ListByIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByIDs: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByIDs: %w", err)
		}
		out = append(out, *user)
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context, role models.Role, page, limit int) ([]models.User, error) {
	var args []interface{}
	query := `SELECT ` + userColumns + ` FROM users`
	if role != "" {
		query += ` WHERE type = $1`
		args = append(args, role)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.List: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.List: %w", err)
		}
		out = append(out, *user)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
        INSERT INTO users (username, email, fullname, contact_no, password_hash, type)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, status, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.Fullname, user.ContactNo, user.PasswordHash, user.Type,
	).Scan(&user.ID, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateUser
		}
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return user, nil
}

func (r *Repository) Update(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if data.Fullname != nil {
		appendSet("fullname", *data.Fullname)
	}
	if data.ContactNo != nil {
		appendSet("contact_no", *data.ContactNo)
	}
	if data.Availability != nil {
		appendSet("availability", *data.Availability)
	}
	if data.FCMToken != nil {
		appendSet("fcm_token", *data.FCMToken)
	}
	if data.Status != nil {
		appendSet("status", *data.Status)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, userID)
	}

	appendSet("updated_at", time.Now())
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(setClauses, ", "), argIdx)

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateUser: %w", err)
	}
	return user, nil
}

func (r *Repository) UpdateFCMToken(ctx context.Context, userID, token string) error {
	query := `UPDATE users SET fcm_token = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, token, userID)
	if err != nil {
		return fmt.Errorf("repository.UpdateFCMToken: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
