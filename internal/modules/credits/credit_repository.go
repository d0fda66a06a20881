package credits

import (
	"context"
	"errors"
	"fmt"

	"freight-dispatch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for the credit ledger. Rows are
// append-only; users.total_credits mirrors the sum for fast reads and every
// write keeps the two in step inside one transaction.
type RepositoryInterface interface {
	Add(ctx context.Context, c *models.Credit) (*models.Credit, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Credit, error)
	Delete(ctx context.Context, userID, creditID string) error
	SettleTrip(ctx context.Context, tripID, customerID string, customerAmount float64, driverID string, driverAmount float64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func insertCredit(ctx context.Context, tx pgx.Tx, c *models.Credit) error {
	err := tx.QueryRow(ctx, `
        INSERT INTO credits (user_id, amount, trip_id, stack_type)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`,
		c.UserID, c.Amount, c.TripID, c.StackType,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository.insertCredit: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET total_credits = total_credits + $1, updated_at = NOW() WHERE id = $2`,
		c.Amount, c.UserID)
	if err != nil {
		return fmt.Errorf("repository.insertCredit: mirror: %w", err)
	}
	return nil
}

func (r *Repository) Add(ctx context.Context, c *models.Credit) (*models.Credit, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.AddCredit: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertCredit(ctx, tx, c); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.AddCredit: %w", err)
	}
	return c, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Credit, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, amount, trip_id, stack_type, created_at
        FROM credits WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("repository.ListCredits: %w", err)
	}
	defer rows.Close()

	var out []models.Credit
	for rows.Next() {
		var c models.Credit
		if err := rows.Scan(&c.ID, &c.UserID, &c.Amount, &c.TripID, &c.StackType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListCredits: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete hard-deletes a row the user owns and reverses its effect on the
// mirror. A row belonging to someone else is reported as not owned, never
// touched.
func (r *Repository) Delete(ctx context.Context, userID, creditID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository.DeleteCredit: %w", err)
	}
	defer tx.Rollback(ctx)

	var amount float64
	err = tx.QueryRow(ctx,
		`DELETE FROM credits WHERE id = $1 AND user_id = $2 RETURNING amount`,
		creditID, userID).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrCreditNotOwned
		}
		return fmt.Errorf("repository.DeleteCredit: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET total_credits = total_credits - $1, updated_at = NOW() WHERE id = $2`,
		amount, userID)
	if err != nil {
		return fmt.Errorf("repository.DeleteCredit: mirror: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository.DeleteCredit: %w", err)
	}
	return nil
}

// SettleTrip writes both legs of a settlement atomically: the customer debit
// and the driver credit, each mirrored onto total_credits.
func (r *Repository) SettleTrip(ctx context.Context, tripID, customerID string, customerAmount float64, driverID string, driverAmount float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository.SettleTrip: %w", err)
	}
	defer tx.Rollback(ctx)

	customerLeg := &models.Credit{
		UserID:    customerID,
		Amount:    customerAmount,
		TripID:    &tripID,
		StackType: models.CreditTrip,
	}
	if err := insertCredit(ctx, tx, customerLeg); err != nil {
		return err
	}

	driverLeg := &models.Credit{
		UserID:    driverID,
		Amount:    driverAmount,
		TripID:    &tripID,
		StackType: models.CreditTrip,
	}
	if err := insertCredit(ctx, tx, driverLeg); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository.SettleTrip: %w", err)
	}
	return nil
}
