package materials

import (
	"context"
	"errors"
	"fmt"
	"freight-dispatch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for the material catalogue.
type RepositoryInterface interface {
	Create(ctx context.Context, m *models.Material) (*models.Material, error)
	FindByID(ctx context.Context, materialID string) (*models.Material, error)
	List(ctx context.Context) ([]models.Material, error)
	Delete(ctx context.Context, materialID string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, m *models.Material) (*models.Material, error) {
	query := `
        INSERT INTO materials (name, weight, type)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, m.Name, m.Weight, m.Type).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateMaterial
		}
		return nil, fmt.Errorf("repository.CreateMaterial: %w", err)
	}
	return m, nil
}

func (r *Repository) FindByID(ctx context.Context, materialID string) (*models.Material, error) {
	m := &models.Material{}
	query := `SELECT id, name, weight, type, created_at, updated_at FROM materials WHERE id = $1`
	err := r.db.QueryRow(ctx, query, materialID).Scan(&m.ID, &m.Name, &m.Weight, &m.Type, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindMaterialByID: %w", err)
	}
	return m, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Material, error) {
	query := `SELECT id, name, weight, type, created_at, updated_at FROM materials ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListMaterials: %w", err)
	}
	defer rows.Close()

	var out []models.Material
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Weight, &m.Type, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListMaterials: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, materialID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, materialID)
	if err != nil {
		return fmt.Errorf("repository.DeleteMaterial: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
