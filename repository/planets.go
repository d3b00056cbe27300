package repository

import (
	"context"
	"fmt"

	"starwars-api/models"

	"github.com/jmoiron/sqlx"
)

// PlanetRepository persists planets
type PlanetRepository interface {
	List(ctx context.Context, q Handle) ([]models.Planet, error)
	GetByID(ctx context.Context, q Handle, id int) (*models.Planet, error)
	Create(ctx context.Context, q Handle, planet *models.Planet) error
	Update(ctx context.Context, q Handle, planet *models.Planet) error
	Delete(ctx context.Context, q Handle, id int) error
}

type planetRepository struct{}

// NewPlanetRepository returns the SQL-backed PlanetRepository
func NewPlanetRepository() PlanetRepository {
	return &planetRepository{}
}

func (r *planetRepository) List(ctx context.Context, q Handle) ([]models.Planet, error) {
	var planets []models.Planet
	if err := sqlx.SelectContext(ctx, q, &planets, "SELECT id, name FROM planets ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list planets: %w", err)
	}
	return planets, nil
}

func (r *planetRepository) GetByID(ctx context.Context, q Handle, id int) (*models.Planet, error) {
	var planet models.Planet
	err := sqlx.GetContext(ctx, q, &planet, q.Rebind("SELECT id, name FROM planets WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &planet, nil
}

func (r *planetRepository) Create(ctx context.Context, q Handle, planet *models.Planet) error {
	return q.QueryRowxContext(ctx, q.Rebind("INSERT INTO planets (name) VALUES (?) RETURNING id"), planet.Name).Scan(&planet.ID)
}

func (r *planetRepository) Update(ctx context.Context, q Handle, planet *models.Planet) error {
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE planets SET name = ? WHERE id = ?"), planet.Name, planet.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *planetRepository) Delete(ctx context.Context, q Handle, id int) error {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM planets WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return affected(res)
}
