package services

import (
	"context"
	"errors"

	"starwars-api/database"
	"starwars-api/models"
	"starwars-api/repository"

	"github.com/jmoiron/sqlx"
)

// PlanetService implements CRUD for planets
type PlanetService struct {
	db      *sqlx.DB
	planets repository.PlanetRepository
}

// NewPlanetService creates a new planet service
func NewPlanetService(db *sqlx.DB, planets repository.PlanetRepository) *PlanetService {
	return &PlanetService{db: db, planets: planets}
}

func (s *PlanetService) List(ctx context.Context) ([]models.Planet, error) {
	var planets []models.Planet
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		planets, err = s.planets.List(ctx, tx)
		if err == nil && len(planets) == 0 {
			return ErrNoPlanets
		}
		return err
	})
	if err != nil {
		return nil, persistence("list planets", err)
	}
	return planets, nil
}

func (s *PlanetService) Get(ctx context.Context, id int) (*models.Planet, error) {
	var planet *models.Planet
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		planet, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, persistence("get planet", err)
	}
	return planet, nil
}

func (s *PlanetService) Create(ctx context.Context, req models.PlanetRequest) (*models.Planet, error) {
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	planet := &models.Planet{Name: req.Name}
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.planets.Create(ctx, tx, planet)
	})
	if err != nil {
		return nil, persistence("create planet", err)
	}
	return planet, nil
}

// Update renames an existing planet
func (s *PlanetService) Update(ctx context.Context, id int, req models.PlanetRequest) (*models.Planet, error) {
	req.Normalize()

	var planet *models.Planet
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		planet, err = s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if errs := req.Validate(); len(errs) > 0 {
			return newValidationError(errs)
		}
		planet.Name = req.Name
		return s.planets.Update(ctx, tx, planet)
	})
	if err != nil {
		return nil, persistence("update planet", err)
	}
	return planet, nil
}

// Delete removes the planet and returns it. Favorites pointing at it
// are left in place.
func (s *PlanetService) Delete(ctx context.Context, id int) (*models.Planet, error) {
	var planet *models.Planet
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		planet, err = s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.planets.Delete(ctx, tx, id)
	})
	if err != nil {
		return nil, persistence("delete planet", err)
	}
	return planet, nil
}

func (s *PlanetService) get(ctx context.Context, q repository.Handle, id int) (*models.Planet, error) {
	planet, err := s.planets.GetByID(ctx, q, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlanetNotFound
	}
	return planet, err
}
