package services

import (
	"context"
	"errors"

	"starwars-api/database"
	"starwars-api/models"
	"starwars-api/repository"

	"github.com/jmoiron/sqlx"
)

// FavoriteService links users to the characters and planets they favorite
type FavoriteService struct {
	db         *sqlx.DB
	favorites  repository.FavoriteRepository
	users      repository.UserRepository
	characters repository.CharacterRepository
	planets    repository.PlanetRepository
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(
	db *sqlx.DB,
	favorites repository.FavoriteRepository,
	users repository.UserRepository,
	characters repository.CharacterRepository,
	planets repository.PlanetRepository,
) *FavoriteService {
	return &FavoriteService{
		db:         db,
		favorites:  favorites,
		users:      users,
		characters: characters,
		planets:    planets,
	}
}

// Add favorites the target for the user, snapshotting its current name.
func (s *FavoriteService) Add(ctx context.Context, userID int, kind string, targetID int) (*models.Favorite, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	var fav *models.Favorite
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.checkActive(ctx, tx, userID); err != nil {
			return err
		}

		fav = &models.Favorite{UserID: userID, Tipo: kind}
		switch kind {
		case models.FavoriteCharacter:
			character, err := s.characters.GetByID(ctx, tx, targetID)
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCharacterNotFound
			}
			if err != nil {
				return err
			}
			fav.CharacterID = &character.ID
			fav.Name = character.Name
			fav.Item = character
		case models.FavoritePlanet:
			planet, err := s.planets.GetByID(ctx, tx, targetID)
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlanetNotFound
			}
			if err != nil {
				return err
			}
			fav.PlanetID = &planet.ID
			fav.Name = planet.Name
			fav.Item = planet
		}

		_, err := s.favorites.FindByTarget(ctx, tx, userID, kind, targetID)
		if err == nil {
			return ErrFavoriteAlreadyExists
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := s.favorites.Create(ctx, tx, fav); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrFavoriteAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, persistence("add favorite", err)
	}
	return fav, nil
}

// Remove deletes the user's favorite for the target and returns it
func (s *FavoriteService) Remove(ctx context.Context, userID int, kind string, targetID int) (*models.Favorite, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	var fav *models.Favorite
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.checkActive(ctx, tx, userID); err != nil {
			return err
		}

		var err error
		fav, err = s.favorites.FindByTarget(ctx, tx, userID, kind, targetID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		if err != nil {
			return err
		}
		return s.favorites.Delete(ctx, tx, fav.ID)
	})
	if err != nil {
		return nil, persistence("remove favorite", err)
	}
	return fav, nil
}

// List returns every favorite, or only those of userID when it is set.
// Filtering by a user that does not exist fails with ErrUserNotFound.
func (s *FavoriteService) List(ctx context.Context, userID *int) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		if userID == nil {
			favs, err = s.favorites.List(ctx, tx)
		} else {
			if _, err := s.users.GetByID(ctx, tx, *userID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			favs, err = s.favorites.List(ctx, tx, *userID)
		}
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			return ErrNoFavorites
		}
		return nil
	})
	if err != nil {
		return nil, persistence("list favorites", err)
	}
	return favs, nil
}

// checkActive fails unless userID names an active user
func (s *FavoriteService) checkActive(ctx context.Context, q repository.Handle, userID int) error {
	user, err := s.users.GetByID(ctx, q, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !user.IsActive {
		return ErrUserInactive
	}
	return nil
}

func checkKind(kind string) error {
	if kind != models.FavoriteCharacter && kind != models.FavoritePlanet {
		return newValidationError(models.ValidationErrors{
			{Field: "tipo", Message: "favorite target must be a character or a planet"},
		})
	}
	return nil
}
