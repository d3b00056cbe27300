package services

import (
	"context"
	"errors"

	"starwars-api/database"
	"starwars-api/models"
	"starwars-api/repository"

	"github.com/jmoiron/sqlx"
)

// CharacterService implements CRUD for characters
type CharacterService struct {
	db         *sqlx.DB
	characters repository.CharacterRepository
}

// NewCharacterService creates a new character service
func NewCharacterService(db *sqlx.DB, characters repository.CharacterRepository) *CharacterService {
	return &CharacterService{db: db, characters: characters}
}

func (s *CharacterService) List(ctx context.Context) ([]models.Character, error) {
	var characters []models.Character
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		characters, err = s.characters.List(ctx, tx)
		if err == nil && len(characters) == 0 {
			return ErrNoCharacters
		}
		return err
	})
	if err != nil {
		return nil, persistence("list characters", err)
	}
	return characters, nil
}

func (s *CharacterService) Get(ctx context.Context, id int) (*models.Character, error) {
	var character *models.Character
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		character, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, persistence("get character", err)
	}
	return character, nil
}

func (s *CharacterService) Create(ctx context.Context, req models.CharacterRequest) (*models.Character, error) {
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	character := &models.Character{Name: req.Name, Specie: &req.Specie}
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.characters.Create(ctx, tx, character)
	})
	if err != nil {
		return nil, persistence("create character", err)
	}
	return character, nil
}

// Update replaces name and specie of an existing character
func (s *CharacterService) Update(ctx context.Context, id int, req models.CharacterRequest) (*models.Character, error) {
	req.Normalize()

	var character *models.Character
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		character, err = s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if errs := req.Validate(); len(errs) > 0 {
			return newValidationError(errs)
		}
		character.Name = req.Name
		character.Specie = &req.Specie
		return s.characters.Update(ctx, tx, character)
	})
	if err != nil {
		return nil, persistence("update character", err)
	}
	return character, nil
}

// Delete removes the character and returns it. Favorites pointing at it
// are left in place.
func (s *CharacterService) Delete(ctx context.Context, id int) (*models.Character, error) {
	var character *models.Character
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		character, err = s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.characters.Delete(ctx, tx, id)
	})
	if err != nil {
		return nil, persistence("delete character", err)
	}
	return character, nil
}

func (s *CharacterService) get(ctx context.Context, q repository.Handle, id int) (*models.Character, error) {
	character, err := s.characters.GetByID(ctx, q, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCharacterNotFound
	}
	return character, err
}
