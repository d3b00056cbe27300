package repository

import (
	"context"
	"fmt"

	"starwars-api/models"

	"github.com/jmoiron/sqlx"
)

// CharacterRepository persists characters
type CharacterRepository interface {
	List(ctx context.Context, q Handle) ([]models.Character, error)
	GetByID(ctx context.Context, q Handle, id int) (*models.Character, error)
	Create(ctx context.Context, q Handle, character *models.Character) error
	Update(ctx context.Context, q Handle, character *models.Character) error
	Delete(ctx context.Context, q Handle, id int) error
}

type characterRepository struct{}

// NewCharacterRepository returns the SQL-backed CharacterRepository
func NewCharacterRepository() CharacterRepository {
	return &characterRepository{}
}

func (r *characterRepository) List(ctx context.Context, q Handle) ([]models.Character, error) {
	var characters []models.Character
	if err := sqlx.SelectContext(ctx, q, &characters, "SELECT id, name, specie FROM characters ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return characters, nil
}

func (r *characterRepository) GetByID(ctx context.Context, q Handle, id int) (*models.Character, error) {
	var character models.Character
	err := sqlx.GetContext(ctx, q, &character, q.Rebind("SELECT id, name, specie FROM characters WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &character, nil
}

func (r *characterRepository) Create(ctx context.Context, q Handle, character *models.Character) error {
	query := q.Rebind("INSERT INTO characters (name, specie) VALUES (?, ?) RETURNING id")
	return q.QueryRowxContext(ctx, query, character.Name, character.Specie).Scan(&character.ID)
}

func (r *characterRepository) Update(ctx context.Context, q Handle, character *models.Character) error {
	query := q.Rebind("UPDATE characters SET name = ?, specie = ? WHERE id = ?")
	res, err := q.ExecContext(ctx, query, character.Name, character.Specie, character.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *characterRepository) Delete(ctx context.Context, q Handle, id int) error {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM characters WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return affected(res)
}
