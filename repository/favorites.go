package repository

import (
	"context"
	"database/sql"
	"fmt"

	"starwars-api/models"

	"github.com/jmoiron/sqlx"
)

// FavoriteRepository persists favorites
type FavoriteRepository interface {
	// List returns favorites with their live target attached. With no
	// userIDs every favorite is returned.
	List(ctx context.Context, q Handle, userIDs ...int) ([]models.Favorite, error)
	FindByTarget(ctx context.Context, q Handle, userID int, kind string, targetID int) (*models.Favorite, error)
	Create(ctx context.Context, q Handle, favorite *models.Favorite) error
	Delete(ctx context.Context, q Handle, id int) error
}

type favoriteRepository struct{}

// NewFavoriteRepository returns the SQL-backed FavoriteRepository
func NewFavoriteRepository() FavoriteRepository {
	return &favoriteRepository{}
}

const favoriteColumns = "f.id, f.id_user, f.id_character, f.id_planet, f.name, f.tipo"

// favoriteRow is a favorite joined with whatever target still exists
type favoriteRow struct {
	models.Favorite
	CharacterRef    sql.NullInt64  `db:"c_id"`
	CharacterName   sql.NullString `db:"c_name"`
	CharacterSpecie sql.NullString `db:"c_specie"`
	PlanetRef       sql.NullInt64  `db:"p_id"`
	PlanetName      sql.NullString `db:"p_name"`
}

func (row favoriteRow) toModel() models.Favorite {
	fav := row.Favorite
	switch {
	case fav.PlanetID != nil && row.PlanetRef.Valid:
		fav.Item = &models.Planet{ID: int(row.PlanetRef.Int64), Name: row.PlanetName.String}
	case fav.CharacterID != nil && row.CharacterRef.Valid:
		character := &models.Character{ID: int(row.CharacterRef.Int64), Name: row.CharacterName.String}
		if row.CharacterSpecie.Valid {
			specie := row.CharacterSpecie.String
			character.Specie = &specie
		}
		fav.Item = character
	}
	return fav
}

func (r *favoriteRepository) List(ctx context.Context, q Handle, userIDs ...int) ([]models.Favorite, error) {
	query := `SELECT ` + favoriteColumns + `,
		c.id AS c_id, c.name AS c_name, c.specie AS c_specie,
		p.id AS p_id, p.name AS p_name
		FROM favorites f
		LEFT JOIN characters c ON c.id = f.id_character
		LEFT JOIN planets p ON p.id = f.id_planet`
	args := []interface{}{}

	if len(userIDs) > 0 {
		var err error
		query, args, err = sqlx.In(query+" WHERE f.id_user IN (?)", userIDs)
		if err != nil {
			return nil, fmt.Errorf("build favorites query: %w", err)
		}
	}
	query += " ORDER BY f.id"

	var rows []favoriteRow
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	favorites := make([]models.Favorite, 0, len(rows))
	for _, row := range rows {
		favorites = append(favorites, row.toModel())
	}
	return favorites, nil
}

func (r *favoriteRepository) FindByTarget(ctx context.Context, q Handle, userID int, kind string, targetID int) (*models.Favorite, error) {
	var column string
	switch kind {
	case models.FavoriteCharacter:
		column = "id_character"
	case models.FavoritePlanet:
		column = "id_planet"
	default:
		return nil, fmt.Errorf("unknown favorite kind %q", kind)
	}

	var fav models.Favorite
	query := "SELECT id, id_user, id_character, id_planet, name, tipo FROM favorites WHERE id_user = ? AND " + column + " = ?"
	if err := sqlx.GetContext(ctx, q, &fav, q.Rebind(query), userID, targetID); err != nil {
		return nil, notFound(err)
	}
	return &fav, nil
}

func (r *favoriteRepository) Create(ctx context.Context, q Handle, favorite *models.Favorite) error {
	query := q.Rebind("INSERT INTO favorites (id_user, id_character, id_planet, name, tipo) VALUES (?, ?, ?, ?, ?) RETURNING id")
	err := q.QueryRowxContext(ctx, query,
		favorite.UserID, favorite.CharacterID, favorite.PlanetID, favorite.Name, favorite.Tipo,
	).Scan(&favorite.ID)
	return uniqueViolation(err)
}

func (r *favoriteRepository) Delete(ctx context.Context, q Handle, id int) error {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM favorites WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return affected(res)
}
