package models

// Favorite target kinds, stored in the tipo column
const (
	FavoriteCharacter = "character"
	FavoritePlanet    = "planet"
	FavoriteUnknown   = "unknown"
)

// Favorite links a user to exactly one character or planet.
// Name and Tipo are a snapshot of the target taken when the favorite was created.
type Favorite struct {
	ID          int    `json:"id" db:"id"`
	UserID      int    `json:"id_user" db:"id_user"`
	CharacterID *int   `json:"id_character" db:"id_character"`
	PlanetID    *int   `json:"id_planet" db:"id_planet"`
	Name        string `json:"name" db:"name"`
	Tipo        string `json:"tipo" db:"tipo"`

	// Item is the live target record (*Character or *Planet); nil when the
	// target has been deleted since the favorite was created.
	Item interface{} `json:"item,omitempty" db:"-"`
}

// FavoriteKind derives the tipo from which target id is set
func FavoriteKind(characterID, planetID *int) string {
	switch {
	case characterID != nil && planetID == nil:
		return FavoriteCharacter
	case planetID != nil && characterID == nil:
		return FavoritePlanet
	default:
		return FavoriteUnknown
	}
}

// TargetID returns the id of whichever target is set, and its kind
func (f *Favorite) TargetID() (string, int) {
	switch FavoriteKind(f.CharacterID, f.PlanetID) {
	case FavoriteCharacter:
		return FavoriteCharacter, *f.CharacterID
	case FavoritePlanet:
		return FavoritePlanet, *f.PlanetID
	}
	return FavoriteUnknown, 0
}
