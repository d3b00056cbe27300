package services

import (
	"context"
	"testing"

	"starwars-api/internal/testdb"
	"starwars-api/models"
	"starwars-api/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db         *sqlx.DB
	users      *UserService
	characters *CharacterService
	planets    *PlanetService
	favorites  *FavoriteService
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	db := testdb.New(t)

	userRepo := repository.NewUserRepository()
	characterRepo := repository.NewCharacterRepository()
	planetRepo := repository.NewPlanetRepository()
	favoriteRepo := repository.NewFavoriteRepository()

	return &fixture{
		db:         db,
		users:      NewUserService(db, userRepo, favoriteRepo, PasswordPolicy{BcryptCost: bcrypt.MinCost, Strict: strict}),
		characters: NewCharacterService(db, characterRepo),
		planets:    NewPlanetService(db, planetRepo),
		favorites:  NewFavoriteService(db, favoriteRepo, userRepo, characterRepo, planetRepo),
	}
}

func (f *fixture) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), models.CreateUserRequest{Name: name, Email: email, Password: "Force!"})
	require.NoError(t, err)
	return user
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	f := newFixture(t, false)

	user := f.createUser(t, "Luke", "luke@rebellion.org")
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Force!", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Force!")))
}

func TestUserService_DuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t, false)
	f.createUser(t, "Luke", "luke@rebellion.org")

	_, err := f.users.Create(context.Background(), models.CreateUserRequest{
		Name: "Imposter", Email: "luke@rebellion.org", Password: "x",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestUserService_CreateValidation(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.users.Create(context.Background(), models.CreateUserRequest{
		Name: " ", Email: "bad", Password: "lowercase",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestUserService_ListSkipsInactiveAndEmbedsFavorites(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.users.List(ctx)
	assert.ErrorIs(t, err, ErrNoUsers)

	luke := f.createUser(t, "Luke", "luke@rebellion.org")
	leia := f.createUser(t, "Leia", "leia@rebellion.org")
	inactive := false
	_, err = f.users.Update(ctx, leia.ID, models.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)

	tatooine, err := f.planets.Create(ctx, models.PlanetRequest{Name: "Tatooine"})
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, luke.ID, models.FavoritePlanet, tatooine.ID)
	require.NoError(t, err)

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, luke.ID, users[0].ID)
	require.Len(t, users[0].Favorites, 1)
	assert.Equal(t, "Tatooine", users[0].Favorites[0].Name)
}

func TestUserService_UpdateEmailConflict(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.createUser(t, "Luke", "luke@rebellion.org")
	leia := f.createUser(t, "Leia", "leia@rebellion.org")

	taken := "luke@rebellion.org"
	_, err := f.users.Update(ctx, leia.ID, models.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	same := "leia@rebellion.org"
	name := "Leia Organa"
	updated, err := f.users.Update(ctx, leia.ID, models.UpdateUserRequest{Email: &same, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Leia Organa", updated.Name)

	_, err = f.users.Update(ctx, 999, models.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DeleteLeavesFavorites(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	luke := f.createUser(t, "Luke", "luke@rebellion.org")
	hoth, err := f.planets.Create(ctx, models.PlanetRequest{Name: "Hoth"})
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, luke.ID, models.FavoritePlanet, hoth.ID)
	require.NoError(t, err)

	deleted, err := f.users.Delete(ctx, luke.ID)
	require.NoError(t, err)
	assert.Len(t, deleted.Favorites, 1)

	_, err = f.users.Get(ctx, luke.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	all, err := f.favorites.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.users.Delete(ctx, luke.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Authenticate(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	luke := f.createUser(t, "Luke", "luke@rebellion.org")

	user, err := f.users.Authenticate(ctx, "luke@rebellion.org", "Force!")
	require.NoError(t, err)
	assert.Equal(t, luke.ID, user.ID)

	_, err = f.users.Authenticate(ctx, "luke@rebellion.org", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "nobody@rebellion.org", "Force!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	inactive := false
	_, err = f.users.Update(ctx, luke.ID, models.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	_, err = f.users.Authenticate(ctx, "luke@rebellion.org", "Force!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCharacterService_RequiresSpecie(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.characters.Create(context.Background(), models.CharacterRequest{Name: "Chewbacca"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "specie", verr.Fields[0].Field)
}

func TestCharacterService_CRUD(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.characters.List(ctx)
	assert.ErrorIs(t, err, ErrNoCharacters)

	yoda, err := f.characters.Create(ctx, models.CharacterRequest{Name: " Yoda ", Specie: "Unknown"})
	require.NoError(t, err)
	assert.Equal(t, "Yoda", yoda.Name)

	updated, err := f.characters.Update(ctx, yoda.ID, models.CharacterRequest{Name: "Master Yoda", Specie: "Yoda's species"})
	require.NoError(t, err)
	assert.Equal(t, "Master Yoda", updated.Name)

	_, err = f.characters.Update(ctx, yoda.ID, models.CharacterRequest{Name: "Master Yoda"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.characters.Update(ctx, 999, models.CharacterRequest{Name: "x", Specie: "y"})
	assert.ErrorIs(t, err, ErrCharacterNotFound)

	list, err := f.characters.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Yoda's species", *list[0].Specie)

	deleted, err := f.characters.Delete(ctx, yoda.ID)
	require.NoError(t, err)
	assert.Equal(t, "Master Yoda", deleted.Name)

	_, err = f.characters.Get(ctx, yoda.ID)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestPlanetService_RoundTrip(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	created, err := f.planets.Create(ctx, models.PlanetRequest{Name: "Tatooine"})
	require.NoError(t, err)

	got, err := f.planets.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.Planet{ID: created.ID, Name: "Tatooine"}, got)

	_, err = f.planets.Update(ctx, created.ID, models.PlanetRequest{Name: ""})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.planets.Get(ctx, created.ID+1)
	assert.ErrorIs(t, err, ErrPlanetNotFound)
}

func TestFavoriteService_AddTwiceConflicts(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	luke := f.createUser(t, "Luke", "luke@rebellion.org")
	vader, err := f.characters.Create(ctx, models.CharacterRequest{Name: "Darth Vader", Specie: "Human"})
	require.NoError(t, err)

	fav, err := f.favorites.Add(ctx, luke.ID, models.FavoriteCharacter, vader.ID)
	require.NoError(t, err)
	assert.Equal(t, "Darth Vader", fav.Name)
	assert.Equal(t, models.FavoriteCharacter, fav.Tipo)
	require.NotNil(t, fav.CharacterID)
	assert.Nil(t, fav.PlanetID)
	assert.Equal(t, vader, fav.Item)

	_, err = f.favorites.Add(ctx, luke.ID, models.FavoriteCharacter, vader.ID)
	assert.ErrorIs(t, err, ErrFavoriteAlreadyExists)
}

func TestFavoriteService_AddMissingTargets(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	luke := f.createUser(t, "Luke", "luke@rebellion.org")

	_, err := f.favorites.Add(ctx, luke.ID, models.FavoriteCharacter, 42)
	assert.ErrorIs(t, err, ErrCharacterNotFound)

	_, err = f.favorites.Add(ctx, luke.ID, models.FavoritePlanet, 42)
	assert.ErrorIs(t, err, ErrPlanetNotFound)

	_, err = f.favorites.Add(ctx, 999, models.FavoritePlanet, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.favorites.Add(ctx, luke.ID, "starship", 1)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFavoriteService_DeletingPlanetLeavesOrphan(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	luke := f.createUser(t, "Luke", "luke@rebellion.org")
	alderaan, err := f.planets.Create(ctx, models.PlanetRequest{Name: "Alderaan"})
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, luke.ID, models.FavoritePlanet, alderaan.ID)
	require.NoError(t, err)

	_, err = f.planets.Delete(ctx, alderaan.ID)
	require.NoError(t, err)

	favs, err := f.favorites.List(ctx, &luke.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, alderaan.ID, *favs[0].PlanetID)
	assert.Equal(t, "Alderaan", favs[0].Name)
	assert.Nil(t, favs[0].Item)
}

func TestFavoriteService_RemoveAndList(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	luke := f.createUser(t, "Luke", "luke@rebellion.org")
	leia := f.createUser(t, "Leia", "leia@rebellion.org")
	hoth, err := f.planets.Create(ctx, models.PlanetRequest{Name: "Hoth"})
	require.NoError(t, err)

	_, err = f.favorites.List(ctx, nil)
	assert.ErrorIs(t, err, ErrNoFavorites)

	_, err = f.favorites.Add(ctx, luke.ID, models.FavoritePlanet, hoth.ID)
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, leia.ID, models.FavoritePlanet, hoth.ID)
	require.NoError(t, err)

	all, err := f.favorites.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	removed, err := f.favorites.Remove(ctx, luke.ID, models.FavoritePlanet, hoth.ID)
	require.NoError(t, err)
	assert.Equal(t, luke.ID, removed.UserID)

	_, err = f.favorites.Remove(ctx, luke.ID, models.FavoritePlanet, hoth.ID)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)

	_, err = f.favorites.List(ctx, &luke.ID)
	assert.ErrorIs(t, err, ErrNoFavorites)

	missing := 999
	_, err = f.favorites.List(ctx, &missing)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFavoriteService_InactiveUserRefused(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	han := f.createUser(t, "Han", "han@falcon.io")
	bespin, err := f.planets.Create(ctx, models.PlanetRequest{Name: "Bespin"})
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, han.ID, models.FavoritePlanet, bespin.ID)
	require.NoError(t, err)

	inactive := false
	_, err = f.users.Update(ctx, han.ID, models.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.favorites.Remove(ctx, han.ID, models.FavoritePlanet, bespin.ID)
	assert.ErrorIs(t, err, ErrUserInactive)

	_, err = f.favorites.Add(ctx, han.ID, models.FavoriteCharacter, 1)
	assert.ErrorIs(t, err, ErrUserInactive)

	_, err = f.users.GetActive(ctx, han.ID)
	assert.ErrorIs(t, err, ErrUserInactive)

	got, err := f.users.Get(ctx, han.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestPersistenceWrapsOnlyStorageErrors(t *testing.T) {
	assert.ErrorIs(t, persistence("op", ErrUserNotFound), ErrUserNotFound)
	assert.NotErrorIs(t, persistence("op", ErrUserNotFound), ErrPersistence)

	err := persistence("op", assert.AnError)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "op")
	assert.Nil(t, persistence("op", nil))
}
